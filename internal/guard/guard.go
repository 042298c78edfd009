// Package guard decides whether a protected view may be shown for the
// current session and role state. Guards are pure: they read state and
// return a decision, they never fetch.
package guard

import (
	"github.com/bookblitz/storefront/internal/authz"
	"github.com/bookblitz/storefront/internal/session"
)

// Decision is the outcome of evaluating a guard.
type Decision int

const (
	// Pending means some loading flag is still set. Callers must show
	// a placeholder, never the protected content.
	Pending Decision = iota

	// Forbidden is terminal: no redirect, no retry.
	Forbidden

	// Allowed admits the protected content.
	Allowed
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Forbidden:
		return "forbidden"
	case Allowed:
		return "allowed"
	}
	return "unknown"
}

// Guard evaluates one condition against the current state.
type Guard func(snap session.Snapshot, role authz.RoleInfo) Decision

// RequireAuth admits any signed-in identity.
func RequireAuth() Guard {
	return func(snap session.Snapshot, _ authz.RoleInfo) Decision {
		if snap.Loading {
			return Pending
		}
		if !snap.SignedIn() {
			return Forbidden
		}
		return Allowed
	}
}

// RequireRole admits identities whose resolved role is in the allowed
// set. While the role is unresolved the decision is Pending regardless
// of what it will resolve to.
func RequireRole(allowed ...string) Guard {
	return func(snap session.Snapshot, role authz.RoleInfo) Decision {
		if snap.Loading || role.State != authz.StateResolved {
			return Pending
		}
		for _, want := range allowed {
			if role.Role == want {
				return Allowed
			}
		}
		return Forbidden
	}
}

// Chain composes guards: outermost first, first non-Allowed decision
// wins. Nesting auth outside role reproduces the dashboard layering.
func Chain(guards ...Guard) Guard {
	return func(snap session.Snapshot, role authz.RoleInfo) Decision {
		for _, g := range guards {
			if d := g(snap, role); d != Allowed {
				return d
			}
		}
		return Allowed
	}
}
