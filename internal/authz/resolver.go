// Package authz resolves the authorization role for an identity. Roles
// live in the backend, keyed by account email, and are cached here for
// the resolver's lifetime.
package authz

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bookblitz/storefront/types"
)

// RoleState is the three-valued resolution state. A pending fetch is
// Resolving, never a defaulted role, so guards cannot render an under-
// or over-privileged view from a transient default.
type RoleState int

const (
	StateUnknown RoleState = iota
	StateResolving
	StateResolved
)

// RoleInfo is a non-blocking observation of one email's resolution.
type RoleInfo struct {
	State RoleState
	Role  string
}

// RoleClient is the slice of the backend client the resolver needs.
type RoleClient interface {
	UserRole(ctx context.Context, email string) (string, error)
}

// Resolver memoizes role lookups by email. Lookups are single-flight:
// concurrent callers for one email share a single backend request.
type Resolver struct {
	client RoleClient
	log    *slog.Logger

	mu       sync.Mutex
	resolved map[string]string
	inflight map[string]*call
}

type call struct {
	done chan struct{}
	role string
	err  error
}

// NewResolver constructs an empty resolver.
func NewResolver(client RoleClient, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		client:   client,
		log:      log.With("component", "authz"),
		resolved: make(map[string]string),
		inflight: make(map[string]*call),
	}
}

// Resolve returns the role for email, fetching it on first use. An
// empty email means an anonymous visitor and resolves to the default
// role without a backend call.
func (r *Resolver) Resolve(ctx context.Context, email string) (string, error) {
	if email == "" {
		return types.RoleUser, nil
	}

	r.mu.Lock()
	if role, ok := r.resolved[email]; ok {
		r.mu.Unlock()
		return role, nil
	}
	if pending, ok := r.inflight[email]; ok {
		r.mu.Unlock()
		select {
		case <-pending.done:
			return pending.role, pending.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	pending := &call{done: make(chan struct{})}
	r.inflight[email] = pending
	r.mu.Unlock()

	role, err := r.client.UserRole(ctx, email)
	if err == nil && !types.ValidRole(role) {
		r.log.Warn("backend returned unknown role", "role", role, "email", email)
		role = types.RoleUser
	}

	r.mu.Lock()
	delete(r.inflight, email)
	if err == nil {
		r.resolved[email] = role
	}
	r.mu.Unlock()

	pending.role = role
	pending.err = err
	close(pending.done)
	return role, err
}

// Peek reports the resolution state without triggering a fetch.
func (r *Resolver) Peek(email string) RoleInfo {
	if email == "" {
		return RoleInfo{State: StateResolved, Role: types.RoleUser}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if role, ok := r.resolved[email]; ok {
		return RoleInfo{State: StateResolved, Role: role}
	}
	if _, ok := r.inflight[email]; ok {
		return RoleInfo{State: StateResolving}
	}
	return RoleInfo{State: StateUnknown}
}

// Invalidate drops the cached role for email. Called after an admin
// changes the account's role, so the next Resolve re-fetches.
func (r *Resolver) Invalidate(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.resolved, email)
}
