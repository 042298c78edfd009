// Package session owns the authenticated-identity state for one
// process. It delegates credential work to the identity provider and
// republishes provider-driven state changes as immutable snapshots.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bookblitz/storefront/internal/identity"
)

// Snapshot is one observation of the session state. Loading is true
// only before the first emission; afterwards every snapshot is settled.
type Snapshot struct {
	Identity *identity.Identity
	Loading  bool
}

// SignedIn reports whether the snapshot carries an identity.
func (s Snapshot) SignedIn() bool {
	return s.Identity != nil
}

// Provider is the slice of the identity-provider client the store uses.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (identity.Identity, identity.Credential, error)
	SignInWithPassword(ctx context.Context, email, password string) (identity.Identity, identity.Credential, error)
	SignInWithIDP(ctx context.Context, providerID, providerToken string) (identity.Identity, identity.Credential, error)
	UpdateProfile(ctx context.Context, cred identity.Credential, displayName, photoURL string) error
	SendPasswordReset(ctx context.Context, email string) error
	RefreshCredential(ctx context.Context, refreshToken string) (identity.Identity, identity.Credential, error)
}

// TokenCache persists the refresh token between processes. All methods
// tolerate an empty cache.
type TokenCache interface {
	SessionToken() (string, error)
	SaveSessionToken(token string) error
	ClearSessionToken() error
}

// Store holds the current session and broadcasts changes.
type Store struct {
	provider Provider
	cache    TokenCache
	log      *slog.Logger

	mu       sync.Mutex
	snapshot Snapshot
	cred     identity.Credential
	subs     map[int]chan Snapshot
	nextSub  int
}

// NewStore constructs a Store in the loading state. Call Bootstrap to
// resolve the initial identity.
func NewStore(provider Provider, cache TokenCache, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		provider: provider,
		cache:    cache,
		log:      log.With("component", "session"),
		snapshot: Snapshot{Loading: true},
		subs:     make(map[int]chan Snapshot),
	}
}

// Current returns the latest snapshot.
func (s *Store) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Subscribe returns a channel of snapshots and a cancel func. The
// current snapshot is delivered first; slow consumers miss intermediate
// states, never the latest one sent after they drain.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 8)
	ch <- s.snapshot
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// emit publishes a settled snapshot. Loading is false for every
// emission, including the first.
func (s *Store) emit(who *identity.Identity, cred identity.Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = Snapshot{Identity: who}
	s.cred = cred
	for _, ch := range s.subs {
		select {
		case ch <- s.snapshot:
		default:
		}
	}
}

// Bootstrap resolves the initial sign-in state from the cached refresh
// token. It always settles the store, even when restoration fails.
func (s *Store) Bootstrap(ctx context.Context) {
	token := ""
	if s.cache != nil {
		cached, err := s.cache.SessionToken()
		if err != nil {
			s.log.Warn("failed to read cached session", "error", err)
		} else {
			token = cached
		}
	}

	if token == "" {
		s.emit(nil, identity.Credential{})
		return
	}

	who, cred, err := s.provider.RefreshCredential(ctx, token)
	if err != nil {
		s.log.Warn("cached session no longer valid", "error", err)
		if s.cache != nil {
			_ = s.cache.ClearSessionToken()
		}
		s.emit(nil, identity.Credential{})
		return
	}
	s.persist(cred)
	s.emit(&who, cred)
}

// CreateAccount registers a new provider account and signs it in.
func (s *Store) CreateAccount(ctx context.Context, email, password string) (identity.Identity, error) {
	who, cred, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return identity.Identity{}, err
	}
	s.persist(cred)
	s.emit(&who, cred)
	return who, nil
}

// SignIn authenticates with email/password credentials.
func (s *Store) SignIn(ctx context.Context, email, password string) (identity.Identity, error) {
	who, cred, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return identity.Identity{}, err
	}
	s.persist(cred)
	s.emit(&who, cred)
	return who, nil
}

// SignInWithProvider completes a federated sign-in.
func (s *Store) SignInWithProvider(ctx context.Context, providerID, providerToken string) (identity.Identity, error) {
	who, cred, err := s.provider.SignInWithIDP(ctx, providerID, providerToken)
	if err != nil {
		return identity.Identity{}, err
	}
	s.persist(cred)
	s.emit(&who, cred)
	return who, nil
}

// SignOut drops the credential and clears the cached session.
func (s *Store) SignOut(ctx context.Context) error {
	if s.cache != nil {
		if err := s.cache.ClearSessionToken(); err != nil {
			s.log.Warn("failed to clear cached session", "error", err)
		}
	}
	s.emit(nil, identity.Credential{})
	return nil
}

// UpdateProfile patches the provider-side profile and merges the patch
// into the local snapshot speculatively, since the provider only
// reflects it on its next emission.
func (s *Store) UpdateProfile(ctx context.Context, displayName, photoURL string) error {
	s.mu.Lock()
	cred := s.cred
	current := s.snapshot.Identity
	s.mu.Unlock()

	if current == nil {
		return &identity.AuthError{Code: identity.CodeInvalidCredential, Message: "not signed in"}
	}
	if err := s.provider.UpdateProfile(ctx, cred, displayName, photoURL); err != nil {
		return err
	}

	merged := *current
	if displayName != "" {
		merged.DisplayName = displayName
	}
	if photoURL != "" {
		merged.PhotoURL = photoURL
	}
	s.emit(&merged, cred)
	return nil
}

// ResetPassword asks the provider to send a reset email.
func (s *Store) ResetPassword(ctx context.Context, email string) error {
	return s.provider.SendPasswordReset(ctx, email)
}

// Token returns a live bearer credential, refreshing an expired one.
// It satisfies the api.TokenSource contract.
func (s *Store) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	cred := s.cred
	s.mu.Unlock()

	if cred.IDToken == "" {
		return "", &identity.AuthError{Code: identity.CodeInvalidCredential, Message: "not signed in"}
	}
	if time.Until(cred.ExpiresAt) > time.Minute {
		return cred.IDToken, nil
	}

	who, fresh, err := s.provider.RefreshCredential(ctx, cred.RefreshToken)
	if err != nil {
		return "", err
	}
	s.persist(fresh)
	s.emit(&who, fresh)
	return fresh.IDToken, nil
}

func (s *Store) persist(cred identity.Credential) {
	if s.cache == nil || cred.RefreshToken == "" {
		return
	}
	if err := s.cache.SaveSessionToken(cred.RefreshToken); err != nil {
		s.log.Warn("failed to persist session", "error", err)
	}
}
