package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bookblitz/storefront/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	identity identity.Identity
	cred     identity.Credential
	err      error

	refreshCalls int
	profileCalls int
	lastName     string
	lastPhoto    string
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password string) (identity.Identity, identity.Credential, error) {
	return f.identity, f.cred, f.err
}

func (f *fakeProvider) SignInWithPassword(ctx context.Context, email, password string) (identity.Identity, identity.Credential, error) {
	return f.identity, f.cred, f.err
}

func (f *fakeProvider) SignInWithIDP(ctx context.Context, providerID, providerToken string) (identity.Identity, identity.Credential, error) {
	return f.identity, f.cred, f.err
}

func (f *fakeProvider) UpdateProfile(ctx context.Context, cred identity.Credential, displayName, photoURL string) error {
	f.profileCalls++
	f.lastName = displayName
	f.lastPhoto = photoURL
	return f.err
}

func (f *fakeProvider) SendPasswordReset(ctx context.Context, email string) error {
	return f.err
}

func (f *fakeProvider) RefreshCredential(ctx context.Context, refreshToken string) (identity.Identity, identity.Credential, error) {
	f.refreshCalls++
	return f.identity, f.cred, f.err
}

type memCache struct {
	token string
}

func (m *memCache) SessionToken() (string, error)      { return m.token, nil }
func (m *memCache) SaveSessionToken(tok string) error  { m.token = tok; return nil }
func (m *memCache) ClearSessionToken() error           { m.token = ""; return nil }

func liveCred() identity.Credential {
	return identity.Credential{
		IDToken:      "id-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

func TestStoreStartsLoadingAndSettlesOnBootstrap(t *testing.T) {
	provider := &fakeProvider{}
	store := NewStore(provider, &memCache{}, nil)

	assert.True(t, store.Current().Loading)

	store.Bootstrap(context.Background())

	snap := store.Current()
	assert.False(t, snap.Loading, "bootstrap settles the store exactly once")
	assert.False(t, snap.SignedIn())
	assert.Zero(t, provider.refreshCalls, "no cached token, no provider call")
}

func TestBootstrapRestoresCachedSession(t *testing.T) {
	provider := &fakeProvider{
		identity: identity.Identity{UID: "u1", Email: "a@b.com"},
		cred:     liveCred(),
	}
	store := NewStore(provider, &memCache{token: "cached-refresh"}, nil)

	store.Bootstrap(context.Background())

	snap := store.Current()
	require.True(t, snap.SignedIn())
	assert.Equal(t, "a@b.com", snap.Identity.Email)
	assert.Equal(t, 1, provider.refreshCalls)
}

func TestBootstrapClearsInvalidCachedSession(t *testing.T) {
	cache := &memCache{token: "stale"}
	provider := &fakeProvider{err: errors.New("token revoked")}
	store := NewStore(provider, cache, nil)

	store.Bootstrap(context.Background())

	assert.False(t, store.Current().SignedIn())
	assert.Empty(t, cache.token, "stale token evicted")
}

func TestSubscribeSeesSignInAndSignOut(t *testing.T) {
	provider := &fakeProvider{
		identity: identity.Identity{UID: "u1", Email: "a@b.com"},
		cred:     liveCred(),
	}
	store := NewStore(provider, &memCache{}, nil)
	events, cancel := store.Subscribe()
	defer cancel()

	first := <-events
	assert.True(t, first.Loading, "subscription starts with the current (loading) snapshot")

	_, err := store.SignIn(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	signedIn := <-events
	require.True(t, signedIn.SignedIn())

	require.NoError(t, store.SignOut(context.Background()))
	signedOut := <-events
	assert.False(t, signedOut.SignedIn())
}

func TestUpdateProfileMergesSpeculatively(t *testing.T) {
	provider := &fakeProvider{
		identity: identity.Identity{UID: "u1", Email: "a@b.com", DisplayName: "Old"},
		cred:     liveCred(),
	}
	store := NewStore(provider, &memCache{}, nil)
	_, err := store.SignIn(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	require.NoError(t, store.UpdateProfile(context.Background(), "New Name", "http://img/x.png"))

	snap := store.Current()
	assert.Equal(t, "New Name", snap.Identity.DisplayName)
	assert.Equal(t, "http://img/x.png", snap.Identity.PhotoURL)
	assert.Equal(t, 1, provider.profileCalls)
	assert.Equal(t, "a@b.com", snap.Identity.Email, "untouched fields survive the merge")
}

func TestUpdateProfileRequiresSession(t *testing.T) {
	store := NewStore(&fakeProvider{}, &memCache{}, nil)
	store.Bootstrap(context.Background())

	err := store.UpdateProfile(context.Background(), "Name", "")
	var authErr *identity.AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestTokenRefreshesExpiredCredential(t *testing.T) {
	provider := &fakeProvider{
		identity: identity.Identity{UID: "u1", Email: "a@b.com"},
		cred: identity.Credential{
			IDToken:      "expired",
			RefreshToken: "refresh-token",
			ExpiresAt:    time.Now().Add(-time.Minute),
		},
	}
	store := NewStore(provider, &memCache{}, nil)
	_, err := store.SignIn(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	provider.cred = liveCred()
	token, err := store.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "id-token", token)
	assert.Equal(t, 1, provider.refreshCalls)

	// A live credential is reused without another provider round trip.
	token, err = store.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "id-token", token)
	assert.Equal(t, 1, provider.refreshCalls)
}

func TestTokenWithoutSessionFails(t *testing.T) {
	store := NewStore(&fakeProvider{}, &memCache{}, nil)
	_, err := store.Token(context.Background())
	require.Error(t, err)
}
