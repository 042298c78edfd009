package authz

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/bookblitz/storefront/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRoleClient struct {
	role    string
	err     error
	calls   atomic.Int64
	gate    chan struct{}
	started sync.Once
	reached chan struct{}
}

func (c *countingRoleClient) UserRole(ctx context.Context, email string) (string, error) {
	c.calls.Add(1)
	if c.reached != nil {
		c.started.Do(func() { close(c.reached) })
	}
	if c.gate != nil {
		<-c.gate
	}
	return c.role, c.err
}

func TestResolveMemoizesByEmail(t *testing.T) {
	client := &countingRoleClient{role: types.RoleLibrarian}
	resolver := NewResolver(client, nil)

	for range 3 {
		role, err := resolver.Resolve(context.Background(), "lib@b.com")
		require.NoError(t, err)
		assert.Equal(t, types.RoleLibrarian, role)
	}
	assert.EqualValues(t, 1, client.calls.Load(), "one request per email per session")

	info := resolver.Peek("lib@b.com")
	assert.Equal(t, StateResolved, info.State)
	assert.Equal(t, types.RoleLibrarian, info.Role)
}

func TestResolveAnonymousDefaultsWithoutFetch(t *testing.T) {
	client := &countingRoleClient{role: types.RoleAdmin}
	resolver := NewResolver(client, nil)

	role, err := resolver.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, types.RoleUser, role)
	assert.Zero(t, client.calls.Load())
}

func TestResolveSingleFlight(t *testing.T) {
	client := &countingRoleClient{
		role:    types.RoleAdmin,
		gate:    make(chan struct{}),
		reached: make(chan struct{}),
	}
	resolver := NewResolver(client, nil)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			role, err := resolver.Resolve(context.Background(), "admin@b.com")
			assert.NoError(t, err)
			assert.Equal(t, types.RoleAdmin, role)
		}()
	}

	// Let one request reach the backend, then release it.
	<-client.reached
	close(client.gate)
	wg.Wait()

	assert.EqualValues(t, 1, client.calls.Load(), "concurrent callers share one fetch")
}

func TestResolveErrorIsNotCached(t *testing.T) {
	client := &countingRoleClient{err: errors.New("backend down")}
	resolver := NewResolver(client, nil)

	_, err := resolver.Resolve(context.Background(), "a@b.com")
	require.Error(t, err)
	assert.Equal(t, StateUnknown, resolver.Peek("a@b.com").State)

	client.err = nil
	client.role = types.RoleUser
	role, err := resolver.Resolve(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, types.RoleUser, role)
	assert.EqualValues(t, 2, client.calls.Load())
}

func TestUnknownRoleFallsBackToUser(t *testing.T) {
	client := &countingRoleClient{role: "superuser"}
	resolver := NewResolver(client, nil)

	role, err := resolver.Resolve(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, types.RoleUser, role)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	client := &countingRoleClient{role: types.RoleUser}
	resolver := NewResolver(client, nil)

	_, err := resolver.Resolve(context.Background(), "a@b.com")
	require.NoError(t, err)

	client.role = types.RoleLibrarian
	resolver.Invalidate("a@b.com")

	role, err := resolver.Resolve(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, types.RoleLibrarian, role)
	assert.EqualValues(t, 2, client.calls.Load())
}
