package list

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedFetch serves sequentially numbered items in pages of `limit`.
func pagedFetch(total int) FetchFunc[int] {
	return func(ctx context.Context, skip, limit int) (Page[int], error) {
		var items []int
		for i := skip; i < total && i < skip+limit; i++ {
			items = append(items, i)
		}
		var next *int
		if skip+limit < total {
			n := skip + limit
			next = &n
		}
		return Page[int]{Items: items, NextSkip: next}, nil
	}
}

func TestRefreshThenLoadMoreMergesWithoutDuplicates(t *testing.T) {
	pager := NewPager(pagedFetch(30), 12, nil)

	require.NoError(t, pager.Refresh(context.Background()))
	assert.Len(t, pager.Items(), 12)
	assert.True(t, pager.HasMore())

	require.NoError(t, pager.LoadMore(context.Background()))
	require.NoError(t, pager.LoadMore(context.Background()))

	items := pager.Items()
	require.Len(t, items, 30)
	for i, v := range items {
		assert.Equal(t, i, v, "server order preserved, no duplicates")
	}
	assert.False(t, pager.HasMore())

	// LoadMore past the end is a no-op.
	require.NoError(t, pager.LoadMore(context.Background()))
	assert.Len(t, pager.Items(), 30)
}

func TestSetQueryResetsPagination(t *testing.T) {
	var lastSkip atomic.Int64
	observe := func(inner FetchFunc[int]) FetchFunc[int] {
		return func(ctx context.Context, skip, limit int) (Page[int], error) {
			lastSkip.Store(int64(skip))
			return inner(ctx, skip, limit)
		}
	}

	pager := NewPager(observe(pagedFetch(30)), 12, nil)
	require.NoError(t, pager.Refresh(context.Background()))
	require.NoError(t, pager.LoadMore(context.Background()))
	require.Len(t, pager.Items(), 24)

	// A filter change restarts from the initial cursor and discards
	// previously loaded pages.
	require.NoError(t, pager.SetQuery(context.Background(), observe(pagedFetch(5))))
	assert.EqualValues(t, 0, lastSkip.Load())
	assert.Len(t, pager.Items(), 5)
	assert.False(t, pager.HasMore())
}

func TestRefreshKeepsLastGoodStateOnError(t *testing.T) {
	healthy := pagedFetch(12)
	pager := NewPager(healthy, 12, nil)
	require.NoError(t, pager.Refresh(context.Background()))
	require.Len(t, pager.Items(), 12)

	err := pager.SetQuery(context.Background(), func(ctx context.Context, skip, limit int) (Page[int], error) {
		return Page[int]{}, errors.New("backend down")
	})
	require.Error(t, err)
	assert.Len(t, pager.Items(), 12, "failed fetch leaves the last good state visible")
}

func TestStaleResponseIsDropped(t *testing.T) {
	release := make(chan struct{})
	slow := func(ctx context.Context, skip, limit int) (Page[int], error) {
		select {
		case <-release:
		case <-ctx.Done():
			return Page[int]{}, ctx.Err()
		}
		return Page[int]{Items: []int{-1}}, nil
	}

	pager := NewPager(slow, 12, nil)

	done := make(chan error, 1)
	go func() { done <- pager.Refresh(context.Background()) }()

	// Give the slow request time to start, then supersede it.
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, pager.SetQuery(context.Background(), pagedFetch(3)))
	close(release)

	err := <-done
	assert.ErrorIs(t, err, ErrStale)

	items := pager.Items()
	require.Len(t, items, 3)
	assert.NotContains(t, items, -1, "superseded response never overwrites newer state")
}

func TestLateLoadMoreAfterResetIsDropped(t *testing.T) {
	release := make(chan struct{})
	gate := func(inner FetchFunc[int]) FetchFunc[int] {
		return func(ctx context.Context, skip, limit int) (Page[int], error) {
			if skip > 0 {
				<-release
			}
			return inner(ctx, skip, limit)
		}
	}

	pager := NewPager(gate(pagedFetch(30)), 12, nil)
	require.NoError(t, pager.Refresh(context.Background()))

	done := make(chan error, 1)
	go func() { done <- pager.LoadMore(context.Background()) }()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, pager.SetQuery(context.Background(), gate(pagedFetch(6))))
	close(release)

	assert.ErrorIs(t, <-done, ErrStale)
	assert.Len(t, pager.Items(), 6)
}
