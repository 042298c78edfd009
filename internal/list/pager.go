// Package list implements the client-side pagination model shared by
// the catalog and dashboard listings: first page replaces, further
// pages append, and changing the query discards everything loaded.
package list

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrStale marks a response that was superseded by a newer query or
// refresh before it resolved. The pager drops such responses instead of
// letting the slowest request win.
var ErrStale = errors.New("superseded by a newer request")

// Page is one fetched slice of a listing. NextSkip is nil on the last
// page.
type Page[T any] struct {
	Items    []T
	NextSkip *int
}

// FetchFunc fetches one page at the given cursor. Filter and sort
// parameters are captured in the closure, so a query change is a new
// FetchFunc.
type FetchFunc[T any] func(ctx context.Context, skip, limit int) (Page[T], error)

// Pager accumulates pages of a listing. Safe for concurrent use; an
// overlapping refresh cancels and invalidates whatever was in flight.
type Pager[T any] struct {
	limit int
	log   *slog.Logger

	mu       sync.Mutex
	fetch    FetchFunc[T]
	items    []T
	nextSkip *int
	gen      uint64
	cancel   context.CancelFunc
	loading  bool
}

// NewPager constructs a pager with the given page size.
func NewPager[T any](fetch FetchFunc[T], limit int, log *slog.Logger) *Pager[T] {
	if limit <= 0 {
		limit = 12
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pager[T]{
		fetch: fetch,
		limit: limit,
		log:   log.With("component", "list"),
	}
}

// Items returns a copy of everything loaded so far, in server order.
func (p *Pager[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// HasMore reports whether the server advertised another page.
func (p *Pager[T]) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nextSkip != nil
}

// Loading reports whether a request is in flight.
func (p *Pager[T]) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Refresh fetches the first page, replacing loaded state on success.
// On failure loaded state is kept as-is (last good state).
func (p *Pager[T]) Refresh(ctx context.Context) error {
	ctx, gen := p.begin(ctx)

	page, err := p.currentFetch()(ctx, 0, p.limit)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return ErrStale
	}
	p.loading = false
	if err != nil {
		p.log.Warn("refresh failed, keeping loaded state", "error", err)
		return err
	}
	p.items = append([]T(nil), page.Items...)
	p.nextSkip = page.NextSkip
	return nil
}

// SetQuery swaps the fetch closure (a changed filter or sort), discards
// loaded pages and restarts from the initial cursor.
func (p *Pager[T]) SetQuery(ctx context.Context, fetch FetchFunc[T]) error {
	p.mu.Lock()
	p.fetch = fetch
	p.mu.Unlock()
	return p.Refresh(ctx)
}

// LoadMore fetches the next page and appends it. A refresh or query
// change racing with the load wins: the late page is dropped.
func (p *Pager[T]) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	if p.nextSkip == nil {
		p.mu.Unlock()
		return nil
	}
	skip := *p.nextSkip
	gen := p.gen
	fetch := p.fetch
	p.loading = true
	p.mu.Unlock()

	page, err := fetch(ctx, skip, p.limit)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen || p.nextSkip == nil || *p.nextSkip != skip {
		return ErrStale
	}
	p.loading = false
	if err != nil {
		p.log.Warn("load more failed, keeping loaded state", "error", err)
		return err
	}
	p.items = append(p.items, page.Items...)
	p.nextSkip = page.NextSkip
	return nil
}

// Close cancels any in-flight request and invalidates late responses.
func (p *Pager[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// begin opens a new request generation, cancelling its predecessor.
func (p *Pager[T]) begin(ctx context.Context) (context.Context, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.loading = true
	return ctx, p.gen
}

func (p *Pager[T]) currentFetch() FetchFunc[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetch
}
