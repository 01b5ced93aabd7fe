// Package query holds the data hooks behind list views: one Query per view
// owns the current parameters and the last result fetched for them.
//
// Each fetch carries a generation number and its own cancellable context.
// Starting a fetch cancels the one in flight, and a result whose generation
// is no longer current is dropped, so a slow stale response never replaces
// newer state.
package query

import (
	"context"
	"errors"
	"sync"

	"medequip-admin/internal/core"
)

// ErrSuperseded is returned to a caller whose fetch was overtaken by a newer one.
var ErrSuperseded = errors.New("query: superseded by a newer fetch")

// Fetcher loads T for parameters P.
type Fetcher[P comparable, T any] func(ctx context.Context, params P) (T, core.Pagination, error)

// State is a snapshot of a Query.
type State[P comparable, T any] struct {
	Params     P
	Data       T
	Pagination core.Pagination
	Loading    bool
	Err        error
	// Loaded is false until the first fetch completes.
	Loaded bool
}

// Option configures a Query.
type Option[P comparable, T any] func(*Query[P, T])

// WithEmpty sets the value Data is reset to when a fetch fails.
func WithEmpty[P comparable, T any](empty func() T) Option[P, T] {
	return func(q *Query[P, T]) { q.empty = empty }
}

// WithResetPagination makes a failed fetch reset pagination to page 1 with
// the default limit, so pagers never render a stale page count.
func WithResetPagination[P comparable, T any]() Option[P, T] {
	return func(q *Query[P, T]) { q.resetPagination = true }
}

// Query is safe for concurrent use.
type Query[P comparable, T any] struct {
	fetch           Fetcher[P, T]
	empty           func() T
	resetPagination bool

	mu      sync.Mutex
	state   State[P, T]
	started bool
	gen     uint64
	cancel  context.CancelFunc
}

// New creates a Query that has not fetched yet.
func New[P comparable, T any](fetch Fetcher[P, T], opts ...Option[P, T]) *Query[P, T] {
	q := &Query[P, T]{
		fetch: fetch,
		empty: func() T { var zero T; return zero },
	}
	for _, o := range opts {
		o(q)
	}
	return q
}

// SetParams fetches for params unless they equal the current ones and a
// fetch has already been started for them.
func (q *Query[P, T]) SetParams(ctx context.Context, params P) (State[P, T], error) {
	q.mu.Lock()
	if q.started && q.state.Params == params {
		s := q.state
		q.mu.Unlock()
		return s, s.Err
	}
	q.state.Params = params
	q.mu.Unlock()
	return q.run(ctx)
}

// Refetch fetches again with the current parameters.
func (q *Query[P, T]) Refetch(ctx context.Context) (State[P, T], error) {
	return q.run(ctx)
}

// Snapshot returns the current state without fetching.
func (q *Query[P, T]) Snapshot() State[P, T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Cancel aborts the fetch in flight, if any.
func (q *Query[P, T]) Cancel() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
}

func (q *Query[P, T]) run(ctx context.Context) (State[P, T], error) {
	q.mu.Lock()
	if q.cancel != nil {
		q.cancel()
	}
	q.gen++
	gen := q.gen
	fctx, cancel := context.WithCancel(ctx)
	q.cancel = cancel
	q.started = true
	q.state.Loading = true
	q.state.Err = nil
	params := q.state.Params
	q.mu.Unlock()

	data, page, err := q.fetch(fctx, params)

	q.mu.Lock()
	defer q.mu.Unlock()
	cancel()
	if gen != q.gen {
		return q.state, ErrSuperseded
	}
	q.cancel = nil
	q.state.Loading = false
	q.state.Loaded = true
	if err != nil {
		q.state.Err = err
		q.state.Data = q.empty()
		if q.resetPagination {
			q.state.Pagination = core.EmptyPagination()
		}
		return q.state, err
	}
	q.state.Data = data
	q.state.Pagination = page
	return q.state, nil
}
