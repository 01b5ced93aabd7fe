package query_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"medequip-admin/internal/core"
	"medequip-admin/internal/query"
)

func TestSetParams_FetchesOnlyOnChange(t *testing.T) {
	var calls atomic.Int32
	q := query.New(func(ctx context.Context, page int) ([]int, core.Pagination, error) {
		calls.Add(1)
		return []int{page}, core.Pagination{Page: page}, nil
	})
	ctx := context.Background()

	if _, err := q.SetParams(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := q.SetParams(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls after same params = %d, want 1", got)
	}

	s, err := q.SetParams(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 || s.Data[0] != 2 || s.Pagination.Page != 2 {
		t.Errorf("state = %+v after %d calls", s, calls.Load())
	}

	if _, err := q.Refetch(ctx); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 3 {
		t.Errorf("Refetch did not fetch")
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	release := map[int]chan struct{}{1: make(chan struct{}), 2: make(chan struct{})}
	started := make(chan int, 2)

	q := query.New(func(ctx context.Context, page int) (string, core.Pagination, error) {
		started <- page
		<-release[page]
		// The superseded fetch ignores cancellation to model a response already on the wire.
		return map[int]string{1: "stale", 2: "fresh"}[page], core.Pagination{Page: page}, nil
	})
	ctx := context.Background()

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = q.SetParams(ctx, 1)
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = q.SetParams(ctx, 2)
	}()
	<-started

	// Newer request resolves first, then the stale one.
	close(release[2])
	waitFor(t, func() bool { return q.Snapshot().Data == "fresh" })
	close(release[1])
	wg.Wait()

	if !errors.Is(firstErr, query.ErrSuperseded) {
		t.Errorf("first fetch err = %v, want ErrSuperseded", firstErr)
	}
	s := q.Snapshot()
	if s.Data != "fresh" || s.Params != 2 || s.Pagination.Page != 2 || s.Loading {
		t.Errorf("state = %+v, want fresh page 2", s)
	}
}

func TestNewFetchCancelsPrevious(t *testing.T) {
	cancelled := make(chan struct{})
	started := make(chan struct{}, 2)
	q := query.New(func(ctx context.Context, page int) (int, core.Pagination, error) {
		started <- struct{}{}
		if page == 1 {
			<-ctx.Done()
			close(cancelled)
			return 0, core.Pagination{}, ctx.Err()
		}
		return page, core.Pagination{}, nil
	})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := q.SetParams(ctx, 1)
		done <- err
	}()
	<-started

	if _, err := q.SetParams(ctx, 2); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("first fetch was not cancelled")
	}
	if err := <-done; !errors.Is(err, query.ErrSuperseded) {
		t.Errorf("first fetch err = %v, want ErrSuperseded", err)
	}
	if s := q.Snapshot(); s.Data != 2 || s.Err != nil {
		t.Errorf("state = %+v", s)
	}
}

func TestErrorResetsDataAndPagination(t *testing.T) {
	fail := false
	q := query.New(func(ctx context.Context, page int) ([]string, core.Pagination, error) {
		if fail {
			return nil, core.Pagination{}, errors.New("Failed to fetch AMCs")
		}
		return []string{"a"}, core.Pagination{Page: 3, Limit: 20, Total: 41, TotalPages: 3}, nil
	},
		query.WithEmpty[int](func() []string { return []string{} }),
		query.WithResetPagination[int, []string](),
	)
	ctx := context.Background()

	if _, err := q.SetParams(ctx, 3); err != nil {
		t.Fatal(err)
	}
	fail = true
	s, err := q.Refetch(ctx)
	if err == nil {
		t.Fatal("expected error")
	}
	if s.Data == nil || len(s.Data) != 0 {
		t.Errorf("data = %v, want empty", s.Data)
	}
	if s.Pagination != core.EmptyPagination() {
		t.Errorf("pagination = %+v, want %+v", s.Pagination, core.EmptyPagination())
	}
	if s.Err == nil || s.Loading || !s.Loaded {
		t.Errorf("state = %+v", s)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met")
}

func TestCancel_AbortsInFlightFetch(t *testing.T) {
	started := make(chan struct{})
	q := query.New(func(ctx context.Context, page int) (int, core.Pagination, error) {
		close(started)
		<-ctx.Done()
		return 0, core.Pagination{}, ctx.Err()
	})

	done := make(chan error, 1)
	go func() {
		_, err := q.SetParams(context.Background(), 1)
		done <- err
	}()
	<-started
	q.Cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("fetch was not cancelled")
	}
	if s := q.Snapshot(); s.Loading {
		t.Errorf("still loading after cancel: %+v", s)
	}

	q.Cancel()
}
