package jobs

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestScheduleRunsAndReturnsResult(t *testing.T) {
	p := NewPool(2)
	h := p.Schedule(context.Background(), "echo", 0, func(ctx context.Context) (any, error) {
		return 42, nil
	})

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatalf("job did not complete in time")
	}

	result, err := h.Result()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 42 {
		t.Fatalf("expected result 42, got %v", result)
	}
	if !h.IsCompleted() {
		t.Fatalf("expected IsCompleted() true after Result()")
	}
}

func TestScheduleCancelledReturnsPromptly(t *testing.T) {
	p := NewPool(1)
	started := make(chan struct{})
	blocked := p.Schedule(context.Background(), "blocker", 0, func(ctx context.Context) (any, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	<-started

	h := p.Schedule(context.Background(), "waiter", 0, func(ctx context.Context) (any, error) {
		return "ran", nil
	})
	h.Cancel()

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatalf("cancelled job did not finish promptly")
	}
	if _, err := h.Result(); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	blocked.Cancel()
	<-blocked.Done()
}

func TestPoolLimitsConcurrency(t *testing.T) {
	p := NewPool(1)
	inFlight := make(chan struct{}, 2)
	release := make(chan struct{})

	enter := func(ctx context.Context) (any, error) {
		inFlight <- struct{}{}
		<-release
		<-inFlight
		return nil, nil
	}

	h1 := p.Schedule(context.Background(), "a", 0, enter)
	h2 := p.Schedule(context.Background(), "b", 0, enter)

	time.Sleep(50 * time.Millisecond)
	if len(inFlight) != 1 {
		t.Fatalf("expected exactly 1 job in flight with pool size 1, got %d", len(inFlight))
	}

	close(release)
	<-h1.Done()
	<-h2.Done()
}

func TestHandleIDsAreUnique(t *testing.T) {
	p := NewPool(4)
	h1 := p.Schedule(context.Background(), "a", 0, func(ctx context.Context) (any, error) { return nil, nil })
	h2 := p.Schedule(context.Background(), "b", 0, func(ctx context.Context) (any, error) { return nil, nil })
	<-h1.Done()
	<-h2.Done()
	if h1.ID() == h2.ID() {
		t.Fatalf("expected distinct job ids")
	}
}
