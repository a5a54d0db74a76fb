package jobs

import (
	"context"
	"testing"
	"time"
)

func TestValueLogGCStopsOnContextCancellation(t *testing.T) {
	st := newTestStore(t)
	g := NewValueLogGC(st, 5*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected Serve to return the cancellation error")
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after context cancellation")
	}
}

func TestValueLogGCDisabledWithNonPositiveInterval(t *testing.T) {
	st := newTestStore(t)
	g := NewValueLogGC(st, 0, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Serve(ctx) }()

	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected Serve to return the cancellation error even when disabled")
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after context cancellation")
	}
}

func TestValueLogGCStringIdentifiesJob(t *testing.T) {
	st := newTestStore(t)
	g := NewValueLogGC(st, time.Minute, discardLogger())
	if got := g.String(); got != valueLogGCJobName {
		t.Errorf("expected %q, got %q", valueLogGCJobName, got)
	}
}
