package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Heartcoolman/wordforge-sub000/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(store.Options{InMemory: true})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func putMonitoringEvent(t *testing.T, st *store.Store, ageMs int64, eventID string) {
	t.Helper()
	ts := time.Now().UnixMilli() - ageMs
	key, err := store.MonitoringEventKey(ts, eventID)
	if err != nil {
		t.Fatalf("MonitoringEventKey: %v", err)
	}
	if err := st.PutTree(context.Background(), store.TreeMonitoringEvents, key, map[string]any{"id": eventID}); err != nil {
		t.Fatalf("PutTree: %v", err)
	}
}

func countMonitoringEvents(t *testing.T, st *store.Store) int {
	t.Helper()
	n := 0
	if err := st.ScanTree(context.Background(), store.TreeMonitoringEvents, "", 0, func(string, []byte) error {
		n++
		return nil
	}); err != nil {
		t.Fatalf("ScanTree: %v", err)
	}
	return n
}

func TestSweepOnceDeletesEventsPastRetentionWindow(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	putMonitoringEvent(t, st, (40 * 24 * time.Hour).Milliseconds(), "old1")
	putMonitoringEvent(t, st, (35 * 24 * time.Hour).Milliseconds(), "old2")
	putMonitoringEvent(t, st, (1 * time.Hour).Milliseconds(), "fresh1")

	cfg := DefaultConfig()
	cfg.RetentionWindow = 30 * 24 * time.Hour
	sweep := NewRetentionSweep(st, cfg, discardLogger())

	deleted, err := sweep.sweepOnce(ctx)
	if err != nil {
		t.Fatalf("sweepOnce: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 stale events deleted, got %d", deleted)
	}
	if remaining := countMonitoringEvents(t, st); remaining != 1 {
		t.Errorf("expected 1 event remaining, got %d", remaining)
	}
}

func TestSweepOnceRespectsMaxDeletionsPerRun(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		putMonitoringEvent(t, st, (40*24*time.Hour + time.Duration(i)*time.Second).Milliseconds(), "old")
	}

	cfg := DefaultConfig()
	cfg.RetentionWindow = 30 * 24 * time.Hour
	cfg.MaxDeletionsPerRun = 3
	sweep := NewRetentionSweep(st, cfg, discardLogger())

	deleted, err := sweep.sweepOnce(ctx)
	if err != nil {
		t.Fatalf("sweepOnce: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected deletions capped at 3, got %d", deleted)
	}
}

func TestRunOnceSkipsWhileAlreadyRunning(t *testing.T) {
	st := newTestStore(t)
	cfg := DefaultConfig()
	sweep := NewRetentionSweep(st, cfg, discardLogger())

	sweep.inRun.Store(true)
	sweep.runOnce(context.Background())
	sweep.inRun.Store(false)
}

func TestServeStopsOnContextCancellation(t *testing.T) {
	st := newTestStore(t)
	cfg := DefaultConfig()
	cfg.RetentionSweepInterval = time.Hour
	sweep := NewRetentionSweep(st, cfg, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- sweep.Serve(ctx)
	}()
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected Serve to return ctx.Err() on cancellation")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after context cancellation")
	}
}

func TestRetentionSweepString(t *testing.T) {
	sweep := NewRetentionSweep(newTestStore(t), DefaultConfig(), discardLogger())
	if sweep.String() != retentionSweepJobName {
		t.Errorf("expected String() %q, got %q", retentionSweepJobName, sweep.String())
	}
}
