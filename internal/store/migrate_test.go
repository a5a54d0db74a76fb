package store

import (
	"context"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{InMemory: true})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMigrationIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := RunMigrations(ctx, s); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first, err := CurrentVersion(ctx, s)
	if err != nil {
		t.Fatalf("current version: %v", err)
	}

	if err := RunMigrations(ctx, s); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second, err := CurrentVersion(ctx, s)
	if err != nil {
		t.Fatalf("current version: %v", err)
	}

	if first != uint32(len(migrations())) {
		t.Errorf("got version %d, want %d", first, len(migrations()))
	}
	if second != first {
		t.Errorf("expected version to stay at %d, got %d", first, second)
	}
}

func TestDowngradeIsRejected(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := SetVersion(ctx, s, 3); err != nil {
		t.Fatalf("set version: %v", err)
	}
	err := SetVersion(ctx, s, 2)
	if err == nil {
		t.Fatal("expected downgrade to be rejected")
	}
	if _, ok := err.(*MigrationError); !ok {
		t.Errorf("expected *MigrationError, got %T", err)
	}
}

func TestWordDueIndexBackfill(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	key, err := WordLearningStateKey("u1", "w1")
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	due := int64(5000)
	state := wordLearningStateForMigration{UserID: "u1", WordID: "w1", NextReviewAtMs: &due}
	if err := s.PutTree(ctx, TreeWordLearningStates, key, state); err != nil {
		t.Fatalf("put: %v", err)
	}

	if err := RunMigrations(ctx, s); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	dueKey, err := WordDueIndexKey("u1", due, "w1")
	if err != nil {
		t.Fatalf("due key: %v", err)
	}
	var empty struct{}
	if err := s.GetTree(ctx, TreeWordDueIndex, "word_due_index", dueKey, &empty); err != nil {
		t.Fatalf("expected backfilled due-index entry, got error: %v", err)
	}
}
