package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
	"github.com/Heartcoolman/wordforge-sub000/internal/amas/memory"
	"github.com/Heartcoolman/wordforge-sub000/internal/store"
)

func putUser(t *testing.T, st *store.Store, userID string) {
	t.Helper()
	key, err := store.UserKey(userID)
	if err != nil {
		t.Fatalf("UserKey: %v", err)
	}
	if err := st.PutTree(context.Background(), store.TreeUsers, key, map[string]any{"id": userID}); err != nil {
		t.Fatalf("PutTree user: %v", err)
	}
}

func putDueEntry(t *testing.T, st *store.Store, userID, wordID string, dueTsMs int64) {
	t.Helper()
	key, err := store.WordDueIndexKey(userID, dueTsMs, wordID)
	if err != nil {
		t.Fatalf("WordDueIndexKey: %v", err)
	}
	if err := st.PutTree(context.Background(), store.TreeWordDueIndex, key, map[string]any{"wordId": wordID}); err != nil {
		t.Fatalf("PutTree due entry: %v", err)
	}
}

func putMasteryState(t *testing.T, st *store.Store, userID, wordID string, level amas.MasteryLevel) {
	t.Helper()
	key, err := store.EngineAlgoStateKey(userID, "mastery:"+wordID)
	if err != nil {
		t.Fatalf("EngineAlgoStateKey: %v", err)
	}
	state := memory.NewWordMasteryState(wordID)
	state.MasteryLevel = level
	if err := st.PutTree(context.Background(), store.TreeEngineAlgorithmState, key, state); err != nil {
		t.Fatalf("PutTree mastery state: %v", err)
	}
}

func countDueEntries(t *testing.T, st *store.Store, userID string) int {
	t.Helper()
	prefix, err := store.WordDueIndexPrefix(userID)
	if err != nil {
		t.Fatalf("WordDueIndexPrefix: %v", err)
	}
	n := 0
	if err := st.ScanTree(context.Background(), store.TreeWordDueIndex, prefix, 0, func(string, []byte) error {
		n++
		return nil
	}); err != nil {
		t.Fatalf("ScanTree: %v", err)
	}
	return n
}

func TestSampleUserRepairsDueEntryForMasteredWord(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	putUser(t, st, "user1")
	putDueEntry(t, st, "user1", "word1", time.Now().UnixMilli())
	putMasteryState(t, st, "user1", "word1", amas.MasteryMastered)

	sampler := NewConsistencySampler(st, DefaultConfig(), discardLogger())
	checked, repaired, err := sampler.sampleUser(ctx, "user1", 500)
	if err != nil {
		t.Fatalf("sampleUser: %v", err)
	}
	if checked != 1 {
		t.Errorf("expected 1 due entry checked, got %d", checked)
	}
	if repaired != 1 {
		t.Errorf("expected 1 stale entry repaired, got %d", repaired)
	}
	if remaining := countDueEntries(t, st, "user1"); remaining != 0 {
		t.Errorf("expected the mastered word's due entry to be removed, got %d remaining", remaining)
	}
}

func TestSampleUserLeavesReviewingWordAlone(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	putUser(t, st, "user2")
	putDueEntry(t, st, "user2", "word1", time.Now().UnixMilli())
	putMasteryState(t, st, "user2", "word1", amas.MasteryReviewing)

	sampler := NewConsistencySampler(st, DefaultConfig(), discardLogger())
	checked, repaired, err := sampler.sampleUser(ctx, "user2", 500)
	if err != nil {
		t.Fatalf("sampleUser: %v", err)
	}
	if checked != 1 {
		t.Errorf("expected 1 due entry checked, got %d", checked)
	}
	if repaired != 0 {
		t.Errorf("expected no repair for a still-reviewing word, got %d", repaired)
	}
	if remaining := countDueEntries(t, st, "user2"); remaining != 1 {
		t.Errorf("expected the due entry to survive, got %d remaining", remaining)
	}
}

func TestSampleUserIgnoresEntryWithoutMasteryRecord(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	putUser(t, st, "user3")
	putDueEntry(t, st, "user3", "never-reviewed", time.Now().UnixMilli())

	sampler := NewConsistencySampler(st, DefaultConfig(), discardLogger())
	checked, repaired, err := sampler.sampleUser(ctx, "user3", 500)
	if err != nil {
		t.Fatalf("sampleUser: %v", err)
	}
	if checked != 1 {
		t.Errorf("expected 1 due entry checked, got %d", checked)
	}
	if repaired != 0 {
		t.Errorf("expected no repair without a mastery record, got %d", repaired)
	}
}

func TestSampleOnceWalksMultipleUsers(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	putUser(t, st, "userA")
	putUser(t, st, "userB")
	putDueEntry(t, st, "userA", "w1", time.Now().UnixMilli())
	putMasteryState(t, st, "userA", "w1", amas.MasteryMastered)
	putDueEntry(t, st, "userB", "w2", time.Now().UnixMilli())
	putMasteryState(t, st, "userB", "w2", amas.MasteryLearning)

	cfg := DefaultConfig()
	sampler := NewConsistencySampler(st, cfg, discardLogger())

	checked, repaired, err := sampler.sampleOnce(ctx)
	if err != nil {
		t.Fatalf("sampleOnce: %v", err)
	}
	if checked != 2 {
		t.Errorf("expected 2 due entries checked across both users, got %d", checked)
	}
	if repaired != 1 {
		t.Errorf("expected exactly 1 repair, got %d", repaired)
	}
}

func TestConsistencySamplerString(t *testing.T) {
	sampler := NewConsistencySampler(newTestStore(t), DefaultConfig(), discardLogger())
	if sampler.String() != consistencySamplerJobName {
		t.Errorf("expected String() %q, got %q", consistencySamplerJobName, sampler.String())
	}
}
