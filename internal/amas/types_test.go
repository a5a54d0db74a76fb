package amas

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestDefaultsAreInSafeRanges(t *testing.T) {
	s := NewUserState(time.Now())
	if s.Attention < 0 || s.Attention > 1 {
		t.Errorf("attention out of range: %v", s.Attention)
	}
	if s.Confidence < 0 || s.Confidence > 1 {
		t.Errorf("confidence out of range: %v", s.Confidence)
	}
	if len(s.HabitProfile.PreferredHours) != 3 {
		t.Errorf("expected 3 preferred hours, got %d", len(s.HabitProfile.PreferredHours))
	}

	sp := DefaultStrategyParams()
	if sp.Difficulty < 0 || sp.Difficulty > 1 {
		t.Errorf("difficulty out of range: %v", sp.Difficulty)
	}
	if sp.BatchSize == 0 {
		t.Error("expected nonzero default batch size")
	}
}

func TestUserStateSerdeRoundtrip(t *testing.T) {
	s := NewUserState(time.Now())
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got UserState
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Attention != s.Attention || got.Confidence != s.Confidence {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", got, s)
	}
}

func TestStrategyParamsEqual(t *testing.T) {
	a := DefaultStrategyParams()
	b := DefaultStrategyParams()
	if !a.Equal(b) {
		t.Error("expected identical strategies to be equal")
	}
	b.Difficulty += 0.1
	if a.Equal(b) {
		t.Error("expected differing strategies to be unequal")
	}
}

func TestAlgorithmIDValues(t *testing.T) {
	ids := []AlgorithmID{AlgorithmHeuristic, AlgorithmIGE, AlgorithmSWD, AlgorithmEnsemble, AlgorithmMDM, AlgorithmMastery}
	seen := map[AlgorithmID]bool{}
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate algorithm id %q", id)
		}
		seen[id] = true
	}
}
