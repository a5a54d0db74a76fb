package memory

import (
	"testing"
	"time"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
)

func TestRecallIsBoundedAndMonotonic(t *testing.T) {
	cfg := amas.DefaultConfig().MemoryModel
	var state MdmState
	now := time.Now()
	UpdateStrength(&state, 0.8, 0.3, cfg, now)

	p1 := RecallProbability(state, now.Add(1*time.Second), cfg)
	p2 := RecallProbability(state, now.Add(5*time.Second), cfg)
	if p1 < 0 || p1 > 1 || p2 < 0 || p2 > 1 {
		t.Fatalf("recall probability out of range: p1=%v p2=%v", p1, p2)
	}
	if p2 > p1 {
		t.Errorf("expected recall probability to decay over time: p1=%v p2=%v", p1, p2)
	}
}

func TestCompositeStrengthMovesUpAfterGoodQuality(t *testing.T) {
	cfg := amas.DefaultConfig().MemoryModel
	var state MdmState
	before := CompositeStrength(state, cfg)
	UpdateStrength(&state, 0.9, 0.3, cfg, time.Now())
	after := CompositeStrength(state, cfg)
	if after < before {
		t.Errorf("expected composite strength to increase, got before=%v after=%v", before, after)
	}
}

func TestComputeIntervalRespectsMinimum(t *testing.T) {
	cfg := amas.DefaultConfig().MemoryModel
	var state MdmState
	interval := ComputeInterval(state, 0.999999, 1.0, cfg)
	if interval < 60 {
		t.Errorf("expected interval to respect the 60s floor, got %d", interval)
	}
}
