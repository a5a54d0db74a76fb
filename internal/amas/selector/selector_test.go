package selector

import (
	"testing"
	"time"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
	"github.com/Heartcoolman/wordforge-sub000/internal/amas/memory"
)

func TestScoreNewWordPenalizesFarDifficulty(t *testing.T) {
	ws := amas.DefaultConfig().WordSelector
	eloCfg := amas.DefaultConfig().Elo
	strategy := amas.StrategyParams{Difficulty: 0.5, NewRatio: 0.5, BatchSize: 20, IntervalScale: 1.0}

	near := scoreNewWord(WordMeta{WordID: "near", Difficulty: 0.5}, 1200, 1200, strategy, ws, eloCfg)
	far := scoreNewWord(WordMeta{WordID: "far", Difficulty: 0.95}, 1200, 1200, strategy, ws, eloCfg)

	if near <= far {
		t.Errorf("expected a near-difficulty word to score higher than a far one: near=%v far=%v", near, far)
	}
}

func TestReviewUCBBonusDecreasesWithAttempts(t *testing.T) {
	ws := amas.DefaultConfig().WordSelector
	small := reviewUCBBonus(50, 1, ws)
	high := reviewUCBBonus(50, 20, ws)
	if small <= high {
		t.Errorf("expected bonus to shrink as attempts grow: small=%v high=%v", small, high)
	}
	if small > ws.ReviewUCBMaxBonus {
		t.Errorf("bonus %v exceeds configured max %v", small, ws.ReviewUCBMaxBonus)
	}
}

func TestRetainTopKKeepsHighestScores(t *testing.T) {
	words := []ScoredWord{
		{WordID: "w1", Score: 0.2},
		{WordID: "w2", Score: 0.9},
		{WordID: "w3", Score: 0.7},
	}
	top := retainTopK(words, 2)
	if len(top) != 2 || top[0].WordID != "w2" || top[1].WordID != "w3" {
		t.Errorf("expected [w2, w3], got %+v", top)
	}
}

func TestSelectInterleavesNewAndReview(t *testing.T) {
	cfg := amas.DefaultConfig()
	now := time.Now()

	candidates := map[string]CandidateData{
		"new1":  {Meta: WordMeta{WordID: "new1", Difficulty: 0.5}, Attempted: false},
		"new2":  {Meta: WordMeta{WordID: "new2", Difficulty: 0.5}, Attempted: false},
		"rev1":  {Attempted: true, TotalAttempts: 3, Mdm: memory.MdmState{MemoryStrength: 0.3}},
		"rev2":  {Attempted: true, TotalAttempts: 5, Mdm: memory.MdmState{MemoryStrength: 0.6}},
	}
	order := []string{"new1", "new2", "rev1", "rev2"}
	strategy := amas.StrategyParams{Difficulty: 0.5, NewRatio: 0.5, BatchSize: 4, IntervalScale: 1.0}

	result := Select(candidates, order, strategy, 4, 1200, nil, cfg.WordSelector, cfg.Elo, cfg.MemoryModel, now)
	if len(result) == 0 {
		t.Fatal("expected a non-empty selection")
	}

	var newCount, reviewCount int
	for _, w := range result {
		if w.IsNew {
			newCount++
		} else {
			reviewCount++
		}
	}
	if newCount == 0 || reviewCount == 0 {
		t.Errorf("expected both new and review words in the batch, got new=%d review=%d", newCount, reviewCount)
	}
}

func TestSelectHonorsErrorProneBonus(t *testing.T) {
	cfg := amas.DefaultConfig()
	now := time.Now()

	candidates := map[string]CandidateData{
		"rev1": {Attempted: true, TotalAttempts: 3, Mdm: memory.MdmState{MemoryStrength: 0.5}},
	}
	order := []string{"rev1"}
	strategy := amas.StrategyParams{Difficulty: 0.5, NewRatio: 0.0, BatchSize: 1, IntervalScale: 1.0}

	base := Select(candidates, order, strategy, 1, 1200, nil, cfg.WordSelector, cfg.Elo, cfg.MemoryModel, now)
	boosted := Select(candidates, order, strategy, 1, 1200, &SessionContext{
		ErrorProneWordIDs: map[string]bool{"rev1": true},
		TemporalBoost:     1.0,
	}, cfg.WordSelector, cfg.Elo, cfg.MemoryModel, now)

	if len(base) != 1 || len(boosted) != 1 {
		t.Fatal("expected exactly one selected word in both runs")
	}
	if boosted[0].Score <= base[0].Score {
		t.Errorf("expected the error-prone bonus to raise the score: base=%v boosted=%v", base[0].Score, boosted[0].Score)
	}
}
