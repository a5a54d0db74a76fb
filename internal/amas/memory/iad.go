package memory

import (
	"sort"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
)

// ConfusionScore pairs a confusable word ID with its confusion strength.
type ConfusionScore struct {
	WordID string  `json:"wordId"`
	Score  float64 `json:"score"`
}

// IadState is the interference-aware-decay state: the set of words a
// learner tends to confuse this word with, and how strongly.
type IadState struct {
	ConfusionPairs []ConfusionScore `json:"confusionPairs"`
}

// InterferencePenalty sums every confusion score recorded against wordID
// and scales it into a retrievability penalty, capped so interference
// alone can never zero out recall.
func InterferencePenalty(wordID string, state IadState, cfg amas.IADConfig) float64 {
	var total float64
	for _, pair := range state.ConfusionPairs {
		if pair.WordID == wordID {
			total += pair.Score
		}
	}
	return clamp(total*cfg.InterferencePenaltyFactor, 0, cfg.InterferencePenaltyCap)
}

// RecordConfusion registers that wordID and confusedWith were mixed up in
// the same event, decaying existing scores first and recording the
// relationship bidirectionally so either word's lookup finds it. Pairs
// beyond config's cap are pruned, lowest-score first.
func RecordConfusion(state *IadState, wordID, confusedWith string, decayRate float64, cfg amas.IADConfig) {
	for i := range state.ConfusionPairs {
		state.ConfusionPairs[i].Score *= 1.0 - decayRate
	}

	for _, target := range []string{confusedWith, wordID} {
		found := false
		for i := range state.ConfusionPairs {
			if state.ConfusionPairs[i].WordID == target {
				state.ConfusionPairs[i].Score = clamp01(state.ConfusionPairs[i].Score + cfg.ConfusionUpdateIncrement)
				found = true
				break
			}
		}
		if !found {
			state.ConfusionPairs = append(state.ConfusionPairs, ConfusionScore{WordID: target, Score: cfg.NewConfusionInitialScore})
		}
	}

	sort.Slice(state.ConfusionPairs, func(i, j int) bool {
		return state.ConfusionPairs[i].Score > state.ConfusionPairs[j].Score
	})
	if len(state.ConfusionPairs) > cfg.MaxConfusionPairs {
		state.ConfusionPairs = state.ConfusionPairs[:cfg.MaxConfusionPairs]
	}
}

// IntervalExtensionFactor converts an interference penalty into a
// multiplier on review interval: higher interference shortens the
// interval so confused words are reviewed sooner.
func IntervalExtensionFactor(penalty float64, cfg amas.IADConfig) float64 {
	return 1.0 - penalty*cfg.IntervalShorteningFactor
}
