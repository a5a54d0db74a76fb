package memory

import (
	"sort"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
)

// MorphemeFamiliarity pairs a known morpheme with how well the learner
// has internalized it, used as a leading indicator for new words that
// share it.
type MorphemeFamiliarity struct {
	Morpheme    string  `json:"morpheme"`
	Familiarity float64 `json:"familiarity"`
}

// MtpState is the morpheme-transfer-prediction state: every morpheme the
// learner has shown some familiarity with so far.
type MtpState struct {
	KnownMorphemes []MorphemeFamiliarity `json:"knownMorphemes"`
}

// MorphemeTransferBonus estimates how much easier wordMorphemes should be
// to learn given the morphemes already known, as an average familiarity
// across the morphemes that overlap, scaled and capped by config.
func MorphemeTransferBonus(wordMorphemes []string, known []MorphemeFamiliarity, cfg amas.MTPConfig) float64 {
	if len(wordMorphemes) == 0 || len(known) == 0 {
		return 0.0
	}

	knownSet := make(map[string]float64, len(known))
	for _, k := range known {
		knownSet[k.Morpheme] = k.Familiarity
	}

	var totalBonus float64
	var matchCount int
	for _, morpheme := range wordMorphemes {
		familiarity, ok := knownSet[morpheme]
		if !ok {
			continue
		}
		totalBonus += familiarity * cfg.MorphemeTransferCoeff
		matchCount++
	}

	if matchCount == 0 {
		return 0.0
	}
	return clamp(totalBonus/float64(matchCount), 0, cfg.MorphemeBonusCap)
}

// UpdateKnownMorphemes folds one event's quality signal into the
// familiarity of every morpheme in wordMorphemes, inserting new entries
// as needed, then prunes the set back to config's cap, lowest-familiarity
// first.
func UpdateKnownMorphemes(state *MtpState, wordMorphemes []string, quality float64, cfg amas.MTPConfig) {
	for _, morpheme := range wordMorphemes {
		found := false
		for i := range state.KnownMorphemes {
			if state.KnownMorphemes[i].Morpheme == morpheme {
				f := state.KnownMorphemes[i].Familiarity
				state.KnownMorphemes[i].Familiarity = clamp01(f*cfg.KnownMorphemeDecay + quality*(1.0-cfg.KnownMorphemeDecay))
				found = true
				break
			}
		}
		if !found {
			state.KnownMorphemes = append(state.KnownMorphemes, MorphemeFamiliarity{
				Morpheme:    morpheme,
				Familiarity: quality * cfg.NewMorphemeInitialCoeff,
			})
		}
	}

	if len(state.KnownMorphemes) > cfg.MaxKnownMorphemes {
		sort.Slice(state.KnownMorphemes, func(i, j int) bool {
			return state.KnownMorphemes[i].Familiarity > state.KnownMorphemes[j].Familiarity
		})
		state.KnownMorphemes = state.KnownMorphemes[:cfg.MaxKnownMorphemes]
	}
}
