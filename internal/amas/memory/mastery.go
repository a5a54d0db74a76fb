package memory

import (
	"time"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
)

const (
	masteredCompositeFloor = 0.8
	masteredAccuracyFloor  = 0.9
	masteredStreakFloor    = 3
	reviewingCompositeFloor = 0.4
	// forgottenRecallCeiling is the recall-probability threshold below
	// which a previously-reviewed word is reclassified as FORGOTTEN rather
	// than left at its last-assigned level. The upstream reference never
	// assigns this level at all: mastery only ever moves forward through
	// New -> Learning -> Reviewing -> Mastered, so a word whose memory has
	// actually decayed away keeps reporting a stale "Mastered"/"Reviewing"
	// label forever. Checking recall probability on every update closes
	// that gap.
	forgottenRecallCeiling = 0.25
)

// WordMasteryState is the durable per-(user, word) mastery record: the
// dual-decay memory trace plus the coarse classification and streak
// counters derived from it.
type WordMasteryState struct {
	WordID        string            `json:"wordId"`
	Mdm           MdmState          `json:"mdm"`
	MasteryLevel  amas.MasteryLevel `json:"masteryLevel"`
	CorrectStreak uint32            `json:"correctStreak"`
	TotalAttempts uint32            `json:"totalAttempts"`
	TotalCorrect  uint32            `json:"totalCorrect"`
}

// NewWordMasteryState returns the zero-value state for a word the learner
// has never been tested on.
func NewWordMasteryState(wordID string) WordMasteryState {
	return WordMasteryState{WordID: wordID, MasteryLevel: amas.MasteryNew}
}

// UpdateMastery folds one review event into state: updates the MDM trace,
// the attempt/streak counters, and the coarse mastery level, then returns
// the decision the engine persists and reports to the caller.
// desiredRetention is the adaptive target recall probability the caller
// computed via AdaptiveDesiredRetention; it drives ComputeInterval rather
// than a fixed constant, so a struggling learner gets a nearer-term review
// than a thriving one even at the same interval_scale.
func UpdateMastery(state *WordMasteryState, isCorrect bool, quality, intervalScale, desiredRetention float64, cfg amas.MemoryModelConfig, now time.Time) amas.WordMasteryDecision {
	alpha := clamp(intervalScale*0.3, 0.1, 0.5)
	UpdateStrength(&state.Mdm, quality, alpha, cfg, now)

	state.TotalAttempts++
	if isCorrect {
		state.TotalCorrect++
		state.CorrectStreak++
	} else {
		state.CorrectStreak = 0
	}

	state.MasteryLevel = determineLevel(*state, cfg, now)

	recall := RecallProbability(state.Mdm, now, cfg)
	interval := ComputeInterval(state.Mdm, desiredRetention, intervalScale, cfg)

	return amas.WordMasteryDecision{
		WordID:                 state.WordID,
		MemoryStrength:         state.Mdm.MemoryStrength,
		RecallProbability:      recall,
		NextReviewIntervalSecs: interval,
		MasteryLevel:           state.MasteryLevel,
	}
}

// ApplyDecay re-derives the mastery level from the current memory trace
// without recording a new review, for re-checking a word a learner hasn't
// touched in a long time.
func ApplyDecay(state *WordMasteryState, cfg amas.MemoryModelConfig, now time.Time) {
	state.MasteryLevel = determineLevel(*state, cfg, now)
}

func determineLevel(state WordMasteryState, cfg amas.MemoryModelConfig, now time.Time) amas.MasteryLevel {
	if state.TotalAttempts == 0 {
		return amas.MasteryNew
	}

	if state.MasteryLevel != amas.MasteryNew {
		if recall := RecallProbability(state.Mdm, now, cfg); recall < forgottenRecallCeiling {
			return amas.MasteryForgotten
		}
	}

	accuracy := float64(state.TotalCorrect) / float64(state.TotalAttempts)
	composite := CompositeStrength(state.Mdm, cfg)

	switch {
	case composite > masteredCompositeFloor && accuracy > masteredAccuracyFloor && state.CorrectStreak >= masteredStreakFloor:
		return amas.MasteryMastered
	case composite > reviewingCompositeFloor:
		return amas.MasteryReviewing
	default:
		return amas.MasteryLearning
	}
}
