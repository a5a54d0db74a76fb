// Package memory implements the multi-dimensional decay memory model
// (MDM), interference-aware decay (IAD) between confusable words,
// morpheme-transfer prediction (MTP), and the per-word mastery state
// machine that combines all three into a WordMasteryDecision.
package memory

import (
	"math"
	"time"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
)

const (
	highAccuracyThreshold      = 0.9
	highAccuracyRetentionBoost = 0.02
	highFatigueThreshold       = 0.6
	highFatigueRetentionDrop   = 0.05
	lowMotivationThreshold     = -0.2
	lowMotivationRetentionDrop = 0.03
	retentionMin               = 0.70
	retentionMax               = 0.95
	maxIntervalDays            = 365.0
	minIntervalSecs            = 60
)

// MdmState is the three-timescale memory trace a word accumulates across
// reviews: a fast-moving short-term strength, a slower medium-term one,
// a slow long-term one, and a consolidation score that rewards sustained
// correct recall over raw repetition.
type MdmState struct {
	MemoryStrength      float64    `json:"memoryStrength"`
	ShortTermStrength   float64    `json:"shortTermStrength"`
	MediumTermStrength  float64    `json:"mediumTermStrength"`
	LongTermStrength    float64    `json:"longTermStrength"`
	LastReviewAt        *time.Time `json:"lastReviewAt,omitempty"`
	ReviewCount         uint32     `json:"reviewCount"`
	Consolidation       float64    `json:"consolidation"`
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// UpdateStrength folds one review's quality signal into the three
// timescales, recomputes the composite/consolidation-corrected
// memory_strength via an alpha-weighted EMA, and advances review_count
// and last_review_at. now is passed in rather than read from the clock so
// the call is deterministic and testable.
func UpdateStrength(state *MdmState, quality, alpha float64, cfg amas.MemoryModelConfig, now time.Time) {
	quality = clamp01(quality)

	state.ShortTermStrength += cfg.ShortTermLearningRate * (quality - state.ShortTermStrength)
	state.MediumTermStrength += cfg.MediumTermLearningRate * (quality - state.MediumTermStrength)
	state.LongTermStrength += cfg.LongTermLearningRate * (quality - state.LongTermStrength)

	state.ShortTermStrength = clamp01(state.ShortTermStrength)
	state.MediumTermStrength = clamp01(state.MediumTermStrength)
	state.LongTermStrength = clamp01(state.LongTermStrength)

	consolidationRate := cfg.ConsolidationRateScale * quality
	state.Consolidation = clamp01(state.Consolidation + consolidationRate)

	composite := CompositeStrength(*state, cfg)
	vocabCorrected := composite * (1.0 + state.Consolidation*cfg.ConsolidationBonus)
	state.MemoryStrength += clamp01(alpha) * (vocabCorrected - state.MemoryStrength)
	state.MemoryStrength = clamp01(state.MemoryStrength)

	state.ReviewCount++
	t := now
	state.LastReviewAt = &t
}

// AdaptiveDesiredRetention nudges the target recall probability up for a
// learner doing well and down for one showing fatigue or flagging
// motivation, so the review schedule is easier to sustain under load.
func AdaptiveDesiredRetention(baseRetention, accuracy, fatigue, motivation float64) float64 {
	retention := baseRetention
	if accuracy > highAccuracyThreshold {
		retention += highAccuracyRetentionBoost
	}
	if fatigue > highFatigueThreshold {
		retention -= highFatigueRetentionDrop
	}
	if motivation < lowMotivationThreshold {
		retention -= lowMotivationRetentionDrop
	}
	return clamp(retention, retentionMin, retentionMax)
}

// CompositeStrength blends the three timescales into one [0,1] strength.
func CompositeStrength(state MdmState, cfg amas.MemoryModelConfig) float64 {
	return clamp01(cfg.CompositeWeightShort*state.ShortTermStrength +
		cfg.CompositeWeightMedium*state.MediumTermStrength +
		cfg.CompositeWeightLong*state.LongTermStrength)
}

// RecallProbability is an Ebbinghaus-style exponential decay: the longer
// since the last review relative to a strength-scaled half-life, the
// lower the probability the word is still recalled. Zero reviews means
// zero recall.
func RecallProbability(state MdmState, now time.Time, cfg amas.MemoryModelConfig) float64 {
	if state.LastReviewAt == nil {
		return 0.0
	}
	deltaSecs := now.Sub(*state.LastReviewAt).Seconds()
	if deltaSecs < 0 {
		deltaSecs = 0
	}
	timeConstant := (math.Max(state.MemoryStrength, 0) + cfg.HalfLifeBaseEpsilon) * cfg.HalfLifeTimeUnitSecs
	return clamp01(math.Exp(-deltaSecs / timeConstant))
}

// ComputeInterval inverts the recall curve to find the number of seconds
// until recall probability would drop to targetRecall, scaled by the
// strategy's interval_scale and clamped to a sane review cadence.
func ComputeInterval(state MdmState, targetRecall, intervalScale float64, cfg amas.MemoryModelConfig) int64 {
	timeConstant := (math.Max(state.MemoryStrength, 0) + cfg.HalfLifeBaseEpsilon) * cfg.HalfLifeTimeUnitSecs
	tr := targetRecall
	if tr < 1e-6 {
		tr = 1e-6
	}
	interval := -timeConstant * math.Log(tr)
	scale := intervalScale
	if scale < 0.1 {
		scale = 0.1
	}
	interval = math.Min(interval*scale, maxIntervalDays*86400.0)
	if interval < minIntervalSecs {
		return minIntervalSecs
	}
	return int64(interval)
}
