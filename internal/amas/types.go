// Package amas is the Adaptive Multi-Algorithm Scheduler: the per-user
// memory/mastery model, the three independent decision algorithms and
// their trust-weighted ensemble, the ELO/ZPD rating pair, the word
// selector, and the invariant-sampling monitor that together decide what
// a learner studies next and how hard it should be.
package amas

import "time"

const (
	defaultAttention        = 0.7
	defaultConfidence       = 0.1
	defaultSessionMinutes   = 15.0
	defaultSessionsPerDay   = 1.0
)

var defaultPreferredHours = []int{9, 14, 20}

// RawEvent is the ingress event shape: one learner interaction with one
// word, as submitted by the (out-of-scope) HTTP layer.
type RawEvent struct {
	WordID               string  `json:"wordId"`
	IsCorrect            bool    `json:"isCorrect"`
	ResponseTimeMs       int64   `json:"responseTimeMs"`
	SessionID            *string `json:"sessionId,omitempty"`
	IsQuit               bool    `json:"isQuit"`
	DwellTimeMs          *int64  `json:"dwellTimeMs,omitempty"`
	PauseCount           *int32  `json:"pauseCount,omitempty"`
	SwitchCount          *int32  `json:"switchCount,omitempty"`
	RetryCount           *int32  `json:"retryCount,omitempty"`
	FocusLossDurationMs  *int64  `json:"focusLossDurationMs,omitempty"`
	InteractionDensity   *float64 `json:"interactionDensity,omitempty"`
	PausedTimeMs         *int64  `json:"pausedTimeMs,omitempty"`
	HintUsed             bool    `json:"hintUsed"`
	ConfusedWith         *string `json:"confusedWith,omitempty"`
}

// DefaultRawEvent mirrors the original's Default impl, used where a
// partially-populated ingress payload needs sane fallbacks.
func DefaultRawEvent() RawEvent {
	return RawEvent{ResponseTimeMs: 1000}
}

// ProcessOptions are per-call overrides for ProcessEvent.
type ProcessOptions struct {
	SkipMonitoring  bool `json:"skipMonitoring"`
	ForceHeuristic  bool `json:"forceHeuristic"`
}

// FeatureVector is the derived per-event feature set every decision
// algorithm and the reward function read from.
type FeatureVector struct {
	Accuracy                float64 `json:"accuracy"`
	ResponseSpeed           float64 `json:"responseSpeed"`
	Quality                 float64 `json:"quality"`
	Engagement              float64 `json:"engagement"`
	HintPenalty             float64 `json:"hintPenalty"`
	TimeSinceLastEventSecs  float64 `json:"timeSinceLastEventSecs"`
	SessionEventCount       uint32  `json:"sessionEventCount"`
	IsQuit                  bool    `json:"isQuit"`
}

// UserState is the durable, per-user psychometric state the engine reads
// and updates on every event.
type UserState struct {
	Attention         float64          `json:"attention"`
	Fatigue           float64          `json:"fatigue"`
	Motivation        float64          `json:"motivation"`
	Confidence        float64          `json:"confidence"`
	LastActiveAt      *time.Time       `json:"lastActiveAt,omitempty"`
	SessionEventCount uint32           `json:"sessionEventCount"`
	TotalEventCount   uint64           `json:"totalEventCount"`
	CreatedAt         time.Time        `json:"createdAt"`
	CognitiveProfile  CognitiveProfile `json:"cognitiveProfile"`
	TrendState        TrendState       `json:"trendState"`
	HabitProfile      HabitProfile     `json:"habitProfile"`
	LastSessionID     *string          `json:"lastSessionId,omitempty"`
	VisualFatigue     float64          `json:"visualFatigue"`
}

// NewUserState returns a freshly-initialized state, matching spec.md's
// lifecycle "Creation" operation and the original's Default impl.
func NewUserState(now time.Time) UserState {
	return UserState{
		Attention:        defaultAttention,
		Confidence:       defaultConfidence,
		CreatedAt:        now,
		CognitiveProfile: DefaultCognitiveProfile(),
		TrendState:       TrendState{},
		HabitProfile:     DefaultHabitProfile(),
	}
}

// CognitiveProfile is a slow-moving, diagnostic read on learning style.
type CognitiveProfile struct {
	MemoryCapacity  float64 `json:"memoryCapacity"`
	ProcessingSpeed float64 `json:"processingSpeed"`
	Stability       float64 `json:"stability"`
}

func DefaultCognitiveProfile() CognitiveProfile {
	return CognitiveProfile{MemoryCapacity: 0.5, ProcessingSpeed: 0.5, Stability: 0.5}
}

// TrendState tracks short-window directional movement in accuracy, speed,
// and engagement, each an EMA-smoothed delta.
type TrendState struct {
	AccuracyTrend   float64 `json:"accuracyTrend"`
	SpeedTrend      float64 `json:"speedTrend"`
	EngagementTrend float64 `json:"engagementTrend"`
}

// HabitProfile captures when and how long a learner typically studies.
type HabitProfile struct {
	PreferredHours           []int              `json:"preferredHours"`
	MedianSessionLengthMins  float64            `json:"medianSessionLengthMins"`
	SessionsPerDay           float64            `json:"sessionsPerDay"`
	TemporalPerformance      TemporalPerformance `json:"temporalPerformance"`
}

func DefaultHabitProfile() HabitProfile {
	hours := make([]int, len(defaultPreferredHours))
	copy(hours, defaultPreferredHours)
	return HabitProfile{
		PreferredHours:          hours,
		MedianSessionLengthMins: defaultSessionMinutes,
		SessionsPerDay:          defaultSessionsPerDay,
		TemporalPerformance:     DefaultTemporalPerformance(),
	}
}

// TemporalPerformance is a 24-bucket (one per hour-of-day) performance
// profile, fed by Engine.UpdateTemporalProfile and read by the word
// selector's temporalBoost factor.
type TemporalPerformance struct {
	HourlyStats    [24]HourlyStats `json:"hourlyStats"`
	TotalSessions  uint32          `json:"totalSessions"`
}

func DefaultTemporalPerformance() TemporalPerformance {
	return TemporalPerformance{}
}

// HourlyStats is one hour-of-day bucket's rolling performance.
type HourlyStats struct {
	SessionCount      uint32  `json:"sessionCount"`
	AvgAccuracy       float64 `json:"avgAccuracy"`
	AvgResponseTimeMs float64 `json:"avgResponseTimeMs"`
	MasteryEfficiency float64 `json:"masteryEfficiency"`
}

// LearnerType is a read-only diagnostic classification, not a gating
// value: nothing in the engine branches on it today besides reporting.
type LearnerType string

const (
	LearnerFast     LearnerType = "fast"
	LearnerStable   LearnerType = "stable"
	LearnerCautious LearnerType = "cautious"
)

// StrategyParams is the egress decision: what the learner should study
// next and how.
type StrategyParams struct {
	Difficulty    float64 `json:"difficulty"`
	BatchSize     uint32  `json:"batchSize"`
	NewRatio      float64 `json:"newRatio"`
	IntervalScale float64 `json:"intervalScale"`
	ReviewMode    bool    `json:"reviewMode"`
}

func DefaultStrategyParams() StrategyParams {
	return StrategyParams{Difficulty: 0.5, BatchSize: 10, NewRatio: 0.3, IntervalScale: 1.0}
}

// Equal reports whether two strategies are the field-for-field same. The
// monitoring sampler makes the same comparison (with ==) to detect when
// post-hoc constraints altered the ensemble's raw proposal.
func (s StrategyParams) Equal(o StrategyParams) bool {
	return s == o
}

// Reward is the scalar objective evaluation computed after each event.
type Reward struct {
	Value      float64         `json:"value"`
	Components RewardComponents `json:"components"`
}

type RewardComponents struct {
	AccuracyReward     float64 `json:"accuracyReward"`
	SpeedReward        float64 `json:"speedReward"`
	FatiguePenalty     float64 `json:"fatiguePenalty"`
	FrustrationPenalty float64 `json:"frustrationPenalty"`
}

// ObjectiveEvaluation is an auxiliary scoring breakdown of a reward,
// returned by engine.EvaluateObjective.
type ObjectiveEvaluation struct {
	Score              float64 `json:"score"`
	RetentionGain      float64 `json:"retentionGain"`
	AccuracyGain       float64 `json:"accuracyGain"`
	SpeedGain          float64 `json:"speedGain"`
	FatiguePenalty     float64 `json:"fatiguePenalty"`
	FrustrationPenalty float64 `json:"frustrationPenalty"`
}

// Explanation is a human-legible account of why the ensemble chose what
// it chose.
type Explanation struct {
	PrimaryReason string               `json:"primaryReason"`
	Factors       []ExplanationFactor `json:"factors"`
}

type ExplanationFactor struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Impact string  `json:"impact"`
}

// MasteryLevel is the coarse-grained classification of a learner's grip
// on one word.
type MasteryLevel string

const (
	MasteryNew       MasteryLevel = "NEW"
	MasteryLearning  MasteryLevel = "LEARNING"
	MasteryReviewing MasteryLevel = "REVIEWING"
	MasteryMastered  MasteryLevel = "MASTERED"
	MasteryForgotten MasteryLevel = "FORGOTTEN"
)

// WordMasteryDecision is the per-word output of the memory-model pipeline.
type WordMasteryDecision struct {
	WordID                   string       `json:"wordId"`
	MemoryStrength           float64      `json:"memoryStrength"`
	RecallProbability        float64      `json:"recallProbability"`
	NextReviewIntervalSecs   int64        `json:"nextReviewIntervalSecs"`
	MasteryLevel             MasteryLevel `json:"masteryLevel"`
}

// ProcessResult is ProcessEvent's full return value.
type ProcessResult struct {
	SessionID      string                `json:"sessionId"`
	Strategy       StrategyParams        `json:"strategy"`
	Explanation    Explanation           `json:"explanation"`
	State          UserState             `json:"state"`
	WordMastery    *WordMasteryDecision  `json:"wordMastery,omitempty"`
	Reward         Reward                `json:"reward"`
	ColdStartPhase *ColdStartPhase       `json:"coldStartPhase,omitempty"`
}

// ColdStartPhase tracks where a new user sits in the cold-start lifecycle:
// Classify (gathering enough signal to pick a decision strategy), Explore
// (low-confidence bandit exploration), then Exploit once enough events
// have accumulated (represented by a nil *ColdStartPhase, matching the
// original's reservation of an unused Exploit variant).
type ColdStartPhase string

const (
	ColdStartClassify ColdStartPhase = "CLASSIFY"
	ColdStartExplore  ColdStartPhase = "EXPLORE"
)

// DecisionCandidate is one algorithm's proposal before ensemble blending.
type DecisionCandidate struct {
	AlgorithmID AlgorithmID
	Strategy    StrategyParams
	Confidence  float64
	Explanation string
}

// AlgorithmID identifies a decision algorithm or memory-model contributor
// for logging, metrics, and per-algorithm state keys.
type AlgorithmID string

const (
	AlgorithmHeuristic AlgorithmID = "heuristic"
	AlgorithmIGE       AlgorithmID = "ige"
	AlgorithmSWD       AlgorithmID = "swd"
	AlgorithmEnsemble  AlgorithmID = "ensemble"
	AlgorithmMDM       AlgorithmID = "mdm"
	AlgorithmMastery   AlgorithmID = "mastery"
)
