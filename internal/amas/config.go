package amas

import "fmt"

// FeatureFlags toggles individual decision algorithms and memory-model
// contributors independently, so any one of them can be disabled (e.g.
// during an incident) without a redeploy.
type FeatureFlags struct {
	EnsembleEnabled  bool `koanf:"ensemble_enabled"`
	HeuristicEnabled bool `koanf:"heuristic_enabled"`
	IGEEnabled       bool `koanf:"ige_enabled"`
	SWDEnabled       bool `koanf:"swd_enabled"`
	MDMEnabled       bool `koanf:"mdm_enabled"`
	IADEnabled       bool `koanf:"iad_enabled"`
	MTPEnabled       bool `koanf:"mtp_enabled"`
}

func DefaultFeatureFlags() FeatureFlags {
	return FeatureFlags{
		EnsembleEnabled:  true,
		HeuristicEnabled: true,
		IGEEnabled:       true,
		SWDEnabled:       true,
		MDMEnabled:       true,
		IADEnabled:       true,
		MTPEnabled:       true,
	}
}

// EnsembleConfig governs how the three decision algorithms' proposals are
// trust-weighted and blended into one strategy.
type EnsembleConfig struct {
	BaseWeightHeuristic float64 `koanf:"base_weight_heuristic"`
	BaseWeightIGE       float64 `koanf:"base_weight_ige"`
	BaseWeightSWD       float64 `koanf:"base_weight_swd"`
	WarmupSamples       uint64  `koanf:"warmup_samples"`
	BlendScale          float64 `koanf:"blend_scale"`
	BlendMax            float64 `koanf:"blend_max"`
	MinWeight           float64 `koanf:"min_weight"`
}

func DefaultEnsembleConfig() EnsembleConfig {
	return EnsembleConfig{
		BaseWeightHeuristic: 0.20,
		BaseWeightIGE:       0.40,
		BaseWeightSWD:       0.40,
		WarmupSamples:       20,
		BlendScale:          100.0,
		BlendMax:            0.50,
		MinWeight:           0.15,
	}
}

// ModelingConfig governs the per-event psychometric state update: how
// quickly attention/confidence/fatigue/motivation move in response to new
// evidence.
type ModelingConfig struct {
	AttentionSmoothing  float64 `koanf:"attention_smoothing"`
	ConfidenceDecay     float64 `koanf:"confidence_decay"`
	MinConfidence       float64 `koanf:"min_confidence"`
	FatigueIncreaseRate float64 `koanf:"fatigue_increase_rate"`
	FatigueRecoveryRate float64 `koanf:"fatigue_recovery_rate"`
	MotivationMomentum  float64 `koanf:"motivation_momentum"`
	VisualFatigueWeight float64 `koanf:"visual_fatigue_weight"`

	// ResponseSpeedMaxMs normalizes raw response latency into the [0,1]
	// speed feature: a response at or above this is treated as maximally
	// slow.
	ResponseSpeedMaxMs float64 `koanf:"response_speed_max_ms"`
	// FatigueQuitIncrease is the extra fatigue bump applied when an event
	// reports the learner quit the session early.
	FatigueQuitIncrease float64 `koanf:"fatigue_quit_increase"`
	// CognitiveProfileAlpha is the EMA rate for the slow-moving cognitive
	// profile dimensions the learner-type classifier reads.
	CognitiveProfileAlpha float64 `koanf:"cognitive_profile_alpha"`
	// TrendAlpha is the EMA rate for the short trend indicators (recent
	// accuracy/speed direction) carried on the returned user state.
	TrendAlpha float64 `koanf:"trend_alpha"`

	// EngagementPausePenalty and EngagementPausePenaltyMax shape how much a
	// mid-session pause lowers the computed engagement signal.
	EngagementPausePenalty    float64 `koanf:"engagement_pause_penalty"`
	EngagementPausePenaltyMax float64 `koanf:"engagement_pause_penalty_max"`
	// EngagementSwitchPenalty and EngagementSwitchPenaltyMax shape how much
	// switching activity types within a session lowers engagement.
	EngagementSwitchPenalty    float64 `koanf:"engagement_switch_penalty"`
	EngagementSwitchPenaltyMax float64 `koanf:"engagement_switch_penalty_max"`
	// EngagementFocusLossBaseMs and EngagementFocusLossPenaltyMax convert an
	// idle gap within a session into an engagement penalty.
	EngagementFocusLossBaseMs     float64 `koanf:"engagement_focus_loss_base_ms"`
	EngagementFocusLossPenaltyMax float64 `koanf:"engagement_focus_loss_penalty_max"`
}

func DefaultModelingConfig() ModelingConfig {
	return ModelingConfig{
		AttentionSmoothing:  0.30,
		ConfidenceDecay:     0.99,
		MinConfidence:       0.10,
		FatigueIncreaseRate: 0.02,
		FatigueRecoveryRate: 0.001,
		MotivationMomentum:  0.1,
		VisualFatigueWeight: 0.15,

		ResponseSpeedMaxMs:    15000,
		FatigueQuitIncrease:   0.15,
		CognitiveProfileAlpha: 0.05,
		TrendAlpha:            0.2,

		EngagementPausePenalty:    0.05,
		EngagementPausePenaltyMax: 0.3,

		EngagementSwitchPenalty:    0.03,
		EngagementSwitchPenaltyMax: 0.2,

		EngagementFocusLossBaseMs:     5000,
		EngagementFocusLossPenaltyMax: 0.4,
	}
}

// FatigueDecayConfig governs the between-session recovery curve: fatigue
// decays exponentially once a gap since the last event exceeds
// DecayStartThresholdSecs, and resets fully past FullResetThresholdSecs.
type FatigueDecayConfig struct {
	DecayStartThresholdSecs float64 `koanf:"decay_start_threshold_secs"`
	DecayTimeConstantSecs   float64 `koanf:"decay_time_constant_secs"`
	FullResetThresholdSecs  float64 `koanf:"full_reset_threshold_secs"`
}

func DefaultFatigueDecayConfig() FatigueDecayConfig {
	return FatigueDecayConfig{
		DecayStartThresholdSecs: 1800,  // 30 minutes
		DecayTimeConstantSecs:   3600,  // 1 hour
		FullResetThresholdSecs:  28800, // 8 hours
	}
}

// FeatureConfig holds the smaller scalar knobs feature derivation and the
// trust-weight update read directly; grouped separately from ModelingConfig
// because they tune signal extraction rather than the state update itself.
type FeatureConfig struct {
	TemporalProfileAlpha     float64 `koanf:"temporal_profile_alpha"`
	MotivationPositiveSignal float64 `koanf:"motivation_positive_signal"`
	MotivationNegativeSignal float64 `koanf:"motivation_negative_signal"`
	ConfidencePositiveSignal float64 `koanf:"confidence_positive_signal"`
	ConfidenceNegativeSignal float64 `koanf:"confidence_negative_signal"`
	TrustBaseLearningRate    float64 `koanf:"trust_base_learning_rate"`
	TrustWeightBlend         float64 `koanf:"trust_weight_blend"`

	// HintPenalty is subtracted once from the per-event quality signal when
	// the learner used a hint before answering.
	HintPenalty float64 `koanf:"hint_penalty"`
	// QualityAccuracyWeight and QualitySpeedWeight blend correctness and
	// response speed into the single quality signal MDM's alpha depends on.
	QualityAccuracyWeight float64 `koanf:"quality_accuracy_weight"`
	QualitySpeedWeight    float64 `koanf:"quality_speed_weight"`

	// TemporalBoostBase/Scale/Min/Max shape how strongly a learner's
	// historical time-of-day performance profile scales the new-word ratio
	// at the current hour.
	TemporalBoostBase  float64 `koanf:"temporal_boost_base"`
	TemporalBoostScale float64 `koanf:"temporal_boost_scale"`
	TemporalBoostMin   float64 `koanf:"temporal_boost_min"`
	TemporalBoostMax   float64 `koanf:"temporal_boost_max"`
}

func DefaultFeatureConfig() FeatureConfig {
	return FeatureConfig{
		TemporalProfileAlpha:     0.1,
		MotivationPositiveSignal: 0.05,
		MotivationNegativeSignal: 0.08,
		ConfidencePositiveSignal: 0.03,
		ConfidenceNegativeSignal: 0.05,
		TrustBaseLearningRate:    0.05,
		TrustWeightBlend:         0.5,

		HintPenalty:           0.1,
		QualityAccuracyWeight: 0.7,
		QualitySpeedWeight:    0.3,

		TemporalBoostBase:  1.0,
		TemporalBoostScale: 0.2,
		TemporalBoostMin:   0.85,
		TemporalBoostMax:   1.15,
	}
}

// ConstraintConfig caps the ensemble's raw proposal when the learner shows
// signs of overload, independent of which algorithm produced it.
type ConstraintConfig struct {
	HighFatigueThreshold      float64 `koanf:"high_fatigue_threshold"`
	LowAttentionThreshold     float64 `koanf:"low_attention_threshold"`
	LowMotivationThreshold    float64 `koanf:"low_motivation_threshold"`
	MaxBatchSizeWhenFatigued  uint32  `koanf:"max_batch_size_when_fatigued"`
	MaxNewRatioWhenFatigued   float64 `koanf:"max_new_ratio_when_fatigued"`
	MaxDifficultyWhenFatigued float64 `koanf:"max_difficulty_when_fatigued"`

	// LowMotivationDifficultyDrop and LowMotivationRatioDrop are subtracted
	// from difficulty and new-ratio (respectively) once motivation falls
	// below LowMotivationThreshold, independent of the fatigue clamp above.
	LowMotivationDifficultyDrop float64 `koanf:"low_motivation_difficulty_drop"`
	LowMotivationRatioDrop      float64 `koanf:"low_motivation_ratio_drop"`
	// MinDifficulty is the floor every constraint pass respects; no branch
	// is allowed to push difficulty below it regardless of how overloaded
	// the learner appears.
	MinDifficulty float64 `koanf:"min_difficulty"`
}

func DefaultConstraintConfig() ConstraintConfig {
	return ConstraintConfig{
		HighFatigueThreshold:      0.90,
		LowAttentionThreshold:     0.30,
		LowMotivationThreshold:    -0.50,
		MaxBatchSizeWhenFatigued:  5,
		MaxNewRatioWhenFatigued:   0.20,
		MaxDifficultyWhenFatigued: 0.55,

		LowMotivationDifficultyDrop: 0.15,
		LowMotivationRatioDrop:      0.15,
		MinDifficulty:               0.05,
	}
}

// MonitoringConfig governs the invariant-sampling monitor: how often a
// non-anomalous event is persisted, and how often aggregated metrics flush.
type MonitoringConfig struct {
	SampleRate               float64 `koanf:"sample_rate"`
	MetricsFlushIntervalSecs uint64  `koanf:"metrics_flush_interval_secs"`
}

func DefaultMonitoringConfig() MonitoringConfig {
	return MonitoringConfig{SampleRate: 0.05, MetricsFlushIntervalSecs: 300}
}

// ColdStartConfig governs the per-user lifecycle through Classify, Explore,
// and Exploit phases based on accumulated event count. The phase check does
// not read ClassifyToExploreConfidence.
type ColdStartConfig struct {
	ClassifyToExploreEvents     uint64  `koanf:"classify_to_explore_events"`
	ClassifyToExploreConfidence float64 `koanf:"classify_to_explore_confidence"`
	ExploreToExploitEvents      uint64  `koanf:"explore_to_exploit_events"`
}

func DefaultColdStartConfig() ColdStartConfig {
	return ColdStartConfig{
		ClassifyToExploreEvents:     20,
		ClassifyToExploreConfidence: 0.6,
		ExploreToExploitEvents:      80,
	}
}

// ObjectiveWeights combine the individual reward components and a
// retention signal into EvaluateObjective's score (the per-event reward
// itself does not use them); must sum to a positive number, not
// necessarily 1.
type ObjectiveWeights struct {
	Retention   float64 `koanf:"retention"`
	Accuracy    float64 `koanf:"accuracy"`
	Speed       float64 `koanf:"speed"`
	Fatigue     float64 `koanf:"fatigue"`
	Frustration float64 `koanf:"frustration"`
}

func DefaultObjectiveWeights() ObjectiveWeights {
	return ObjectiveWeights{Retention: 0.35, Accuracy: 0.25, Speed: 0.15, Fatigue: 0.15, Frustration: 0.10}
}

// MemoryModelConfig tunes the multi-dimensional memory model (MDM): three
// learning-rate time-scales that are blended into one composite strength,
// which a half-life curve converts into a recall probability and review
// interval.
type MemoryModelConfig struct {
	BaseDesiredRetention    float64 `koanf:"base_desired_retention"`
	ShortTermLearningRate   float64 `koanf:"short_term_learning_rate"`
	MediumTermLearningRate  float64 `koanf:"medium_term_learning_rate"`
	LongTermLearningRate    float64 `koanf:"long_term_learning_rate"`
	CompositeWeightShort    float64 `koanf:"composite_weight_short"`
	CompositeWeightMedium   float64 `koanf:"composite_weight_medium"`
	CompositeWeightLong     float64 `koanf:"composite_weight_long"`
	ConsolidationRateScale  float64 `koanf:"consolidation_rate_scale"`
	ConsolidationBonus      float64 `koanf:"consolidation_bonus"`
	HalfLifeBaseEpsilon     float64 `koanf:"half_life_base_epsilon"`
	HalfLifeTimeUnitSecs    float64 `koanf:"half_life_time_unit_secs"`

	// RecallRiskBonus/RecallRiskThreshold let the word selector's review
	// scoring add an extra bump for words whose recall probability is
	// approaching the risk threshold from above, via a sigmoid centered on
	// the threshold rather than a hard cutoff.
	RecallRiskBonus     float64 `koanf:"recall_risk_bonus"`
	RecallRiskThreshold float64 `koanf:"recall_risk_threshold"`
}

func DefaultMemoryModelConfig() MemoryModelConfig {
	return MemoryModelConfig{
		BaseDesiredRetention:   0.90,
		ShortTermLearningRate:  0.35,
		MediumTermLearningRate: 0.15,
		LongTermLearningRate:   0.05,
		CompositeWeightShort:   0.2,
		CompositeWeightMedium:  0.3,
		CompositeWeightLong:    0.5,
		ConsolidationRateScale: 0.02,
		ConsolidationBonus:     0.2,
		HalfLifeBaseEpsilon:    0.05,
		HalfLifeTimeUnitSecs:   86400,

		RecallRiskBonus:     0.15,
		RecallRiskThreshold: 0.7,
	}
}

// IADConfig (interference-aware decay) governs how confusable-word pairs
// accelerate each other's forgetting.
type IADConfig struct {
	InterferencePenaltyFactor float64 `koanf:"interference_penalty_factor"`
	InterferencePenaltyCap    float64 `koanf:"interference_penalty_cap"`
	ConfusionDecayRate        float64 `koanf:"confusion_decay_rate"`
	ConfusionUpdateIncrement  float64 `koanf:"confusion_update_increment"`
	NewConfusionInitialScore  float64 `koanf:"new_confusion_initial_score"`
	MaxConfusionPairs         int     `koanf:"max_confusion_pairs"`
	IntervalShorteningFactor  float64 `koanf:"interval_shortening_factor"`
}

func DefaultIADConfig() IADConfig {
	return IADConfig{
		InterferencePenaltyFactor: 0.5,
		InterferencePenaltyCap:    0.3,
		ConfusionDecayRate:        0.1,
		ConfusionUpdateIncrement:  0.2,
		NewConfusionInitialScore:  0.3,
		MaxConfusionPairs:         10,
		IntervalShorteningFactor:  0.4,
	}
}

// MTPConfig (morpheme transfer prediction) governs how known morphemes
// boost learning efficiency for words sharing them.
type MTPConfig struct {
	MorphemeTransferCoeff  float64 `koanf:"morpheme_transfer_coeff"`
	MorphemeBonusCap       float64 `koanf:"morpheme_bonus_cap"`
	KnownMorphemeDecay     float64 `koanf:"known_morpheme_decay"`
	NewMorphemeInitialCoeff float64 `koanf:"new_morpheme_initial_coeff"`
	MaxKnownMorphemes      int     `koanf:"max_known_morphemes"`
}

func DefaultMTPConfig() MTPConfig {
	return MTPConfig{
		MorphemeTransferCoeff:   0.3,
		MorphemeBonusCap:        0.2,
		KnownMorphemeDecay:      0.9,
		NewMorphemeInitialCoeff: 0.5,
		MaxKnownMorphemes:       200,
	}
}

// EloConfig tunes the learner/word ELO pair and the Gaussian window used
// to score a match as being inside the learner's zone of proximal
// development (ZPD).
type EloConfig struct {
	DefaultElo          float64 `koanf:"default_elo"`
	KFactor             float64 `koanf:"k_factor"`
	NoviceGameThreshold uint32  `koanf:"novice_game_threshold"`
	NoviceKMultiplier   float64 `koanf:"novice_k_multiplier"`
	WordKFactorRatio    float64 `koanf:"word_k_factor_ratio"`
	MinElo              float64 `koanf:"min_elo"`
	MaxElo              float64 `koanf:"max_elo"`
	ZPDOptimalOffset    float64 `koanf:"zpd_optimal_offset"`
	ZPDGaussianSigma    float64 `koanf:"zpd_gaussian_sigma"`
}

func DefaultEloConfig() EloConfig {
	return EloConfig{
		DefaultElo:          1200,
		KFactor:             24,
		NoviceGameThreshold: 20,
		NoviceKMultiplier:   1.5,
		WordKFactorRatio:    0.5,
		MinElo:              100,
		MaxElo:              3000,
		ZPDOptimalOffset:    50,
		ZPDGaussianSigma:    150,
	}
}

// IGEConfig tunes the interval-gain-estimator bandit algorithm's
// exploration/exploitation tradeoff over difficulty/new-ratio bins.
type IGEConfig struct {
	UCBConfidenceCoeff float64 `koanf:"ucb_confidence_coeff"`
	BatchSize          uint32  `koanf:"batch_size"`
	IntervalScale      float64 `koanf:"interval_scale"`
	DefaultConfidence  float64 `koanf:"default_confidence"`
}

func DefaultIGEConfig() IGEConfig {
	return IGEConfig{UCBConfidenceCoeff: 2.0, BatchSize: 10, IntervalScale: 1.0, DefaultConfidence: 0.4}
}

// SWDConfig tunes the similarity-weighted-decision algorithm's history
// retention and fallback behavior.
type SWDConfig struct {
	MaxHistorySize        int     `koanf:"max_history_size"`
	FallbackConfidence     float64 `koanf:"fallback_confidence"`
	HistoryFilterThreshold float64 `koanf:"history_filter_threshold"`
	SimilarityCacheTTLSecs uint64  `koanf:"similarity_cache_ttl_secs"`
}

func DefaultSWDConfig() SWDConfig {
	return SWDConfig{MaxHistorySize: 200, FallbackConfidence: 0.3, HistoryFilterThreshold: 0.0, SimilarityCacheTTLSecs: 60}
}

// WordSelectorConfig tunes the top-K partial selection and proportional
// new/review interleaving the word selector performs once the engine has
// decided a StrategyParams.
type WordSelectorConfig struct {
	CandidatePoolSize int `koanf:"candidate_pool_size"`

	// NewWordGaussianSigma shapes how sharply a new word's score falls off
	// as its authored difficulty diverges from the strategy's target
	// difficulty.
	NewWordGaussianSigma float64 `koanf:"new_word_gaussian_sigma"`
	// SigmoidSteepness shapes the recall-risk sigmoid bonus in review-word
	// scoring.
	SigmoidSteepness float64 `koanf:"sigmoid_steepness"`

	// ReviewUCBWeight/ReviewUCBMaxBonus shape the explore bonus review
	// scoring adds for words with few recorded attempts relative to the
	// review population, capped so it can never dominate the recall-risk
	// term.
	ReviewUCBWeight   float64 `koanf:"review_ucb_weight"`
	ReviewUCBMaxBonus float64 `koanf:"review_ucb_max_bonus"`

	// ErrorProneBonus adds flat score to a candidate the caller flagged as
	// error-prone in the session's SessionSelectionContext.
	ErrorProneBonus float64 `koanf:"error_prone_bonus"`
	// RecentlyMasteredBonus adds flat score to a candidate the caller
	// flagged as recently mastered, but only when its recall probability
	// has already dropped below RecallMasteredThreshold — a just-mastered
	// word whose recall is still high doesn't need the nudge.
	RecentlyMasteredBonus    float64 `koanf:"recently_mastered_bonus"`
	RecallMasteredThreshold  float64 `koanf:"recall_mastered_threshold"`
}

func DefaultWordSelectorConfig() WordSelectorConfig {
	return WordSelectorConfig{
		CandidatePoolSize: 100,

		NewWordGaussianSigma: 0.3,
		SigmoidSteepness:     6.0,

		ReviewUCBWeight:   0.1,
		ReviewUCBMaxBonus: 0.2,

		ErrorProneBonus: 0.15,

		RecentlyMasteredBonus:   0.1,
		RecallMasteredThreshold: 0.6,
	}
}

// LearningStrategyConfig tunes the simpler, config-only strategy the engine
// derives directly from UserState when the full ensemble pipeline isn't
// warranted (ComputeStrategyFromState): a handful of threshold/adjustment
// pairs rather than a learned model.
type LearningStrategyConfig struct {
	// ConfidenceBoostThreshold/ConfidenceDifficultyBoost: once confidence
	// clears the threshold, difficulty is nudged up by the boost amount.
	ConfidenceBoostThreshold  float64 `koanf:"confidence_boost_threshold"`
	ConfidenceDifficultyBoost float64 `koanf:"confidence_difficulty_boost"`
	// MotivationRatioThreshold/MotivationRatioBoost: once motivation clears
	// the threshold, the new-word ratio is nudged up by the boost amount.
	MotivationRatioThreshold float64 `koanf:"motivation_ratio_threshold"`
	MotivationRatioBoost     float64 `koanf:"motivation_ratio_boost"`
	// FatigueReductionThreshold/FatigueBatchScale/FatigueDifficultyDrop:
	// once fatigue clears the threshold, batch size is scaled down and
	// difficulty dropped by the given amount.
	FatigueReductionThreshold float64 `koanf:"fatigue_reduction_threshold"`
	FatigueBatchScale         float64 `koanf:"fatigue_batch_scale"`
	FatigueDifficultyDrop     float64 `koanf:"fatigue_difficulty_drop"`
}

func DefaultLearningStrategyConfig() LearningStrategyConfig {
	return LearningStrategyConfig{
		ConfidenceBoostThreshold:  0.7,
		ConfidenceDifficultyBoost: 0.1,

		MotivationRatioThreshold: 0.5,
		MotivationRatioBoost:     0.1,

		FatigueReductionThreshold: 0.6,
		FatigueBatchScale:         0.7,
		FatigueDifficultyDrop:     0.1,
	}
}

// ClassifierConfig tunes the LearnerType classifier behind the read-only
// Engine.ClassifyLearnerType diagnostic: an AUC-style weighted blend of cognitive
// profile dimensions compared against two thresholds to pick Fast, Stable,
// or Cautious.
type ClassifierConfig struct {
	ProcessingSpeedWeight float64 `koanf:"processing_speed_weight"`
	MemoryCapacityWeight  float64 `koanf:"memory_capacity_weight"`
	StabilityWeight       float64 `koanf:"stability_weight"`
	FastLearnerThreshold  float64 `koanf:"fast_learner_threshold"`
	StableLearnerThreshold float64 `koanf:"stable_learner_threshold"`
}

func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		ProcessingSpeedWeight: 0.4,
		MemoryCapacityWeight:  0.35,
		StabilityWeight:       0.25,
		FastLearnerThreshold:  0.7,
		StableLearnerThreshold: 0.45,
	}
}

// RewardConfig tunes how computeReward folds speed, fatigue, and
// frustration signals into the scalar reward the ensemble's trust update
// and the two bandit algorithms (IGE, SWD) all consume.
type RewardConfig struct {
	// SpeedRewardScale converts the normalized response-speed feature into
	// a reward contribution.
	SpeedRewardScale float64 `koanf:"speed_reward_scale"`
	// FatiguePenaltyThreshold/FatiguePenaltyScale: once fatigue clears the
	// threshold, the whole fatigue value is scaled into a reward penalty.
	FatiguePenaltyThreshold float64 `koanf:"fatigue_penalty_threshold"`
	FatiguePenaltyScale     float64 `koanf:"fatigue_penalty_scale"`
	// FrustrationPenaltyThreshold/FrustrationPenaltyScale: once the
	// frustration signal (negated motivation) clears the threshold, the
	// whole frustration value is scaled into a reward penalty.
	FrustrationPenaltyThreshold float64 `koanf:"frustration_penalty_threshold"`
	FrustrationPenaltyScale     float64 `koanf:"frustration_penalty_scale"`
}

func DefaultRewardConfig() RewardConfig {
	return RewardConfig{
		SpeedRewardScale: 0.3,

		FatiguePenaltyThreshold: 0.6,
		FatiguePenaltyScale:     0.5,

		FrustrationPenaltyThreshold: 0.5,
		FrustrationPenaltyScale:     0.6,
	}
}

// Config is the complete, hot-reloadable AMAS configuration surface: every
// sub-config any algorithm, the memory model, the ensemble, the word
// selector, or the monitor reads.
type Config struct {
	FeatureFlags     FeatureFlags           `koanf:"feature_flags"`
	Ensemble         EnsembleConfig         `koanf:"ensemble"`
	Modeling         ModelingConfig         `koanf:"modeling"`
	FatigueDecay     FatigueDecayConfig     `koanf:"fatigue_decay"`
	Feature          FeatureConfig          `koanf:"feature"`
	Constraints      ConstraintConfig       `koanf:"constraints"`
	Monitoring       MonitoringConfig       `koanf:"monitoring"`
	ColdStart        ColdStartConfig        `koanf:"cold_start"`
	ObjectiveWeights ObjectiveWeights       `koanf:"objective_weights"`
	MemoryModel      MemoryModelConfig      `koanf:"memory_model"`
	IAD              IADConfig              `koanf:"iad"`
	MTP              MTPConfig              `koanf:"mtp"`
	Elo              EloConfig              `koanf:"elo"`
	IGE              IGEConfig              `koanf:"ige"`
	SWD              SWDConfig              `koanf:"swd"`
	WordSelector     WordSelectorConfig     `koanf:"word_selector"`
	LearningStrategy LearningStrategyConfig `koanf:"learning_strategy"`
	Classifier       ClassifierConfig       `koanf:"classifier"`
	Reward           RewardConfig           `koanf:"reward"`
}

// DefaultConfig returns the full AMAS configuration at its documented
// default values.
func DefaultConfig() Config {
	return Config{
		FeatureFlags:     DefaultFeatureFlags(),
		Ensemble:         DefaultEnsembleConfig(),
		Modeling:         DefaultModelingConfig(),
		FatigueDecay:     DefaultFatigueDecayConfig(),
		Feature:          DefaultFeatureConfig(),
		Constraints:      DefaultConstraintConfig(),
		Monitoring:       DefaultMonitoringConfig(),
		ColdStart:        DefaultColdStartConfig(),
		ObjectiveWeights: DefaultObjectiveWeights(),
		MemoryModel:      DefaultMemoryModelConfig(),
		IAD:              DefaultIADConfig(),
		MTP:              DefaultMTPConfig(),
		Elo:              DefaultEloConfig(),
		IGE:              DefaultIGEConfig(),
		SWD:              DefaultSWDConfig(),
		WordSelector:     DefaultWordSelectorConfig(),
		LearningStrategy: DefaultLearningStrategyConfig(),
		Classifier:       DefaultClassifierConfig(),
		Reward:           DefaultRewardConfig(),
	}
}

// Validate enforces the range invariants the engine's arithmetic assumes.
// It mirrors the original's validation exactly for the fields that existed
// there, and extends it with range checks for the supplemental sub-configs.
func (c Config) Validate() error {
	if c.Monitoring.SampleRate < 0 || c.Monitoring.SampleRate > 1 {
		return fmt.Errorf("monitoring.sample_rate must be in [0,1]")
	}

	if c.Constraints.HighFatigueThreshold < 0 || c.Constraints.HighFatigueThreshold > 1 ||
		c.Constraints.LowAttentionThreshold < 0 || c.Constraints.LowAttentionThreshold > 1 ||
		c.Constraints.LowMotivationThreshold < -1 || c.Constraints.LowMotivationThreshold > 1 {
		return fmt.Errorf("invalid constraint thresholds")
	}

	if c.Ensemble.BaseWeightHeuristic <= 0 || c.Ensemble.BaseWeightIGE <= 0 || c.Ensemble.BaseWeightSWD <= 0 {
		return fmt.Errorf("ensemble base weights must be > 0")
	}

	if c.Ensemble.MinWeight <= 0 || c.Ensemble.MinWeight > 1 {
		return fmt.Errorf("ensemble.min_weight must be in (0,1]")
	}

	// The ensemble normalizes exactly three algorithms' trust weights, so no
	// single weight's floor can exceed what leaves the other two a
	// nonnegative share.
	if 3.0*c.Ensemble.MinWeight > 1.0 {
		return fmt.Errorf("ensemble.min_weight too large: 3 * min_weight must be <= 1.0")
	}

	if c.ObjectiveWeights.Retention < 0 || c.ObjectiveWeights.Accuracy < 0 ||
		c.ObjectiveWeights.Speed < 0 || c.ObjectiveWeights.Fatigue < 0 ||
		c.ObjectiveWeights.Frustration < 0 {
		return fmt.Errorf("objective_weights must be >= 0")
	}

	sum := c.ObjectiveWeights.Retention + c.ObjectiveWeights.Accuracy + c.ObjectiveWeights.Speed +
		c.ObjectiveWeights.Fatigue + c.ObjectiveWeights.Frustration
	if sum <= 0 {
		return fmt.Errorf("objective_weights sum must be > 0")
	}

	if c.MemoryModel.BaseDesiredRetention <= 0 || c.MemoryModel.BaseDesiredRetention >= 1 {
		return fmt.Errorf("memory_model.base_desired_retention must be in (0,1)")
	}
	if c.MemoryModel.HalfLifeTimeUnitSecs <= 0 {
		return fmt.Errorf("memory_model.half_life_time_unit_secs must be > 0")
	}

	if c.Elo.ZPDGaussianSigma <= 0 {
		return fmt.Errorf("elo.zpd_gaussian_sigma must be > 0")
	}

	if c.WordSelector.CandidatePoolSize <= 0 {
		return fmt.Errorf("word_selector.candidate_pool_size must be > 0")
	}
	if c.WordSelector.NewWordGaussianSigma <= 0 {
		return fmt.Errorf("word_selector.new_word_gaussian_sigma must be > 0")
	}

	if c.Reward.SpeedRewardScale < 0 || c.Reward.FatiguePenaltyScale < 0 || c.Reward.FrustrationPenaltyScale < 0 {
		return fmt.Errorf("reward scale factors must be >= 0")
	}

	if c.Constraints.MinDifficulty < 0 || c.Constraints.MinDifficulty > 1 {
		return fmt.Errorf("constraints.min_difficulty must be in [0,1]")
	}

	return nil
}
