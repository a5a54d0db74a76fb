// Package engine ties every amas subpackage together into one per-event
// pipeline: load durable state, derive this event's features, update the
// psychometric model, generate and blend strategy proposals, update the
// per-word memory model, apply safety constraints, and persist everything
// atomically. This is the only package that talks to internal/store on
// behalf of the scheduler.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"golang.org/x/time/rate"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
	"github.com/Heartcoolman/wordforge-sub000/internal/amas/decision"
	"github.com/Heartcoolman/wordforge-sub000/internal/amas/ensemble"
	"github.com/Heartcoolman/wordforge-sub000/internal/amas/memory"
	"github.com/Heartcoolman/wordforge-sub000/internal/amas/monitor"
	"github.com/Heartcoolman/wordforge-sub000/internal/logging"
	"github.com/Heartcoolman/wordforge-sub000/internal/metrics"
	"github.com/Heartcoolman/wordforge-sub000/internal/store"
)

const (
	userLockCleanupThreshold = 500
	signalThreshold          = 0.5
	trendBaseline            = 0.5

	// eventRateLimitPerSecond/eventRateLimitBurst bound how fast a single
	// user's events may enter the pipeline, sharing the per-user
	// concurrency substrate below rather than a separate subsystem. This
	// protects the per-user lock from a misbehaving client spinning a
	// tight loop of events for one user; it is not a cross-user limit.
	eventRateLimitPerSecond = 50
	eventRateLimitBurst     = 20

	rateLimiterCleanupThreshold = 500
	rateLimiterIdleTTL          = 10 * time.Minute
)

// ErrRateLimited is returned when a user exceeds the event submission rate.
var ErrRateLimited = errors.New("engine: event rate limit exceeded")

// sanitizeFloat replaces a NaN or infinite value with default before it
// is persisted, so one bad division never poisons a durable record.
func sanitizeFloat(value, deflt float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return deflt
	}
	return value
}

func clampUnit(v float64) float64 { return clampRange(v, 0, 1) }

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AlgoStates bundles the three per-user algorithm memories that persist
// across events but aren't part of UserState itself.
type AlgoStates struct {
	IGE   decision.IgeState    `json:"ige"`
	SWD   decision.SwdState    `json:"swd"`
	Trust ensemble.TrustScores `json:"trust"`
}

// DefaultAlgoStates seeds a brand-new user's algorithm memory.
func DefaultAlgoStates() AlgoStates {
	return AlgoStates{
		IGE:   decision.NewIgeState(),
		Trust: ensemble.DefaultTrustScores(),
	}
}

// userLock is one user's serialization point, reference-counted so the
// map pruning pass can tell an idle entry (refs == 0, nobody currently
// holds or is waiting on it) from one a goroutine is still using. This is
// the Go-idiomatic replacement for a strong-count check on a shared
// pointer: refs is mutated only while the map's own mutex is held, so the
// prune pass never races a concurrent acquire/release.
type userLock struct {
	mu   sync.Mutex
	refs int32
}

type userLockMap struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

func newUserLockMap() *userLockMap {
	return &userLockMap{locks: make(map[string]*userLock)}
}

func (m *userLockMap) acquire(userID string) *userLock {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.locks) > userLockCleanupThreshold {
		before := len(m.locks)
		for id, l := range m.locks {
			if l.refs == 0 {
				delete(m.locks, id)
			}
		}
		removed := before - len(m.locks)
		if removed > 0 {
			logging.Info().
				Int("before_count", before).
				Int("after_count", len(m.locks)).
				Int("removed_count", removed).
				Msg("pruned idle user locks")
		}
		metrics.SetUserLockMapSize(len(m.locks))
	}

	l, ok := m.locks[userID]
	if !ok {
		l = &userLock{}
		m.locks[userID] = l
	}
	l.refs++
	return l
}

func (m *userLockMap) release(l *userLock) {
	m.mu.Lock()
	l.refs--
	m.mu.Unlock()
}

// userRateLimiterEntry pairs a token-bucket limiter with the last time it
// was consulted, so the map can forget users who have gone idle.
type userRateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// userRateLimiterMap is the rate-limiting substrate sharing this package's
// per-user concurrency model: one token bucket per user, keyed the same
// way as userLockMap, pruned the same way on the same threshold.
type userRateLimiterMap struct {
	mu       sync.Mutex
	limiters map[string]*userRateLimiterEntry
}

func newUserRateLimiterMap() *userRateLimiterMap {
	return &userRateLimiterMap{limiters: make(map[string]*userRateLimiterEntry)}
}

func (m *userRateLimiterMap) allow(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.limiters) > rateLimiterCleanupThreshold {
		cutoff := time.Now().Add(-rateLimiterIdleTTL)
		for id, entry := range m.limiters {
			if entry.lastAccess.Before(cutoff) {
				delete(m.limiters, id)
			}
		}
	}

	entry, ok := m.limiters[userID]
	if !ok {
		entry = &userRateLimiterEntry{
			limiter: rate.NewLimiter(rate.Limit(eventRateLimitPerSecond), eventRateLimitBurst),
		}
		m.limiters[userID] = entry
	}
	entry.lastAccess = time.Now()
	return entry.limiter.Allow()
}

// Engine is the AMAS scheduler's top-level entry point: one instance per
// running process, shared across every request goroutine.
type Engine struct {
	mu     sync.RWMutex
	config amas.Config

	store       *store.Store
	userLocks   *userLockMap
	rateLimiter *userRateLimiterMap
	logger      *slog.Logger
}

// New constructs an Engine around an already-open store and a validated
// starting configuration.
func New(cfg amas.Config, st *store.Store) *Engine {
	return &Engine{
		config:      cfg,
		store:       st,
		userLocks:   newUserLockMap(),
		rateLimiter: newUserRateLimiterMap(),
		logger:      logging.NewSlogLogger(),
	}
}

// ReloadConfig swaps the engine's live configuration after validating it,
// so an operator can push a config hot-reload without restarting.
func (e *Engine) ReloadConfig(cfg amas.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	e.mu.Lock()
	e.config = cfg
	e.mu.Unlock()
	logging.Info().Msg("AMAS config reloaded")
	return nil
}

// Config returns a copy of the engine's current configuration.
func (e *Engine) Config() amas.Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config
}

func (e *Engine) acquireUserLock(userID string) (*userLock, func()) {
	l := e.userLocks.acquire(userID)
	l.mu.Lock()
	return l, func() {
		l.mu.Unlock()
		e.userLocks.release(l)
	}
}

// ProcessEvent is the engine's core operation: fold one learner
// interaction into the learner's psychometric state and per-word memory
// trace, decide the next study strategy, and persist the result.
func (e *Engine) ProcessEvent(ctx context.Context, userID string, rawEvent amas.RawEvent) (amas.ProcessResult, error) {
	start := time.Now()

	if !e.rateLimiter.allow(userID) {
		metrics.RecordEngineError("rate_limited")
		return amas.ProcessResult{}, fmt.Errorf("user %s: %w", userID, ErrRateLimited)
	}

	_, unlock := e.acquireUserLock(userID)
	defer unlock()

	cfg := e.Config()

	userState, err := e.loadOrInitState(ctx, userID)
	if err != nil {
		metrics.RecordEngineError("state_load")
		return amas.ProcessResult{}, fmt.Errorf("load user state: %w", err)
	}
	algoStates, err := e.loadAlgoStates(ctx, userID)
	if err != nil {
		metrics.RecordEngineError("algo_state_load")
		return amas.ProcessResult{}, fmt.Errorf("load algo states: %w", err)
	}

	now := time.Now().UTC()
	feature := e.buildFeatureVector(rawEvent, userState, cfg, now)
	updateModeling(&userState, feature, cfg)

	coldStartPhase := determineColdStartPhase(userState, cfg)

	candidates := e.generateCandidates(userState, feature, &algoStates, cfg)
	finalStrategy, weights := e.ensembleOrFallback(candidates, userState, algoStates, cfg)

	reward := computeReward(feature, userState, cfg)
	wordMastery, err := e.updateMemory(ctx, userID, rawEvent, feature, finalStrategy, userState, cfg, now)
	if err != nil {
		metrics.RecordEngineError("memory_update")
		return amas.ProcessResult{}, fmt.Errorf("update memory: %w", err)
	}

	constrainedStrategy := applyConstraints(finalStrategy, userState, cfg)

	updateTrustScores(&algoStates, candidates, reward.Value, userState, weights, cfg, now)

	userState.SessionEventCount++
	userState.TotalEventCount++
	lastActive := now
	userState.LastActiveAt = &lastActive

	currentSessionID := ""
	if rawEvent.SessionID != nil {
		currentSessionID = *rawEvent.SessionID
	}
	if currentSessionID != "" {
		sessionChanged := userState.LastSessionID == nil || *userState.LastSessionID != currentSessionID
		if sessionChanged {
			userState.SessionEventCount = 1
			sid := currentSessionID
			userState.LastSessionID = &sid
		}
	}

	if err := e.persistState(ctx, userID, userState, algoStates); err != nil {
		metrics.RecordEngineError("persist")
		return amas.ProcessResult{}, fmt.Errorf("persist state: %w", err)
	}

	explanation := buildExplanation(constrainedStrategy, userState, weights)

	sessionID := currentSessionID
	if sessionID == "" {
		sessionID = userID + "-session"
	}

	result := amas.ProcessResult{
		SessionID:      sessionID,
		Strategy:       constrainedStrategy,
		Explanation:    explanation,
		State:          userState,
		WordMastery:    wordMastery,
		Reward:         reward,
		ColdStartPhase: coldStartPhase,
	}

	latencyMs := time.Since(start).Milliseconds()
	monitor.RecordEvent(ctx, e.store, userID, sessionID, result, latencyMs, cfg.Monitoring, finalStrategy)

	metrics.RecordEngineProcess(time.Since(start), nil)
	return result, nil
}

// UpdateVisualFatigue blends an externally-measured (e.g. webcam-derived)
// visual fatigue score into the behavioral fatigue signal, weighted by
// config; visualScore is on a 0-100 scale.
func (e *Engine) UpdateVisualFatigue(ctx context.Context, userID string, visualScore float64) (amas.UserState, error) {
	_, unlock := e.acquireUserLock(userID)
	defer unlock()

	cfg := e.Config()
	userState, err := e.loadOrInitState(ctx, userID)
	if err != nil {
		return amas.UserState{}, fmt.Errorf("load user state: %w", err)
	}

	visualFatigue := clampUnit(visualScore / 100.0)
	userState.VisualFatigue = visualFatigue

	w := cfg.Modeling.VisualFatigueWeight
	userState.Fatigue = clampUnit((1.0-w)*userState.Fatigue + w*visualFatigue)
	userState.Fatigue = clampUnit(sanitizeFloat(userState.Fatigue, 0.0))

	userKey, err := store.EngineUserStateKey(userID)
	if err != nil {
		return amas.UserState{}, fmt.Errorf("engine user state key: %w", err)
	}
	if err := e.store.PutTree(ctx, store.TreeEngineUserStates, userKey, userState); err != nil {
		return amas.UserState{}, fmt.Errorf("persist user state: %w", err)
	}
	return userState, nil
}

// UserState returns the learner's current durable state, initializing it
// if this is their first interaction.
func (e *Engine) UserState(ctx context.Context, userID string) (amas.UserState, error) {
	return e.loadOrInitState(ctx, userID)
}

// ComputeStrategyFromState derives a strategy directly from UserState
// using the engine's current config, without running the full decision
// ensemble; used by callers that only want a cheap, approximate strategy
// (e.g. a UI preview) rather than a full ProcessEvent round trip.
func (e *Engine) ComputeStrategyFromState(userState amas.UserState) amas.StrategyParams {
	return ComputeStrategyFromStateWithConfig(userState, e.Config())
}

// ComputeStrategyFromStateWithConfig is the pure form of
// ComputeStrategyFromState, exported so a caller that already holds a
// config snapshot (e.g. mid-reload) gets exact rather than best-effort
// results.
func ComputeStrategyFromStateWithConfig(userState amas.UserState, cfg amas.Config) amas.StrategyParams {
	ls := cfg.LearningStrategy
	strategy := amas.DefaultStrategyParams()

	if userState.Confidence > ls.ConfidenceBoostThreshold {
		strategy.Difficulty = math.Min(strategy.Difficulty+ls.ConfidenceDifficultyBoost, 1.0)
	}
	if userState.Motivation > ls.MotivationRatioThreshold {
		strategy.NewRatio = math.Min(strategy.NewRatio+ls.MotivationRatioBoost, 1.0)
	}
	if userState.Fatigue > ls.FatigueReductionThreshold {
		strategy.BatchSize = uint32(math.Max(float64(strategy.BatchSize)*ls.FatigueBatchScale, 3.0))
		strategy.Difficulty = math.Max(strategy.Difficulty-ls.FatigueDifficultyDrop, 0.1)
	}

	return strategy
}

// Phase reports where a learner currently sits in the cold-start
// lifecycle.
func (e *Engine) Phase(ctx context.Context, userID string) (*amas.ColdStartPhase, error) {
	state, err := e.loadOrInitState(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user state: %w", err)
	}
	return determineColdStartPhase(state, e.Config()), nil
}

// ResetUserState wipes a learner's psychometric state and algorithm
// memory back to their zero values, leaving per-word mastery untouched.
func (e *Engine) ResetUserState(ctx context.Context, userID string) error {
	userKey, err := store.EngineUserStateKey(userID)
	if err != nil {
		return fmt.Errorf("engine user state key: %w", err)
	}
	if err := e.store.PutTree(ctx, store.TreeEngineUserStates, userKey, amas.UserState{}); err != nil {
		return fmt.Errorf("reset user state: %w", err)
	}
	for _, algo := range []string{"ige", "swd", "trust"} {
		key, err := store.EngineAlgoStateKey(userID, algo)
		if err != nil {
			return fmt.Errorf("reset algo state key: %w", err)
		}
		if err := e.store.DeleteTree(ctx, store.TreeEngineAlgorithmState, key); err != nil {
			return fmt.Errorf("reset algo state %s: %w", algo, err)
		}
	}
	return nil
}

// UpdateTemporalProfile folds one completed session's performance into
// the learner's hour-of-day habit profile via exponential smoothing.
func (e *Engine) UpdateTemporalProfile(ctx context.Context, userID string, hour uint8, accuracy, avgResponseTimeMs, masteryEfficiency float64) error {
	_, unlock := e.acquireUserLock(userID)
	defer unlock()

	cfg := e.Config()
	userState, err := e.loadOrInitState(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user state: %w", err)
	}

	stats := &userState.HabitProfile.TemporalPerformance
	idx := int(hour)
	if idx > 23 {
		idx = 23
	}
	h := &stats.HourlyStats[idx]

	alpha := cfg.Feature.TemporalProfileAlpha
	if h.SessionCount == 0 {
		h.AvgAccuracy = accuracy
		h.AvgResponseTimeMs = avgResponseTimeMs
		h.MasteryEfficiency = masteryEfficiency
	} else {
		h.AvgAccuracy = h.AvgAccuracy*(1.0-alpha) + accuracy*alpha
		h.AvgResponseTimeMs = h.AvgResponseTimeMs*(1.0-alpha) + avgResponseTimeMs*alpha
		h.MasteryEfficiency = h.MasteryEfficiency*(1.0-alpha) + masteryEfficiency*alpha
	}
	h.SessionCount++
	stats.TotalSessions++

	userKey, err := store.EngineUserStateKey(userID)
	if err != nil {
		return fmt.Errorf("engine user state key: %w", err)
	}
	if err := e.store.PutTree(ctx, store.TreeEngineUserStates, userKey, userState); err != nil {
		return fmt.Errorf("persist user state: %w", err)
	}
	return nil
}

// TemporalBoost reports the new-word-ratio multiplier this hour's
// historical performance earns the learner; 1.0 (neutral) if there isn't
// enough history for this hour yet.
func (e *Engine) TemporalBoost(ctx context.Context, userID string, hour uint8) (float64, error) {
	cfg := e.Config()
	state, err := e.loadOrInitState(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load user state: %w", err)
	}

	idx := int(hour)
	if idx > 23 {
		idx = 23
	}
	h := state.HabitProfile.TemporalPerformance.HourlyStats[idx]
	if h.SessionCount == 0 {
		return 1.0, nil
	}

	f := cfg.Feature
	boost := f.TemporalBoostBase + h.MasteryEfficiency*f.TemporalBoostScale
	return clampRange(boost, f.TemporalBoostMin, f.TemporalBoostMax), nil
}

func (e *Engine) loadOrInitState(ctx context.Context, userID string) (amas.UserState, error) {
	userKey, err := store.EngineUserStateKey(userID)
	if err != nil {
		return amas.UserState{}, fmt.Errorf("engine user state key: %w", err)
	}

	var state amas.UserState
	getErr := e.store.GetTree(ctx, store.TreeEngineUserStates, "engine_user_state", userKey, &state)
	if getErr == nil {
		return state, nil
	}
	if isNotFound(getErr) {
		return amas.NewUserState(time.Now().UTC()), nil
	}
	return amas.UserState{}, getErr
}

func (e *Engine) loadAlgoStates(ctx context.Context, userID string) (AlgoStates, error) {
	states := DefaultAlgoStates()

	if key, err := store.EngineAlgoStateKey(userID, "ige"); err == nil {
		var s decision.IgeState
		if getErr := e.store.GetTree(ctx, store.TreeEngineAlgorithmState, "engine_algo_state", key, &s); getErr == nil {
			states.IGE = s
		} else if !isNotFound(getErr) {
			logging.Warn().Str("userId", userID).Str("algo", "ige").Err(getErr).Msg("algo state deserialization failed, using default")
		}
	}

	if key, err := store.EngineAlgoStateKey(userID, "swd"); err == nil {
		var s decision.SwdState
		if getErr := e.store.GetTree(ctx, store.TreeEngineAlgorithmState, "engine_algo_state", key, &s); getErr == nil {
			states.SWD = s
		} else if !isNotFound(getErr) {
			logging.Warn().Str("userId", userID).Str("algo", "swd").Err(getErr).Msg("algo state deserialization failed, using default")
		}
	}

	if key, err := store.EngineAlgoStateKey(userID, "trust"); err == nil {
		var s ensemble.TrustScores
		if getErr := e.store.GetTree(ctx, store.TreeEngineAlgorithmState, "engine_algo_state", key, &s); getErr == nil {
			states.Trust = s
		} else if !isNotFound(getErr) {
			logging.Warn().Str("userId", userID).Str("algo", "trust").Err(getErr).Msg("algo state deserialization failed, using default")
		}
	}

	return states, nil
}

func isNotFound(err error) bool {
	var notFound *store.NotFoundError
	return errors.As(err, &notFound)
}

func (e *Engine) buildFeatureVector(event amas.RawEvent, state amas.UserState, cfg amas.Config, now time.Time) amas.FeatureVector {
	m := cfg.Modeling
	accuracy := 0.0
	if event.IsCorrect {
		accuracy = 1.0
	}
	rt := event.ResponseTimeMs
	if rt < 0 {
		rt = 0
	}
	responseSpeed := clampUnit(1.0 - float64(rt)/m.ResponseSpeedMaxMs)

	f := cfg.Feature
	hintPenalty := 0.0
	if event.HintUsed {
		hintPenalty = f.HintPenalty
	}
	quality := clampUnit(accuracy*f.QualityAccuracyWeight + responseSpeed*f.QualitySpeedWeight - hintPenalty)
	engagement := computeEngagement(event, m)

	timeSinceLast := 0.0
	if state.LastActiveAt != nil {
		timeSinceLast = now.Sub(*state.LastActiveAt).Seconds()
		if timeSinceLast < 0 {
			timeSinceLast = 0
		}
	}

	return amas.FeatureVector{
		Accuracy:               accuracy,
		ResponseSpeed:          responseSpeed,
		Quality:                quality,
		Engagement:             engagement,
		HintPenalty:            hintPenalty,
		TimeSinceLastEventSecs: timeSinceLast,
		SessionEventCount:      state.SessionEventCount,
		IsQuit:                 event.IsQuit,
	}
}

func computeEngagement(event amas.RawEvent, m amas.ModelingConfig) float64 {
	score := 1.0
	if event.PauseCount != nil {
		p := *event.PauseCount
		if p < 0 {
			p = 0
		}
		score -= math.Min(float64(p)*m.EngagementPausePenalty, m.EngagementPausePenaltyMax)
	}
	if event.SwitchCount != nil {
		s := *event.SwitchCount
		if s < 0 {
			s = 0
		}
		score -= math.Min(float64(s)*m.EngagementSwitchPenalty, m.EngagementSwitchPenaltyMax)
	}
	if event.FocusLossDurationMs != nil {
		fl := *event.FocusLossDurationMs
		if fl < 0 {
			fl = 0
		}
		score -= math.Min(float64(fl)/m.EngagementFocusLossBaseMs, m.EngagementFocusLossPenaltyMax)
	}
	return clampUnit(score)
}

func updateModeling(state *amas.UserState, feature amas.FeatureVector, cfg amas.Config) {
	m := cfg.Modeling

	state.Attention = clampUnit(state.Attention*(1.0-m.AttentionSmoothing) + feature.Engagement*m.AttentionSmoothing)

	fd := cfg.FatigueDecay
	if feature.TimeSinceLastEventSecs >= fd.FullResetThresholdSecs {
		state.Fatigue = 0.0
	} else if feature.TimeSinceLastEventSecs > fd.DecayStartThresholdSecs {
		elapsedInDecay := feature.TimeSinceLastEventSecs - fd.DecayStartThresholdSecs
		decayFactor := math.Exp(-elapsedInDecay / fd.DecayTimeConstantSecs)
		state.Fatigue *= decayFactor
	}

	if feature.IsQuit {
		state.Fatigue = math.Min(state.Fatigue+m.FatigueQuitIncrease, 1.0)
	} else {
		state.Fatigue = math.Min(state.Fatigue+m.FatigueIncreaseRate, 1.0)
	}

	motivationSignal := cfg.Feature.MotivationNegativeSignal
	if feature.Accuracy > signalThreshold {
		motivationSignal = cfg.Feature.MotivationPositiveSignal
	}
	state.Motivation = clampRange(state.Motivation*(1.0-m.MotivationMomentum)+motivationSignal*m.MotivationMomentum, -1.0, 1.0)

	confidenceSignal := cfg.Feature.ConfidenceNegativeSignal
	if feature.Quality > signalThreshold {
		confidenceSignal = cfg.Feature.ConfidencePositiveSignal
	}
	state.Confidence = clampRange(state.Confidence*m.ConfidenceDecay+confidenceSignal, m.MinConfidence, 1.0)

	alpha := m.CognitiveProfileAlpha
	state.CognitiveProfile.ProcessingSpeed = state.CognitiveProfile.ProcessingSpeed*(1.0-alpha) + feature.ResponseSpeed*alpha
	state.CognitiveProfile.MemoryCapacity = state.CognitiveProfile.MemoryCapacity*(1.0-alpha) + feature.Accuracy*alpha
	state.CognitiveProfile.Stability = state.CognitiveProfile.Stability*(1.0-alpha) + feature.Quality*alpha

	trendAlpha := m.TrendAlpha
	state.TrendState.AccuracyTrend = state.TrendState.AccuracyTrend*(1.0-trendAlpha) + (feature.Accuracy-trendBaseline)*trendAlpha
	state.TrendState.SpeedTrend = state.TrendState.SpeedTrend*(1.0-trendAlpha) + (feature.ResponseSpeed-trendBaseline)*trendAlpha
	state.TrendState.EngagementTrend = state.TrendState.EngagementTrend*(1.0-trendAlpha) + (feature.Engagement-trendBaseline)*trendAlpha
}

func determineColdStartPhase(state amas.UserState, cfg amas.Config) *amas.ColdStartPhase {
	cs := cfg.ColdStart
	switch {
	case state.TotalEventCount < cs.ClassifyToExploreEvents:
		phase := amas.ColdStartClassify
		return &phase
	case state.TotalEventCount < cs.ExploreToExploitEvents:
		phase := amas.ColdStartExplore
		return &phase
	default:
		return nil
	}
}

// ClassifyLearnerType reports the learner's cognitive-profile-derived
// classification; a read-only diagnostic, not a gating value.
func (e *Engine) ClassifyLearnerType(ctx context.Context, userID string) (amas.LearnerType, error) {
	cfg := e.Config()
	state, err := e.loadOrInitState(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load user state: %w", err)
	}
	return classifyLearnerType(state, cfg.Classifier), nil
}

func classifyLearnerType(state amas.UserState, cl amas.ClassifierConfig) amas.LearnerType {
	cp := state.CognitiveProfile
	auc := cp.ProcessingSpeed*cl.ProcessingSpeedWeight +
		cp.MemoryCapacity*cl.MemoryCapacityWeight +
		cp.Stability*cl.StabilityWeight

	switch {
	case auc > cl.FastLearnerThreshold:
		return amas.LearnerFast
	case auc > cl.StableLearnerThreshold:
		return amas.LearnerStable
	default:
		return amas.LearnerCautious
	}
}

func (e *Engine) generateCandidates(state amas.UserState, feature amas.FeatureVector, algoStates *AlgoStates, cfg amas.Config) []amas.DecisionCandidate {
	var candidates []amas.DecisionCandidate

	if cfg.FeatureFlags.HeuristicEnabled {
		start := time.Now()
		candidates = append(candidates, decision.GenerateHeuristic(state, feature, cfg))
		metrics.RecordDecisionAlgorithm(string(amas.AlgorithmHeuristic), time.Since(start))
	}

	if cfg.FeatureFlags.IGEEnabled {
		start := time.Now()
		candidates = append(candidates, decision.GenerateIGE(algoStates.IGE, cfg.IGE))
		metrics.RecordDecisionAlgorithm(string(amas.AlgorithmIGE), time.Since(start))
	}

	if cfg.FeatureFlags.SWDEnabled {
		start := time.Now()
		candidates = append(candidates, decision.GenerateSWD(state, algoStates.SWD, cfg.SWD, start))
		metrics.RecordDecisionAlgorithm(string(amas.AlgorithmSWD), time.Since(start))
	}

	return candidates
}

func (e *Engine) ensembleOrFallback(candidates []amas.DecisionCandidate, state amas.UserState, algoStates AlgoStates, cfg amas.Config) (amas.StrategyParams, map[amas.AlgorithmID]float64) {
	if len(candidates) == 0 {
		return amas.DefaultStrategyParams(), map[amas.AlgorithmID]float64{}
	}

	if cfg.FeatureFlags.EnsembleEnabled && len(candidates) > 1 {
		weights := ensemble.WeightsForCandidates(candidates, state.TotalEventCount, algoStates.Trust, cfg.Ensemble)
		for id, w := range weights {
			metrics.SetEnsembleWeight(string(id), w)
		}
		strategy := ensemble.Merge(candidates, weights, e.logger)
		return strategy, weights
	}

	chosen := candidates[0]
	for _, c := range candidates[1:] {
		if c.Confidence > chosen.Confidence {
			chosen = c
		}
	}
	return chosen.Strategy, map[amas.AlgorithmID]float64{chosen.AlgorithmID: 1.0}
}

func computeReward(feature amas.FeatureVector, state amas.UserState, cfg amas.Config) amas.Reward {
	r := cfg.Reward
	accuracyReward := feature.Accuracy
	speedReward := feature.ResponseSpeed * r.SpeedRewardScale

	fatiguePenalty := 0.0
	if state.Fatigue > r.FatiguePenaltyThreshold {
		fatiguePenalty = state.Fatigue * r.FatiguePenaltyScale
	}

	frustrationPenalty := 0.0
	if frustration := -state.Motivation; frustration > r.FrustrationPenaltyThreshold {
		frustrationPenalty = frustration * r.FrustrationPenaltyScale
	}

	value := accuracyReward + speedReward - fatiguePenalty - frustrationPenalty

	return amas.Reward{
		Value: clampRange(value, -1.0, 1.0),
		Components: amas.RewardComponents{
			AccuracyReward:     accuracyReward,
			SpeedReward:        speedReward,
			FatiguePenalty:     fatiguePenalty,
			FrustrationPenalty: frustrationPenalty,
		},
	}
}

// EvaluateObjective folds a reward breakdown and a retention signal into
// one weighted objective score. Not called from ProcessEvent: the
// original computed this every round and never read the result, which
// would be dead work repeated on every hot-path event here. Exported for
// callers that want an ad-hoc score breakdown (e.g. an admin diagnostics
// endpoint) without paying for it on every ProcessEvent call.
func EvaluateObjective(reward amas.Reward, retentionSignal float64, cfg amas.Config) amas.ObjectiveEvaluation {
	w := cfg.ObjectiveWeights
	score := reward.Components.AccuracyReward*w.Accuracy +
		reward.Components.SpeedReward*w.Speed +
		retentionSignal*w.Retention -
		reward.Components.FatiguePenalty*w.Fatigue -
		reward.Components.FrustrationPenalty*w.Frustration

	return amas.ObjectiveEvaluation{
		Score:              score,
		RetentionGain:      retentionSignal,
		AccuracyGain:       reward.Components.AccuracyReward,
		SpeedGain:          reward.Components.SpeedReward,
		FatiguePenalty:     reward.Components.FatiguePenalty,
		FrustrationPenalty: reward.Components.FrustrationPenalty,
	}
}

// wordMorphemeRecord is the minimal shape of a catalog word's persisted
// morpheme breakdown; only the text of each morpheme is needed here.
type wordMorphemeRecord struct {
	Morphemes []struct {
		Text string `json:"text"`
	} `json:"morphemes"`
}

func (e *Engine) updateMemory(
	ctx context.Context,
	userID string,
	rawEvent amas.RawEvent,
	feature amas.FeatureVector,
	strategy amas.StrategyParams,
	userState amas.UserState,
	cfg amas.Config,
	now time.Time,
) (*amas.WordMasteryDecision, error) {
	if rawEvent.WordID == "" {
		return nil, nil
	}

	masteryKey, err := store.EngineAlgoStateKey(userID, "mastery:"+rawEvent.WordID)
	if err != nil {
		return nil, fmt.Errorf("mastery key: %w", err)
	}

	var masteryState memory.WordMasteryState
	if getErr := e.store.GetTree(ctx, store.TreeEngineAlgorithmState, "mastery_state", masteryKey, &masteryState); getErr != nil {
		if !isNotFound(getErr) {
			logging.Warn().Str("wordId", rawEvent.WordID).Err(getErr).Msg("mastery state deserialization failed, creating new")
		}
		masteryState = memory.NewWordMasteryState(rawEvent.WordID)
	}

	adjustedIntervalScale := strategy.IntervalScale

	if cfg.FeatureFlags.IADEnabled {
		iadKey, keyErr := store.EngineAlgoStateKey(userID, "iad")
		if keyErr != nil {
			return nil, fmt.Errorf("iad key: %w", keyErr)
		}

		var iadState memory.IadState
		_ = e.store.GetTree(ctx, store.TreeEngineAlgorithmState, "iad_state", iadKey, &iadState)

		penalty := memory.InterferencePenalty(rawEvent.WordID, iadState, cfg.IAD)
		factor := memory.IntervalExtensionFactor(penalty, cfg.IAD)
		adjustedIntervalScale *= factor

		if rawEvent.ConfusedWith != nil && *rawEvent.ConfusedWith != "" {
			memory.RecordConfusion(&iadState, rawEvent.WordID, *rawEvent.ConfusedWith, cfg.IAD.ConfusionDecayRate, cfg.IAD)
			if putErr := e.store.PutTree(ctx, store.TreeEngineAlgorithmState, iadKey, iadState); putErr != nil {
				logging.Err(putErr).Str("userId", userID).Msg("failed to persist iad state")
			}
		}
	}

	if cfg.FeatureFlags.MTPEnabled {
		mtpKey, keyErr := store.EngineAlgoStateKey(userID, "mtp")
		if keyErr != nil {
			return nil, fmt.Errorf("mtp key: %w", keyErr)
		}

		var mtpState memory.MtpState
		_ = e.store.GetTree(ctx, store.TreeEngineAlgorithmState, "mtp_state", mtpKey, &mtpState)

		var record wordMorphemeRecord
		var wordMorphemes []string
		if morphemeKey, keyErr := store.WordMorphemeKey(rawEvent.WordID); keyErr == nil {
			if getErr := e.store.GetTree(ctx, store.TreeWordMorphemes, "word_morphemes", morphemeKey, &record); getErr == nil {
				for _, m := range record.Morphemes {
					if m.Text != "" {
						wordMorphemes = append(wordMorphemes, m.Text)
					}
				}
			}
		}

		if len(wordMorphemes) > 0 {
			bonus := memory.MorphemeTransferBonus(wordMorphemes, mtpState.KnownMorphemes, cfg.MTP)
			if bonus > 0 {
				adjustedIntervalScale *= 1.0 + bonus
			}

			if rawEvent.IsCorrect {
				memory.UpdateKnownMorphemes(&mtpState, wordMorphemes, feature.Quality, cfg.MTP)
				if putErr := e.store.PutTree(ctx, store.TreeEngineAlgorithmState, mtpKey, mtpState); putErr != nil {
					logging.Err(putErr).Str("userId", userID).Msg("failed to persist mtp state")
				}
			}
		}
	}

	desiredRetention := memory.AdaptiveDesiredRetention(cfg.MemoryModel.BaseDesiredRetention, feature.Accuracy, userState.Fatigue, userState.Motivation)

	masteryDecision := memory.UpdateMastery(&masteryState, rawEvent.IsCorrect, feature.Quality, adjustedIntervalScale, desiredRetention, cfg.MemoryModel, now)

	if err := e.store.PutTree(ctx, store.TreeEngineAlgorithmState, masteryKey, masteryState); err != nil {
		return nil, fmt.Errorf("persist mastery state: %w", err)
	}

	return &masteryDecision, nil
}

func applyConstraints(strategy amas.StrategyParams, state amas.UserState, cfg amas.Config) amas.StrategyParams {
	c := cfg.Constraints

	if state.Fatigue > c.HighFatigueThreshold {
		strategy.BatchSize = minU32(strategy.BatchSize, c.MaxBatchSizeWhenFatigued)
		strategy.NewRatio = math.Min(strategy.NewRatio, c.MaxNewRatioWhenFatigued)
		strategy.Difficulty = math.Min(strategy.Difficulty, c.MaxDifficultyWhenFatigued)
	}

	if state.Attention < c.LowAttentionThreshold {
		strategy.ReviewMode = true
		strategy.NewRatio = 0.0
	}

	if state.Motivation < c.LowMotivationThreshold {
		strategy.Difficulty = math.Max(strategy.Difficulty-c.LowMotivationDifficultyDrop, c.MinDifficulty)
		strategy.NewRatio = math.Max(strategy.NewRatio-c.LowMotivationRatioDrop, 0.0)
	}

	strategy.Difficulty = clampUnit(strategy.Difficulty)
	strategy.NewRatio = clampUnit(strategy.NewRatio)
	if strategy.BatchSize < 1 {
		strategy.BatchSize = 1
	}
	if strategy.IntervalScale < 0.1 {
		strategy.IntervalScale = 0.1
	}

	return strategy
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func updateTrustScores(
	algoStates *AlgoStates,
	candidates []amas.DecisionCandidate,
	reward float64,
	state amas.UserState,
	weights map[amas.AlgorithmID]float64,
	cfg amas.Config,
	now time.Time,
) {
	for _, candidate := range candidates {
		weight := weights[candidate.AlgorithmID]
		learningRate := cfg.Feature.TrustBaseLearningRate * (cfg.Feature.TrustWeightBlend + weight)
		ensemble.UpdateTrust(&algoStates.Trust, candidate.AlgorithmID, reward, learningRate)

		switch candidate.AlgorithmID {
		case amas.AlgorithmIGE:
			decision.UpdateIGE(&algoStates.IGE, candidate.Strategy, reward)
		case amas.AlgorithmSWD:
			decision.UpdateSWD(&algoStates.SWD, state, candidate.Strategy, reward, cfg.SWD, now)
		}
	}
}

func (e *Engine) persistState(ctx context.Context, userID string, userState amas.UserState, algoStates AlgoStates) error {
	userState.Attention = clampUnit(sanitizeFloat(userState.Attention, 0.5))
	userState.Fatigue = clampUnit(sanitizeFloat(userState.Fatigue, 0.0))
	userState.Motivation = clampRange(sanitizeFloat(userState.Motivation, 0.0), -1.0, 1.0)
	userState.Confidence = clampUnit(sanitizeFloat(userState.Confidence, 0.5))
	userState.CognitiveProfile.MemoryCapacity = clampUnit(sanitizeFloat(userState.CognitiveProfile.MemoryCapacity, 0.5))
	userState.CognitiveProfile.ProcessingSpeed = clampUnit(sanitizeFloat(userState.CognitiveProfile.ProcessingSpeed, 0.5))
	userState.CognitiveProfile.Stability = clampUnit(sanitizeFloat(userState.CognitiveProfile.Stability, 0.5))

	userKey, err := store.EngineUserStateKey(userID)
	if err != nil {
		return fmt.Errorf("engine user state key: %w", err)
	}
	igeKey, err := store.EngineAlgoStateKey(userID, "ige")
	if err != nil {
		return fmt.Errorf("ige key: %w", err)
	}
	swdKey, err := store.EngineAlgoStateKey(userID, "swd")
	if err != nil {
		return fmt.Errorf("swd key: %w", err)
	}
	trustKey, err := store.EngineAlgoStateKey(userID, "trust")
	if err != nil {
		return fmt.Errorf("trust key: %w", err)
	}

	return e.store.Tx(ctx, func(txn *badger.Txn) error {
		if err := store.SetJSON(txn, store.TreeEngineUserStates, userKey, userState); err != nil {
			return err
		}
		if err := store.SetJSON(txn, store.TreeEngineAlgorithmState, igeKey, algoStates.IGE); err != nil {
			return err
		}
		if err := store.SetJSON(txn, store.TreeEngineAlgorithmState, swdKey, algoStates.SWD); err != nil {
			return err
		}
		return store.SetJSON(txn, store.TreeEngineAlgorithmState, trustKey, algoStates.Trust)
	})
}

func buildExplanation(strategy amas.StrategyParams, state amas.UserState, weights map[amas.AlgorithmID]float64) amas.Explanation {
	factors := []amas.ExplanationFactor{
		{
			Name:   "difficulty",
			Value:  strategy.Difficulty,
			Impact: impactLabel(strategy.Difficulty > 0.5, "positive"),
		},
		{
			Name:   "fatigue",
			Value:  state.Fatigue,
			Impact: impactLabel(state.Fatigue > 0.7, "negative"),
		},
	}

	for algo, weight := range weights {
		factors = append(factors, amas.ExplanationFactor{
			Name:   "weight_" + string(algo),
			Value:  weight,
			Impact: "neutral",
		})
	}

	return amas.Explanation{
		PrimaryReason: "Strategy generated by AMAS",
		Factors:       factors,
	}
}

func impactLabel(condition bool, label string) string {
	if condition {
		return label
	}
	return "neutral"
}

