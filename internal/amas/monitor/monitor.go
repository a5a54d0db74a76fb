// Package monitor implements the engine's invariant-sampling monitor:
// every processed event is checked against the hard range invariants the
// rest of the engine assumes, anomalies are always persisted, and a
// configurable fraction of non-anomalous events are persisted too so
// operators retain a representative trace without storing every event.
package monitor

import (
	"context"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
	"github.com/Heartcoolman/wordforge-sub000/internal/logging"
	"github.com/Heartcoolman/wordforge-sub000/internal/store"
)

// InvariantViolation records one field whose value fell outside the range
// the engine's arithmetic assumes.
type InvariantViolation struct {
	Field         string  `json:"field"`
	Value         float64 `json:"value"`
	ExpectedRange string  `json:"expectedRange"`
}

// Event is the durable record of one processed event's health, persisted
// under store.TreeMonitoringEvents.
type Event struct {
	ID                       string               `json:"id"`
	UserID                   string               `json:"userId"`
	SessionID                string               `json:"sessionId"`
	EventType                string               `json:"eventType"`
	Timestamp                time.Time            `json:"timestamp"`
	LatencyMs                int64                `json:"latencyMs"`
	IsAnomaly                bool                 `json:"isAnomaly"`
	InvariantViolations      []InvariantViolation `json:"invariantViolations"`
	State                    amas.UserState       `json:"userState"`
	Strategy                 amas.StrategyParams  `json:"strategy"`
	Reward                   amas.Reward          `json:"reward"`
	ColdStartPhase           *amas.ColdStartPhase `json:"coldStartPhase,omitempty"`
	SelectionConstraintsMet  bool                 `json:"selectionConstraintsMet"`
	RewardValue              float64              `json:"rewardValue"`
}

func checkRange(violations []InvariantViolation, field string, value, min, max float64) []InvariantViolation {
	expected := rangeLabel(min, max)
	if value != value { // NaN
		return append(violations, InvariantViolation{Field: field, Value: value, ExpectedRange: expected})
	}
	if value < min || value > max {
		return append(violations, InvariantViolation{Field: field, Value: value, ExpectedRange: expected})
	}
	return violations
}

func rangeLabel(min, max float64) string {
	return "[" + strconv.FormatFloat(min, 'g', -1, 64) + ", " + strconv.FormatFloat(max, 'g', -1, 64) + "]"
}

// CheckInvariants checks every scalar the engine's downstream arithmetic
// assumes is range-bound, returning every violation found (not just the
// first).
func CheckInvariants(result amas.ProcessResult) []InvariantViolation {
	var violations []InvariantViolation

	violations = checkRange(violations, "attention", result.State.Attention, 0.0, 1.0)
	violations = checkRange(violations, "fatigue", result.State.Fatigue, 0.0, 1.0)
	violations = checkRange(violations, "confidence", result.State.Confidence, 0.0, 1.0)
	violations = checkRange(violations, "motivation", result.State.Motivation, -1.0, 1.0)

	violations = checkRange(violations, "difficulty", result.Strategy.Difficulty, 0.0, 1.0)
	violations = checkRange(violations, "new_ratio", result.Strategy.NewRatio, 0.0, 1.0)

	if result.Strategy.BatchSize < 1 {
		violations = append(violations, InvariantViolation{
			Field:         "batch_size",
			Value:         float64(result.Strategy.BatchSize),
			ExpectedRange: ">= 1",
		})
	}

	return violations
}

// ShouldSample decides whether this round's event gets persisted: always
// for an anomaly, always while the user is still in a cold-start phase
// (their early events are the ones operators most want visibility into),
// otherwise a random sample at sampleRate.
func ShouldSample(isAnomaly bool, coldStartPhase *amas.ColdStartPhase, sampleRate float64) bool {
	if isAnomaly {
		return true
	}
	if coldStartPhase != nil {
		return true
	}
	return rand.Float64() < sampleRate
}

// RecordEvent checks invariants, decides whether to sample, and if so
// persists the event and logs a warning for any anomaly found.
func RecordEvent(
	ctx context.Context,
	st *store.Store,
	userID, sessionID string,
	result amas.ProcessResult,
	latencyMs int64,
	cfg amas.MonitoringConfig,
	preConstraintStrategy amas.StrategyParams,
) {
	violations := CheckInvariants(result)
	isAnomaly := len(violations) > 0

	if !ShouldSample(isAnomaly, result.ColdStartPhase, cfg.SampleRate) {
		return
	}

	event := Event{
		ID:                      uuid.NewString(),
		UserID:                  userID,
		SessionID:               sessionID,
		EventType:               "process_event",
		Timestamp:               time.Now().UTC(),
		LatencyMs:               latencyMs,
		IsAnomaly:               isAnomaly,
		InvariantViolations:     violations,
		State:                   result.State,
		Strategy:                result.Strategy,
		Reward:                  result.Reward,
		ColdStartPhase:          result.ColdStartPhase,
		SelectionConstraintsMet: result.Strategy == preConstraintStrategy,
		RewardValue:             result.Reward.Value,
	}

	if isAnomaly {
		logging.Warn().
			Str("userId", userID).
			Interface("violations", event.InvariantViolations).
			Msg("AMAS invariant violation")
	}

	key, err := store.MonitoringEventKey(event.Timestamp.UnixMilli(), event.ID)
	if err != nil {
		logging.Err(err).Msg("failed to build monitoring event key")
		return
	}
	if err := st.PutTree(ctx, store.TreeMonitoringEvents, key, event); err != nil {
		logging.Err(err).Msg("failed to persist monitoring event")
	}
}
