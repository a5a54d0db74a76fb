package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// EventLogger provides specialized logging for AMAS ingress-event
// processing: ProcessEvent pipeline runs, monitoring samples, and
// background-job sweeps.
type EventLogger struct {
	logger zerolog.Logger
}

// NewEventLogger creates a logger configured for event processing, using
// the global logger with a "component" field.
func NewEventLogger() *EventLogger {
	return &EventLogger{
		logger: With().Str("component", "amas-engine").Logger(),
	}
}

// NewEventLoggerWithLogger creates an EventLogger with a custom logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value (copy-on-write semantics)
func NewEventLoggerWithLogger(logger zerolog.Logger) *EventLogger {
	return &EventLogger{
		logger: logger.With().Str("component", "amas-engine").Logger(),
	}
}

// WithFields returns a new EventLogger with additional default fields.
func (e *EventLogger) WithFields(fields map[string]interface{}) *EventLogger {
	ctx := e.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &EventLogger{logger: ctx.Logger()}
}

func (e *EventLogger) Debug(msg string, fields ...interface{}) {
	event := e.logger.Debug()
	event = addFieldPairs(event, fields)
	event.Msg(msg)
}

func (e *EventLogger) Info(msg string, fields ...interface{}) {
	event := e.logger.Info()
	event = addFieldPairs(event, fields)
	event.Msg(msg)
}

func (e *EventLogger) Warn(msg string, fields ...interface{}) {
	event := e.logger.Warn()
	event = addFieldPairs(event, fields)
	event.Msg(msg)
}

func (e *EventLogger) Error(msg string, fields ...interface{}) {
	event := e.logger.Error()
	event = addFieldPairs(event, fields)
	event.Msg(msg)
}

func (e *EventLogger) InfoContext(ctx context.Context, msg string, fields ...interface{}) {
	logger := e.loggerWithContext(ctx)
	event := logger.Info()
	event = addFieldPairs(event, fields)
	event.Msg(msg)
}

func (e *EventLogger) WarnContext(ctx context.Context, msg string, fields ...interface{}) {
	logger := e.loggerWithContext(ctx)
	event := logger.Warn()
	event = addFieldPairs(event, fields)
	event.Msg(msg)
}

func (e *EventLogger) ErrorContext(ctx context.Context, msg string, fields ...interface{}) {
	logger := e.loggerWithContext(ctx)
	event := logger.Error()
	event = addFieldPairs(event, fields)
	event.Msg(msg)
}

func (e *EventLogger) loggerWithContext(ctx context.Context) zerolog.Logger {
	logCtx := e.logger.With()

	if correlationID := CorrelationIDFromContext(ctx); correlationID != "" {
		logCtx = logCtx.Str("correlation_id", correlationID)
	}
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		logCtx = logCtx.Str("request_id", requestID)
	}

	return logCtx.Logger()
}

// LogEventReceived logs an ingress event as it enters ProcessEvent.
func (e *EventLogger) LogEventReceived(ctx context.Context, eventID, userID, eventType string) {
	e.InfoContext(ctx, "amas event received",
		"event_id", eventID,
		"user_id", userID,
		"event_type", eventType,
	)
}

// LogEventProcessed logs a successful ProcessEvent run.
func (e *EventLogger) LogEventProcessed(ctx context.Context, eventID string, durationMs int64) {
	e.InfoContext(ctx, "amas event processed",
		"event_id", eventID,
		"duration_ms", durationMs,
	)
}

// LogEventFailed logs a failed ProcessEvent run.
func (e *EventLogger) LogEventFailed(ctx context.Context, eventID string, err error) {
	logger := e.loggerWithContext(ctx)
	logger.Error().
		Str("event_id", eventID).
		Err(err).
		Msg("amas event processing failed")
}

// LogInvariantViolation logs a sampled invariant violation.
func (e *EventLogger) LogInvariantViolation(ctx context.Context, userID, field string, value float64) {
	logger := e.loggerWithContext(ctx)
	logger.Warn().
		Str("user_id", userID).
		Str("field", field).
		Float64("value", value).
		Msg("amas invariant violation")
}

// LogJobRun logs a completed background job run.
func (e *EventLogger) LogJobRun(job string, durationMs int64, processed int) {
	e.Info("background job completed",
		"job", job,
		"duration_ms", durationMs,
		"processed", processed,
	)
}

// LogJobSkipped logs a background job run skipped due to overlap.
func (e *EventLogger) LogJobSkipped(job string) {
	e.Warn("background job skipped: previous run still in flight", "job", job)
}
