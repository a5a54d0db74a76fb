package metrics

import "testing"

func TestRecordEngineProcessDoesNotPanic(t *testing.T) {
	RecordEngineProcess(0, nil)
	RecordEngineProcess(0, errTest)
	RecordEngineError("validation")
}

func TestRecordStoreOperationClassifiesError(t *testing.T) {
	RecordStoreOperation("get", "users", 0, nil)
	RecordStoreOperation("get", "users", 0, errTest)
	if got := ClassifyError(errTest); got != "error" {
		t.Errorf("ClassifyError(errTest) = %q, want %q", got, "error")
	}
}

func TestSetEnsembleWeightAndColdStart(t *testing.T) {
	SetEnsembleWeight("heuristic", 0.2)
	RecordColdStartTransition("classify", "explore")
	RecordInvariantViolation("fatigue")
	RecordMonitoringEvent("anomaly")
	RecordWordSelector(0, 42, nil)
	RecordCASRetry("word_mastery")
	SetUserLockMapSize(3)
	RecordBackgroundJob("monitoring_sweep", 0)
	RecordBackgroundJobSkipped("monitoring_sweep")
}

type testError struct{}

func (testError) Error() string { return "test error" }

var errTest error = testError{}
