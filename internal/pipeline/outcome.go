package pipeline

import "github.com/sells-group/brand-cli/internal/model"

// Outcome is a stage result that records which path produced it. A degraded
// outcome still carries a usable value; a fatal one does not.
type Outcome[T any] struct {
	Value  T
	Status model.StageStatus
	Reason string
}

// Ok wraps a value produced by the primary path.
func Ok[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v, Status: model.StageStatusOK}
}

// Degraded wraps a fallback value and the reason the primary path was skipped.
func Degraded[T any](v T, reason string) Outcome[T] {
	return Outcome[T]{Value: v, Status: model.StageStatusDegraded, Reason: reason}
}

// Fatal reports a stage failure with no usable value.
func Fatal[T any](reason string) Outcome[T] {
	return Outcome[T]{Status: model.StageStatusFatal, Reason: reason}
}

// IsDegraded reports whether a fallback value was used.
func (o Outcome[T]) IsDegraded() bool { return o.Status == model.StageStatusDegraded }

// Report converts the outcome to a stage report.
func (o Outcome[T]) Report(stage string) model.StageReport {
	return model.StageReport{Name: stage, Status: o.Status, Reason: o.Reason}
}
