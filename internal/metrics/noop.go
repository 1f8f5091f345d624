package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncLoginAttempt is a no-op.
func (n *NoopRecorder) IncLoginAttempt(status string) {}

// IncTransactionCreated is a no-op.
func (n *NoopRecorder) IncTransactionCreated() {}

// IncTransactionUpdated is a no-op.
func (n *NoopRecorder) IncTransactionUpdated() {}

// IncTransactionDeleted is a no-op.
func (n *NoopRecorder) IncTransactionDeleted() {}

// IncPromptNormalized is a no-op.
func (n *NoopRecorder) IncPromptNormalized(status string) {}

// ObserveNormalizeDuration is a no-op.
func (n *NoopRecorder) ObserveNormalizeDuration(duration time.Duration) {}
