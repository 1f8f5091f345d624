// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Auth metrics
	IncUserRegistered()
	IncLoginAttempt(status string) // status: "success" or "failed"

	// Transaction metrics
	IncTransactionCreated()
	IncTransactionUpdated()
	IncTransactionDeleted()

	// Normalizer metrics
	IncPromptNormalized(status string) // status: "success" or "failed"
	ObserveNormalizeDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
