package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered          uint64 `json:"users_registered"`
	LoginSuccesses           uint64 `json:"login_successes"`
	LoginFailures            uint64 `json:"login_failures"`
	TransactionsCreated      uint64 `json:"transactions_created"`
	TransactionsUpdated      uint64 `json:"transactions_updated"`
	TransactionsDeleted      uint64 `json:"transactions_deleted"`
	PromptsNormalized        uint64 `json:"prompts_normalized"`
	PromptsFailed            uint64 `json:"prompts_failed"`
	NormalizeDurationCount   uint64 `json:"normalize_duration_count"`
	NormalizeDurationTotalNs int64  `json:"normalize_duration_total_ns"`
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	usersRegistered          uint64
	loginSuccesses           uint64
	loginFailures            uint64
	transactionsCreated      uint64
	transactionsUpdated      uint64
	transactionsDeleted      uint64
	promptsNormalized        uint64
	promptsFailed            uint64
	normalizeDurationCount   uint64
	normalizeDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:          atomic.LoadUint64(&m.usersRegistered),
		LoginSuccesses:           atomic.LoadUint64(&m.loginSuccesses),
		LoginFailures:            atomic.LoadUint64(&m.loginFailures),
		TransactionsCreated:      atomic.LoadUint64(&m.transactionsCreated),
		TransactionsUpdated:      atomic.LoadUint64(&m.transactionsUpdated),
		TransactionsDeleted:      atomic.LoadUint64(&m.transactionsDeleted),
		PromptsNormalized:        atomic.LoadUint64(&m.promptsNormalized),
		PromptsFailed:            atomic.LoadUint64(&m.promptsFailed),
		NormalizeDurationCount:   atomic.LoadUint64(&m.normalizeDurationCount),
		NormalizeDurationTotalNs: atomic.LoadInt64(&m.normalizeDurationTotalNs),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLoginAttempt increments the login counter for the given status.
func (m *InMemoryRecorder) IncLoginAttempt(status string) {
	if status == "success" {
		atomic.AddUint64(&m.loginSuccesses, 1)
		return
	}
	atomic.AddUint64(&m.loginFailures, 1)
}

// IncTransactionCreated increments the transaction created counter.
func (m *InMemoryRecorder) IncTransactionCreated() {
	atomic.AddUint64(&m.transactionsCreated, 1)
}

// IncTransactionUpdated increments the transaction updated counter.
func (m *InMemoryRecorder) IncTransactionUpdated() {
	atomic.AddUint64(&m.transactionsUpdated, 1)
}

// IncTransactionDeleted increments the transaction deleted counter.
func (m *InMemoryRecorder) IncTransactionDeleted() {
	atomic.AddUint64(&m.transactionsDeleted, 1)
}

// IncPromptNormalized increments the normalizer counter for the given status.
func (m *InMemoryRecorder) IncPromptNormalized(status string) {
	if status == "success" {
		atomic.AddUint64(&m.promptsNormalized, 1)
		return
	}
	atomic.AddUint64(&m.promptsFailed, 1)
}

// ObserveNormalizeDuration records how long a normalization call took.
func (m *InMemoryRecorder) ObserveNormalizeDuration(duration time.Duration) {
	atomic.AddUint64(&m.normalizeDurationCount, 1)
	atomic.AddInt64(&m.normalizeDurationTotalNs, duration.Nanoseconds())
}
