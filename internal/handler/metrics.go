package handler

import (
	"fmt"
	"net/http"

	"github.com/clarity/clarity/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "clarity_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "clarity_login_attempts_total{status=\"success\"} %d\n", snap.LoginSuccesses)
	writeMetric(w, "clarity_login_attempts_total{status=\"failed\"} %d\n", snap.LoginFailures)

	writeMetric(w, "clarity_transactions_created_total %d\n", snap.TransactionsCreated)
	writeMetric(w, "clarity_transactions_updated_total %d\n", snap.TransactionsUpdated)
	writeMetric(w, "clarity_transactions_deleted_total %d\n", snap.TransactionsDeleted)

	writeMetric(w, "clarity_prompts_normalized_total{status=\"success\"} %d\n", snap.PromptsNormalized)
	writeMetric(w, "clarity_prompts_normalized_total{status=\"failed\"} %d\n", snap.PromptsFailed)
	writeMetric(w, "clarity_normalize_duration_seconds_count %d\n", snap.NormalizeDurationCount)
	writeMetric(w, "clarity_normalize_duration_seconds_sum %.6f\n", float64(snap.NormalizeDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
