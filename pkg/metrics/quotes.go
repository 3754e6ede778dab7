package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QuoteMetrics records sale-time pricing activity by sale mode.
type QuoteMetrics struct {
	duration       *prometheus.HistogramVec
	success        *prometheus.CounterVec
	failure        *prometheus.CounterVec
	committedRows  prometheus.Counter
	commitFailures prometheus.Counter
}

// NewQuoteMetrics registers the quote metrics on the provided registerer.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	if reg == nil {
		return &QuoteMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quote_duration_seconds",
		Help:    "Duration of price quote resolution in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_success",
		Help: "Successful price quotes.",
	}, []string{"mode"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_failure",
		Help: "Failed price quotes.",
	}, []string{"mode"})
	committedRows := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "variation_commit_rows",
		Help: "Variation rows persisted by successful draft commits.",
	})
	commitFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "variation_commit_failure",
		Help: "Draft commits that failed to persist.",
	})
	reg.MustRegister(duration, success, failure, committedRows, commitFailures)
	return &QuoteMetrics{
		duration:       duration,
		success:        success,
		failure:        failure,
		committedRows:  committedRows,
		commitFailures: commitFailures,
	}
}

// ObserveDuration records how long a quote took for the given sale mode.
func (q *QuoteMetrics) ObserveDuration(mode string, duration time.Duration) {
	if q == nil || q.duration == nil {
		return
	}
	q.duration.WithLabelValues(normalizeLabel(mode)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the given sale mode.
func (q *QuoteMetrics) IncSuccess(mode string) {
	if q == nil || q.success == nil {
		return
	}
	q.success.WithLabelValues(normalizeLabel(mode)).Inc()
}

// IncFailure increments the failure counter for the given sale mode.
func (q *QuoteMetrics) IncFailure(mode string) {
	if q == nil || q.failure == nil {
		return
	}
	q.failure.WithLabelValues(normalizeLabel(mode)).Inc()
}

// AddCommittedRows counts rows persisted by a successful draft commit.
func (q *QuoteMetrics) AddCommittedRows(rows int) {
	if q == nil || q.committedRows == nil || rows < 0 {
		return
	}
	q.committedRows.Add(float64(rows))
}

// IncCommitFailure counts a draft commit that failed to persist.
func (q *QuoteMetrics) IncCommitFailure() {
	if q == nil || q.commitFailures == nil {
		return
	}
	q.commitFailures.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
