// Package metrics records verification counters for seqcheck runs.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

const namespace = "seqcheck"

// Outcome labels for CasesTotal.
const (
	OutcomeHolds   = "holds"
	OutcomeFails   = "fails"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

// Recorder groups the collectors of one registry.
type Recorder struct {
	registry *prometheus.Registry

	// CasesTotal counts verified cases.
	// Labels: check, outcome (holds, fails, error, skipped)
	CasesTotal *prometheus.CounterVec

	// IssuesTotal counts reported issues.
	// Labels: check, severity
	IssuesTotal *prometheus.CounterVec

	// CheckDuration measures one check run over one case.
	// Labels: check
	CheckDuration *prometheus.HistogramVec

	// FilesTotal counts processed case files.
	// Labels: status (ok, cached, error)
	FilesTotal *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		CasesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "cases_total",
			Help:      "Total cases verified, by check and outcome",
		}, []string{"check", "outcome"}),
		IssuesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "issues_total",
			Help:      "Total issues reported, by check and severity",
		}, []string{"check", "severity"}),
		CheckDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "check_duration_seconds",
			Help:      "Time to run one check over one case",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}, []string{"check"}),
		FilesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "files",
			Name:      "processed_total",
			Help:      "Total case files processed, by status",
		}, []string{"status"}),
	}
}

// RecordCase is nil-safe so callers without metrics can pass a nil Recorder.
func (r *Recorder) RecordCase(check, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.CasesTotal.WithLabelValues(check, outcome).Inc()
	r.CheckDuration.WithLabelValues(check).Observe(elapsed.Seconds())
}

func (r *Recorder) RecordIssue(check, severity string) {
	if r == nil {
		return
	}
	r.IssuesTotal.WithLabelValues(check, severity).Inc()
}

func (r *Recorder) RecordFile(status string) {
	if r == nil {
		return
	}
	r.FilesTotal.WithLabelValues(status).Inc()
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteText dumps every collected family in the Prometheus text format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("error gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("error writing metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
