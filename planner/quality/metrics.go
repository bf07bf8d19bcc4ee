package quality

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/trainplan/trainplan/planner"
)

const (
	metricsNamespace = "trainplan"
	plannerSubsystem = "planner"
)

// OutcomeRecord is one generation outcome kept for offline reporting.
type OutcomeRecord struct {
	Time           time.Time                  `yaml:"time"`
	Status         planner.OptimizationStatus `yaml:"status"`
	RelaxationStep int                        `yaml:"relaxation_step"`
	Movements      int                        `yaml:"movements"`
	Circuits       int                        `yaml:"circuits"`
	Duration       float64                    `yaml:"duration_minutes"`
	KPIResults     []Result                   `yaml:"kpi_results,omitempty"`
}

// MetricsTracker records generation outcomes and KPI verdicts, both as
// prometheus metrics and as an in-memory run log. Trackers never feed back
// into selection.
type MetricsTracker struct {
	sessionsTotal  *prometheus.CounterVec
	kpiChecksTotal *prometheus.CounterVec
	movementScore  prometheus.Histogram
	duration       prometheus.Histogram
	relaxationStep prometheus.Histogram

	mu      sync.Mutex
	records []OutcomeRecord
}

// NewMetricsTracker registers the tracker's metrics on reg. Passing
// prometheus.DefaultRegisterer wires the process-global registry; tests pass
// a fresh registry.
func NewMetricsTracker(reg prometheus.Registerer) *MetricsTracker {
	factory := promauto.With(reg)
	return &MetricsTracker{
		sessionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: plannerSubsystem,
			Name:      "sessions_total",
			Help:      "Generated sessions by optimization status and relaxation step.",
		}, []string{"status", "relaxation_step"}),
		kpiChecksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: plannerSubsystem,
			Name:      "kpi_checks_total",
			Help:      "Quality KPI checks by KPI name and verdict.",
		}, []string{"kpi", "passed"}),
		movementScore: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: plannerSubsystem,
			Name:      "movement_score",
			Help:      "Total scores of selected movements.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: plannerSubsystem,
			Name:      "session_duration_minutes",
			Help:      "Estimated durations of generated sessions.",
			Buckets:   prometheus.LinearBuckets(0, 15, 10),
		}),
		relaxationStep: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: plannerSubsystem,
			Name:      "relaxation_step",
			Help:      "Relaxation step at which sessions were produced.",
			Buckets:   prometheus.LinearBuckets(0, 1, 7),
		}),
	}
}

// RecordOptimization records one solver outcome.
func (t *MetricsTracker) RecordOptimization(result *planner.OptimizationResult) {
	t.sessionsTotal.WithLabelValues(string(result.Status), strconv.Itoa(result.RelaxationStep)).Inc()
	t.duration.Observe(result.EstimatedDurationMinutes)
	t.relaxationStep.Observe(float64(result.RelaxationStep))
	for _, m := range result.SelectedMovements {
		if sc, ok := result.Scores[m.ID]; ok {
			t.movementScore.Observe(sc.TotalScore)
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = append(t.records, OutcomeRecord{
		Time:           time.Now().UTC(),
		Status:         result.Status,
		RelaxationStep: result.RelaxationStep,
		Movements:      len(result.SelectedMovements),
		Circuits:       len(result.SelectedCircuits),
		Duration:       result.EstimatedDurationMinutes,
	})
}

// RecordKPI records one KPI verdict, attaching it to the most recent outcome.
func (t *MetricsTracker) RecordKPI(result Result) {
	t.kpiChecksTotal.WithLabelValues(result.Name, strconv.FormatBool(result.Passed)).Inc()
	t.mu.Lock()
	defer t.mu.Unlock()
	if n := len(t.records); n > 0 {
		t.records[n-1].KPIResults = append(t.records[n-1].KPIResults, result)
	}
}

// Records returns a copy of the run log.
func (t *MetricsTracker) Records() []OutcomeRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]OutcomeRecord, len(t.records))
	copy(out, t.records)
	return out
}
