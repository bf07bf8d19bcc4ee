package quality

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trainplan/trainplan/planner"
)

func TestMetricsTracker_RecordOptimization(t *testing.T) {
	tracker := NewMetricsTracker(prometheus.NewRegistry())

	result := &planner.OptimizationResult{
		Status:         planner.StatusFeasible,
		RelaxationStep: 1,
		SelectedMovements: []planner.SolverMovement{
			{ID: "back_squat"}, {ID: "bench_press"},
		},
		Scores: map[string]planner.ScoringResult{
			"back_squat":  {MovementID: "back_squat", TotalScore: 0.8},
			"bench_press": {MovementID: "bench_press", TotalScore: 0.75},
		},
		EstimatedDurationMinutes: 48,
	}
	tracker.RecordOptimization(result)

	count := testutil.ToFloat64(tracker.sessionsTotal.WithLabelValues("FEASIBLE", "1"))
	assert.Equal(t, 1.0, count)

	records := tracker.Records()
	require.Len(t, records, 1)
	assert.Equal(t, planner.StatusFeasible, records[0].Status)
	assert.Equal(t, 1, records[0].RelaxationStep)
	assert.Equal(t, 2, records[0].Movements)
	assert.Equal(t, 48.0, records[0].Duration)
}

func TestMetricsTracker_RecordKPI_AttachesToLatestOutcome(t *testing.T) {
	tracker := NewMetricsTracker(prometheus.NewRegistry())
	tracker.RecordOptimization(&planner.OptimizationResult{
		Status: planner.StatusOptimal, RelaxationStep: 0,
	})

	tracker.RecordKPI(Result{Name: "muscle_coverage", Passed: true, Score: 100})
	tracker.RecordKPI(Result{Name: "movement_variety", Passed: false, Score: 55})

	passed := testutil.ToFloat64(tracker.kpiChecksTotal.WithLabelValues("muscle_coverage", "true"))
	failed := testutil.ToFloat64(tracker.kpiChecksTotal.WithLabelValues("movement_variety", "false"))
	assert.Equal(t, 1.0, passed)
	assert.Equal(t, 1.0, failed)

	records := tracker.Records()
	require.Len(t, records, 1)
	require.Len(t, records[0].KPIResults, 2)
	assert.Equal(t, "muscle_coverage", records[0].KPIResults[0].Name)
}

func TestMetricsTracker_KPIWithoutOutcomeDoesNotPanic(t *testing.T) {
	tracker := NewMetricsTracker(prometheus.NewRegistry())
	tracker.RecordKPI(Result{Name: "session_quality", Passed: true, Score: 100})
	assert.Empty(t, tracker.Records())
}

func TestMetricsTracker_RecordsReturnsCopy(t *testing.T) {
	tracker := NewMetricsTracker(prometheus.NewRegistry())
	tracker.RecordOptimization(&planner.OptimizationResult{Status: planner.StatusOptimal})

	records := tracker.Records()
	records[0].Movements = 99
	assert.Equal(t, 0, tracker.Records()[0].Movements)
}
