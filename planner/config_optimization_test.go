package planner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizationConfig_Validate_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*OptimizationConfig)
	}{
		{"zero seconds per set", func(c *OptimizationConfig) { c.Solver.SecondsPerSet = 0 }},
		{"volume reduction at 1", func(c *OptimizationConfig) { c.Solver.VolumeReductionPct = 1.0 }},
		{"negative volume reduction", func(c *OptimizationConfig) { c.Solver.VolumeReductionPct = -0.1 }},
		{"zero muscle cap", func(c *OptimizationConfig) { c.Solver.MaxPerMuscle = 0 }},
		{"relaxation steps above 6", func(c *OptimizationConfig) { c.Solver.MaxRelaxationSteps = intPtr(7) }},
		{"relaxation steps unset", func(c *OptimizationConfig) { c.Solver.MaxRelaxationSteps = nil }},
		{"emergency volume above 1", func(c *OptimizationConfig) { c.Emergency.VolumeMultiplier = 1.5 }},
		{"emergency duration below 1", func(c *OptimizationConfig) { c.Emergency.DurationMultiplier = 0.9 }},
		{"relaxation steps out of order", func(c *OptimizationConfig) {
			c.ProgressiveRelaxation[2].Step = 5
		}},
		{"discipline multiplier above 1", func(c *OptimizationConfig) {
			c.ProgressiveRelaxation[3].DisciplineWeightMultiplier = f64Ptr(1.5)
		}},
		{"warmup range below scale", func(c *OptimizationConfig) { c.RPE.Warmup.Min = 2.0 }},
		{"program main min above max", func(c *OptimizationConfig) {
			p := c.RPE.Programs[ProgramStrength]
			p.Main = RPERange{Min: 9.0, Max: 7.0}
			c.RPE.Programs[ProgramStrength] = p
		}},
		{"missing strength profile", func(c *OptimizationConfig) {
			delete(c.RPE.Programs, ProgramStrength)
		}},
		{"cns cap above scale", func(c *OptimizationConfig) { c.RPE.CNSCap = 11 }},
		{"recovery hours inverted", func(c *OptimizationConfig) {
			c.RPE.Recovery.RPE8Hours = 80
			c.RPE.Recovery.RPE67Hours = 60
		}},
		{"unknown reload mode", func(c *OptimizationConfig) { c.Reload.Mode = "push" }},
		{"zero reload interval", func(c *OptimizationConfig) { c.Reload.IntervalSeconds = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultOptimizationConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGetRelaxationStep(t *testing.T) {
	cfg := DefaultOptimizationConfig()

	step, err := cfg.GetRelaxationStep(3)
	require.NoError(t, err)
	assert.Equal(t, 3, step.Step)
	require.NotNil(t, step.DisciplineWeightMultiplier)
	assert.Equal(t, 0.7, *step.DisciplineWeightMultiplier)

	_, err = cfg.GetRelaxationStep(7)
	assert.Error(t, err)
	_, err = cfg.GetRelaxationStep(-1)
	assert.Error(t, err)
}

func TestLoadOptimizationConfig_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "optimization.yaml")
	doc := `
solver:
  seconds_per_set: 120
  volume_reduction_pct: 0.2
rpe_suggestion:
  cns_cap: 8.0
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := LoadOptimizationConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 120.0, cfg.Solver.SecondsPerSet)
	assert.Equal(t, 0.2, cfg.Solver.VolumeReductionPct)
	assert.Equal(t, 8.0, cfg.RPE.CNSCap)
	// Untouched sections keep their defaults.
	assert.Equal(t, 2, cfg.Solver.MaxPerMuscle)
	assert.Equal(t, ReloadModePoll, cfg.Reload.Mode)
	assert.Len(t, cfg.ProgressiveRelaxation, 7)
}

func TestLoadOptimizationConfig_ZeroRelaxationStepsKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "optimization.yaml")
	doc := `
solver:
  max_relaxation_steps: 0
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	// An explicit zero means strict-only solving; only an omitted field falls
	// back to the default of 6.
	cfg, err := LoadOptimizationConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Solver.MaxRelaxationSteps)
	assert.Equal(t, 0, *cfg.Solver.MaxRelaxationSteps)

	deflt := DefaultOptimizationConfig()
	require.NotNil(t, deflt.Solver.MaxRelaxationSteps)
	assert.Equal(t, 6, *deflt.Solver.MaxRelaxationSteps)
}

func TestLoadOptimizationConfig_InvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "optimization.yaml")
	doc := `
solver:
  volume_reduction_pct: 2.0
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	_, err := LoadOptimizationConfig(path)
	assert.Error(t, err)
}
