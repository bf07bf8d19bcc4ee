package planner

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// SolverConfig groups greedy-optimizer constants.
type SolverConfig struct {
	// SecondsPerSet is the modeled wall time of one working set including
	// rest. Movement duration = avg(sets_min, sets_max) * SecondsPerSet.
	SecondsPerSet float64 `yaml:"seconds_per_set"`

	// VolumeReductionPct is subtracted from every target muscle volume before
	// selection starts (fractional, e.g. 0.1 = 10%).
	VolumeReductionPct float64 `yaml:"volume_reduction_pct"`

	// MaxPerMuscle caps how many selected movements may share a primary muscle.
	MaxPerMuscle int `yaml:"max_per_muscle"`

	// OptimalMovementCount is the selection size at which a result is
	// reported OPTIMAL rather than FEASIBLE.
	OptimalMovementCount int `yaml:"optimal_movement_count"`

	AllowCircuits bool `yaml:"allow_circuits"`

	// MaxRelaxationSteps caps the ladder walk; 0 permits only the strict
	// step. Omitted documents default to 6.
	MaxRelaxationSteps *int `yaml:"max_relaxation_steps"`
}

// EmergencyConfig holds the step-6 emergency-mode multipliers.
type EmergencyConfig struct {
	VolumeMultiplier   float64 `yaml:"volume_multiplier"`
	FatigueMultiplier  float64 `yaml:"fatigue_multiplier"`
	DurationMultiplier float64 `yaml:"duration_multiplier"`
}

// RelaxationStepConfig defines the constraint changes one relaxation step adds.
// Steps are cumulative: applying step n layers in steps 1..n over the strict
// step-0 defaults.
type RelaxationStepConfig struct {
	Step                          int      `yaml:"step"`
	PatternCompatibilityExpansion bool     `yaml:"pattern_compatibility_expansion,omitempty"`
	IncludeSynergistMuscles       bool     `yaml:"include_synergist_muscles,omitempty"`
	DisciplineWeightMultiplier    *float64 `yaml:"discipline_weight_multiplier,omitempty"`
	AllowIsolationMovements       bool     `yaml:"allow_isolation_movements,omitempty"`
	AllowGenericMovements         bool     `yaml:"allow_generic_movements,omitempty"`
	EmergencyMode                 bool     `yaml:"emergency_mode,omitempty"`
}

// RPERange is an inclusive effort range on the 1-10 RPE scale.
type RPERange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// RPEProgramProfile carries the base ranges for one program type.
type RPEProgramProfile struct {
	Main      RPERange `yaml:"main"`
	Accessory RPERange `yaml:"accessory"`
}

// FatigueRule is one additive fatigue penalty: when the signal crosses
// Threshold, Penalty (negative) is added to both RPE bounds.
type FatigueRule struct {
	Threshold float64 `yaml:"threshold"`
	Penalty   float64 `yaml:"penalty"`
}

// RPEFatigueConfig parameterizes the fatigue-adjustment stage. SleepVeryLow
// is the deeper sleep bucket and replaces SleepLow when both thresholds are
// crossed; all other rules accumulate independently. HRVDrop triggers on a
// percentage drop beyond its threshold, Soreness on a 0-10 reading above its
// threshold, and ConsecutiveHighDays on a high-RPE day streak at or above its
// threshold.
type RPEFatigueConfig struct {
	SleepLow            FatigueRule `yaml:"sleep_low"`
	SleepVeryLow        FatigueRule `yaml:"sleep_very_low"`
	HRVDrop             FatigueRule `yaml:"hrv_drop"`
	Soreness            FatigueRule `yaml:"soreness"`
	ConsecutiveHighDays FatigueRule `yaml:"consecutive_high_days"`
	FloorMin            float64     `yaml:"floor_min"`
	FloorMax            float64     `yaml:"floor_max"`
}

// RPERecoveryConfig parameterizes the pattern-recovery stage. The hour
// thresholds are keyed by the intensity band of the base max RPE; evaluation
// order and threshold semantics deliberately mirror the shipped tuning tables.
type RPERecoveryConfig struct {
	RPE8Hours  float64 `yaml:"rpe_8"`
	RPE67Hours float64 `yaml:"rpe_6_7"`
	FloorMin   float64 `yaml:"floor_min"`
	FloorMax   float64 `yaml:"floor_max"`
}

// RPEFrequencyCapConfig parameterizes the session high-RPE-set cap.
type RPEFrequencyCapConfig struct {
	HighSetThreshold int     `yaml:"high_set_threshold"` // high-RPE sets already logged
	TriggerMax       float64 `yaml:"trigger_max"`        // cap applies when current max >= this
	CappedMax        float64 `yaml:"capped_max"`
}

// RPEConfig is the rpe_suggestion section of the optimization document.
type RPEConfig struct {
	Warmup   RPERange `yaml:"warmup"`
	Cooldown RPERange `yaml:"cooldown"`

	Programs map[string]RPEProgramProfile `yaml:"programs"`

	// PhaseProgression shifts both bounds of main/accessory ranges per
	// microcycle phase (e.g. deload -2.0, peaking +0.5).
	PhaseProgression map[string]float64 `yaml:"phase_progression"`

	// CNSCap clamps max RPE for high-CNS olympic/powerlifting movements.
	CNSCap float64 `yaml:"cns_cap"`

	Fatigue      RPEFatigueConfig      `yaml:"fatigue"`
	Recovery     RPERecoveryConfig     `yaml:"pattern_recovery"`
	FrequencyCap RPEFrequencyCapConfig `yaml:"frequency_cap"`
}

// ReloadConfig controls optional background hot-reload of both documents.
type ReloadConfig struct {
	Enabled         bool    `yaml:"enabled"`
	IntervalSeconds float64 `yaml:"interval_seconds"`
	// Mode selects the reload trigger: "poll" (mtime polling, default) or
	// "notify" (fsnotify events). Both skip reloads when mtimes are unchanged.
	Mode string `yaml:"mode"`
}

// OptimizationConfig is the optimization configuration document.
type OptimizationConfig struct {
	Solver                SolverConfig           `yaml:"solver"`
	Emergency             EmergencyConfig        `yaml:"emergency"`
	ProgressiveRelaxation []RelaxationStepConfig `yaml:"progressive_relaxation"`
	RPE                   RPEConfig              `yaml:"rpe_suggestion"`
	Reload                ReloadConfig           `yaml:"reload"`
}

// LoadOptimizationConfig reads and parses the optimization YAML document.
// Unknown fields are ignored; missing fields take defaults.
func LoadOptimizationConfig(path string) (*OptimizationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading optimization config: %w", err)
	}
	cfg := DefaultOptimizationConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing optimization config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating optimization config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *OptimizationConfig) applyDefaults() {
	if c.Solver.SecondsPerSet == 0 {
		c.Solver.SecondsPerSet = 180
	}
	if c.Solver.MaxPerMuscle == 0 {
		c.Solver.MaxPerMuscle = 2
	}
	if c.Solver.OptimalMovementCount == 0 {
		c.Solver.OptimalMovementCount = 8
	}
	if c.Solver.MaxRelaxationSteps == nil {
		c.Solver.MaxRelaxationSteps = intPtr(6)
	}
	if c.Reload.IntervalSeconds == 0 {
		c.Reload.IntervalSeconds = 30
	}
	if c.Reload.Mode == "" {
		c.Reload.Mode = ReloadModePoll
	}
}

// Reload trigger modes.
const (
	ReloadModePoll   = "poll"
	ReloadModeNotify = "notify"
)

func validateRange(field string, r RPERange) error {
	if r.Min < 3.0 || r.Max > 10.0 || r.Min > r.Max {
		return fmt.Errorf("%s: range must satisfy 3.0 <= min <= max <= 10.0, got %v/%v", field, r.Min, r.Max)
	}
	return nil
}

// Validate checks every field constraint of the optimization document and
// returns an error naming the offending field.
func (c *OptimizationConfig) Validate() error {
	if c.Solver.SecondsPerSet <= 0 || math.IsNaN(c.Solver.SecondsPerSet) {
		return fmt.Errorf("solver.seconds_per_set: must be positive, got %v", c.Solver.SecondsPerSet)
	}
	if c.Solver.VolumeReductionPct < 0 || c.Solver.VolumeReductionPct >= 1 {
		return fmt.Errorf("solver.volume_reduction_pct: must be in [0.0, 1.0), got %v", c.Solver.VolumeReductionPct)
	}
	if c.Solver.MaxPerMuscle <= 0 {
		return fmt.Errorf("solver.max_per_muscle: must be positive, got %d", c.Solver.MaxPerMuscle)
	}
	if c.Solver.MaxRelaxationSteps == nil {
		return fmt.Errorf("solver.max_relaxation_steps: required")
	}
	if n := *c.Solver.MaxRelaxationSteps; n < 0 || n > 6 {
		return fmt.Errorf("solver.max_relaxation_steps: must be in [0, 6], got %d", n)
	}
	if c.Emergency.VolumeMultiplier <= 0 || c.Emergency.VolumeMultiplier > 1 {
		return fmt.Errorf("emergency.volume_multiplier: must be in (0.0, 1.0], got %v", c.Emergency.VolumeMultiplier)
	}
	if c.Emergency.FatigueMultiplier < 1 {
		return fmt.Errorf("emergency.fatigue_multiplier: must be >= 1.0, got %v", c.Emergency.FatigueMultiplier)
	}
	if c.Emergency.DurationMultiplier < 1 {
		return fmt.Errorf("emergency.duration_multiplier: must be >= 1.0, got %v", c.Emergency.DurationMultiplier)
	}
	if len(c.ProgressiveRelaxation) > 7 {
		return fmt.Errorf("progressive_relaxation: at most 7 steps allowed, got %d", len(c.ProgressiveRelaxation))
	}
	for i, s := range c.ProgressiveRelaxation {
		if s.Step != i {
			return fmt.Errorf("progressive_relaxation[%d].step: steps must be ordered 0..%d, got %d",
				i, len(c.ProgressiveRelaxation)-1, s.Step)
		}
		if s.DisciplineWeightMultiplier != nil {
			m := *s.DisciplineWeightMultiplier
			if m <= 0 || m > 1 {
				return fmt.Errorf("progressive_relaxation[%d].discipline_weight_multiplier: must be in (0.0, 1.0], got %v", i, m)
			}
		}
	}
	if err := validateRange("rpe_suggestion.warmup", c.RPE.Warmup); err != nil {
		return err
	}
	if err := validateRange("rpe_suggestion.cooldown", c.RPE.Cooldown); err != nil {
		return err
	}
	if len(c.RPE.Programs) == 0 {
		return fmt.Errorf("rpe_suggestion.programs: at least one program profile required")
	}
	if _, ok := c.RPE.Programs[ProgramStrength]; !ok {
		return fmt.Errorf("rpe_suggestion.programs: %q profile required (unknown-program fallback)", ProgramStrength)
	}
	for name, p := range c.RPE.Programs {
		if err := validateRange(fmt.Sprintf("rpe_suggestion.programs.%s.main", name), p.Main); err != nil {
			return err
		}
		if err := validateRange(fmt.Sprintf("rpe_suggestion.programs.%s.accessory", name), p.Accessory); err != nil {
			return err
		}
	}
	if c.RPE.CNSCap < 3.0 || c.RPE.CNSCap > 10.0 {
		return fmt.Errorf("rpe_suggestion.cns_cap: must be in [3.0, 10.0], got %v", c.RPE.CNSCap)
	}
	if c.RPE.Recovery.RPE8Hours <= 0 || c.RPE.Recovery.RPE67Hours <= 0 {
		return fmt.Errorf("rpe_suggestion.pattern_recovery: rpe_8 and rpe_6_7 hours must be positive, got %v/%v",
			c.RPE.Recovery.RPE8Hours, c.RPE.Recovery.RPE67Hours)
	}
	if c.RPE.Recovery.RPE8Hours > c.RPE.Recovery.RPE67Hours {
		return fmt.Errorf("rpe_suggestion.pattern_recovery: rpe_8 hours must not exceed rpe_6_7 hours, got %v/%v",
			c.RPE.Recovery.RPE8Hours, c.RPE.Recovery.RPE67Hours)
	}
	if c.Reload.Mode != ReloadModePoll && c.Reload.Mode != ReloadModeNotify {
		return fmt.Errorf("reload.mode: must be %q or %q, got %q", ReloadModePoll, ReloadModeNotify, c.Reload.Mode)
	}
	if c.Reload.IntervalSeconds <= 0 {
		return fmt.Errorf("reload.interval_seconds: must be positive, got %v", c.Reload.IntervalSeconds)
	}
	return nil
}

// GetRelaxationStep returns the step definition for step n, or an error when
// the config defines no such step.
func (c *OptimizationConfig) GetRelaxationStep(n int) (RelaxationStepConfig, error) {
	if n < 0 || n >= len(c.ProgressiveRelaxation) {
		return RelaxationStepConfig{}, fmt.Errorf("relaxation step %d not defined (config has %d steps)",
			n, len(c.ProgressiveRelaxation))
	}
	return c.ProgressiveRelaxation[n], nil
}
