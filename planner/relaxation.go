package planner

// RelaxationState is the effective constraint configuration at one step of the
// progressive relaxation ladder. Step 0 is strict; step 6 is emergency mode.
type RelaxationState struct {
	Step                          int
	PatternCompatibilityExpansion bool
	IncludeSynergistMuscles       bool
	// DisciplineWeightMultiplier scales discipline preferences; 0 means no
	// multiplier active (treated as 1.0 by consumers).
	DisciplineWeightMultiplier float64
	AllowIsolationMovements    bool
	AllowGenericMovements      bool
	EmergencyMode              bool
}

// RelaxationController produces relaxation states from the config's step list.
// The controller is stateless per call: ApplyStep resets to strict defaults and
// layers the cumulative effects of steps 1..n, so step order and semantics are
// config-driven.
type RelaxationController struct {
	steps []RelaxationStepConfig
}

// NewRelaxationController builds a controller over the config's
// progressive_relaxation section.
func NewRelaxationController(cfg *OptimizationConfig) *RelaxationController {
	return &RelaxationController{steps: cfg.ProgressiveRelaxation}
}

// MaxStep returns the highest defined step index.
func (c *RelaxationController) MaxStep() int { return len(c.steps) - 1 }

// ApplyStep returns the cumulative state for step n. Steps beyond the defined
// list saturate at the last defined step.
func (c *RelaxationController) ApplyStep(n int) RelaxationState {
	state := RelaxationState{Step: n}
	if n > c.MaxStep() {
		n = c.MaxStep()
	}
	for i := 0; i <= n && i < len(c.steps); i++ {
		s := c.steps[i]
		if s.PatternCompatibilityExpansion {
			state.PatternCompatibilityExpansion = true
		}
		if s.IncludeSynergistMuscles {
			state.IncludeSynergistMuscles = true
		}
		if s.DisciplineWeightMultiplier != nil {
			state.DisciplineWeightMultiplier = *s.DisciplineWeightMultiplier
		}
		if s.AllowIsolationMovements {
			state.AllowIsolationMovements = true
		}
		if s.AllowGenericMovements {
			state.AllowGenericMovements = true
		}
		if s.EmergencyMode {
			state.EmergencyMode = true
		}
	}
	return state
}
