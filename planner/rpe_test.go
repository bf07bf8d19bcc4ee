package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestAdvisor() *RPEIntensityAdvisor {
	return NewRPEIntensityAdvisor(DefaultSnapshot())
}

func TestSuggestRPE_BaseRanges(t *testing.T) {
	advisor := newTestAdvisor()
	squat := SolverMovement{ID: "back_squat", Pattern: PatternSquat, CNSLoad: CNSModerate}

	tests := []struct {
		name    string
		role    ExerciseRole
		program string
		phase   string
		wantMin float64
		wantMax float64
	}{
		{"strength main", RoleMain, ProgramStrength, PhaseAccumulation, 7.0, 9.0},
		{"strength accessory", RoleAccessory, ProgramStrength, PhaseAccumulation, 6.0, 8.0},
		{"hypertrophy main", RoleMain, ProgramHypertrophy, PhaseAccumulation, 6.5, 8.5},
		{"endurance main", RoleMain, ProgramEndurance, PhaseAccumulation, 5.0, 7.0},
		{"unknown program falls back to strength", RoleMain, "crossfit", PhaseAccumulation, 7.0, 9.0},
		{"intensification shift", RoleMain, ProgramStrength, PhaseIntensification, 7.5, 9.5},
		{"peaking shift", RoleMain, ProgramStrength, PhasePeaking, 8.0, 10.0},
		{"deload shift", RoleMain, ProgramStrength, PhaseDeload, 5.0, 7.0},
		{"warmup fixed", RoleWarmup, ProgramStrength, PhasePeaking, 3.0, 4.0},
		{"cooldown fixed", RoleCooldown, ProgramStrength, PhasePeaking, 3.0, 4.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := advisor.SuggestRPE(RPERequest{
				Movement: squat, Role: tt.role, ProgramType: tt.program, Phase: tt.phase,
			})
			assert.Equal(t, tt.wantMin, got.MinRPE)
			assert.Equal(t, tt.wantMax, got.MaxRPE)
			assert.Empty(t, got.AdjustmentReason)
		})
	}
}

func TestSuggestRPE_CNSCapForHighLoadBarbellDisciplines(t *testing.T) {
	advisor := newTestAdvisor()
	snatch := SolverMovement{
		ID: "snatch", Pattern: PatternOlympic, CNSLoad: CNSVeryHigh,
		Disciplines: []Discipline{DisciplineOlympic},
	}
	got := advisor.SuggestRPE(RPERequest{
		Movement: snatch, Role: RoleMain, ProgramType: ProgramStrength, Phase: PhaseAccumulation,
	})
	assert.Equal(t, 8.5, got.MaxRPE)
	assert.Equal(t, 7.0, got.MinRPE)
	assert.Equal(t, "cns_cap", got.AdjustmentReason)

	// High CNS load outside olympic/powerlifting is not capped.
	burpee := SolverMovement{
		ID: "burpee", Pattern: PatternCardio, CNSLoad: CNSHigh,
		Disciplines: []Discipline{DisciplineCrossfit},
	}
	got = advisor.SuggestRPE(RPERequest{
		Movement: burpee, Role: RoleMain, ProgramType: ProgramStrength, Phase: PhaseAccumulation,
	})
	assert.Equal(t, 9.0, got.MaxRPE)
}

func TestSuggestRPE_FatiguePenaltiesAccumulate(t *testing.T) {
	advisor := newTestAdvisor()
	squat := SolverMovement{ID: "back_squat", Pattern: PatternSquat, CNSLoad: CNSModerate}

	// Worst case: every fatigue signal fires.
	rec := &RecoveryState{
		SleepHours:             f64Ptr(2),
		HRVChangePct:           f64Ptr(-50),
		Soreness:               f64Ptr(10),
		ConsecutiveHighRPEDays: intPtr(3),
	}
	got := advisor.SuggestRPE(RPERequest{
		Movement: squat, Role: RoleMain, ProgramType: ProgramStrength,
		Phase: PhaseAccumulation, Recovery: rec,
	})
	// 7.0/9.0 minus 2.5 total penalty.
	assert.Equal(t, 4.5, got.MinRPE)
	assert.Equal(t, 6.5, got.MaxRPE)
	assert.Equal(t, "very_low_sleep_hrv_drop_high_soreness_high_rpe_streak", got.AdjustmentReason)
	assert.GreaterOrEqual(t, got.MinRPE, 3.0)
	assert.LessOrEqual(t, got.MaxRPE, 10.0)
}

func TestSuggestRPE_SleepBucketsDoNotStack(t *testing.T) {
	advisor := newTestAdvisor()
	squat := SolverMovement{ID: "back_squat", Pattern: PatternSquat}

	got := advisor.SuggestRPE(RPERequest{
		Movement: squat, Role: RoleMain, ProgramType: ProgramStrength,
		Phase: PhaseAccumulation, Recovery: &RecoveryState{SleepHours: f64Ptr(5.5)},
	})
	assert.Equal(t, 6.5, got.MinRPE)
	assert.Equal(t, 8.5, got.MaxRPE)
	assert.Equal(t, "low_sleep", got.AdjustmentReason)

	got = advisor.SuggestRPE(RPERequest{
		Movement: squat, Role: RoleMain, ProgramType: ProgramStrength,
		Phase: PhaseAccumulation, Recovery: &RecoveryState{SleepHours: f64Ptr(4)},
	})
	assert.Equal(t, 6.0, got.MinRPE)
	assert.Equal(t, 8.0, got.MaxRPE)
	assert.Equal(t, "very_low_sleep", got.AdjustmentReason)
}

func TestSuggestRPE_EmergencyModeAmplifiesFatigue(t *testing.T) {
	advisor := newTestAdvisor()
	squat := SolverMovement{ID: "back_squat", Pattern: PatternSquat}
	rec := &RecoveryState{SleepHours: f64Ptr(4)}

	// Without emergency mode the very-low-sleep penalty is 1.0.
	got := advisor.SuggestRPE(RPERequest{
		Movement: squat, Role: RoleMain, ProgramType: ProgramStrength,
		Phase: PhaseAccumulation, Recovery: rec,
	})
	assert.Equal(t, 6.0, got.MinRPE)
	assert.Equal(t, 8.0, got.MaxRPE)

	// Emergency mode scales it by the 1.5 fatigue multiplier.
	got = advisor.SuggestRPE(RPERequest{
		Movement: squat, Role: RoleMain, ProgramType: ProgramStrength,
		Phase: PhaseAccumulation, Recovery: rec, EmergencyMode: true,
	})
	assert.Equal(t, 5.5, got.MinRPE)
	assert.Equal(t, 7.5, got.MaxRPE)
	assert.Equal(t, "very_low_sleep_emergency_fatigue", got.AdjustmentReason)
}

func TestSuggestRPE_EmergencyModeWithoutPenaltyIsNeutral(t *testing.T) {
	advisor := newTestAdvisor()
	squat := SolverMovement{ID: "back_squat", Pattern: PatternSquat}

	got := advisor.SuggestRPE(RPERequest{
		Movement: squat, Role: RoleMain, ProgramType: ProgramStrength,
		Phase: PhaseAccumulation, EmergencyMode: true,
	})
	assert.Equal(t, 7.0, got.MinRPE)
	assert.Equal(t, 9.0, got.MaxRPE)
	assert.Empty(t, got.AdjustmentReason)
}

func TestSuggestRPE_FatigueFloors(t *testing.T) {
	advisor := newTestAdvisor()
	squat := SolverMovement{ID: "back_squat", Pattern: PatternSquat}

	// Deload endurance accessory starts at 3.0/4.5; the full 2.5 penalty
	// would sink below the scale without the 3.0/4.0 floors.
	rec := &RecoveryState{
		SleepHours:             f64Ptr(2),
		HRVChangePct:           f64Ptr(-50),
		Soreness:               f64Ptr(10),
		ConsecutiveHighRPEDays: intPtr(3),
	}
	got := advisor.SuggestRPE(RPERequest{
		Movement: squat, Role: RoleAccessory, ProgramType: ProgramEndurance,
		Phase: PhaseDeload, Recovery: rec,
	})
	assert.Equal(t, 3.0, got.MinRPE)
	assert.Equal(t, 4.0, got.MaxRPE)
}

func TestSuggestRPE_PatternRecoveryTiers(t *testing.T) {
	advisor := newTestAdvisor()
	deadlift := SolverMovement{ID: "deadlift", Pattern: PatternHinge}

	tests := []struct {
		name     string
		hours    float64
		wantMin  float64
		wantMax  float64
		adjusted bool
	}{
		{"fully recovered", 80, 7.0, 9.0, false},
		{"inside rpe_8 window", 65, 6.0, 8.0, true},
		{"48 hour band", 50, 6.5, 8.5, true},
		{"under 48 hours", 30, 7.0, 9.0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := advisor.SuggestRPE(RPERequest{
				Movement: deadlift, Role: RoleMain, ProgramType: ProgramStrength,
				Phase:                PhaseAccumulation,
				PatternRecoveryHours: map[MovementPattern]*float64{PatternHinge: f64Ptr(tt.hours)},
			})
			assert.Equal(t, tt.wantMin, got.MinRPE)
			assert.Equal(t, tt.wantMax, got.MaxRPE)
			if tt.adjusted {
				assert.Equal(t, "pattern_recovery", got.AdjustmentReason)
			} else {
				assert.Empty(t, got.AdjustmentReason)
			}
		})
	}
}

func TestSuggestRPE_PatternRecoverySkipsWarmup(t *testing.T) {
	advisor := newTestAdvisor()
	deadlift := SolverMovement{ID: "deadlift", Pattern: PatternHinge}
	got := advisor.SuggestRPE(RPERequest{
		Movement: deadlift, Role: RoleWarmup, ProgramType: ProgramStrength,
		Phase:                PhaseAccumulation,
		PatternRecoveryHours: map[MovementPattern]*float64{PatternHinge: f64Ptr(65)},
	})
	assert.Equal(t, 3.0, got.MinRPE)
	assert.Equal(t, 4.0, got.MaxRPE)
	assert.Empty(t, got.AdjustmentReason)
}

func TestSuggestRPE_MissingPatternEntryIsNeutral(t *testing.T) {
	advisor := newTestAdvisor()
	deadlift := SolverMovement{ID: "deadlift", Pattern: PatternHinge}

	got := advisor.SuggestRPE(RPERequest{
		Movement: deadlift, Role: RoleMain, ProgramType: ProgramStrength,
		Phase:                PhaseAccumulation,
		PatternRecoveryHours: map[MovementPattern]*float64{PatternHinge: nil},
	})
	assert.Equal(t, 9.0, got.MaxRPE)
	assert.Empty(t, got.AdjustmentReason)
}

func TestSuggestRPE_SessionHighSetCap(t *testing.T) {
	advisor := newTestAdvisor()
	squat := SolverMovement{ID: "back_squat", Pattern: PatternSquat}

	got := advisor.SuggestRPE(RPERequest{
		Movement: squat, Role: RoleMain, ProgramType: ProgramStrength,
		Phase: PhaseAccumulation, SessionHighRPESets: 6,
	})
	assert.Equal(t, 7.5, got.MaxRPE)
	assert.Equal(t, 7.0, got.MinRPE)
	assert.Equal(t, "high_set_cap", got.AdjustmentReason)

	// Below the set threshold, no cap.
	got = advisor.SuggestRPE(RPERequest{
		Movement: squat, Role: RoleMain, ProgramType: ProgramStrength,
		Phase: PhaseAccumulation, SessionHighRPESets: 5,
	})
	assert.Equal(t, 9.0, got.MaxRPE)

	// Non-structural patterns are exempt.
	bench := SolverMovement{ID: "bench_press", Pattern: PatternHorizontalPush}
	got = advisor.SuggestRPE(RPERequest{
		Movement: bench, Role: RoleMain, ProgramType: ProgramStrength,
		Phase: PhaseAccumulation, SessionHighRPESets: 6,
	})
	assert.Equal(t, 9.0, got.MaxRPE)
}

func TestSuggestRPE_AlwaysWithinScale(t *testing.T) {
	advisor := newTestAdvisor()
	snatch := SolverMovement{
		ID: "snatch", Pattern: PatternOlympic, CNSLoad: CNSVeryHigh,
		Disciplines: []Discipline{DisciplineOlympic},
	}
	rec := &RecoveryState{
		SleepHours:             f64Ptr(2),
		HRVChangePct:           f64Ptr(-50),
		Soreness:               f64Ptr(10),
		ConsecutiveHighRPEDays: intPtr(3),
	}
	for _, phase := range []string{PhaseAccumulation, PhaseIntensification, PhasePeaking, PhaseDeload} {
		got := advisor.SuggestRPE(RPERequest{
			Movement: snatch, Role: RoleMain, ProgramType: ProgramStrength, Phase: phase,
			Recovery:             rec,
			PatternRecoveryHours: map[MovementPattern]*float64{PatternOlympic: f64Ptr(50)},
			SessionHighRPESets:   10,
		})
		assert.GreaterOrEqual(t, got.MinRPE, 3.0, "phase %s", phase)
		assert.LessOrEqual(t, got.MaxRPE, 10.0, "phase %s", phase)
		assert.LessOrEqual(t, got.MinRPE, got.MaxRPE, "phase %s", phase)
	}
}
