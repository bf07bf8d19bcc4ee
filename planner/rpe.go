package planner

import (
	"math"
	"strings"
)

// Program types for RPE base-range lookup. Unknown types fall back to strength.
const (
	ProgramStrength    = "strength"
	ProgramHypertrophy = "hypertrophy"
	ProgramEndurance   = "endurance"
)

// Microcycle phases recognized by the phase progression table.
const (
	PhaseAccumulation    = "accumulation"
	PhaseIntensification = "intensification"
	PhasePeaking         = "peaking"
	PhaseDeload          = "deload"
)

// ExerciseRole is the block an exercise is placed in, which selects the base
// RPE range.
type ExerciseRole string

const (
	RoleWarmup    ExerciseRole = "warmup"
	RoleMain      ExerciseRole = "main"
	RoleAccessory ExerciseRole = "accessory"
	RoleCooldown  ExerciseRole = "cooldown"
)

// RecoveryState carries the recovery-signal provider's readings. Nil fields
// mean the signal is missing and default to neutral (no adjustment).
// HRVChangePct is the percentage change from baseline (negative is a drop);
// Soreness is self-reported on a 0-10 scale.
type RecoveryState struct {
	SleepHours             *float64 `yaml:"sleep_hours,omitempty"`
	HRVChangePct           *float64 `yaml:"hrv_percentage_change,omitempty"`
	Soreness               *float64 `yaml:"soreness,omitempty"`
	ConsecutiveHighRPEDays *int     `yaml:"consecutive_high_rpe_days,omitempty"`
}

// RPESuggestion is a target effort range for one exercise.
// Invariant: 3.0 <= MinRPE <= MaxRPE <= 10.0.
type RPESuggestion struct {
	MinRPE float64 `yaml:"min_rpe"`
	MaxRPE float64 `yaml:"max_rpe"`
	// AdjustmentReason is the underscore-joined list of triggered adjustment
	// factors, empty when no stage fired.
	AdjustmentReason string `yaml:"adjustment_reason,omitempty"`
}

// RPERequest bundles the inputs of one advisor call.
type RPERequest struct {
	Movement    SolverMovement
	Role        ExerciseRole
	ProgramType string
	Phase       string

	Recovery *RecoveryState

	// PatternRecoveryHours maps each pattern to hours since it was last
	// trained; a missing or nil entry means the pattern is fully fresh.
	PatternRecoveryHours map[MovementPattern]*float64

	// SessionHighRPESets counts high-RPE sets already logged in this session.
	SessionHighRPESets int

	// EmergencyMode marks a session produced under the emergency relaxation
	// step; fatigue penalties are scaled by the emergency fatigue multiplier.
	EmergencyMode bool
}

// frequencyCapPatterns are the structurally demanding patterns subject to the
// session high-RPE-set cap.
var frequencyCapPatterns = map[MovementPattern]bool{
	PatternHinge: true, PatternSquat: true, PatternLunge: true, PatternOlympic: true,
}

// RPEIntensityAdvisor produces a target effort range per exercise through an
// ordered adjustment pipeline: base range, CNS cap, fatigue penalties, pattern
// recovery, session frequency cap. Stage order is part of the contract and is
// never recomposed. The advisor is a pure calculation with no side effects.
type RPEIntensityAdvisor struct {
	cfg *RPEConfig

	// emergencyFatigue scales the accumulated fatigue penalty for sessions
	// produced under the emergency relaxation step.
	emergencyFatigue float64
}

// NewRPEIntensityAdvisor builds an advisor over one config snapshot.
func NewRPEIntensityAdvisor(snap *Snapshot) *RPEIntensityAdvisor {
	return &RPEIntensityAdvisor{
		cfg:              &snap.Optimization.RPE,
		emergencyFatigue: snap.Optimization.Emergency.FatigueMultiplier,
	}
}

// SuggestRPE runs the full pipeline for one exercise.
func (a *RPEIntensityAdvisor) SuggestRPE(req RPERequest) RPESuggestion {
	var reasons []string

	// Stage 1: base range by (role, program type, phase).
	rng := a.baseRange(req.Role, req.ProgramType, req.Phase)

	// Stage 2: CNS / discipline cap.
	if req.Movement.CNSLoad.High() &&
		(req.Movement.HasDiscipline(DisciplineOlympic) || req.Movement.HasDiscipline(DisciplinePowerlifting)) {
		if rng.Max > a.cfg.CNSCap {
			rng.Max = a.cfg.CNSCap
			reasons = append(reasons, "cns_cap")
		}
		if rng.Min > rng.Max {
			rng.Min = rng.Max
		}
	}

	// Stage 3: additive fatigue penalties.
	rng = a.applyFatigue(rng, req.Recovery, req.EmergencyMode, &reasons)

	// Stage 4: pattern-recovery reduction.
	if req.Role == RoleMain || req.Role == RoleAccessory {
		rng = a.applyPatternRecovery(rng, req.Movement.Pattern, req.PatternRecoveryHours, &reasons)
	}

	// Stage 5: session high-RPE-set cap.
	if frequencyCapPatterns[req.Movement.Pattern] &&
		req.SessionHighRPESets >= a.cfg.FrequencyCap.HighSetThreshold &&
		rng.Max >= a.cfg.FrequencyCap.TriggerMax {
		rng.Max = a.cfg.FrequencyCap.CappedMax
		if rng.Min > rng.Max {
			rng.Min = rng.Max
		}
		reasons = append(reasons, "high_set_cap")
	}

	rng = clampRange(rng)
	return RPESuggestion{
		MinRPE:           round1(rng.Min),
		MaxRPE:           round1(rng.Max),
		AdjustmentReason: strings.Join(reasons, "_"),
	}
}

// baseRange looks up the starting range. Warmup and cooldown have fixed low
// ranges; main and accessory come from the program profile (unknown program
// types fall back to strength) shifted by the phase progression table.
func (a *RPEIntensityAdvisor) baseRange(role ExerciseRole, programType, phase string) RPERange {
	switch role {
	case RoleWarmup:
		return a.cfg.Warmup
	case RoleCooldown:
		return a.cfg.Cooldown
	}
	profile, ok := a.cfg.Programs[programType]
	if !ok {
		profile = a.cfg.Programs[ProgramStrength]
	}
	rng := profile.Main
	if role == RoleAccessory {
		rng = profile.Accessory
	}
	if shift, ok := a.cfg.PhaseProgression[phase]; ok {
		rng.Min += shift
		rng.Max += shift
	}
	return clampRange(rng)
}

// applyFatigue accumulates the independent penalties, applies their sum to
// both bounds, and floors the result. The two sleep buckets do not stack:
// whichever branch matches applies, very-low first. In emergency mode the
// accumulated penalty is scaled by the emergency fatigue multiplier before
// the floors apply.
func (a *RPEIntensityAdvisor) applyFatigue(rng RPERange, rec *RecoveryState, emergency bool, reasons *[]string) RPERange {
	if rec == nil {
		return rng
	}
	f := a.cfg.Fatigue
	penalty := 0.0
	if rec.SleepHours != nil {
		switch {
		case *rec.SleepHours < f.SleepVeryLow.Threshold:
			penalty += f.SleepVeryLow.Penalty
			*reasons = append(*reasons, "very_low_sleep")
		case *rec.SleepHours < f.SleepLow.Threshold:
			penalty += f.SleepLow.Penalty
			*reasons = append(*reasons, "low_sleep")
		}
	}
	if rec.HRVChangePct != nil && *rec.HRVChangePct < -f.HRVDrop.Threshold {
		penalty += f.HRVDrop.Penalty
		*reasons = append(*reasons, "hrv_drop")
	}
	if rec.Soreness != nil && *rec.Soreness > f.Soreness.Threshold {
		penalty += f.Soreness.Penalty
		*reasons = append(*reasons, "high_soreness")
	}
	if rec.ConsecutiveHighRPEDays != nil && float64(*rec.ConsecutiveHighRPEDays) >= f.ConsecutiveHighDays.Threshold {
		penalty += f.ConsecutiveHighDays.Penalty
		*reasons = append(*reasons, "high_rpe_streak")
	}
	if penalty == 0 {
		return rng
	}
	if emergency && a.emergencyFatigue > 1 {
		penalty *= a.emergencyFatigue
		*reasons = append(*reasons, "emergency_fatigue")
	}
	rng.Min = math.Max(rng.Min+penalty, f.FloorMin)
	rng.Max = math.Max(rng.Max+penalty, f.FloorMax)
	if rng.Min > rng.Max {
		rng.Min = rng.Max
	}
	return rng
}

// applyPatternRecovery reduces both bounds when the movement's pattern was
// trained recently. The hour tiers mirror the shipped tuning tables: fully
// recovered beyond the rpe_6_7 threshold, a full point inside the rpe_8
// threshold, half a point in the 48h band. Gaps tighter than 48h are the
// selector's responsibility, not the advisor's.
func (a *RPEIntensityAdvisor) applyPatternRecovery(rng RPERange, pattern MovementPattern, hours map[MovementPattern]*float64, reasons *[]string) RPERange {
	h, ok := hours[pattern]
	if !ok || h == nil {
		return rng
	}
	r := a.cfg.Recovery
	var reduction float64
	switch {
	case *h >= r.RPE67Hours:
		reduction = 0
	case *h >= r.RPE8Hours:
		reduction = 1.0
	case *h >= 48:
		reduction = 0.5
	default:
		reduction = 0
	}
	if reduction == 0 {
		return rng
	}
	rng.Min = math.Max(rng.Min-reduction, r.FloorMin)
	rng.Max = math.Max(rng.Max-reduction, r.FloorMax)
	if rng.Min > rng.Max {
		rng.Min = rng.Max
	}
	*reasons = append(*reasons, "pattern_recovery")
	return rng
}

// clampRange bounds a range to the RPE scale's [3.0, 10.0] window.
func clampRange(r RPERange) RPERange {
	r.Min = math.Min(math.Max(r.Min, 3.0), 10.0)
	r.Max = math.Min(math.Max(r.Max, 3.0), 10.0)
	if r.Min > r.Max {
		r.Min = r.Max
	}
	return r
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
