package planner

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// OptimizationStatus is the terminal state of one optimization attempt.
type OptimizationStatus string

const (
	// StatusOptimal means the selection reached the configured optimal size.
	StatusOptimal OptimizationStatus = "OPTIMAL"
	// StatusFeasible means a non-empty selection below the optimal size.
	StatusFeasible OptimizationStatus = "FEASIBLE"
	// StatusInfeasible means nothing could be selected at this step.
	StatusInfeasible OptimizationStatus = "INFEASIBLE"
)

// OptimizationRequest carries everything one session solve needs. Requests are
// read-only to the optimizer; a request may be retried across relaxation steps.
type OptimizationRequest struct {
	Movements []SolverMovement
	Circuits  []SolverCircuit

	// TargetVolumes are per-muscle target set volumes for the session.
	TargetVolumes map[Muscle]float64

	// DurationBudgetMinutes bounds total estimated session time.
	DurationBudgetMinutes float64

	ExcludedMovementIDs []string
	RequiredMovementIDs []string

	// AvailableEquipment limits selection; nil means unconstrained.
	AvailableEquipment []string

	Profile         *UserProfile
	Goals           []Goal
	RequiredPattern MovementPattern
	TargetMuscles   []Muscle

	// Movement ids already used earlier in the session / microcycle,
	// forwarded into the scoring context for the novelty dimension.
	UsedInSession    []string
	UsedInMicrocycle []string

	// MaxRelaxationSteps overrides the config default when positive.
	MaxRelaxationSteps int
}

// OptimizationResult is the outcome of SolveSession.
type OptimizationResult struct {
	SelectedMovements []SolverMovement
	SelectedCircuits  []SolverCircuit

	EstimatedDurationMinutes float64
	Status                   OptimizationStatus
	RelaxationStep           int

	// Scores holds the ScoringResult for every candidate movement scored at
	// the step that produced this result.
	Scores map[string]ScoringResult

	// Rejections maps skipped movement ids to the gate that rejected them.
	Rejections map[string]string
}

// GreedySessionOptimizer assembles a session by greedy selection over scored
// movements under a progressively relaxed constraint ladder. It trades the
// provable optimality of an ILP solver for determinism and speed: the same
// (movements, circuits, budgets, config, step) tuple always yields the same
// selection.
type GreedySessionOptimizer struct {
	snap   *Snapshot
	scorer *GlobalMovementScorer
	relax  *RelaxationController
}

// NewGreedySessionOptimizer builds an optimizer over one config snapshot.
func NewGreedySessionOptimizer(snap *Snapshot) *GreedySessionOptimizer {
	return &GreedySessionOptimizer{
		snap:   snap,
		scorer: NewGlobalMovementScorer(snap),
		relax:  NewRelaxationController(snap.Optimization),
	}
}

// movementDuration estimates one movement's session time in minutes:
// avg(sets_min, sets_max) of its block range times the configured seconds per
// set. A modeling constant, not a per-movement measurement.
func (o *GreedySessionOptimizer) movementDuration(m *SolverMovement) float64 {
	r := o.blockRange(m)
	avgSets := float64(r.SetsMin+r.SetsMax) / 2.0
	return avgSets * o.snap.Optimization.Solver.SecondsPerSet / 60.0
}

// movementSets is the set-volume contribution of one movement.
func (o *GreedySessionOptimizer) movementSets(m *SolverMovement) float64 {
	r := o.blockRange(m)
	return float64(r.SetsMin+r.SetsMax) / 2.0
}

// blockRange picks the rep/set range governing a movement: compound movements
// use the main range, isolation movements the accessory range. Falls back to
// any defined range when the expected block is missing.
func (o *GreedySessionOptimizer) blockRange(m *SolverMovement) RepSetRange {
	ranges := o.snap.Scoring.RepSetRanges
	block := "accessory"
	if m.Compound {
		block = "main"
	}
	if r, ok := ranges[block]; ok {
		return r
	}
	keys := make([]string, 0, len(ranges))
	for k := range ranges {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return ranges[keys[0]]
}

// SolveSession walks the relaxation ladder from strict to emergency, returning
// the first step that produces a feasible selection. If every step fails the
// final step's INFEASIBLE result is returned for the caller to surface.
func (o *GreedySessionOptimizer) SolveSession(req *OptimizationRequest) *OptimizationResult {
	maxStep := req.MaxRelaxationSteps
	if maxStep <= 0 {
		maxStep = *o.snap.Optimization.Solver.MaxRelaxationSteps
	}
	if maxStep > o.relax.MaxStep() {
		maxStep = o.relax.MaxStep()
	}
	var result *OptimizationResult
	for step := 0; step <= maxStep; step++ {
		result = o.solveWithStep(req, step)
		if result.Status != StatusInfeasible {
			return result
		}
		logrus.Debugf("optimizer: step %d infeasible, relaxing", step)
	}
	return result
}

// solveWithStep runs one greedy pass under the constraints of relaxation step.
func (o *GreedySessionOptimizer) solveWithStep(req *OptimizationRequest, step int) *OptimizationResult {
	state := o.relax.ApplyStep(step)
	solver := o.snap.Optimization.Solver

	excluded := make(map[string]bool, len(req.ExcludedMovementIDs))
	for _, id := range req.ExcludedMovementIDs {
		excluded[id] = true
	}
	required := make(map[string]bool, len(req.RequiredMovementIDs))
	for _, id := range req.RequiredMovementIDs {
		required[id] = true
	}

	ctx := ScoringContext{
		Profile:          req.Profile,
		Config:           o.snap,
		UsedInSession:    req.UsedInSession,
		UsedInMicrocycle: req.UsedInMicrocycle,
		Goals:            req.Goals,
		RequiredPattern:  req.RequiredPattern,
		TargetMuscles:    req.TargetMuscles,
		Relaxation:       state,
	}
	if req.Profile != nil {
		ctx.DisciplinePrefs = NormalizeDisciplinePrefs(req.Profile.DisciplinePreferences)
	}

	// 1. Score every non-excluded movement, stable-sorted descending by
	// total score (ties keep catalog order).
	type candidate struct {
		movement SolverMovement
		score    ScoringResult
	}
	scores := make(map[string]ScoringResult, len(req.Movements))
	candidates := make([]candidate, 0, len(req.Movements))
	for _, m := range req.Movements {
		if excluded[m.ID] {
			continue
		}
		sc := o.scorer.ScoreMovement(m, ctx)
		scores[m.ID] = sc
		candidates = append(candidates, candidate{movement: m, score: sc})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score.TotalScore > candidates[j].score.TotalScore
	})

	// 2. Reduce target volumes and compute the duration budget.
	volumeScale := 1.0 - solver.VolumeReductionPct
	durationBudget := req.DurationBudgetMinutes
	if state.EmergencyMode {
		volumeScale *= o.snap.Optimization.Emergency.VolumeMultiplier
		durationBudget *= o.snap.Optimization.Emergency.DurationMultiplier
	}
	targets := make(map[Muscle]float64, len(req.TargetVolumes))
	for muscle, v := range req.TargetVolumes {
		targets[muscle] = v * volumeScale
	}

	result := &OptimizationResult{
		Status:         StatusInfeasible,
		RelaxationStep: step,
		Scores:         scores,
		Rejections:     make(map[string]string),
	}
	usedDuration := 0.0
	muscleCount := make(map[Muscle]int)
	muscleVolume := make(map[Muscle]float64)
	selected := make(map[string]bool)

	credit := func(m *SolverMovement) {
		sets := o.movementSets(m)
		muscleCount[m.PrimaryMuscle]++
		muscleVolume[m.PrimaryMuscle] += sets
		if state.IncludeSynergistMuscles {
			for _, s := range m.Synergists {
				muscleVolume[s] += sets / 2.0
			}
		}
	}

	// 3. Required movements are selected unconditionally, charging duration
	// and volume like any other selection.
	for _, m := range req.Movements {
		if !required[m.ID] || selected[m.ID] {
			continue
		}
		result.SelectedMovements = append(result.SelectedMovements, m)
		selected[m.ID] = true
		usedDuration += o.movementDuration(&m)
		credit(&m)
	}

	usedCircuits := make(map[string]bool)

	// 4. Greedy walk over the scored candidates.
	for _, c := range candidates {
		m := c.movement
		if selected[m.ID] {
			continue
		}
		if reason := o.rejectMovement(&m, req, &state, targets, muscleCount, muscleVolume, usedDuration, durationBudget); reason != "" {
			result.Rejections[m.ID] = reason
			continue
		}
		result.SelectedMovements = append(result.SelectedMovements, m)
		selected[m.ID] = true
		usedDuration += o.movementDuration(&m)
		credit(&m)

		// Opportunistic circuit placement after each accepted movement.
		if solver.AllowCircuits {
			for i := range req.Circuits {
				circ := req.Circuits[i]
				if usedCircuits[circ.ID] {
					continue
				}
				if usedDuration+circ.DurationMinutes() > durationBudget {
					continue
				}
				if !o.circuitWithinRange(&circ) {
					continue
				}
				if !equipmentAvailable(circ.Equipment, req.AvailableEquipment) {
					continue
				}
				result.SelectedCircuits = append(result.SelectedCircuits, circ)
				usedCircuits[circ.ID] = true
				usedDuration += circ.DurationMinutes()
				muscleVolume[circ.PrimaryMuscle] += circ.WorkVolume
				break
			}
		}
	}

	result.EstimatedDurationMinutes = usedDuration
	switch {
	case len(result.SelectedMovements) == 0:
		result.Status = StatusInfeasible
	case len(result.SelectedMovements) >= solver.OptimalMovementCount:
		result.Status = StatusOptimal
	default:
		result.Status = StatusFeasible
	}
	return result
}

// Rejection reasons recorded in OptimizationResult.Rejections.
const (
	rejectPattern   = "pattern_incompatible"
	rejectIsolation = "isolation_not_allowed"
	rejectTier      = "generic_not_allowed"
	rejectEquipment = "equipment_unavailable"
	rejectDuration  = "duration_budget_exceeded"
	rejectMuscleCap = "muscle_cap_reached"
	rejectVolumeMet = "target_volume_met"
)

// rejectMovement applies the greedy gates in order and returns the first
// failing gate's reason, or "" when the movement is selectable.
func (o *GreedySessionOptimizer) rejectMovement(
	m *SolverMovement,
	req *OptimizationRequest,
	state *RelaxationState,
	targets map[Muscle]float64,
	muscleCount map[Muscle]int,
	muscleVolume map[Muscle]float64,
	usedDuration, durationBudget float64,
) string {
	if req.RequiredPattern != "" && !o.patternCompatible(m.Pattern, req.RequiredPattern, state) {
		return rejectPattern
	}
	if !m.Compound && !state.AllowIsolationMovements {
		return rejectIsolation
	}
	if m.Tier.LowQuality() && !state.AllowGenericMovements {
		return rejectTier
	}
	if !equipmentAvailable(m.Equipment, req.AvailableEquipment) {
		return rejectEquipment
	}
	if usedDuration+o.movementDuration(m) > durationBudget {
		return rejectDuration
	}
	if muscleCount[m.PrimaryMuscle] >= o.snap.Optimization.Solver.MaxPerMuscle {
		return rejectMuscleCap
	}
	if target, ok := targets[m.PrimaryMuscle]; ok && muscleVolume[m.PrimaryMuscle] >= target {
		return rejectVolumeMet
	}
	return ""
}

// circuitWithinRange checks a circuit against the configured execution bounds
// for its type. Circuits of an unconfigured type always pass; a zero movement
// count means the catalog did not report one.
func (o *GreedySessionOptimizer) circuitWithinRange(c *SolverCircuit) bool {
	r, ok := o.snap.Scoring.CircuitRanges[c.Type]
	if !ok {
		return true
	}
	if c.DurationSeconds < r.MinDurationSeconds || c.DurationSeconds > r.MaxDurationSeconds {
		return false
	}
	if r.MaxMovements > 0 && c.MovementCount > r.MaxMovements {
		return false
	}
	return true
}

// patternCompatible checks the movement's pattern against the required
// pattern; under pattern_compatibility_expansion the config's substitution
// matrix widens the acceptable set.
func (o *GreedySessionOptimizer) patternCompatible(p, required MovementPattern, state *RelaxationState) bool {
	if p == required {
		return true
	}
	if !state.PatternCompatibilityExpansion {
		return false
	}
	for _, sub := range o.snap.Scoring.CompatiblePatterns(required) {
		if p == sub {
			return true
		}
	}
	return false
}

// equipmentAvailable reports whether at least one needed equipment item is
// available. Movements needing no equipment always pass; a nil available list
// means unconstrained.
func equipmentAvailable(needed, available []string) bool {
	if len(needed) == 0 || available == nil {
		return true
	}
	for _, n := range needed {
		for _, a := range available {
			if n == a {
				return true
			}
		}
	}
	return false
}

// String renders a compact one-line summary for logs.
func (r *OptimizationResult) String() string {
	return fmt.Sprintf("%s step=%d movements=%d circuits=%d duration=%.1fmin",
		r.Status, r.RelaxationStep, len(r.SelectedMovements), len(r.SelectedCircuits), r.EstimatedDurationMinutes)
}
