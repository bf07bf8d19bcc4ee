package planner

import (
	"time"

	"github.com/google/uuid"
)

// SessionType labels what a materialized session trains.
type SessionType string

const (
	SessionStrength     SessionType = "strength"
	SessionHypertrophy  SessionType = "hypertrophy"
	SessionEndurance    SessionType = "endurance"
	SessionCardio       SessionType = "cardio"
	SessionConditioning SessionType = "conditioning"
	SessionMixed        SessionType = "mixed"
)

// BlockType is the structural slot an exercise occupies within a session.
type BlockType string

const (
	BlockWarmup    BlockType = "warmup"
	BlockMain      BlockType = "main"
	BlockAccessory BlockType = "accessory"
	BlockFinisher  BlockType = "finisher"
	BlockCooldown  BlockType = "cooldown"
)

// Exercise is one prescribed exercise row of a materialized session.
type Exercise struct {
	MovementID    string          `yaml:"movement_id"`
	Name          string          `yaml:"name"`
	Pattern       MovementPattern `yaml:"pattern"`
	PrimaryMuscle Muscle          `yaml:"primary_muscle"`
	Synergists    []Muscle        `yaml:"synergists,omitempty"`
	Sets          int             `yaml:"sets"`
	RepsMin       int             `yaml:"reps_min"`
	RepsMax       int             `yaml:"reps_max"`
	RestSeconds   int             `yaml:"rest_seconds"`
	RPE           RPESuggestion   `yaml:"rpe"`
}

// Block groups the exercises of one structural slot. Finisher blocks carry a
// circuit instead of (or alongside) plain exercises.
type Block struct {
	Type      BlockType      `yaml:"type"`
	Exercises []Exercise     `yaml:"exercises,omitempty"`
	Circuit   *SolverCircuit `yaml:"circuit,omitempty"`
}

// Session is a materialized training session: the downstream-consumer shape
// the quality validators and the persistence layer read.
type Session struct {
	ID        string      `yaml:"id"`
	Type      SessionType `yaml:"type"`
	CreatedAt time.Time   `yaml:"created_at,omitempty"`

	Blocks []Block `yaml:"blocks"`

	EstimatedDurationMinutes float64 `yaml:"estimated_duration_minutes"`

	// RelaxationStep records which ladder step produced the session.
	RelaxationStep int `yaml:"relaxation_step"`
}

// Microcycle is a short training block of multiple sessions.
type Microcycle struct {
	ID       string    `yaml:"id"`
	Phase    string    `yaml:"phase"`
	Sessions []Session `yaml:"sessions"`
}

// Block returns the first block of the given type, or nil.
func (s *Session) Block(t BlockType) *Block {
	for i := range s.Blocks {
		if s.Blocks[i].Type == t {
			return &s.Blocks[i]
		}
	}
	return nil
}

// MovementIDs lists every movement id across all blocks, in block order.
func (s *Session) MovementIDs() []string {
	var ids []string
	for _, b := range s.Blocks {
		for _, e := range b.Exercises {
			ids = append(ids, e.MovementID)
		}
	}
	return ids
}

// Patterns lists every exercise pattern across all blocks, in block order.
func (s *Session) Patterns() []MovementPattern {
	var patterns []MovementPattern
	for _, b := range s.Blocks {
		for _, e := range b.Exercises {
			patterns = append(patterns, e.Pattern)
		}
	}
	return patterns
}

// PrimaryPattern is the pattern of the first main-block exercise, the anchor
// movement the variety rotation check tracks. Empty when the session has no
// main block.
func (s *Session) PrimaryPattern() MovementPattern {
	main := s.Block(BlockMain)
	if main == nil || len(main.Exercises) == 0 {
		return ""
	}
	return main.Exercises[0].Pattern
}

// Muscles lists every muscle the session touches: primaries always, synergists
// included as worked muscles for coverage purposes.
func (s *Session) Muscles() []Muscle {
	var muscles []Muscle
	for _, b := range s.Blocks {
		for _, e := range b.Exercises {
			muscles = append(muscles, e.PrimaryMuscle)
			muscles = append(muscles, e.Synergists...)
		}
	}
	return muscles
}

// SessionBuilder materializes an OptimizationResult into a Session, placing
// compound selections in the main block, isolation selections in the accessory
// block, and circuits in the finisher. Warmup and cooldown movements are
// supplied by the caller (typically mobility-pattern catalog movements).
type SessionBuilder struct {
	snap    *Snapshot
	advisor *RPEIntensityAdvisor
	relax   *RelaxationController
}

// NewSessionBuilder builds a session builder over one config snapshot.
func NewSessionBuilder(snap *Snapshot) *SessionBuilder {
	return &SessionBuilder{
		snap:    snap,
		advisor: NewRPEIntensityAdvisor(snap),
		relax:   NewRelaxationController(snap.Optimization),
	}
}

// BuildInput carries the materialization inputs beyond the solver result.
type BuildInput struct {
	Result      *OptimizationResult
	SessionType SessionType
	ProgramType string
	Phase       string

	Warmup   []SolverMovement
	Cooldown []SolverMovement

	Recovery             *RecoveryState
	PatternRecoveryHours map[MovementPattern]*float64
}

// Build assembles the session, assigning each exercise its block's rep/set
// prescription and an advisor RPE range. High-RPE sets accumulate across the
// session so the advisor's frequency cap sees earlier main work. Sessions
// produced under the emergency relaxation step carry that into the advisor,
// where fatigue penalties are amplified.
func (b *SessionBuilder) Build(in BuildInput) *Session {
	emergency := b.relax.ApplyStep(in.Result.RelaxationStep).EmergencyMode
	session := &Session{
		ID:                       uuid.NewString(),
		Type:                     in.SessionType,
		CreatedAt:                time.Now().UTC(),
		EstimatedDurationMinutes: in.Result.EstimatedDurationMinutes,
		RelaxationStep:           in.Result.RelaxationStep,
	}

	highSets := 0
	makeExercise := func(m SolverMovement, role ExerciseRole, block string) Exercise {
		rng := b.snap.Scoring.RepSetRanges[block]
		rpe := b.advisor.SuggestRPE(RPERequest{
			Movement:             m,
			Role:                 role,
			ProgramType:          in.ProgramType,
			Phase:                in.Phase,
			Recovery:             in.Recovery,
			PatternRecoveryHours: in.PatternRecoveryHours,
			SessionHighRPESets:   highSets,
			EmergencyMode:        emergency,
		})
		if rpe.MaxRPE >= 8.0 {
			highSets += rng.SetsDefault
		}
		return Exercise{
			MovementID:    m.ID,
			Name:          m.Name,
			Pattern:       m.Pattern,
			PrimaryMuscle: m.PrimaryMuscle,
			Synergists:    m.Synergists,
			Sets:          rng.SetsDefault,
			RepsMin:       rng.RepsMin,
			RepsMax:       rng.RepsMax,
			RestSeconds:   rng.RestSeconds,
			RPE:           rpe,
		}
	}

	if len(in.Warmup) > 0 {
		block := Block{Type: BlockWarmup}
		for _, m := range in.Warmup {
			block.Exercises = append(block.Exercises, makeExercise(m, RoleWarmup, "warmup"))
		}
		session.Blocks = append(session.Blocks, block)
	}

	main := Block{Type: BlockMain}
	accessory := Block{Type: BlockAccessory}
	for _, m := range in.Result.SelectedMovements {
		if m.Compound {
			main.Exercises = append(main.Exercises, makeExercise(m, RoleMain, "main"))
		} else {
			accessory.Exercises = append(accessory.Exercises, makeExercise(m, RoleAccessory, "accessory"))
		}
	}
	if len(main.Exercises) > 0 {
		session.Blocks = append(session.Blocks, main)
	}
	if len(accessory.Exercises) > 0 {
		session.Blocks = append(session.Blocks, accessory)
	}

	for i := range in.Result.SelectedCircuits {
		circ := in.Result.SelectedCircuits[i]
		session.Blocks = append(session.Blocks, Block{Type: BlockFinisher, Circuit: &circ})
	}

	if len(in.Cooldown) > 0 {
		block := Block{Type: BlockCooldown}
		for _, m := range in.Cooldown {
			block.Exercises = append(block.Exercises, makeExercise(m, RoleCooldown, "cooldown"))
		}
		session.Blocks = append(session.Blocks, block)
	}

	return session
}
