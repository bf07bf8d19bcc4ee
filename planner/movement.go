package planner

import "fmt"

// MovementPattern is the biomechanical category of a movement. Patterns drive
// substitution (pattern compatibility) and rotation (variety) logic.
type MovementPattern string

const (
	PatternSquat          MovementPattern = "squat"
	PatternHinge          MovementPattern = "hinge"
	PatternLunge          MovementPattern = "lunge"
	PatternHorizontalPush MovementPattern = "horizontal_push"
	PatternVerticalPush   MovementPattern = "vertical_push"
	PatternHorizontalPull MovementPattern = "horizontal_pull"
	PatternVerticalPull   MovementPattern = "vertical_pull"
	PatternCarry          MovementPattern = "carry"
	PatternRotation       MovementPattern = "rotation"
	PatternOlympic        MovementPattern = "olympic"
	PatternIsolation      MovementPattern = "isolation"
	PatternCardio         MovementPattern = "cardio"
	PatternMobility       MovementPattern = "mobility"
)

// validPatterns maps pattern names to validity. Unexported to prevent mutation.
var validPatterns = map[MovementPattern]bool{
	PatternSquat: true, PatternHinge: true, PatternLunge: true,
	PatternHorizontalPush: true, PatternVerticalPush: true,
	PatternHorizontalPull: true, PatternVerticalPull: true,
	PatternCarry: true, PatternRotation: true, PatternOlympic: true,
	PatternIsolation: true, PatternCardio: true, PatternMobility: true,
}

// IsValidPattern returns true if p is a recognized movement pattern.
func IsValidPattern(p MovementPattern) bool { return validPatterns[p] }

// CNSLoad classifies how taxing a movement is on the central nervous system.
type CNSLoad string

const (
	CNSLow      CNSLoad = "low"
	CNSModerate CNSLoad = "moderate"
	CNSHigh     CNSLoad = "high"
	CNSVeryHigh CNSLoad = "very_high"
)

// High reports whether the load is in the high or very_high band.
func (c CNSLoad) High() bool { return c == CNSHigh || c == CNSVeryHigh }

// SkillLevel is the proficiency a movement demands of the athlete.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillElite        SkillLevel = "elite"
)

// skillRank orders skill levels for comparison. Unknown levels rank as beginner.
var skillRank = map[SkillLevel]int{
	SkillBeginner: 0, SkillIntermediate: 1, SkillAdvanced: 2, SkillElite: 3,
}

// Rank returns the ordinal position of the skill level (beginner = 0).
func (s SkillLevel) Rank() int { return skillRank[s] }

// Discipline is a training discipline a movement belongs to.
type Discipline string

const (
	DisciplineOlympic      Discipline = "olympic_weightlifting"
	DisciplinePowerlifting Discipline = "powerlifting"
	DisciplineCalisthenics Discipline = "calisthenics"
	DisciplineBodybuilding Discipline = "bodybuilding"
	DisciplineCrossfit     Discipline = "crossfit"
	DisciplineEndurance    Discipline = "endurance"
	DisciplineMobility     Discipline = "mobility"
)

// Tier is the coarse quality ranking of a movement. Bronze and generic
// movements are only admitted late in the relaxation ladder.
type Tier string

const (
	TierGold    Tier = "gold"
	TierSilver  Tier = "silver"
	TierBronze  Tier = "bronze"
	TierGeneric Tier = "generic"
)

// LowQuality reports whether the tier is gated behind allow_generic_movements.
func (t Tier) LowQuality() bool { return t == TierBronze || t == TierGeneric }

// Muscle names follow the catalog convention (lowercase snake case).
// Front/side/rear delts are distinct muscles here; the coverage KPI folds
// them into one "shoulders" group.
type Muscle string

const (
	MuscleChest      Muscle = "chest"
	MuscleBack       Muscle = "back"
	MuscleLats       Muscle = "lats"
	MuscleFrontDelts Muscle = "front_delts"
	MuscleSideDelts  Muscle = "side_delts"
	MuscleRearDelts  Muscle = "rear_delts"
	MuscleQuadriceps Muscle = "quadriceps"
	MuscleHamstrings Muscle = "hamstrings"
	MuscleGlutes     Muscle = "glutes"
	MuscleCore       Muscle = "core"
	MuscleBiceps     Muscle = "biceps"
	MuscleTriceps    Muscle = "triceps"
	MuscleCalves     Muscle = "calves"
	MuscleForearms   Muscle = "forearms"
)

// Region is the coarse body region of a movement's primary muscle.
type Region string

const (
	RegionUpper Region = "upper"
	RegionLower Region = "lower"
	RegionCore  Region = "core"
	RegionFull  Region = "full_body"
)

// CircuitType describes how a compound circuit is executed.
type CircuitType string

const (
	CircuitAMRAP         CircuitType = "amrap"
	CircuitEMOM          CircuitType = "emom"
	CircuitRoundsForTime CircuitType = "rounds_for_time"
	CircuitTabata        CircuitType = "tabata"
	CircuitLadder        CircuitType = "ladder"
)

// SolverMovement is the immutable projection of a catalog movement used inside
// the scorer and optimizer. It is copied by value so the core never touches
// persistence objects.
type SolverMovement struct {
	ID            string          `yaml:"id"`
	Name          string          `yaml:"name"`
	Pattern       MovementPattern `yaml:"pattern"`
	PrimaryMuscle Muscle          `yaml:"primary_muscle"`
	PrimaryRegion Region          `yaml:"primary_region"`
	Synergists    []Muscle        `yaml:"synergists,omitempty"`
	Compound      bool            `yaml:"compound"`
	CNSLoad       CNSLoad         `yaml:"cns_load"`
	SkillLevel    SkillLevel      `yaml:"skill_level"`
	Disciplines   []Discipline    `yaml:"disciplines,omitempty"`
	Equipment     []string        `yaml:"equipment,omitempty"`
	Tier          Tier            `yaml:"tier"`
}

// HasDiscipline reports whether the movement belongs to discipline d.
func (m *SolverMovement) HasDiscipline(d Discipline) bool {
	for _, md := range m.Disciplines {
		if md == d {
			return true
		}
	}
	return false
}

// Validate checks catalog-sourced fields the solver depends on.
func (m *SolverMovement) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("movement: id must not be empty")
	}
	if !IsValidPattern(m.Pattern) {
		return fmt.Errorf("movement %s: unknown pattern %q", m.ID, m.Pattern)
	}
	if m.PrimaryMuscle == "" {
		return fmt.Errorf("movement %s: primary_muscle must not be empty", m.ID)
	}
	return nil
}

// SolverCircuit is the immutable projection of a compound circuit
// (AMRAP, EMOM, ...) offered to the optimizer alongside single movements.
type SolverCircuit struct {
	ID              string      `yaml:"id"`
	Name            string      `yaml:"name"`
	PrimaryMuscle   Muscle      `yaml:"primary_muscle"`
	Type            CircuitType `yaml:"type"`
	DurationSeconds int         `yaml:"duration_seconds"`
	MovementCount   int         `yaml:"movement_count,omitempty"`
	WorkVolume      float64     `yaml:"work_volume"`
	Equipment       []string    `yaml:"equipment,omitempty"`
}

// DurationMinutes converts the circuit's fixed duration to minutes.
func (c *SolverCircuit) DurationMinutes() float64 {
	return float64(c.DurationSeconds) / 60.0
}
