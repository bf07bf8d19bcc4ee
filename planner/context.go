package planner

// Goal identifies a training goal a user is pursuing. Goals map to goal
// profiles in the scoring config, which modulate dimension weights.
type Goal string

const (
	GoalStrength    Goal = "strength"
	GoalHypertrophy Goal = "hypertrophy"
	GoalEndurance   Goal = "endurance"
	GoalFatLoss     Goal = "fat_loss"
	GoalSkill       Goal = "skill"
	GoalGeneral     Goal = "general_fitness"
)

// UserProfile carries the slice of the user record the scorer consumes.
// DisciplinePreferences use the interview's 1-5 scale; the scorer normalizes
// to 0-1 before use.
type UserProfile struct {
	UserID                string             `yaml:"user_id" validate:"required"`
	SkillLevel            SkillLevel         `yaml:"skill_level"`
	DisciplinePreferences map[Discipline]int `yaml:"discipline_preferences" validate:"dive,min=1,max=5"`
	Specializations       []Muscle           `yaml:"specializations,omitempty"`
	Goals                 []Goal             `yaml:"goals,omitempty"`
}

// ScoringContext is everything ScoreMovement needs beyond the movement itself.
// Contexts are immutable per call: the scorer never mutates any field.
type ScoringContext struct {
	Profile *UserProfile // optional; nil means no preference signal

	Config *Snapshot // config snapshot pinned for the whole call

	// Movement ids already placed in the session / microcycle under
	// construction. The novelty dimension penalizes repeats.
	UsedInSession    []string
	UsedInMicrocycle []string

	Goals []Goal

	// DisciplinePrefs are the 0-1 normalized preferences. Populated by the
	// scorer from Profile when nil.
	DisciplinePrefs map[Discipline]float64

	// RequiredPattern, when non-empty, anchors pattern_alignment scoring and
	// the optimizer's compatibility gate.
	RequiredPattern MovementPattern

	// TargetMuscles lists specialization muscles for the session, if any.
	TargetMuscles []Muscle

	// Relaxation is the active relaxation state. Zero value means strict.
	Relaxation RelaxationState
}

// usedBefore reports whether id appears in either usage list.
func (ctx *ScoringContext) usedBefore(id string) (inSession, inMicrocycle bool) {
	for _, u := range ctx.UsedInSession {
		if u == id {
			inSession = true
			break
		}
	}
	for _, u := range ctx.UsedInMicrocycle {
		if u == id {
			inMicrocycle = true
			break
		}
	}
	return inSession, inMicrocycle
}

// RuleStatus describes how a dimension evaluation terminated.
type RuleStatus string

const (
	// StatusMatched means a rule predicate fired and supplied the score.
	StatusMatched RuleStatus = "matched"
	// StatusNoMatch means no rule predicate was true. The score is 0 but the
	// condition is distinguishable from a genuine 0-scoring rule.
	StatusNoMatch RuleStatus = "no_match"
	// StatusFallback means the dimension (or the whole movement) fell back to
	// the neutral score after a rule panic.
	StatusFallback RuleStatus = "fallback"
)

// DimensionDetail is the per-dimension diagnostic block of a ScoringResult.
type DimensionDetail struct {
	RawScore      float64    `yaml:"raw_score"`
	WeightedScore float64    `yaml:"weighted_score"`
	Weight        float64    `yaml:"weight"`
	MatchedRule   string     `yaml:"matched_rule,omitempty"`
	Status        RuleStatus `yaml:"status"`
	// Variance is the normalized spread of the dimension's configured rule
	// scores. Diagnostic only; it never feeds back into the score.
	Variance float64 `yaml:"variance"`
}

// ScoringResult is the outcome of scoring one movement.
type ScoringResult struct {
	MovementID   string  `yaml:"movement_id"`
	MovementName string  `yaml:"movement_name"`
	TotalScore   float64 `yaml:"total_score"`

	Dimensions map[string]DimensionDetail `yaml:"dimensions"`

	// Weights are the normalized dimension weights used for this result.
	// They always sum to 1.0 (±1e-6).
	Weights map[string]float64 `yaml:"weights"`

	Qualified bool `yaml:"qualified"`
	// DisqualificationReason names the weakest raw dimension when Qualified
	// is false.
	DisqualificationReason string `yaml:"disqualification_reason,omitempty"`

	// Fallback marks results produced by the neutral-score recovery path.
	Fallback bool `yaml:"fallback,omitempty"`
}
