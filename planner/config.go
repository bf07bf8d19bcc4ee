package planner

import (
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Canonical scoring dimension names. Every dimension the scorer evaluates, every
// goal-profile modifier key, and every rule dispatch entry uses these names.
const (
	DimPatternAlignment    = "pattern_alignment"
	DimMuscleCoverage      = "muscle_coverage"
	DimCompoundBonus       = "compound_bonus"
	DimDisciplineAlignment = "discipline_alignment"
	DimSkillMatch          = "skill_match"
	DimTierQuality         = "tier_quality"
	DimNovelty             = "novelty"
)

// validDimensionNames maps dimension names to validity. Unexported to prevent mutation.
var validDimensionNames = map[string]bool{
	DimPatternAlignment: true, DimMuscleCoverage: true, DimCompoundBonus: true,
	DimDisciplineAlignment: true, DimSkillMatch: true, DimTierQuality: true,
	DimNovelty: true,
}

// IsValidDimension returns true if name is a recognized scoring dimension.
func IsValidDimension(name string) bool { return validDimensionNames[name] }

// ValidDimensionNames returns sorted valid dimension names.
func ValidDimensionNames() []string {
	names := make([]string, 0, len(validDimensionNames))
	for n := range validDimensionNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RuleConfig parameterizes one rule of a dimension: a named predicate, the score
// it yields when it is the first to match, and its evaluation priority.
// Predicates are bound statically in dimensions.go; the config only tunes
// scores and ordering.
type RuleConfig struct {
	Name     string  `yaml:"name"`
	Score    float64 `yaml:"score"`
	Priority int     `yaml:"priority"`
}

// DimensionConfig defines one scoring dimension.
type DimensionConfig struct {
	Name     string       `yaml:"name"`
	Priority int          `yaml:"priority"` // 1 (highest) .. 7
	Weight   float64      `yaml:"weight"`   // 0.0 .. 2.0, pre-normalization
	Enabled  *bool        `yaml:"enabled,omitempty"`
	Rules    []RuleConfig `yaml:"rules"`
}

// IsEnabled reports whether the dimension participates in scoring.
// Missing enabled field defaults to true.
func (d *DimensionConfig) IsEnabled() bool { return d.Enabled == nil || *d.Enabled }

// GoalProfile maps dimension names to weight modifiers for one training goal.
// The scorer averages the modifiers of all active goals into one total-score
// multiplier.
type GoalProfile map[string]float64

// HardConstraints are selection constraints that never relax.
type HardConstraints struct {
	QualificationThreshold float64 `yaml:"qualification_threshold"` // min total_score to qualify
	MaxSkillGap            int     `yaml:"max_skill_gap"`           // max ranks above user skill
}

// RepSetRange defines the rep/set prescription window for one block type.
type RepSetRange struct {
	RepsMin     int `yaml:"reps_min"`
	RepsMax     int `yaml:"reps_max"`
	SetsMin     int `yaml:"sets_min"`
	SetsDefault int `yaml:"sets_default"`
	SetsMax     int `yaml:"sets_max"`
	RestSeconds int `yaml:"rest_seconds"`
}

// CircuitRange bounds circuit execution; circuits are exempt from RepSetRanges.
type CircuitRange struct {
	MinDurationSeconds int `yaml:"min_duration_seconds"`
	MaxDurationSeconds int `yaml:"max_duration_seconds"`
	MaxMovements       int `yaml:"max_movements"`
}

// ScoringConfig is the movement-scoring configuration document.
type ScoringConfig struct {
	Dimensions []DimensionConfig `yaml:"dimensions"`

	// PatternCompatibility lists acceptable substitute patterns per pattern.
	// Consulted only when pattern_compatibility_expansion is active.
	PatternCompatibility map[MovementPattern][]MovementPattern `yaml:"pattern_compatibility"`

	GoalProfiles map[Goal]GoalProfile `yaml:"goal_profiles"`

	// DisciplineModifiers scale the discipline_alignment contribution per
	// discipline (e.g. olympic lifts weighted up for olympic-focused users).
	DisciplineModifiers map[Discipline]float64 `yaml:"discipline_modifiers"`

	HardConstraints HardConstraints `yaml:"hard_constraints"`

	RepSetRanges map[string]RepSetRange `yaml:"rep_set_ranges"`

	CircuitRanges map[CircuitType]CircuitRange `yaml:"circuit_ranges"`
}

// LoadScoringConfig reads and parses the movement-scoring YAML document.
// Unknown fields are ignored; missing fields take defaults (see applyDefaults).
func LoadScoringConfig(path string) (*ScoringConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scoring config: %w", err)
	}
	cfg := DefaultScoringConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing scoring config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating scoring config %s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults fills zero-valued fields a document may legitimately omit.
func (c *ScoringConfig) applyDefaults() {
	if c.HardConstraints.QualificationThreshold == 0 {
		c.HardConstraints.QualificationThreshold = 0.5
	}
	if c.HardConstraints.MaxSkillGap == 0 {
		c.HardConstraints.MaxSkillGap = 1
	}
	if c.PatternCompatibility == nil {
		c.PatternCompatibility = defaultPatternCompatibility()
	}
}

// Validate checks every field constraint of the scoring document and returns
// an error naming the offending field.
func (c *ScoringConfig) Validate() error {
	if len(c.Dimensions) == 0 {
		return fmt.Errorf("dimensions: at least one scoring dimension required")
	}
	seen := make(map[string]bool, len(c.Dimensions))
	for i, d := range c.Dimensions {
		prefix := fmt.Sprintf("dimensions[%d]", i)
		if !IsValidDimension(d.Name) {
			return fmt.Errorf("%s: unknown dimension %q; valid: %v", prefix, d.Name, ValidDimensionNames())
		}
		if seen[d.Name] {
			return fmt.Errorf("%s: duplicate dimension %q", prefix, d.Name)
		}
		seen[d.Name] = true
		if d.Priority < 1 || d.Priority > 7 {
			return fmt.Errorf("%s.priority: must be in [1, 7], got %d", prefix, d.Priority)
		}
		if d.Weight < 0 || d.Weight > 2.0 || math.IsNaN(d.Weight) {
			return fmt.Errorf("%s.weight: must be in [0.0, 2.0], got %v", prefix, d.Weight)
		}
		for j, r := range d.Rules {
			if r.Name == "" {
				return fmt.Errorf("%s.rules[%d].name: must not be empty", prefix, j)
			}
			if !knownRule(d.Name, r.Name) {
				return fmt.Errorf("%s.rules[%d]: unknown rule %q for dimension %q", prefix, j, r.Name, d.Name)
			}
			if r.Score < 0 || r.Score > 1 || math.IsNaN(r.Score) {
				return fmt.Errorf("%s.rules[%d].score: must be in [0.0, 1.0], got %v", prefix, j, r.Score)
			}
		}
	}
	for goal, profile := range c.GoalProfiles {
		for dim, mod := range profile {
			if !IsValidDimension(dim) {
				return fmt.Errorf("goal_profiles.%s: unknown dimension %q", goal, dim)
			}
			if mod <= 0 || math.IsNaN(mod) || math.IsInf(mod, 0) {
				return fmt.Errorf("goal_profiles.%s.%s: modifier must be a finite positive number, got %v", goal, dim, mod)
			}
		}
	}
	for pattern, subs := range c.PatternCompatibility {
		if !IsValidPattern(pattern) {
			return fmt.Errorf("pattern_compatibility: unknown pattern %q", pattern)
		}
		for _, s := range subs {
			if !IsValidPattern(s) {
				return fmt.Errorf("pattern_compatibility.%s: unknown substitute pattern %q", pattern, s)
			}
		}
	}
	for disc, mod := range c.DisciplineModifiers {
		if mod <= 0 || math.IsNaN(mod) || math.IsInf(mod, 0) {
			return fmt.Errorf("discipline_modifiers.%s: must be a finite positive number, got %v", disc, mod)
		}
	}
	if c.HardConstraints.QualificationThreshold <= 0 || c.HardConstraints.QualificationThreshold > 1 {
		return fmt.Errorf("hard_constraints.qualification_threshold: must be in (0.0, 1.0], got %v",
			c.HardConstraints.QualificationThreshold)
	}
	if c.HardConstraints.MaxSkillGap < 1 {
		return fmt.Errorf("hard_constraints.max_skill_gap: must be at least 1, got %d", c.HardConstraints.MaxSkillGap)
	}
	if len(c.RepSetRanges) == 0 {
		return fmt.Errorf("rep_set_ranges: at least one rep/set range required")
	}
	for block, r := range c.RepSetRanges {
		prefix := "rep_set_ranges." + block
		if r.RepsMin <= 0 || r.RepsMax < r.RepsMin {
			return fmt.Errorf("%s: reps_min/reps_max must satisfy 0 < reps_min <= reps_max, got %d/%d",
				prefix, r.RepsMin, r.RepsMax)
		}
		if r.SetsMin <= 0 || r.SetsMin > r.SetsDefault || r.SetsDefault > r.SetsMax {
			return fmt.Errorf("%s: sets must satisfy 0 < sets_min <= sets_default <= sets_max, got %d/%d/%d",
				prefix, r.SetsMin, r.SetsDefault, r.SetsMax)
		}
		if r.RestSeconds < 0 {
			return fmt.Errorf("%s.rest_seconds: must be non-negative, got %d", prefix, r.RestSeconds)
		}
	}
	for ct, r := range c.CircuitRanges {
		prefix := fmt.Sprintf("circuit_ranges.%s", ct)
		if r.MinDurationSeconds <= 0 || r.MaxDurationSeconds < r.MinDurationSeconds {
			return fmt.Errorf("%s: duration bounds must satisfy 0 < min <= max, got %d/%d",
				prefix, r.MinDurationSeconds, r.MaxDurationSeconds)
		}
	}
	return nil
}

// Dimension returns the config block for the named dimension, or nil.
func (c *ScoringConfig) Dimension(name string) *DimensionConfig {
	for i := range c.Dimensions {
		if c.Dimensions[i].Name == name {
			return &c.Dimensions[i]
		}
	}
	return nil
}

// CompatiblePatterns returns the substitutes for p, always including p itself.
func (c *ScoringConfig) CompatiblePatterns(p MovementPattern) []MovementPattern {
	out := []MovementPattern{p}
	return append(out, c.PatternCompatibility[p]...)
}
