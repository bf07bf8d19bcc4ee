package planner

import "fmt"

// Rule names, grouped by the dimension that defines them. The config refers to
// rules by these names; predicates are bound statically via resolveRule.
const (
	// pattern_alignment
	RuleExactPatternMatch = "exact_pattern_match"
	RuleCompatiblePattern = "compatible_pattern"
	RuleNoRequiredPattern = "no_required_pattern"

	// muscle_coverage
	RulePrimaryTargetMuscle   = "primary_target_muscle"
	RuleSynergistTargetMuscle = "synergist_target_muscle"
	RuleNoTargetMuscles       = "no_target_muscles"

	// compound_bonus
	RuleCompoundMovement  = "compound_movement"
	RuleIsolationMovement = "isolation_movement"

	// discipline_alignment
	RuleStrongPreference   = "strong_preference"
	RuleModeratePreference = "moderate_preference"
	RuleWeakPreference     = "weak_preference"
	RuleNoPreferenceSignal = "no_preference_signal"

	// skill_match
	RuleSkillWithinLevel = "skill_within_level"
	RuleSkillOneAbove    = "skill_one_above"
	RuleSkillTooAdvanced = "skill_too_advanced"

	// tier_quality
	RuleTierGold    = "tier_gold"
	RuleTierSilver  = "tier_silver"
	RuleTierBronze  = "tier_bronze"
	RuleTierGeneric = "tier_generic"

	// novelty
	RuleUsedThisSession    = "used_this_session"
	RuleUsedThisMicrocycle = "used_this_microcycle"
	RuleFresh              = "fresh"
)

// maxDisciplinePref returns the highest normalized preference across the
// movement's disciplines, scaled by any configured discipline modifier.
func maxDisciplinePref(m *SolverMovement, ctx *ScoringContext) float64 {
	if len(ctx.DisciplinePrefs) == 0 {
		return 0
	}
	best := 0.0
	for _, d := range m.Disciplines {
		pref := ctx.DisciplinePrefs[d]
		if ctx.Config != nil && ctx.Config.Scoring != nil {
			if mod, ok := ctx.Config.Scoring.DisciplineModifiers[d]; ok {
				pref *= mod
			}
		}
		if ctx.Relaxation.DisciplineWeightMultiplier > 0 {
			pref *= ctx.Relaxation.DisciplineWeightMultiplier
		}
		if pref > best {
			best = pref
		}
	}
	return best
}

// maxSkillGap returns the configured allowance of skill ranks above the user's
// level that still score as a stretch rather than too advanced.
func maxSkillGap(ctx *ScoringContext) int {
	if ctx.Config != nil && ctx.Config.Scoring != nil {
		return ctx.Config.Scoring.HardConstraints.MaxSkillGap
	}
	return 1
}

func targetMuscleSet(ctx *ScoringContext) map[Muscle]bool {
	if len(ctx.TargetMuscles) == 0 {
		return nil
	}
	set := make(map[Muscle]bool, len(ctx.TargetMuscles))
	for _, t := range ctx.TargetMuscles {
		set[t] = true
	}
	return set
}

// ruleDispatch is the static dimension -> rule -> predicate table.
var ruleDispatch = map[string]map[string]RulePredicate{
	DimPatternAlignment: {
		RuleExactPatternMatch: func(m *SolverMovement, ctx *ScoringContext) bool {
			return ctx.RequiredPattern != "" && m.Pattern == ctx.RequiredPattern
		},
		RuleCompatiblePattern: func(m *SolverMovement, ctx *ScoringContext) bool {
			if ctx.RequiredPattern == "" || ctx.Config == nil || ctx.Config.Scoring == nil {
				return false
			}
			for _, p := range ctx.Config.Scoring.CompatiblePatterns(ctx.RequiredPattern) {
				if m.Pattern == p {
					return true
				}
			}
			return false
		},
		RuleNoRequiredPattern: func(_ *SolverMovement, ctx *ScoringContext) bool {
			return ctx.RequiredPattern == ""
		},
	},
	DimMuscleCoverage: {
		RulePrimaryTargetMuscle: func(m *SolverMovement, ctx *ScoringContext) bool {
			return targetMuscleSet(ctx)[m.PrimaryMuscle]
		},
		RuleSynergistTargetMuscle: func(m *SolverMovement, ctx *ScoringContext) bool {
			targets := targetMuscleSet(ctx)
			if targets == nil {
				return false
			}
			for _, s := range m.Synergists {
				if targets[s] {
					return true
				}
			}
			return false
		},
		RuleNoTargetMuscles: func(_ *SolverMovement, ctx *ScoringContext) bool {
			return len(ctx.TargetMuscles) == 0
		},
	},
	DimCompoundBonus: {
		RuleCompoundMovement: func(m *SolverMovement, _ *ScoringContext) bool {
			return m.Compound
		},
		RuleIsolationMovement: func(m *SolverMovement, _ *ScoringContext) bool {
			return !m.Compound
		},
	},
	DimDisciplineAlignment: {
		RuleStrongPreference: func(m *SolverMovement, ctx *ScoringContext) bool {
			return maxDisciplinePref(m, ctx) >= 0.8
		},
		RuleModeratePreference: func(m *SolverMovement, ctx *ScoringContext) bool {
			return maxDisciplinePref(m, ctx) >= 0.5
		},
		RuleWeakPreference: func(m *SolverMovement, ctx *ScoringContext) bool {
			return maxDisciplinePref(m, ctx) > 0
		},
		RuleNoPreferenceSignal: func(_ *SolverMovement, _ *ScoringContext) bool {
			return true
		},
	},
	DimSkillMatch: {
		RuleSkillWithinLevel: func(m *SolverMovement, ctx *ScoringContext) bool {
			if ctx.Profile == nil {
				return true
			}
			return m.SkillLevel.Rank() <= ctx.Profile.SkillLevel.Rank()
		},
		RuleSkillOneAbove: func(m *SolverMovement, ctx *ScoringContext) bool {
			if ctx.Profile == nil {
				return false
			}
			rank, user := m.SkillLevel.Rank(), ctx.Profile.SkillLevel.Rank()
			return rank > user && rank <= user+maxSkillGap(ctx)
		},
		RuleSkillTooAdvanced: func(m *SolverMovement, ctx *ScoringContext) bool {
			if ctx.Profile == nil {
				return false
			}
			return m.SkillLevel.Rank() > ctx.Profile.SkillLevel.Rank()+maxSkillGap(ctx)
		},
	},
	DimTierQuality: {
		RuleTierGold:    func(m *SolverMovement, _ *ScoringContext) bool { return m.Tier == TierGold },
		RuleTierSilver:  func(m *SolverMovement, _ *ScoringContext) bool { return m.Tier == TierSilver },
		RuleTierBronze:  func(m *SolverMovement, _ *ScoringContext) bool { return m.Tier == TierBronze },
		RuleTierGeneric: func(m *SolverMovement, _ *ScoringContext) bool { return m.Tier == TierGeneric },
	},
	DimNovelty: {
		RuleUsedThisSession: func(m *SolverMovement, ctx *ScoringContext) bool {
			inSession, _ := ctx.usedBefore(m.ID)
			return inSession
		},
		RuleUsedThisMicrocycle: func(m *SolverMovement, ctx *ScoringContext) bool {
			_, inMicro := ctx.usedBefore(m.ID)
			return inMicro
		},
		RuleFresh: func(_ *SolverMovement, _ *ScoringContext) bool { return true },
	},
}

// knownRule reports whether the dimension defines the named rule.
func knownRule(dimension, rule string) bool {
	rules, ok := ruleDispatch[dimension]
	if !ok {
		return false
	}
	_, ok = rules[rule]
	return ok
}

// resolveRule returns the predicate for (dimension, rule) or an error.
func resolveRule(dimension, rule string) (RulePredicate, error) {
	rules, ok := ruleDispatch[dimension]
	if !ok {
		return nil, fmt.Errorf("unknown dimension %q; valid: %v", dimension, ValidDimensionNames())
	}
	pred, ok := rules[rule]
	if !ok {
		return nil, fmt.Errorf("dimension %q: unknown rule %q", dimension, rule)
	}
	return pred, nil
}
