package planner

import (
	"math"

	"github.com/sirupsen/logrus"
)

// GlobalMovementScorer aggregates all scoring dimensions into one normalized
// score per movement. It is a pure function of its inputs plus the snapshot it
// was built from; a scorer may be shared across goroutines.
type GlobalMovementScorer struct {
	snap *Snapshot
}

// NewGlobalMovementScorer builds a scorer over one config snapshot.
func NewGlobalMovementScorer(snap *Snapshot) *GlobalMovementScorer {
	return &GlobalMovementScorer{snap: snap}
}

// NormalizeDisciplinePrefs converts the interview's 1-5 preference scale to
// 0-1 by dividing by 5. Values outside [1,5] are clamped.
func NormalizeDisciplinePrefs(prefs map[Discipline]int) map[Discipline]float64 {
	if len(prefs) == 0 {
		return nil
	}
	out := make(map[Discipline]float64, len(prefs))
	for d, v := range prefs {
		if v < 1 {
			v = 1
		}
		if v > 5 {
			v = 5
		}
		out[d] = float64(v) / 5.0
	}
	return out
}

// normalizedWeights returns per-scorer weights summing to 1.0. When the total
// configured weight is 0 every dimension gets an equal share.
func normalizedWeights(scorers []*DimensionScorer) map[string]float64 {
	weights := make(map[string]float64, len(scorers))
	total := 0.0
	for _, s := range scorers {
		total += s.Weight()
	}
	if total <= 0 {
		equal := 1.0 / float64(len(scorers))
		for _, s := range scorers {
			weights[s.Name()] = equal
		}
		return weights
	}
	for _, s := range scorers {
		weights[s.Name()] = s.Weight() / total
	}
	return weights
}

// goalModifier averages the active goals' profile modifiers into one
// total-score multiplier. Returns 1.0 when no goal has a matching profile.
func (g *GlobalMovementScorer) goalModifier(goals []Goal) float64 {
	profiles := g.snap.Scoring.GoalProfiles
	if len(goals) == 0 || len(profiles) == 0 {
		return 1.0
	}
	sum, matched := 0.0, 0
	for _, goal := range goals {
		profile, ok := profiles[goal]
		if !ok || len(profile) == 0 {
			continue
		}
		fieldSum := 0.0
		for _, mod := range profile {
			fieldSum += mod
		}
		sum += fieldSum / float64(len(profile))
		matched++
	}
	if matched == 0 {
		return 1.0
	}
	return sum / float64(matched)
}

// fallbackScore is the deterministic neutral score used when a rule predicate
// panics: biased toward 0.5, boosted slightly for compound and
// preferred-discipline movements, clamped to [0,1].
func fallbackScore(m *SolverMovement, ctx *ScoringContext) float64 {
	score := 0.5
	if m.Compound {
		score += 0.1
	}
	for _, d := range m.Disciplines {
		if ctx.DisciplinePrefs[d] > 0 {
			score += 0.05
			break
		}
	}
	return math.Min(score, 1.0)
}

// ScoreMovement evaluates every enabled dimension for one movement and returns
// the aggregated, goal-adjusted result. A panic inside any rule predicate is
// caught and converted to the neutral fallback score so one bad movement never
// aborts a scoring batch.
func (g *GlobalMovementScorer) ScoreMovement(m SolverMovement, ctx ScoringContext) (result ScoringResult) {
	if ctx.Config == nil {
		ctx.Config = g.snap
	}
	if ctx.DisciplinePrefs == nil && ctx.Profile != nil {
		ctx.DisciplinePrefs = NormalizeDisciplinePrefs(ctx.Profile.DisciplinePreferences)
	}
	if len(ctx.Goals) == 0 && ctx.Profile != nil {
		ctx.Goals = ctx.Profile.Goals
	}

	weights := normalizedWeights(g.snap.Scorers)

	defer func() {
		if r := recover(); r != nil {
			logrus.Warnf("scoring %s: rule panic recovered, using fallback score: %v", m.ID, r)
			score := fallbackScore(&m, &ctx)
			dims := make(map[string]DimensionDetail, len(g.snap.Scorers))
			for _, s := range g.snap.Scorers {
				dims[s.Name()] = DimensionDetail{
					RawScore:      score,
					Weight:        weights[s.Name()],
					WeightedScore: score * weights[s.Name()],
					Status:        StatusFallback,
				}
			}
			result = ScoringResult{
				MovementID:   m.ID,
				MovementName: m.Name,
				TotalScore:   score,
				Dimensions:   dims,
				Weights:      weights,
				Qualified:    score >= g.snap.Scoring.HardConstraints.QualificationThreshold,
				Fallback:     true,
			}
		}
	}()

	result = ScoringResult{
		MovementID:   m.ID,
		MovementName: m.Name,
		Dimensions:   make(map[string]DimensionDetail, len(g.snap.Scorers)),
		Weights:      weights,
	}

	total := 0.0
	weakestName := ""
	weakestRaw := math.Inf(1)
	for _, scorer := range g.snap.Scorers {
		detail := scorer.Evaluate(&m, &ctx)
		detail.Weight = weights[scorer.Name()]
		detail.WeightedScore = detail.RawScore * detail.Weight
		result.Dimensions[scorer.Name()] = detail
		total += detail.WeightedScore
		if detail.RawScore < weakestRaw {
			weakestRaw = detail.RawScore
			weakestName = scorer.Name()
		}
	}

	total *= g.goalModifier(ctx.Goals)
	if total > 1.0 {
		total = 1.0
	}
	if total < 0 {
		total = 0
	}
	result.TotalScore = total

	result.Qualified = total >= g.snap.Scoring.HardConstraints.QualificationThreshold
	if !result.Qualified {
		result.DisqualificationReason = weakestName
	}
	return result
}
