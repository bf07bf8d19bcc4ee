package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDimensionScorer_UnknownRule(t *testing.T) {
	cfg := &DimensionConfig{
		Name:   DimTierQuality,
		Weight: 1.0,
		Rules:  []RuleConfig{{Name: "bogus", Score: 1.0, Priority: 100}},
	}
	_, err := NewDimensionScorer(cfg)
	assert.Error(t, err)
}

func TestNewDimensionScorer_NoRules(t *testing.T) {
	_, err := NewDimensionScorer(&DimensionConfig{Name: DimTierQuality, Weight: 1.0})
	assert.Error(t, err)
}

func TestDimensionScorer_FirstMatchWins(t *testing.T) {
	// used_this_session outranks fresh, which always matches.
	cfg := &DimensionConfig{
		Name:   DimNovelty,
		Weight: 0.7,
		Rules: []RuleConfig{
			{Name: RuleFresh, Score: 1.0, Priority: 50},
			{Name: RuleUsedThisSession, Score: 0.0, Priority: 100},
			{Name: RuleUsedThisMicrocycle, Score: 0.4, Priority: 80},
		},
	}
	scorer, err := NewDimensionScorer(cfg)
	require.NoError(t, err)

	m := SolverMovement{ID: "squat", Pattern: PatternSquat, PrimaryMuscle: MuscleQuadriceps}

	detail := scorer.Evaluate(&m, &ScoringContext{UsedInSession: []string{"squat"}})
	assert.Equal(t, StatusMatched, detail.Status)
	assert.Equal(t, RuleUsedThisSession, detail.MatchedRule)
	assert.Equal(t, 0.0, detail.RawScore)

	detail = scorer.Evaluate(&m, &ScoringContext{UsedInMicrocycle: []string{"squat"}})
	assert.Equal(t, RuleUsedThisMicrocycle, detail.MatchedRule)
	assert.Equal(t, 0.4, detail.RawScore)

	detail = scorer.Evaluate(&m, &ScoringContext{})
	assert.Equal(t, RuleFresh, detail.MatchedRule)
	assert.Equal(t, 1.0, detail.RawScore)
}

func TestDimensionScorer_NoMatch_DistinctFromZeroScore(t *testing.T) {
	// tier_quality with only the gold rule: a silver movement matches nothing.
	cfg := &DimensionConfig{
		Name:   DimTierQuality,
		Weight: 0.7,
		Rules:  []RuleConfig{{Name: RuleTierGold, Score: 1.0, Priority: 100}},
	}
	scorer, err := NewDimensionScorer(cfg)
	require.NoError(t, err)

	m := SolverMovement{ID: "m1", Tier: TierSilver}
	detail := scorer.Evaluate(&m, &ScoringContext{})
	assert.Equal(t, StatusNoMatch, detail.Status)
	assert.Empty(t, detail.MatchedRule)
	assert.Equal(t, 0.0, detail.RawScore)
}

func TestNormalizedSpread(t *testing.T) {
	assert.Equal(t, 0.0, normalizedSpread(nil))
	assert.Equal(t, 0.0, normalizedSpread([]float64{1.0}))
	// Max spread on [0,1]: half the scores at 0, half at 1.
	assert.InDelta(t, 1.0, normalizedSpread([]float64{0, 1}), 0.001)
	assert.InDelta(t, 0.0, normalizedSpread([]float64{0.5, 0.5}), 0.001)
}

func TestKnownRule(t *testing.T) {
	assert.True(t, knownRule(DimPatternAlignment, RuleExactPatternMatch))
	assert.False(t, knownRule(DimPatternAlignment, RuleTierGold))
	assert.False(t, knownRule("bogus", RuleTierGold))
}
