package planner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScoringConfig_Valid(t *testing.T) {
	cfg := DefaultScoringConfig()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Dimensions, 7)
}

func TestDefaultOptimizationConfig_Valid(t *testing.T) {
	cfg := DefaultOptimizationConfig()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.ProgressiveRelaxation, 7)
}

func TestIsValidDimension_KnownNames(t *testing.T) {
	assert.True(t, IsValidDimension(DimPatternAlignment))
	assert.True(t, IsValidDimension(DimNovelty))
	assert.False(t, IsValidDimension("unknown"))
	assert.False(t, IsValidDimension(""))
}

func TestValidDimensionNames_Sorted(t *testing.T) {
	names := ValidDimensionNames()
	assert.Len(t, names, 7)
	for i := 1; i < len(names); i++ {
		assert.True(t, names[i-1] < names[i], "names must be sorted")
	}
}

func TestScoringConfig_Validate_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ScoringConfig)
	}{
		{"no dimensions", func(c *ScoringConfig) { c.Dimensions = nil }},
		{"unknown dimension", func(c *ScoringConfig) { c.Dimensions[0].Name = "bogus" }},
		{"duplicate dimension", func(c *ScoringConfig) { c.Dimensions[1].Name = c.Dimensions[0].Name }},
		{"priority too low", func(c *ScoringConfig) { c.Dimensions[0].Priority = 0 }},
		{"priority too high", func(c *ScoringConfig) { c.Dimensions[0].Priority = 8 }},
		{"negative weight", func(c *ScoringConfig) { c.Dimensions[0].Weight = -0.1 }},
		{"weight above cap", func(c *ScoringConfig) { c.Dimensions[0].Weight = 2.5 }},
		{"unknown rule", func(c *ScoringConfig) { c.Dimensions[0].Rules[0].Name = "bogus_rule" }},
		{"rule from other dimension", func(c *ScoringConfig) { c.Dimensions[0].Rules[0].Name = RuleTierGold }},
		{"rule score above 1", func(c *ScoringConfig) { c.Dimensions[0].Rules[0].Score = 1.5 }},
		{"goal profile unknown dimension", func(c *ScoringConfig) {
			c.GoalProfiles[GoalStrength]["bogus"] = 1.0
		}},
		{"goal profile zero modifier", func(c *ScoringConfig) {
			c.GoalProfiles[GoalStrength][DimNovelty] = 0
		}},
		{"unknown compatibility pattern", func(c *ScoringConfig) {
			c.PatternCompatibility["bogus"] = []MovementPattern{PatternSquat}
		}},
		{"unknown substitute pattern", func(c *ScoringConfig) {
			c.PatternCompatibility[PatternSquat] = []MovementPattern{"bogus"}
		}},
		{"negative discipline modifier", func(c *ScoringConfig) {
			c.DisciplineModifiers[DisciplinePowerlifting] = -1
		}},
		{"qualification threshold zero", func(c *ScoringConfig) {
			c.HardConstraints.QualificationThreshold = 0
		}},
		{"qualification threshold above 1", func(c *ScoringConfig) {
			c.HardConstraints.QualificationThreshold = 1.1
		}},
		{"negative skill gap", func(c *ScoringConfig) {
			c.HardConstraints.MaxSkillGap = -1
		}},
		{"reps_min above reps_max", func(c *ScoringConfig) {
			r := c.RepSetRanges["main"]
			r.RepsMin = r.RepsMax + 1
			c.RepSetRanges["main"] = r
		}},
		{"sets_default above sets_max", func(c *ScoringConfig) {
			r := c.RepSetRanges["main"]
			r.SetsDefault = r.SetsMax + 1
			c.RepSetRanges["main"] = r
		}},
		{"negative rest", func(c *ScoringConfig) {
			r := c.RepSetRanges["main"]
			r.RestSeconds = -1
			c.RepSetRanges["main"] = r
		}},
		{"circuit min above max", func(c *ScoringConfig) {
			r := c.CircuitRanges[CircuitAMRAP]
			r.MinDurationSeconds = r.MaxDurationSeconds + 1
			c.CircuitRanges[CircuitAMRAP] = r
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultScoringConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestCompatiblePatterns_IncludesSelf(t *testing.T) {
	cfg := DefaultScoringConfig()
	subs := cfg.CompatiblePatterns(PatternSquat)
	assert.Contains(t, subs, PatternSquat)
	assert.Contains(t, subs, PatternLunge)
}

func TestCompatiblePatterns_UnlistedPattern_SelfOnly(t *testing.T) {
	cfg := DefaultScoringConfig()
	subs := cfg.CompatiblePatterns(PatternCarry)
	assert.Equal(t, []MovementPattern{PatternCarry}, subs)
}

func TestDimensionConfig_IsEnabled_DefaultsTrue(t *testing.T) {
	d := DimensionConfig{Name: DimNovelty}
	assert.True(t, d.IsEnabled())
	d.Enabled = boolPtr(false)
	assert.False(t, d.IsEnabled())
}

func TestLoadScoringConfig_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	doc := `
hard_constraints:
  qualification_threshold: 0.6
  max_skill_gap: 2
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := LoadScoringConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.6, cfg.HardConstraints.QualificationThreshold)
	assert.Equal(t, 2, cfg.HardConstraints.MaxSkillGap)
	// Untouched sections keep their defaults.
	assert.Len(t, cfg.Dimensions, 7)
	assert.NotEmpty(t, cfg.RepSetRanges)
}

func TestLoadScoringConfig_UnknownFieldsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	doc := `
bogus_section:
  whatever: 1
hard_constraints:
  qualification_threshold: 0.4
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := LoadScoringConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.4, cfg.HardConstraints.QualificationThreshold)
}

func TestLoadScoringConfig_InvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	doc := `
dimensions:
  - name: pattern_alignment
    priority: 1
    weight: 3.0
    rules:
      - {name: exact_pattern_match, score: 1.0, priority: 100}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	_, err := LoadScoringConfig(path)
	assert.Error(t, err)
}

func TestLoadScoringConfig_MissingFile(t *testing.T) {
	_, err := LoadScoringConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
