// Package quality validates generated sessions and microcycles against
// structural, coverage, and variety quality bars, and records outcome metrics
// for offline analysis. Validators consume materialized sessions; they never
// feed back into selection at runtime.
package quality

import (
	"fmt"

	"github.com/trainplan/trainplan/planner"
)

// Result is the outcome of one KPI check.
type Result struct {
	Name     string   `yaml:"name"`
	Passed   bool     `yaml:"passed"`
	Score    float64  `yaml:"score"`
	Messages []string `yaml:"messages,omitempty"`
}

func (r *Result) fail(format string, args ...any) {
	r.Passed = false
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

// blockCountRange bounds how many movements a block may hold.
type blockCountRange struct{ min, max int }

// enduranceClassified reports whether the session type uses the wider
// endurance main-block range.
func enduranceClassified(t planner.SessionType) bool {
	return t == planner.SessionEndurance || t == planner.SessionConditioning
}

// SessionQualityKPI validates per-block movement counts and structural
// completeness of one session.
type SessionQualityKPI struct{}

// NewSessionQualityKPI returns the session structure validator.
func NewSessionQualityKPI() *SessionQualityKPI { return &SessionQualityKPI{} }

// mainRange returns the main-block count range for the session type:
// 2-5 for strength/hypertrophy/cardio-class sessions, 6-10 for
// endurance-classified types.
func (k *SessionQualityKPI) mainRange(t planner.SessionType) blockCountRange {
	if enduranceClassified(t) {
		return blockCountRange{min: 6, max: 10}
	}
	return blockCountRange{min: 2, max: 5}
}

// blockUnits counts a block's movements; a finisher circuit counts as exactly
// one unit regardless of its internal movement count.
func blockUnits(b *planner.Block) int {
	units := len(b.Exercises)
	if b.Type == planner.BlockFinisher && b.Circuit != nil {
		units++
	}
	return units
}

// Check validates the session and returns a pass/fail result with one message
// per violated constraint.
func (k *SessionQualityKPI) Check(s *planner.Session) Result {
	result := Result{Name: "session_quality", Passed: true, Score: 100}

	ranges := map[planner.BlockType]blockCountRange{
		planner.BlockWarmup:    {min: 2, max: 5},
		planner.BlockCooldown:  {min: 2, max: 5},
		planner.BlockAccessory: {min: 2, max: 4},
		planner.BlockFinisher:  {min: 1, max: 1},
		planner.BlockMain:      k.mainRange(s.Type),
	}
	for _, b := range s.Blocks {
		r, ok := ranges[b.Type]
		if !ok {
			continue
		}
		units := blockUnits(&b)
		if units < r.min || units > r.max {
			result.fail("%s block has %d movements, expected %d-%d", b.Type, units, r.min, r.max)
		}
	}

	hasWarmup := s.Block(planner.BlockWarmup) != nil
	hasMain := s.Block(planner.BlockMain) != nil
	hasAccessory := s.Block(planner.BlockAccessory) != nil
	hasFinisher := s.Block(planner.BlockFinisher) != nil
	hasCooldown := s.Block(planner.BlockCooldown) != nil
	if !hasWarmup {
		result.fail("missing warmup block")
	}
	if !hasMain {
		result.fail("missing main block")
	}
	if !hasAccessory && !hasFinisher {
		result.fail("missing accessory or finisher block")
	}
	if !hasCooldown {
		result.fail("missing cooldown block")
	}

	if !result.Passed {
		result.Score = 0
	}
	return result
}
