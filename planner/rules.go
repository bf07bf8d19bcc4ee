package planner

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// RulePredicate decides whether a rule applies to a movement in a context.
// Predicates MUST NOT modify the movement or the context.
type RulePredicate func(m *SolverMovement, ctx *ScoringContext) bool

// boundRule is a rule with its predicate resolved from the dispatch table.
type boundRule struct {
	name     string
	score    float64
	priority int
	pred     RulePredicate
}

// DimensionScorer evaluates one scoring dimension over a priority-ordered rule
// list. Evaluation is first-match: rules are visited in descending priority and
// the first true predicate supplies the score. No match is a distinct outcome
// (score 0, status "no_match"), not merely a zero score.
type DimensionScorer struct {
	name     string
	weight   float64
	variance float64
	rules    []boundRule
}

// NewDimensionScorer builds a scorer from one dimension's config, binding each
// configured rule name to its static predicate. Returns an error for rule names
// the dimension does not define.
func NewDimensionScorer(cfg *DimensionConfig) (*DimensionScorer, error) {
	if len(cfg.Rules) == 0 {
		return nil, fmt.Errorf("dimension %s: at least one rule required", cfg.Name)
	}
	rules := make([]boundRule, 0, len(cfg.Rules))
	scores := make([]float64, 0, len(cfg.Rules))
	for _, rc := range cfg.Rules {
		pred, err := resolveRule(cfg.Name, rc.Name)
		if err != nil {
			return nil, err
		}
		rules = append(rules, boundRule{name: rc.Name, score: rc.Score, priority: rc.Priority, pred: pred})
		scores = append(scores, rc.Score)
	}
	// Descending priority; configured order breaks ties.
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].priority > rules[j].priority })
	return &DimensionScorer{
		name:     cfg.Name,
		weight:   cfg.Weight,
		variance: normalizedSpread(scores),
		rules:    rules,
	}, nil
}

// normalizedSpread is the population standard deviation of the configured rule
// scores divided by the maximum spread on [0,1] (0.5). Diagnostic only.
func normalizedSpread(scores []float64) float64 {
	if len(scores) < 2 {
		return 0
	}
	sd := stat.PopStdDev(scores, nil)
	v := sd / 0.5
	if v > 1 {
		v = 1
	}
	return v
}

// Name returns the dimension name.
func (d *DimensionScorer) Name() string { return d.name }

// Weight returns the configured (pre-normalization) dimension weight.
func (d *DimensionScorer) Weight() float64 { return d.weight }

// Evaluate runs the first-match rule walk for one movement.
func (d *DimensionScorer) Evaluate(m *SolverMovement, ctx *ScoringContext) DimensionDetail {
	for _, r := range d.rules {
		if r.pred(m, ctx) {
			return DimensionDetail{
				RawScore:    r.score,
				Weight:      d.weight,
				MatchedRule: r.name,
				Status:      StatusMatched,
				Variance:    d.variance,
			}
		}
	}
	return DimensionDetail{
		RawScore: 0,
		Weight:   d.weight,
		Status:   StatusNoMatch,
		Variance: d.variance,
	}
}
