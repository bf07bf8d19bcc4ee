package quality

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/trainplan/trainplan/planner"
)

// Classification buckets sessions for the pattern-rotation check. Repeats are
// only violations within the same classification: a squat-led conditioning
// session does not block a squat-led strength session.
type Classification string

const (
	ClassRegular      Classification = "REGULAR"
	ClassCardio       Classification = "CARDIO"
	ClassConditioning Classification = "CONDITIONING"
)

// Classify maps a session to its rotation classification.
func Classify(s *planner.Session) Classification {
	switch s.Type {
	case planner.SessionCardio:
		return ClassCardio
	case planner.SessionConditioning:
		return ClassConditioning
	default:
		return ClassRegular
	}
}

// Composite weights of the overall variety score.
const (
	rotationWeight     = 0.4
	diversityWeight    = 0.4
	distributionWeight = 0.2

	// distributionPatternBonusCap is the distinct-pattern count at which the
	// distribution bonus saturates.
	distributionPatternBonusCap = 8
)

// MovementVarietyKPI checks pattern rotation, movement diversity, and pattern
// distribution quality across a microcycle.
type MovementVarietyKPI struct {
	// RotationWindow is how many preceding same-classification sessions the
	// primary pattern must not repeat within (default 2).
	RotationWindow int
	// DiversityThreshold is the minimum unique-movement percentage (default 70).
	DiversityThreshold float64
}

// NewMovementVarietyKPI returns the variety validator with default thresholds.
func NewMovementVarietyKPI() *MovementVarietyKPI {
	return &MovementVarietyKPI{RotationWindow: 2, DiversityThreshold: 70}
}

// CheckPatternRotation reports whether the current session's primary pattern
// repeats within the last RotationWindow sessions of the same classification.
// history is ordered oldest first.
func (k *MovementVarietyKPI) CheckPatternRotation(current *planner.Session, history []*planner.Session) (violation bool, message string) {
	pattern := current.PrimaryPattern()
	if pattern == "" {
		return false, ""
	}
	class := Classify(current)
	seen := 0
	for i := len(history) - 1; i >= 0 && seen < k.RotationWindow; i-- {
		prev := history[i]
		if Classify(prev) != class {
			continue
		}
		seen++
		if prev.PrimaryPattern() == pattern {
			return true, fmt.Sprintf("primary pattern %s repeats within last %d %s sessions",
				pattern, k.RotationWindow, class)
		}
	}
	return false, ""
}

// movementDiversity is the unique-movement percentage across the microcycle.
func movementDiversity(micro *planner.Microcycle) float64 {
	total := 0
	unique := make(map[string]bool)
	for i := range micro.Sessions {
		for _, id := range micro.Sessions[i].MovementIDs() {
			total++
			unique[id] = true
		}
	}
	if total == 0 {
		return 0
	}
	return float64(len(unique)) / float64(total) * 100
}

// distributionScore measures how evenly patterns are distributed, in [0,1]:
// one minus the mean absolute deviation of pattern shares from the even share
// (normalized), plus a bonus for distinct-pattern count up to eight.
func distributionScore(micro *planner.Microcycle) float64 {
	counts := make(map[planner.MovementPattern]int)
	total := 0
	for i := range micro.Sessions {
		for _, p := range micro.Sessions[i].Patterns() {
			counts[p]++
			total++
		}
	}
	if total == 0 || len(counts) == 0 {
		return 0
	}
	shares := make([]float64, 0, len(counts))
	for _, c := range counts {
		shares = append(shares, float64(c)/float64(total))
	}
	// Shares sum to 1, so the mean share is exactly the even share 1/n.
	even := stat.Mean(shares, nil)
	deviation := 0.0
	for _, s := range shares {
		deviation += math.Abs(s - even)
	}
	// Maximum total deviation for n shares is 2(1 - 1/n).
	maxDeviation := 2 * (1 - even)
	evenness := 1.0
	if maxDeviation > 0 {
		evenness = 1 - deviation/maxDeviation
	}

	bonus := math.Min(float64(len(counts))/distributionPatternBonusCap, 1.0)
	score := 0.8*evenness + 0.2*bonus
	return math.Min(math.Max(score, 0), 1)
}

// Check computes the composite variety result for a microcycle: rotation 40%,
// diversity 40%, distribution 20%.
func (k *MovementVarietyKPI) Check(micro *planner.Microcycle) Result {
	result := Result{Name: "movement_variety", Passed: true}

	// Rotation: walk sessions in order, each validated against its own past.
	violations := 0
	var history []*planner.Session
	for i := range micro.Sessions {
		s := &micro.Sessions[i]
		if bad, msg := k.CheckPatternRotation(s, history); bad {
			violations++
			result.fail("session %s: %s", s.ID, msg)
		}
		history = append(history, s)
	}
	rotationScore := 1.0
	if n := len(micro.Sessions); n > 0 {
		rotationScore = 1 - float64(violations)/float64(n)
	}

	diversity := movementDiversity(micro)
	if diversity < k.DiversityThreshold {
		result.fail("unique-movement percentage %.1f below threshold %.1f", diversity, k.DiversityThreshold)
	}

	distribution := distributionScore(micro)

	composite := rotationWeight*rotationScore + diversityWeight*diversity/100 + distributionWeight*distribution
	result.Score = math.Round(composite*1000) / 10 // percentage, one decimal
	return result
}
