package quality

import (
	"math"
	"sort"
	"strings"

	"github.com/trainplan/trainplan/planner"
)

// MajorGroup is one of the seven major muscle groups the coverage KPI tracks.
type MajorGroup string

const (
	GroupChest     MajorGroup = "chest"
	GroupBack      MajorGroup = "back"
	GroupShoulders MajorGroup = "shoulders"
	GroupArms      MajorGroup = "arms"
	GroupLegs      MajorGroup = "legs"
	GroupGlutes    MajorGroup = "glutes"
	GroupCore      MajorGroup = "core"
)

// majorGroupCount is the divisor of the coverage percentage.
const majorGroupCount = 7

// muscleToGroup folds catalog muscles into major groups. Front, side, and
// rear delts all land in the shoulders bucket.
var muscleToGroup = map[planner.Muscle]MajorGroup{
	planner.MuscleChest:      GroupChest,
	planner.MuscleBack:       GroupBack,
	planner.MuscleLats:       GroupBack,
	planner.MuscleFrontDelts: GroupShoulders,
	planner.MuscleSideDelts:  GroupShoulders,
	planner.MuscleRearDelts:  GroupShoulders,
	planner.MuscleBiceps:     GroupArms,
	planner.MuscleTriceps:    GroupArms,
	planner.MuscleForearms:   GroupArms,
	planner.MuscleQuadriceps: GroupLegs,
	planner.MuscleHamstrings: GroupLegs,
	planner.MuscleCalves:     GroupLegs,
	planner.MuscleGlutes:     GroupGlutes,
	planner.MuscleCore:       GroupCore,
}

// GroupForMuscle returns the major group a muscle belongs to.
func GroupForMuscle(m planner.Muscle) (MajorGroup, bool) {
	g, ok := muscleToGroup[m]
	return g, ok
}

// MuscleCoverageKPI measures how many of the seven major muscle groups a
// microcycle's sessions hit. Pass threshold is full coverage.
type MuscleCoverageKPI struct {
	// PassThreshold is the coverage percentage required to pass (default 100).
	PassThreshold float64
}

// NewMuscleCoverageKPI returns the coverage validator with the default
// full-coverage threshold.
func NewMuscleCoverageKPI() *MuscleCoverageKPI {
	return &MuscleCoverageKPI{PassThreshold: 100}
}

// Check computes coverage across all sessions of the microcycle:
// (distinct major groups hit) / 7 * 100.
func (k *MuscleCoverageKPI) Check(micro *planner.Microcycle) Result {
	hit := make(map[MajorGroup]bool)
	for i := range micro.Sessions {
		for _, m := range micro.Sessions[i].Muscles() {
			if g, ok := muscleToGroup[m]; ok {
				hit[g] = true
			}
		}
	}
	score := float64(len(hit)) / majorGroupCount * 100
	score = math.Round(score*10) / 10

	result := Result{Name: "muscle_coverage", Passed: score >= k.PassThreshold, Score: score}
	if !result.Passed {
		missing := make([]string, 0, majorGroupCount-len(hit))
		for _, g := range []MajorGroup{GroupChest, GroupBack, GroupShoulders, GroupArms, GroupLegs, GroupGlutes, GroupCore} {
			if !hit[g] {
				missing = append(missing, string(g))
			}
		}
		sort.Strings(missing)
		result.Messages = append(result.Messages, "uncovered muscle groups: "+strings.Join(missing, ", "))
	}
	return result
}
