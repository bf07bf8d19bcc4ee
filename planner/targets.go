package planner

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseVolumeTargets parses a comma-separated string of "muscle:sets" pairs
// into a target-volume map. Returns nil for empty input. Returns an error for
// malformed pairs, duplicate muscles, or non-positive, NaN, or Inf volumes.
func ParseVolumeTargets(s string) (map[Muscle]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	targets := make(map[Muscle]float64, len(parts))
	for _, part := range parts {
		kv := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid volume target %q (expected muscle:sets)", strings.TrimSpace(part))
		}
		muscle := Muscle(strings.TrimSpace(kv[0]))
		if muscle == "" {
			return nil, fmt.Errorf("invalid volume target %q: empty muscle name", strings.TrimSpace(part))
		}
		if _, dup := targets[muscle]; dup {
			return nil, fmt.Errorf("duplicate volume target for muscle %q", muscle)
		}
		sets, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid set volume for muscle %q: %w", muscle, err)
		}
		if sets <= 0 || math.IsNaN(sets) || math.IsInf(sets, 0) {
			return nil, fmt.Errorf("muscle %q set volume must be a finite positive number, got %v", muscle, sets)
		}
		targets[muscle] = sets
	}
	return targets, nil
}
