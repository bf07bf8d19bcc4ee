package cmd

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/trainplan/trainplan/planner"
	"github.com/trainplan/trainplan/planner/catalog"
	"github.com/trainplan/trainplan/planner/quality"
)

var (
	// Config and data document paths
	scoringConfigPath      string
	optimizationConfigPath string
	catalogPath            string
	profilePath            string

	// Session parameters
	durationMinutes float64
	sessionType     string
	programType     string
	phase           string
	requiredPattern string
	volumeTargets   string
	requiredIDs     []string
	excludedIDs     []string
	equipment       []string
	outputPath      string
)

// planCmd generates one session from the configs, catalog, and profile.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a workout session",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}

		cat, err := catalog.LoadCatalog(catalogPath)
		if err != nil {
			return err
		}

		var profile *planner.UserProfile
		var recovery *planner.RecoveryState
		patternHours := map[planner.MovementPattern]*float64{}
		if profilePath != "" {
			fp, err := catalog.LoadProfile(profilePath)
			if err != nil {
				return err
			}
			if profile, err = fp.Profile(""); err != nil {
				return err
			}
			if recovery, err = fp.RecoveryState(""); err != nil {
				return err
			}
			if patternHours, err = fp.PatternRecoveryHours(""); err != nil {
				return err
			}
		}

		targets, err := planner.ParseVolumeTargets(volumeTargets)
		if err != nil {
			return err
		}

		req := &planner.OptimizationRequest{
			Movements:             cat.AllMovements(),
			Circuits:              cat.AllCircuits(),
			TargetVolumes:         targets,
			DurationBudgetMinutes: durationMinutes,
			ExcludedMovementIDs:   excludedIDs,
			RequiredMovementIDs:   requiredIDs,
			AvailableEquipment:    equipmentOrNil(),
			Profile:               profile,
			RequiredPattern:       planner.MovementPattern(requiredPattern),
		}
		if profile != nil {
			req.Goals = profile.Goals
			req.TargetMuscles = profile.Specializations
		}

		optimizer := planner.NewGreedySessionOptimizer(snap)
		result := optimizer.SolveSession(req)
		logrus.Infof("optimizer: %s", result)

		tracker := quality.NewMetricsTracker(prometheus.DefaultRegisterer)
		tracker.RecordOptimization(result)

		if result.Status == planner.StatusInfeasible {
			return fmt.Errorf("no feasible session even at maximum relaxation; loosen duration, volume, or equipment constraints")
		}

		builder := planner.NewSessionBuilder(snap)
		session := builder.Build(planner.BuildInput{
			Result:               result,
			SessionType:          planner.SessionType(sessionType),
			ProgramType:          programType,
			Phase:                phase,
			Warmup:               movementsByPattern(cat, planner.PatternMobility, 2),
			Cooldown:             movementsByPattern(cat, planner.PatternMobility, 2),
			Recovery:             recovery,
			PatternRecoveryHours: patternHours,
		})

		out, err := yaml.Marshal(session)
		if err != nil {
			return fmt.Errorf("encoding session: %w", err)
		}
		if outputPath == "" {
			fmt.Print(string(out))
			return nil
		}
		if err := os.WriteFile(outputPath, out, 0o644); err != nil {
			return fmt.Errorf("writing session to %s: %w", outputPath, err)
		}
		logrus.Infof("session written to %s", outputPath)
		return nil
	},
}

// loadSnapshot builds the config snapshot from the given paths, falling back
// to the shipped defaults when no paths are provided.
func loadSnapshot() (*planner.Snapshot, error) {
	if scoringConfigPath == "" && optimizationConfigPath == "" {
		return planner.DefaultSnapshot(), nil
	}
	if scoringConfigPath == "" || optimizationConfigPath == "" {
		return nil, fmt.Errorf("either both or neither of --scoring-config and --optimization-config must be set")
	}
	handle, err := planner.NewHandle(scoringConfigPath, optimizationConfigPath)
	if err != nil {
		return nil, err
	}
	return handle.Current(), nil
}

func equipmentOrNil() []string {
	if len(equipment) == 0 {
		return nil
	}
	return equipment
}

// movementsByPattern picks up to n catalog movements with the given pattern,
// in catalog order.
func movementsByPattern(cat *catalog.FileCatalog, pattern planner.MovementPattern, n int) []planner.SolverMovement {
	var out []planner.SolverMovement
	for _, m := range cat.AllMovements() {
		if m.Pattern == pattern {
			out = append(out, m)
			if len(out) == n {
				break
			}
		}
	}
	return out
}

func init() {
	planCmd.Flags().StringVar(&scoringConfigPath, "scoring-config", "", "Path to the movement scoring config (default: built-in)")
	planCmd.Flags().StringVar(&optimizationConfigPath, "optimization-config", "", "Path to the optimization config (default: built-in)")
	planCmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to the movement/circuit catalog")
	planCmd.Flags().StringVar(&profilePath, "profile", "", "Path to the user profile document")
	planCmd.Flags().Float64Var(&durationMinutes, "duration", 60, "Session duration budget in minutes")
	planCmd.Flags().StringVar(&sessionType, "session-type", string(planner.SessionStrength), "Session type (strength, hypertrophy, endurance, cardio, conditioning)")
	planCmd.Flags().StringVar(&programType, "program", planner.ProgramStrength, "Program type for RPE base ranges")
	planCmd.Flags().StringVar(&phase, "phase", planner.PhaseAccumulation, "Microcycle phase (accumulation, intensification, peaking, deload)")
	planCmd.Flags().StringVar(&requiredPattern, "required-pattern", "", "Required movement pattern for the session anchor")
	planCmd.Flags().StringVar(&volumeTargets, "volume-targets", "", "Comma-separated muscle:sets pairs (e.g. quadriceps:3,chest:3)")
	planCmd.Flags().StringSliceVar(&requiredIDs, "require", nil, "Movement ids that must be selected")
	planCmd.Flags().StringSliceVar(&excludedIDs, "exclude", nil, "Movement ids that must not be selected")
	planCmd.Flags().StringSliceVar(&equipment, "equipment", nil, "Available equipment (empty = unconstrained)")
	planCmd.Flags().StringVar(&outputPath, "out", "", "Write the session YAML to this file instead of stdout")
	if err := planCmd.MarkFlagRequired("catalog"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(planCmd)
}
