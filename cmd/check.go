package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/trainplan/trainplan/planner"
	"github.com/trainplan/trainplan/planner/quality"
)

var microcyclePath string

// checkCmd runs the quality validators over a materialized microcycle.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a microcycle against the quality KPIs",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(microcyclePath)
		if err != nil {
			return fmt.Errorf("reading microcycle: %w", err)
		}
		var micro planner.Microcycle
		if err := yaml.Unmarshal(data, &micro); err != nil {
			return fmt.Errorf("parsing microcycle: %w", err)
		}

		results := []quality.Result{
			quality.NewMuscleCoverageKPI().Check(&micro),
			quality.NewMovementVarietyKPI().Check(&micro),
		}
		structure := quality.NewSessionQualityKPI()
		for i := range micro.Sessions {
			results = append(results, structure.Check(&micro.Sessions[i]))
		}

		out, err := yaml.Marshal(results)
		if err != nil {
			return fmt.Errorf("encoding results: %w", err)
		}
		fmt.Print(string(out))

		for _, r := range results {
			if !r.Passed {
				return fmt.Errorf("quality check failed: %s", r.Name)
			}
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&microcyclePath, "microcycle", "", "Path to the microcycle YAML document")
	if err := checkCmd.MarkFlagRequired("microcycle"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(checkCmd)
}
