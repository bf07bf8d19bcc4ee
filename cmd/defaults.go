package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/trainplan/trainplan/planner"
)

// defaultsCmd prints the built-in default configuration documents, a starting
// point for customized configs.
var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the built-in default configuration documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		scoring, err := yaml.Marshal(planner.DefaultScoringConfig())
		if err != nil {
			return fmt.Errorf("encoding scoring config: %w", err)
		}
		optimization, err := yaml.Marshal(planner.DefaultOptimizationConfig())
		if err != nil {
			return fmt.Errorf("encoding optimization config: %w", err)
		}
		fmt.Println("# --- movement scoring config ---")
		fmt.Print(string(scoring))
		fmt.Println("# --- optimization config ---")
		fmt.Print(string(optimization))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(defaultsCmd)
}
