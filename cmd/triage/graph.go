package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/triagekit/triage/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the chain visualization",
	Long:  `Outputs a Mermaid diagram (graph LR) of the configured escalation chain.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		spec, err := chainSpec(cfg)
		if err != nil {
			return err
		}

		tiers := make([]graph.Tier, len(spec.Handlers))
		for i, h := range spec.Handlers {
			tiers[i] = graph.Tier{Name: h.Name, MaxLevel: h.MaxLevel}
		}

		fmt.Print(graph.GenerateMermaid(tiers, nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
