package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/triagekit/triage"
	"github.com/triagekit/triage/internal/presentation/tui"
	"github.com/triagekit/triage/pkg/domain"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive shell",
	Long: `Starts an interactive shell against the configured chain and command
registry. Dispatch requests, run commands and undo them line by line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		eng, cleanup, err := buildEngine(cfg, logger, domain.LifecycleHooks{})
		if err != nil {
			return err
		}
		defer cleanup()

		tui.PrintBanner()
		fmt.Printf("triage %s — type 'handlers' to inspect the chain, 'exit' to leave\n\n", triage.Version)

		runner := triage.NewRunner()
		runner.Input = os.Stdin
		runner.Output = os.Stdout
		runner.Renderer = tui.NewRenderer()
		if session, _ := cmd.Flags().GetString("session"); session != "" {
			runner.Session = session
		}

		return runner.Run(cmd.Context(), eng)
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().StringP("session", "s", "shell", "Session ID for command history")
}
