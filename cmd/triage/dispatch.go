package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/triagekit/triage/pkg/domain"
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch <level> <kind>",
	Short: "Route a single request through the chain",
	Long: `Dispatches a one-shot request through the configured escalation chain
and prints the outcome as JSON. An unhandled request exits with code 2 so
scripts can branch on it.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := strconv.Atoi(args[0])
		if err != nil || level < 0 {
			return fmt.Errorf("level must be a non-negative integer, got %q", args[0])
		}

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

		outcome, err := eng.Dispatch(cmd.Context(), domain.NewRequest(args[1], level, nil))
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(outcome, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))

		if !outcome.Handled {
			os.Exit(2)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dispatchCmd)
}
