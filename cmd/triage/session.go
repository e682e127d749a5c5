package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/triagekit/triage"
	"github.com/triagekit/triage/pkg/domain"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent sessions",
	Long:  `List, inspect, undo and remove persistent session histories.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all known sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := sessionEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		sessions, err := eng.Sessions(cmd.Context())
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}
		for _, s := range sessions {
			fmt.Println("- " + s)
		}
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show the undo history of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := sessionEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		journal, err := eng.History(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("load session %q: %w", args[0], err)
		}

		data, err := json.MarshalIndent(journal, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var sessionUndoCmd = &cobra.Command{
	Use:   "undo <session-id>",
	Short: "Undo the most recent command of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := sessionEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		name, err := eng.Undo(cmd.Context(), args[0])
		if err == domain.ErrNothingToUndo {
			fmt.Println("Nothing to undo.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("undo: %w", err)
		}
		fmt.Printf("Undone %s\n", name)
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>",
	Short: "Remove a session and its history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := sessionEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := eng.DeleteSession(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("remove session %q: %w", args[0], err)
		}
		fmt.Printf("Removed session %s\n", args[0])
		return nil
	},
}

func sessionEngine(cmd *cobra.Command) (*triage.Engine, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg)
	return buildEngine(cfg, logger, domain.LifecycleHooks{})
}

func init() {
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionUndoCmd)
	sessionCmd.AddCommand(sessionRmCmd)
	rootCmd.AddCommand(sessionCmd)
}
