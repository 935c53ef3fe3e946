// File: cmd/reset.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onboardkit/onboardkit/internal/store"
)

// newResetCmd creates and configures the `reset` command.
func newResetCmd() *cobra.Command {
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Clears the persisted completion flag and collected data",
		Long: `Removes the recorded onboarding completion so the flow is presented again
on the next start. Safe to run when no state exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cfg.StorePath()
			if err != nil {
				return err
			}
			s, err := store.Open(path, logger)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "onboarding state cleared")
			return nil
		},
	}
	return resetCmd
}

func init() {
	rootCmd.AddCommand(newResetCmd())
}
