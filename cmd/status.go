// File: cmd/status.go
package cmd

import (
	"fmt"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/onboardkit/onboardkit/pkg/onboard"
)

// newStatusCmd creates and configures the `status` command.
func newStatusCmd() *cobra.Command {
	var asJSON bool

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Prints the persisted onboarding state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := onboard.New(cfg, logger)
			if err != nil {
				return err
			}
			defer client.Close()

			completed := client.Completed()
			data := client.Data()

			if asJSON {
				out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(struct {
					Completed bool              `json:"completed"`
					Data      map[string]string `json:"data,omitempty"`
				}{Completed: completed, Data: data}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "completed: %t\n", completed)
			if len(data) > 0 {
				keys := make([]string, 0, len(data))
				for k := range data {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", k, data[k])
				}
			}
			return nil
		},
	}

	statusCmd.Flags().BoolVar(&asJSON, "json", false, "print the state as JSON")
	return statusCmd
}

func init() {
	rootCmd.AddCommand(newStatusCmd())
}
