// File: cmd/show.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/onboardkit/onboardkit/pkg/onboard"
)

// newShowCmd creates and configures the `show` command.
func newShowCmd() *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show [identifier]",
		Short: "Presents the onboarding flow in a browser window",
		Long: `Opens the hosted onboarding page in a dedicated browser window and blocks
until the flow completes or the window is closed. A previously recorded
completion does not prevent re-presentation.`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Flags override config file and environment values.
			if err := viper.BindPFlag("browser.kiosk", cmd.Flags().Lookup("kiosk")); err != nil {
				return err
			}
			return viper.BindPFlag("browser.headless", cmd.Flags().Lookup("headless"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Browser.Kiosk = viper.GetBool("browser.kiosk")
			cfg.Browser.Headless = viper.GetBool("browser.headless")
			if len(args) == 1 {
				cfg.Onboarding.Identifier = args[0]
			}

			client, err := onboard.New(cfg, logger, onboard.WithOnComplete(func(data map[string]string) {
				logger.Info("Onboarding completed.", zap.Int("fields", len(data)))
			}))
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.ShowOnboarding(cmd.Context()); err != nil {
				return err
			}
			if client.Completed() {
				fmt.Fprintln(cmd.OutOrStdout(), "onboarding completed")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "onboarding not completed")
			}
			return nil
		},
	}

	showCmd.Flags().Bool("kiosk", false, "present the window in kiosk (borderless fullscreen) mode")
	showCmd.Flags().Bool("headless", false, "run the browser headless (testing only)")
	return showCmd
}

func init() {
	rootCmd.AddCommand(newShowCmd())
}
