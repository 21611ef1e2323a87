package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "xctimer",
		Short: "CLI tool for the cross country timer API",
		Long: `xctimer is a CLI tool for interacting with the cross country timer JSON API.

It manages the timing session (teams, runners, checkpoint times), exports and
shares the session, switches the active screen, and streams live updates.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if err := cfg.LoadFile(flags.Changed); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			client = NewClient(cfg.ServerURL)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: XCTIMER_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "YAML config file (env: XCTIMER_CONFIG)")

	// Add subcommands
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newTeamCmd())
	rootCmd.AddCommand(newRunnerCmd())
	rootCmd.AddCommand(newTimeCmd())
	rootCmd.AddCommand(newStandingsCmd())
	rootCmd.AddCommand(newShareCmd())
	rootCmd.AddCommand(newScreenCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
