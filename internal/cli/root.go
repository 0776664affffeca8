package cli

import (
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
		Use:   "partyscore",
		Short: "CLI tool for the party scoreboard API",
		Long: `partyscore is a CLI tool for the party scoreboard JSON API.

Anyone can award actions and look at the standings. Adding players and
actions, renaming, deleting and resetting need an admin login: run
"partyscore admin setup" once, then "partyscore admin login".`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load token from file if not provided via flag/env
			if err := cfg.LoadToken(); err != nil {
				return err
			}

			client = NewClient(cfg.ServerURL, cfg.Token)
			if cfg.Verbose {
				client.SetTrace(cmd.ErrOrStderr())
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: PARTYSCORE_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Admin session token (env: PARTYSCORE_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Token file path (env: PARTYSCORE_TOKEN_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Print each request to stderr")

	// Add subcommands
	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newActionCmd())
	rootCmd.AddCommand(newAssignCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newAdminCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		NewOutput(cfg.Output, nil).PrintError(err)
		os.Exit(1)
	}
}

// output returns the formatter for cmd
func output(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout())
}
