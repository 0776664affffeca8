package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <player> <action>",
		Short: "Award an action's points to a player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Event
			req := map[string]string{"player": args[0], "action": args[1]}
			if err := client.Post("/api/v1/assignments", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "leaderboard",
		Aliases: []string{"lb"},
		Short:   "Show the standings",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Leaderboard
			if err := client.Get("/api/v1/leaderboard", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the most recent awards, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return fmt.Errorf("--limit must be at least 1")
			}

			var result History
			if err := client.Get(fmt.Sprintf("/api/v1/history?limit=%d", limit), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 8, "Number of events to show")

	return cmd
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the end-of-night overview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Summary
			if err := client.Get("/api/v1/summary", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
