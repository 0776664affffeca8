package cli

import (
	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayerAddCmd())
	cmd.AddCommand(newPlayerListCmd())
	cmd.AddCommand(newPlayerAvailableCmd())

	return cmd
}

func newPlayerAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a player (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Entry
			if err := client.Post("/api/v1/players", map[string]string{"name": args[0]}, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newPlayerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List players in the order they joined",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PlayerList
			if err := client.Get("/api/v1/players", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newPlayerAvailableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "available <name>",
		Short: "List the actions a player can still do",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Available
			if err := client.Get("/api/v1/players/"+escape(args[0])+"/available", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
