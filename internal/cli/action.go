package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newActionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "action",
		Short: "Action management commands",
	}

	cmd.AddCommand(newActionAddCmd())
	cmd.AddCommand(newActionRenameCmd())
	cmd.AddCommand(newActionDeleteCmd())
	cmd.AddCommand(newActionListCmd())

	return cmd
}

func parsePoints(s string) (int, error) {
	points, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("points must be a whole number, got %q", s)
	}
	return points, nil
}

func newActionAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <points>",
		Short: "Add an action, or change the points of an existing one (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := parsePoints(args[1])
			if err != nil {
				return err
			}

			var result Entry
			req := map[string]any{"name": args[0], "points": points}
			if err := client.Post("/api/v1/actions", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newActionRenameCmd() *cobra.Command {
	var points int

	cmd := &cobra.Command{
		Use:   "rename <old-name> <new-name>",
		Short: "Rename an action and set its points (admin)",
		Long: `Rename an action and set its points. Players who already did the
action keep it marked as done under the new name; scores and history
are not touched.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("points") {
				// Keep the current value
				var actions ActionList
				if err := client.Get("/api/v1/actions", &actions); err != nil {
					return err
				}
				found := false
				for _, a := range actions.Actions {
					if a.Name == args[0] {
						points = a.Points
						found = true
					}
				}
				if !found {
					return fmt.Errorf("action %q not found", args[0])
				}
			}

			var result Entry
			req := map[string]any{"name": args[1], "points": points}
			if err := client.Put("/api/v1/actions/"+escape(args[0]), req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&points, "points", 0, "New points value (default: unchanged)")

	return cmd
}

func newActionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete an action (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/actions/" + escape(args[0])); err != nil {
				return err
			}

			output(cmd).PrintMessage(fmt.Sprintf("Deleted action %s", args[0]))
			return nil
		},
	}
}

func newActionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ActionList
			if err := client.Get("/api/v1/actions", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
