package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin password and session commands",
	}

	cmd.AddCommand(newAdminSetupCmd())
	cmd.AddCommand(newAdminLoginCmd())
	cmd.AddCommand(newAdminLogoutCmd())
	cmd.AddCommand(newAdminStatusCmd())
	cmd.AddCommand(newAdminResetCmd())

	return cmd
}

// readPassword takes the password from the flag, then PARTYSCORE_ADMIN_PASSWORD,
// then the first line of stdin
func readPassword(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv("PARTYSCORE_ADMIN_PASSWORD"); env != "" {
		return env, nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Admin password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.New("no password given")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func login(password string) (Session, error) {
	var result Session
	if err := client.Post("/api/v1/admin/login", map[string]string{"password": password}, &result); err != nil {
		return result, err
	}
	if err := cfg.SaveToken(result.SessionToken); err != nil {
		return result, fmt.Errorf("failed to save token: %w", err)
	}
	client.SetToken(result.SessionToken)
	return result, nil
}

func newAdminSetupCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Set the admin password (first run only) and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}

			if err := client.Post("/api/v1/admin/password", map[string]string{"password": pw}, nil); err != nil {
				return err
			}

			result, err := login(pw)
			if err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Admin password (env: PARTYSCORE_ADMIN_PASSWORD, default: read from stdin)")

	return cmd
}

func newAdminLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as admin and save the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}

			result, err := login(pw)
			if err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Admin password (env: PARTYSCORE_ADMIN_PASSWORD, default: read from stdin)")

	return cmd
}

func newAdminLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the admin session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token != "" {
				// A session the server has already forgotten is still a logout
				var apiErr *Error
				if err := client.Post("/api/v1/admin/logout", nil, nil); err != nil && !(errors.As(err, &apiErr) && apiErr.Status == 401) {
					return err
				}
			}
			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			output(cmd).PrintMessage("Logged out")
			return nil
		},
	}
}

func newAdminStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the password is set and whether you are logged in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result AdminStatus
			if err := client.Get("/api/v1/admin/status", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newAdminResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Zero all scores and clear history (admin)",
		Long: `Zero all scores and clear history and used actions. Players, actions
and the admin password are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset clears every score; pass --yes to confirm")
			}

			if err := client.Post("/api/v1/admin/reset", nil, nil); err != nil {
				return err
			}

			output(cmd).PrintMessage("Scoreboard reset")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")

	return cmd
}
