package cmd

import (
	"errors"
	"fmt"

	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	var headless bool
	var noOpen bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to Cursor and store the session token",
		Long: "Sign in to Cursor. By default cspend opens the login page in your browser and asks you to paste the " +
			"session cookie value. With --headless it follows the login URL's redirects itself and captures the " +
			"cookie when the server sets it, which suits magic links and SSO redirect chains.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			browser := app.loginBrowser(headless, !noOpen, cmd.OutOrStdout())
			coordinator := app.coordinator(app.authenticator(browser), nil)

			event, err := coordinator.Login(cmd.Context())
			if err != nil {
				if errors.Is(err, domain.ErrLoginInProgress) {
					return errors.New("a login is already in progress")
				}
				return fmt.Errorf("login: %w", err)
			}

			switch event.Kind {
			case domain.LoginEventAuthenticated:
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
				return writeStateOutput(cmd, app, coordinator.State(), false)
			case domain.LoginEventFailed:
				return fmt.Errorf("login failed: %w", event.Err)
			default:
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Login cancelled.")
				return err
			}
		},
	}

	cmd.Flags().BoolVar(&headless, "headless", false, "Follow the login URL without a browser and capture the session cookie")
	cmd.Flags().BoolVar(&noOpen, "no-open", false, "Print the login URL instead of opening a browser")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			coordinator := app.coordinator(app.authenticator(nil), nil)
			if err := coordinator.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout: %w", err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return err
		},
	}
}
