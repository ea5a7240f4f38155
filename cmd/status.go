package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	statusadapter "github.com/bnema/cursor-spend-cli/internal/adapters/render/status"
	"github.com/bnema/cursor-spend-cli/internal/application"
	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool
	var announce bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Refresh and show this month's Cursor spending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var report func(string)
			progress := application.WithProgress(func(stage application.RefreshStage) {
				if report != nil {
					report(stageLabel(stage))
				}
			})

			// One-shot runs never deliver threshold notifications.
			coordinator := app.coordinator(app.authenticator(nil), nil, progress)

			if asJSON {
				coordinator.RefreshNow(cmd.Context(), announce)
			} else {
				err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching Cursor spending...", func(ctx context.Context, send func(string)) error {
					report = send
					coordinator.RefreshNow(ctx, announce)
					return nil
				})
				if err != nil {
					return err
				}
			}

			return writeStateOutput(cmd, app, coordinator.State(), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the spending state as JSON")
	cmd.Flags().BoolVar(&announce, "announce", false, "Show a confirmation message once the refresh completes")

	return cmd
}

func writeStateOutput(cmd *cobra.Command, app *app, state domain.SpendingState, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}

	rendered, err := app.statusRenderer(state, statusadapter.RenderOptions{
		Now:        app.now(),
		StaleAfter: app.staleAfter(cmd.Context()),
	})
	if err != nil {
		return fmt.Errorf("render status: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

// statusLine is the single-line form used by watch.
func statusLine(state domain.SpendingState) string {
	var parts []string

	switch {
	case !state.LoggedIn:
		parts = append(parts, "not logged in")
	case state.SpendingConverted == nil:
		parts = append(parts, "spending unavailable")
	default:
		line := state.DisplayText
		if state.UpperLimitConverted > 0 {
			line += " of " + domain.FormatAmount(state.UpperLimitConverted, state.DisplayCurrency())
		}
		parts = append(parts, line)
	}

	if state.LastErrorMessage != "" {
		parts = append(parts, state.LastErrorMessage)
	}
	if state.TransientMessage != "" {
		parts = append(parts, state.TransientMessage)
	}

	prefix := ""
	if !state.UpdatedAt.IsZero() {
		prefix = "[" + state.UpdatedAt.Local().Format("15:04:05") + "] "
	}
	return prefix + strings.Join(parts, " | ")
}
