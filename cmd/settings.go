package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newSettingsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change currency, spending limits and refresh interval",
	}

	cmd.AddCommand(newSettingsShowCmd(app), newSettingsSetCmd(app))

	return cmd
}

type settingsOutput struct {
	CurrencyCode    string  `json:"currency_code"`
	WarningLimitUSD float64 `json:"warning_limit_usd"`
	UpperLimitUSD   float64 `json:"upper_limit_usd"`
	RefreshInterval string  `json:"refresh_interval"`
	TeamID          int     `json:"team_id,omitempty"`
	TeamName        string  `json:"team_name,omitempty"`
	UserEmail       string  `json:"user_email,omitempty"`
	Path            string  `json:"path"`
}

func newSettingsShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := app.settings.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}
			return writeSettings(cmd, app, settings, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print settings as JSON")

	return cmd
}

func newSettingsSetCmd(app *app) *cobra.Command {
	var (
		currency string
		warning  float64
		upper    float64
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update one or more settings",
		Long:  "Update settings. Limits are in USD; 0 disables a limit. The refresh interval must be at least 1m.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if !flags.Changed("currency") && !flags.Changed("warning") && !flags.Changed("upper") && !flags.Changed("interval") {
				return fmt.Errorf("nothing to set: pass at least one of --currency, --warning, --upper, --interval")
			}

			settings, err := app.settings.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}

			if flags.Changed("currency") {
				code := strings.ToUpper(strings.TrimSpace(currency))
				if !domain.IsSupportedCurrency(code) {
					return fmt.Errorf("unsupported currency %q (supported: %s)", currency, strings.Join(domain.SupportedCurrencies, ", "))
				}
				settings.CurrencyCode = code
			}
			if flags.Changed("warning") {
				settings.WarningLimitUSD = warning
			}
			if flags.Changed("upper") {
				settings.UpperLimitUSD = upper
			}
			if flags.Changed("interval") {
				settings.RefreshInterval = interval
			}

			if err := app.settings.Save(cmd.Context(), settings); err != nil {
				return fmt.Errorf("save settings: %w", err)
			}

			saved, err := app.settings.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("reload settings: %w", err)
			}
			return writeSettings(cmd, app, saved, false)
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "", "Display currency code, e.g. EUR")
	cmd.Flags().Float64Var(&warning, "warning", 0, "Warning limit in USD (0 disables)")
	cmd.Flags().Float64Var(&upper, "upper", 0, "Upper limit in USD (0 disables)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Refresh interval, e.g. 5m")

	return cmd
}

func writeSettings(cmd *cobra.Command, app *app, settings domain.Settings, asJSON bool) error {
	out := settingsOutput{
		CurrencyCode:    settings.CurrencyCode,
		WarningLimitUSD: settings.WarningLimitUSD,
		UpperLimitUSD:   settings.UpperLimitUSD,
		RefreshInterval: settings.RefreshInterval.String(),
		TeamID:          settings.TeamID,
		TeamName:        settings.TeamName,
		UserEmail:       settings.UserEmail,
		Path:            app.settings.Path(),
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "currency:  %s\n", out.CurrencyCode)
	_, _ = fmt.Fprintf(w, "warning:   %s\n", limitText(out.WarningLimitUSD))
	_, _ = fmt.Fprintf(w, "upper:     %s\n", limitText(out.UpperLimitUSD))
	_, _ = fmt.Fprintf(w, "interval:  %s\n", out.RefreshInterval)
	if out.TeamName != "" || out.TeamID > 0 {
		_, _ = fmt.Fprintf(w, "team:      %s (%d)\n", out.TeamName, out.TeamID)
	}
	if out.UserEmail != "" {
		_, _ = fmt.Fprintf(w, "email:     %s\n", out.UserEmail)
	}
	_, err := fmt.Fprintf(w, "file:      %s\n", out.Path)
	return err
}

func limitText(usd float64) string {
	if usd <= 0 {
		return "disabled"
	}
	return domain.FormatAmount(usd, domain.USD)
}
