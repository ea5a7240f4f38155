package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const barWidth = 24

type RenderOptions struct {
	Now time.Time
	// StaleAfter marks the snapshot stale once UpdatedAt is older. Zero disables.
	StaleAfter time.Duration
}

func renderView(state domain.SpendingState, opts RenderOptions, s styles) string {
	lines := []string{s.title.Render("Cursor Spending")}

	if !state.LoggedIn {
		lines = append(lines, s.empty.Render("Not logged in. Run `cspend login` to connect your Cursor account."))
		lines = append(lines, messageLines(state, s)...)
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	if account := accountTitle(state.UserEmail, state.TeamName); account != "" {
		lines = append(lines, s.account.Render(account))
	}
	lines = append(lines, s.header.Render(updatedLine(state.UpdatedAt, opts, s)))

	body := []string{spendingLine(state, opts, s)}
	if line := limitLine(state, s); line != "" {
		body = append(body, line)
	}
	body = append(body, s.detail.Render(ratesLine(state)))
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, body...)))

	lines = append(lines, messageLines(state, s)...)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func accountTitle(email, team string) string {
	email = strings.TrimSpace(email)
	team = strings.TrimSpace(team)
	switch {
	case email != "" && team != "":
		return fmt.Sprintf("%s (%s)", email, team)
	case email != "":
		return email
	case team != "":
		return "Team: " + team
	default:
		return ""
	}
}

func updatedLine(updatedAt time.Time, opts RenderOptions, s styles) string {
	if updatedAt.IsZero() {
		return "updated: never"
	}

	line := "updated: " + updatedAt.Local().Format("15:04")
	if opts.Now.IsZero() || opts.StaleAfter <= 0 {
		return line
	}
	if opts.Now.Sub(updatedAt) > opts.StaleAfter {
		line += " " + s.warning.Render("[stale]")
	}
	return line
}

func spendingLine(state domain.SpendingState, opts RenderOptions, s styles) string {
	label := s.limitKey.Render("this month:")

	if state.SpendingConverted == nil {
		return lipgloss.JoinHorizontal(lipgloss.Top, label, " ", s.empty.Render("n/a"))
	}

	code := state.DisplayCurrency()
	spent := *state.SpendingConverted
	amount := s.amount.Render(domain.FormatAmount(spent, code))

	parts := []string{label, " ", renderUsageBar(spent, state.WarningLimitConverted, state.UpperLimitConverted, barWidth, s), " ", amount}
	if state.UpperLimitConverted > 0 {
		parts = append(parts, " ", s.limitMeta.Render("of "+domain.FormatAmount(state.UpperLimitConverted, code)))
	}
	if !opts.Now.IsZero() {
		parts = append(parts, " ", s.limitMeta.Render(fmt.Sprintf("(%s)", formatResetRelative(nextBillingMonth(opts.Now), opts.Now))))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func limitLine(state domain.SpendingState, s styles) string {
	code := state.DisplayCurrency()
	var parts []string
	if state.WarningLimitConverted > 0 {
		parts = append(parts, "warning "+domain.FormatAmount(state.WarningLimitConverted, code))
	}
	if state.UpperLimitConverted > 0 {
		parts = append(parts, "limit "+domain.FormatAmount(state.UpperLimitConverted, code))
	}
	if len(parts) == 0 {
		return ""
	}
	return s.limitMeta.Render("alerts: " + strings.Join(parts, ", "))
}

func ratesLine(state domain.SpendingState) string {
	if state.RatesAvailable {
		if state.CurrencyCode == domain.USD || state.CurrencyCode == "" {
			return "currency: USD"
		}
		return fmt.Sprintf("currency: %s (converted from USD)", state.CurrencyCode)
	}
	if state.CurrencyCode != "" && state.CurrencyCode != domain.USD {
		return fmt.Sprintf("currency: USD (%s rate unavailable)", state.CurrencyCode)
	}
	return "currency: USD"
}

func messageLines(state domain.SpendingState, s styles) []string {
	var lines []string
	if state.LastErrorMessage != "" {
		lines = append(lines, s.warning.Render(state.LastErrorMessage))
	}
	if state.TransientMessage != "" {
		lines = append(lines, s.transient.Render(state.TransientMessage))
	}
	return lines
}

// renderUsageBar fills the bar with spending relative to the upper limit, or
// the warning limit when no upper limit is set.
func renderUsageBar(spent, warning, upper float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	scale := upper
	if scale <= 0 {
		scale = warning
	}

	filled := 0
	if scale > 0 {
		filled = int(math.Round(float64(width) * clampFraction(spent/scale)))
	}
	empty := width - filled

	fill := s.barOK
	switch {
	case upper > 0 && spent >= upper:
		fill = s.barOver
	case warning > 0 && spent >= warning:
		fill = s.barWarn
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		fill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", empty)),
		s.barBracket.Render("]"),
	)
}

func clampFraction(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// nextBillingMonth is the start of the month after now, in now's location.
func nextBillingMonth(now time.Time) time.Time {
	year, month, _ := now.Date()
	return time.Date(year, month+1, 1, 0, 0, 0, 0, now.Location())
}

func formatResetRelative(resetsAt, now time.Time) string {
	if !resetsAt.After(now) {
		return "resets now"
	}

	remaining := resetsAt.Sub(now)
	if remaining < 24*time.Hour {
		hours := int(math.Ceil(remaining.Hours()))
		if hours < 1 {
			hours = 1
		}
		suffix := "hours"
		if hours == 1 {
			suffix = "hour"
		}
		return fmt.Sprintf("resets in %d %s", hours, suffix)
	}

	days := int(math.Ceil(remaining.Hours() / 24))
	suffix := "days"
	if days == 1 {
		suffix = "day"
	}
	return fmt.Sprintf("resets in %d %s on %s", days, suffix, resetsAt.Format("02 Jan"))
}
