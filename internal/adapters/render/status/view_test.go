package status

import (
	"testing"
	"time"

	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(v float64) *float64 {
	return &v
}

func stripANSI(s string) string {
	return ansi.Strip(s)
}

func TestRenderLoggedInSpending(t *testing.T) {
	now := time.Date(2026, 3, 15, 11, 0, 0, 0, time.UTC)

	output, err := Render(domain.SpendingState{
		LoggedIn:              true,
		SpendingUSD:           amount(20),
		SpendingConverted:     amount(18),
		WarningLimitConverted: 18,
		UpperLimitConverted:   45,
		CurrencyCode:          "EUR",
		CurrencySymbol:        "€",
		RatesAvailable:        true,
		TeamName:              "Acme",
		UserEmail:             "dev@acme.test",
		DisplayText:           "€18.00",
		UpdatedAt:             now.Add(-2 * time.Minute),
	}, RenderOptions{Now: now, StaleAfter: 15 * time.Minute})

	require.NoError(t, err)
	assert.Contains(t, output, "Cursor Spending")
	assert.Contains(t, output, "dev@acme.test (Acme)")
	assert.Contains(t, output, "€18.00")
	assert.Contains(t, output, "of €45.00")
	assert.Contains(t, output, "alerts: warning €18.00, limit €45.00")
	assert.Contains(t, output, "currency: EUR (converted from USD)")
	assert.Contains(t, output, "resets in 17 days on 01 Apr")
	assert.Contains(t, output, "[")
	assert.NotContains(t, output, "stale")
}

func TestRenderMarksStaleSnapshot(t *testing.T) {
	now := time.Date(2026, 3, 15, 11, 0, 0, 0, time.UTC)

	output, err := Render(domain.SpendingState{
		LoggedIn:          true,
		SpendingConverted: amount(1),
		UpdatedAt:         now.Add(-time.Hour),
	}, RenderOptions{Now: now, StaleAfter: 10 * time.Minute})

	require.NoError(t, err)
	assert.Contains(t, output, "[stale]")
}

func TestRenderRatesUnavailable(t *testing.T) {
	output, err := Render(domain.SpendingState{
		LoggedIn:              true,
		SpendingUSD:           amount(20),
		SpendingConverted:     amount(20),
		WarningLimitConverted: 20,
		UpperLimitConverted:   50,
		CurrencyCode:          "SEK",
		CurrencySymbol:        "$",
		LastErrorMessage:      "Exchange rates unavailable, showing USD",
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "$20.00")
	assert.Contains(t, output, "currency: USD (SEK rate unavailable)")
	assert.Contains(t, output, "Exchange rates unavailable, showing USD")
}

func TestRenderLoggedOut(t *testing.T) {
	output, err := Render(domain.SpendingState{
		LoggedIn:         false,
		LastErrorMessage: "Session expired, please log in again",
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "Not logged in")
	assert.Contains(t, output, "Session expired, please log in again")
	assert.NotContains(t, output, "this month")
}

func TestRenderWithoutSpendingShowsNA(t *testing.T) {
	output, err := Render(domain.SpendingState{
		LoggedIn:          true,
		TeamIDFetchFailed: true,
		LastErrorMessage:  "Can't find your team, check your Cursor account",
		TransientMessage:  "Synced",
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "this month: n/a")
	assert.Contains(t, output, "Can't find your team")
	assert.Contains(t, output, "Synced")
	assert.Contains(t, output, "updated: never")
}

func TestRenderUsageBarFill(t *testing.T) {
	s := newStyles()

	assert.Equal(t, "[------]", stripANSI(renderUsageBar(0, 20, 50, 6, s)))
	assert.Equal(t, "[===---]", stripANSI(renderUsageBar(25, 20, 50, 6, s)))
	assert.Equal(t, "[======]", stripANSI(renderUsageBar(80, 20, 50, 6, s)))
	assert.Equal(t, "[===---]", stripANSI(renderUsageBar(10, 20, 0, 6, s)))
	assert.Equal(t, "[------]", stripANSI(renderUsageBar(10, 0, 0, 6, s)))
}

func TestFormatResetRelative(t *testing.T) {
	now := time.Date(2026, 3, 31, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "resets in 4 hours", formatResetRelative(nextBillingMonth(now), now))
	assert.Equal(t, "resets now", formatResetRelative(now, now))

	dec := time.Date(2026, 12, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), nextBillingMonth(dec))
}

func TestAccountTitle(t *testing.T) {
	assert.Equal(t, "dev@acme.test (Acme)", accountTitle("dev@acme.test", "Acme"))
	assert.Equal(t, "dev@acme.test", accountTitle(" dev@acme.test ", ""))
	assert.Equal(t, "Team: Acme", accountTitle("", "Acme"))
	assert.Empty(t, accountTitle("", ""))
}
