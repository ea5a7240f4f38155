package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/bnema/cursor-spend-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func usdReading(spending, warning, upper float64) Reading {
	return Reading{
		SpendingUSD:  spending,
		WarningUSD:   warning,
		UpperUSD:     upper,
		Spending:     spending,
		Warning:      warning,
		Upper:        upper,
		CurrencyCode: domain.USD,
	}
}

func TestThresholdNotifierHysteresis(t *testing.T) {
	notifier := mocks.NewMockNotifier(t)
	thresholds := NewThresholdNotifier(notifier, nil)

	notifier.EXPECT().Show(mockAnyContext(), mock.MatchedBy(func(n domain.Notification) bool {
		return n.Level == domain.NotificationOrdinary
	})).Return(nil).Times(2)

	warnings := 0
	for _, spending := range []float64{5, 25, 15, 25} {
		warnings += len(thresholds.Evaluate(context.Background(), usdReading(spending, 20, 0)))
	}

	assert.Equal(t, 2, warnings)
}

func TestThresholdNotifierFiresOncePerSession(t *testing.T) {
	notifier := mocks.NewMockNotifier(t)
	thresholds := NewThresholdNotifier(notifier, nil)

	notifier.EXPECT().Show(mockAnyContext(), mock.Anything).Return(nil).Times(2)

	fired := thresholds.Evaluate(context.Background(), usdReading(60, 20, 50))
	require.Len(t, fired, 2)
	assert.Equal(t, domain.NotificationOrdinary, fired[0].Level)
	assert.Equal(t, domain.NotificationUrgent, fired[1].Level)

	assert.Empty(t, thresholds.Evaluate(context.Background(), usdReading(70, 20, 50)))
	assert.Equal(t, domain.NotificationState{WarnedThisSession: true, AlertedThisSession: true}, thresholds.State())
}

func TestThresholdNotifierUpperResetsIndependently(t *testing.T) {
	notifier := mocks.NewMockNotifier(t)
	thresholds := NewThresholdNotifier(notifier, nil)

	notifier.EXPECT().Show(mockAnyContext(), mock.Anything).Return(nil).Times(3)

	thresholds.Evaluate(context.Background(), usdReading(55, 20, 50))
	thresholds.Evaluate(context.Background(), usdReading(30, 20, 50))
	assert.Equal(t, domain.NotificationState{WarnedThisSession: true}, thresholds.State())

	fired := thresholds.Evaluate(context.Background(), usdReading(51, 20, 50))
	require.Len(t, fired, 1)
	assert.Equal(t, domain.NotificationUrgent, fired[0].Level)
}

func TestThresholdNotifierDisabledThresholds(t *testing.T) {
	thresholds := NewThresholdNotifier(mocks.NewMockNotifier(t), nil)

	assert.Empty(t, thresholds.Evaluate(context.Background(), usdReading(100, 0, -1)))
	assert.Equal(t, domain.NotificationState{}, thresholds.State())
}

func TestThresholdNotifierResetForNewSession(t *testing.T) {
	notifier := mocks.NewMockNotifier(t)
	thresholds := NewThresholdNotifier(notifier, nil)

	notifier.EXPECT().Show(mockAnyContext(), mock.Anything).Return(nil).Times(2)

	thresholds.Evaluate(context.Background(), usdReading(25, 20, 0))
	thresholds.ResetForNewSession()
	assert.Equal(t, domain.NotificationState{}, thresholds.State())

	assert.Len(t, thresholds.Evaluate(context.Background(), usdReading(25, 20, 0)), 1)
}

func TestThresholdNotifierSinkErrorStillSetsFlag(t *testing.T) {
	notifier := mocks.NewMockNotifier(t)
	thresholds := NewThresholdNotifier(notifier, nil)

	notifier.EXPECT().Show(mockAnyContext(), mock.Anything).Return(errors.New("no display")).Once()

	thresholds.Evaluate(context.Background(), usdReading(25, 20, 0))
	assert.True(t, thresholds.State().WarnedThisSession)
	assert.Empty(t, thresholds.Evaluate(context.Background(), usdReading(26, 20, 0)))
}

func TestThresholdNotifierUsesDisplayCurrency(t *testing.T) {
	notifier := mocks.NewMockNotifier(t)
	thresholds := NewThresholdNotifier(notifier, nil)

	notifier.EXPECT().Show(mockAnyContext(), mock.Anything).Return(nil).Once()

	fired := thresholds.Evaluate(context.Background(), Reading{
		SpendingUSD:  25,
		WarningUSD:   20,
		Spending:     23,
		Warning:      18.4,
		CurrencyCode: "EUR",
	})
	require.Len(t, fired, 1)
	assert.Contains(t, fired[0].Body, "€23.00")
	assert.Contains(t, fired[0].Body, "€18.40")
}
