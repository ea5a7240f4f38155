package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/bnema/cursor-spend-cli/internal/logging"
	"github.com/bnema/cursor-spend-cli/internal/metrics"
	"github.com/bnema/cursor-spend-cli/internal/ports"
)

// Reading is one evaluation input. The USD figures decide whether a threshold
// is crossed; the display figures only feed the notification text.
type Reading struct {
	SpendingUSD float64
	WarningUSD  float64
	UpperUSD    float64

	Spending     float64
	Warning      float64
	Upper        float64
	CurrencyCode string
}

// ThresholdNotifier fires each threshold notification at most once while
// spending stays at or above it. Falling below re-arms the threshold.
type ThresholdNotifier struct {
	notifier ports.Notifier
	logger   *slog.Logger

	mu    sync.Mutex
	state domain.NotificationState
}

func NewThresholdNotifier(notifier ports.Notifier, logger *slog.Logger) *ThresholdNotifier {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ThresholdNotifier{notifier: notifier, logger: logger}
}

// Evaluate updates the per-session flags and delivers any newly crossed
// threshold. It returns the notifications that fired.
func (n *ThresholdNotifier) Evaluate(ctx context.Context, reading Reading) []domain.Notification {
	n.mu.Lock()
	var fired []domain.Notification

	if crossed(&n.state.WarnedThisSession, reading.SpendingUSD, reading.WarningUSD) {
		fired = append(fired, warningNotification(reading))
	}
	if crossed(&n.state.AlertedThisSession, reading.SpendingUSD, reading.UpperUSD) {
		fired = append(fired, upperNotification(reading))
	}
	n.mu.Unlock()

	for _, notification := range fired {
		metrics.NotificationsTotal.WithLabelValues(string(notification.Level)).Inc()
		if n.notifier == nil {
			continue
		}
		if err := n.notifier.Show(ctx, notification); err != nil {
			n.logger.WarnContext(ctx, "deliver notification failed", "title", notification.Title, "error", err)
		}
	}

	return fired
}

// ResetForNewSession clears both flags. Called on login and logout.
func (n *ThresholdNotifier) ResetForNewSession() {
	n.mu.Lock()
	n.state = domain.NotificationState{}
	n.mu.Unlock()
}

func (n *ThresholdNotifier) State() domain.NotificationState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// crossed flips flag and reports true on the first reading at or above a
// positive threshold. Non-positive thresholds are disabled.
func crossed(flag *bool, spending, threshold float64) bool {
	if threshold <= 0 || spending < threshold {
		*flag = false
		return false
	}
	if *flag {
		return false
	}
	*flag = true
	return true
}

func warningNotification(r Reading) domain.Notification {
	return domain.Notification{
		Title: "Cursor spending warning",
		Body: fmt.Sprintf("You've spent %s this month, above your %s warning limit.",
			domain.FormatAmount(r.Spending, r.CurrencyCode), domain.FormatAmount(r.Warning, r.CurrencyCode)),
		Level: domain.NotificationOrdinary,
	}
}

func upperNotification(r Reading) domain.Notification {
	return domain.Notification{
		Title: "Cursor spending limit reached",
		Body: fmt.Sprintf("You've spent %s this month, reaching your %s upper limit.",
			domain.FormatAmount(r.Spending, r.CurrencyCode), domain.FormatAmount(r.Upper, r.CurrencyCode)),
		Level: domain.NotificationUrgent,
	}
}
