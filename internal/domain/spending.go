package domain

import "time"

// SpendingState is the full snapshot published after every refresh cycle.
// Consumers always receive a complete value, never a partial update.
type SpendingState struct {
	LoggedIn              bool      `json:"logged_in"`
	SpendingUSD           *float64  `json:"spending_usd,omitempty"`
	SpendingConverted     *float64  `json:"spending_converted,omitempty"`
	WarningLimitConverted float64   `json:"warning_limit_converted"`
	UpperLimitConverted   float64   `json:"upper_limit_converted"`
	CurrencyCode          string    `json:"currency_code"`
	CurrencySymbol        string    `json:"currency_symbol"`
	RatesAvailable        bool      `json:"rates_available"`
	TeamName              string    `json:"team_name,omitempty"`
	UserEmail             string    `json:"user_email,omitempty"`
	LastErrorMessage      string    `json:"last_error_message,omitempty"`
	TeamIDFetchFailed     bool      `json:"team_id_fetch_failed"`
	DisplayText           string    `json:"display_text"`
	TransientMessage      string    `json:"transient_message,omitempty"`
	UpdatedAt             time.Time `json:"updated_at"`
	Generation            uint64    `json:"generation"`
}

// DisplayCurrency is the code actually used for the converted figures. It is
// USD whenever rates were unavailable for the selected currency.
func (s SpendingState) DisplayCurrency() string {
	if s.RatesAvailable && s.CurrencyCode != "" {
		return s.CurrencyCode
	}
	return USD
}

type NotificationState struct {
	WarnedThisSession  bool
	AlertedThisSession bool
}

type NotificationLevel string

const (
	NotificationOrdinary NotificationLevel = "ordinary"
	NotificationUrgent   NotificationLevel = "urgent"
)

type Notification struct {
	Title string
	Body  string
	Level NotificationLevel
}
