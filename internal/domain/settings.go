package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultCurrencyCode    = USD
	DefaultWarningLimitUSD = 20.0
	DefaultUpperLimitUSD   = 50.0
	DefaultRefreshInterval = 5 * time.Minute
	MinRefreshInterval     = time.Minute
)

// Settings are the user preferences shared between the refresh pipeline and
// the settings collaborator. Limits are always stored in USD.
type Settings struct {
	CurrencyCode    string        `validate:"required,iso4217"`
	WarningLimitUSD float64       `validate:"gte=0"`
	UpperLimitUSD   float64       `validate:"gte=0"`
	RefreshInterval time.Duration `validate:"gte=1m"`
	TeamID          int           `validate:"gte=0"`
	TeamName        string
	UserEmail       string
}

func DefaultSettings() Settings {
	return Settings{
		CurrencyCode:    DefaultCurrencyCode,
		WarningLimitUSD: DefaultWarningLimitUSD,
		UpperLimitUSD:   DefaultUpperLimitUSD,
		RefreshInterval: DefaultRefreshInterval,
	}
}

var settingsValidator = validator.New(validator.WithRequiredStructEnabled())

func (s Settings) Validate() error {
	if err := settingsValidator.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			fields := make([]string, 0, len(validationErrs))
			for _, fieldErr := range validationErrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("invalid settings: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid settings: %w", err)
	}

	if s.WarningLimitUSD > 0 && s.UpperLimitUSD > 0 && s.WarningLimitUSD > s.UpperLimitUSD {
		return fmt.Errorf("invalid settings: warning limit %.2f exceeds upper limit %.2f", s.WarningLimitUSD, s.UpperLimitUSD)
	}

	return nil
}

// Normalize upper-cases the currency code and fills zero-valued fields with defaults.
func (s *Settings) Normalize() {
	if s == nil {
		return
	}

	s.CurrencyCode = strings.ToUpper(strings.TrimSpace(s.CurrencyCode))
	if s.CurrencyCode == "" {
		s.CurrencyCode = DefaultCurrencyCode
	}
	if s.RefreshInterval <= 0 {
		s.RefreshInterval = DefaultRefreshInterval
	}
	s.TeamName = strings.TrimSpace(s.TeamName)
	s.UserEmail = strings.TrimSpace(s.UserEmail)
}
