package toml

import "fmt"

const (
	currentSettingsSchemaVersion = 1
	currentRatesSchemaVersion    = 1
)

type settingsFileSchema struct {
	Version  int            `toml:"version"`
	Currency currencySchema `toml:"currency"`
	Limits   limitsSchema   `toml:"limits"`
	Refresh  refreshSchema  `toml:"refresh"`
	Account  accountSchema  `toml:"account,omitempty"`
}

type currencySchema struct {
	Code string `toml:"code"`
}

// Limits are pointers so an explicit zero (disabled) survives a round trip
// while a missing key falls back to the default.
type limitsSchema struct {
	WarningUSD *float64 `toml:"warning_usd,omitempty"`
	UpperUSD   *float64 `toml:"upper_usd,omitempty"`
}

type refreshSchema struct {
	Interval string `toml:"interval"`
}

type accountSchema struct {
	TeamID    int    `toml:"team_id,omitempty"`
	TeamName  string `toml:"team_name,omitempty"`
	UserEmail string `toml:"user_email,omitempty"`
}

func (s *settingsFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSettingsSchemaVersion
	}
}

func (s settingsFileSchema) validateVersion() error {
	if s.Version > currentSettingsSchemaVersion {
		return fmt.Errorf("unsupported settings schema version %d (current %d)", s.Version, currentSettingsSchemaVersion)
	}
	return nil
}

type ratesFileSchema struct {
	Version   int                `toml:"version"`
	FetchedAt string             `toml:"fetched_at"`
	Rates     map[string]float64 `toml:"rates"`
}

func (s *ratesFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentRatesSchemaVersion
	}
}

func (s ratesFileSchema) validateVersion() error {
	if s.Version > currentRatesSchemaVersion {
		return fmt.Errorf("unsupported rates schema version %d (current %d)", s.Version, currentRatesSchemaVersion)
	}
	return nil
}
