package toml

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/bnema/cursor-spend-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
)

const settingsTempPattern = ".settings-*.toml.tmp"

// SettingsRepository stores the user's settings in a TOML file.
type SettingsRepository struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.SettingsRepository = (*SettingsRepository)(nil)

func NewSettingsRepository(path string) (*SettingsRepository, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &SettingsRepository{path: normalized, mu: lockForPath(normalized)}, nil
}

func (r *SettingsRepository) Path() string {
	return r.path
}

// Load returns the stored settings, or the defaults when the file does not exist.
func (r *SettingsRepository) Load(ctx context.Context) (domain.Settings, error) {
	if err := ctx.Err(); err != nil {
		return domain.Settings{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Settings{}, err
	}

	return fromSettingsSchema(file), nil
}

func (r *SettingsRepository) Save(ctx context.Context, settings domain.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	settings.Normalize()
	if err := settings.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file := toSettingsSchema(settings)
	file.applyDefaults()

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode settings file: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return writeFileAtomic(r.path, data, settingsTempPattern)
}

func (r *SettingsRepository) readSchema() (settingsFileSchema, error) {
	data, err := readFileIfExists(r.path)
	if err != nil {
		return settingsFileSchema{}, fmt.Errorf("read settings file: %w", err)
	}

	var file settingsFileSchema
	if data != nil {
		if err := toml.Unmarshal(data, &file); err != nil {
			return settingsFileSchema{}, fmt.Errorf("decode settings file: %w", err)
		}
	}
	if err := file.validateVersion(); err != nil {
		return settingsFileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func toSettingsSchema(settings domain.Settings) settingsFileSchema {
	warning := settings.WarningLimitUSD
	upper := settings.UpperLimitUSD

	return settingsFileSchema{
		Currency: currencySchema{Code: settings.CurrencyCode},
		Limits:   limitsSchema{WarningUSD: &warning, UpperUSD: &upper},
		Refresh:  refreshSchema{Interval: settings.RefreshInterval.String()},
		Account: accountSchema{
			TeamID:    settings.TeamID,
			TeamName:  settings.TeamName,
			UserEmail: settings.UserEmail,
		},
	}
}

func fromSettingsSchema(file settingsFileSchema) domain.Settings {
	settings := domain.DefaultSettings()
	settings.CurrencyCode = file.Currency.Code
	if file.Limits.WarningUSD != nil {
		settings.WarningLimitUSD = *file.Limits.WarningUSD
	}
	if file.Limits.UpperUSD != nil {
		settings.UpperLimitUSD = *file.Limits.UpperUSD
	}
	if interval, err := time.ParseDuration(file.Refresh.Interval); err == nil {
		settings.RefreshInterval = interval
	} else {
		settings.RefreshInterval = 0
	}
	settings.TeamID = file.Account.TeamID
	settings.TeamName = file.Account.TeamName
	settings.UserEmail = file.Account.UserEmail

	settings.Normalize()
	if settings.RefreshInterval < domain.MinRefreshInterval {
		settings.RefreshInterval = domain.MinRefreshInterval
	}

	return settings
}
