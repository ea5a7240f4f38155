package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	appDirName = "cspend"
	configName = "config"
	configType = "toml"
	envPrefix  = "CSPEND"
)

const (
	DefaultBillingBaseURL = "https://www.cursor.com/api"
	DefaultFXBaseURL      = "https://api.frankfurter.app"
	DefaultLoginURL       = "https://authenticator.cursor.sh/"
	DefaultCookieName     = "WorkosCursorSessionToken"
	DefaultCookieDomain   = ".cursor.com"
	DefaultLoginTimeout   = 5 * time.Minute
	DefaultSessionCheck   = 10 * time.Second
)

type Config struct {
	Billing BillingConfig `mapstructure:"billing"`
	FX      FXConfig      `mapstructure:"fx"`
	Login   LoginConfig   `mapstructure:"login"`
	Paths   PathsConfig   `mapstructure:"paths"`
	Secrets SecretsConfig `mapstructure:"secrets"`
	Log     LogConfig     `mapstructure:"log"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	Watch   WatchConfig   `mapstructure:"watch"`
}

type BillingConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

type FXConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

type LoginConfig struct {
	URL          string        `mapstructure:"url" validate:"required,url"`
	CookieName   string        `mapstructure:"cookie_name" validate:"required"`
	CookieDomain string        `mapstructure:"cookie_domain" validate:"required"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type PathsConfig struct {
	Settings string `mapstructure:"settings" validate:"required"`
	Rates    string `mapstructure:"rates" validate:"required"`
	Secrets  string `mapstructure:"secrets" validate:"required"`
}

// SecretsConfig selects where the session token lives. "auto" tries pass
// first and falls back to files under paths.secrets.
type SecretsConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=auto pass file"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

type NotifyConfig struct {
	Desktop         bool   `mapstructure:"desktop"`
	SlackWebhookURL string `mapstructure:"slack_webhook_url" validate:"omitempty,url"`
}

// WatchConfig tunes the watch command. SessionCheck is how often the secret
// store is read for a login or logout done by another process.
type WatchConfig struct {
	Listen       string        `mapstructure:"listen" validate:"omitempty,hostname_port"`
	SessionCheck time.Duration `mapstructure:"session_check" validate:"gt=0"`
}

// Dir returns the directory holding config.toml and the state files.
// It honours XDG_CONFIG_HOME through os.UserConfigDir.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// Load reads config.toml from dir (a missing file yields the defaults),
// applies CSPEND_* environment overrides and validates the result. An empty
// dir resolves to Dir().
func Load(v *viper.Viper, dir string) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	if dir == "" {
		resolved, err := Dir()
		if err != nil {
			return Config{}, err
		}
		dir = resolved
	}

	setDefaults(v, dir)

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("billing.base_url", DefaultBillingBaseURL)
	v.SetDefault("fx.base_url", DefaultFXBaseURL)
	v.SetDefault("login.url", DefaultLoginURL)
	v.SetDefault("login.cookie_name", DefaultCookieName)
	v.SetDefault("login.cookie_domain", DefaultCookieDomain)
	v.SetDefault("login.timeout", DefaultLoginTimeout)
	v.SetDefault("paths.settings", filepath.Join(dir, "settings.toml"))
	v.SetDefault("paths.rates", filepath.Join(dir, "rates.toml"))
	v.SetDefault("paths.secrets", filepath.Join(dir, "secrets"))
	v.SetDefault("secrets.backend", "auto")
	v.SetDefault("log.level", "")
	v.SetDefault("log.format", "text")
	v.SetDefault("notify.desktop", true)
	v.SetDefault("notify.slack_webhook_url", "")
	v.SetDefault("watch.listen", "")
	v.SetDefault("watch.session_check", DefaultSessionCheck)
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			fields := make([]string, 0, len(validationErrs))
			for _, fieldErr := range validationErrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fieldErr.Namespace(), fieldErr.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LogLevel returns the configured level, or fallback when unset.
func (c Config) LogLevel(fallback string) string {
	if c.Log.Level == "" {
		return fallback
	}
	return c.Log.Level
}
