package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bnema/cursor-spend-cli/internal/adapters/billing"
	browseradapter "github.com/bnema/cursor-spend-cli/internal/adapters/browser"
	"github.com/bnema/cursor-spend-cli/internal/adapters/fx"
	"github.com/bnema/cursor-spend-cli/internal/adapters/notify"
	statusadapter "github.com/bnema/cursor-spend-cli/internal/adapters/render/status"
	tomlrepo "github.com/bnema/cursor-spend-cli/internal/adapters/repo/toml"
	chainstore "github.com/bnema/cursor-spend-cli/internal/adapters/secrets/chain"
	filestore "github.com/bnema/cursor-spend-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/cursor-spend-cli/internal/adapters/secrets/pass"
	"github.com/bnema/cursor-spend-cli/internal/application"
	"github.com/bnema/cursor-spend-cli/internal/config"
	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/bnema/cursor-spend-cli/internal/logging"
	"github.com/bnema/cursor-spend-cli/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	cfg            config.Config
	logger         *slog.Logger
	settings       *tomlrepo.SettingsRepository
	rateCache      *tomlrepo.RateCache
	secretStore    ports.SecretStore
	billing        *billing.Client
	fx             *fx.Client
	statusRenderer func(domain.SpendingState, statusadapter.RenderOptions) (string, error)
	openURL        func(context.Context, string) error
	now            func() time.Time
}

func wireApp() (*app, error) {
	cfg, err := config.Load(viper.New(), "")
	if err != nil {
		return nil, err
	}

	settings, err := tomlrepo.NewSettingsRepository(cfg.Paths.Settings)
	if err != nil {
		return nil, fmt.Errorf("wire settings repository: %w", err)
	}

	rateCache, err := tomlrepo.NewRateCache(cfg.Paths.Rates)
	if err != nil {
		return nil, fmt.Errorf("wire rate cache: %w", err)
	}

	secretStore, err := newSecretStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire secret store: %w", err)
	}

	billingClient := billing.NewClient(
		billing.WithBaseURL(cfg.Billing.BaseURL),
		billing.WithCookieName(cfg.Login.CookieName),
	)

	a := &app{
		cfg:            cfg,
		settings:       settings,
		rateCache:      rateCache,
		secretStore:    secretStore,
		billing:        billingClient,
		fx:             fx.NewClient(fx.WithBaseURL(cfg.FX.BaseURL)),
		statusRenderer: statusadapter.Render,
		openURL:        browseradapter.OpenInSystemBrowser,
		now:            time.Now,
	}
	a.useLogLevel("warn")

	return a, nil
}

func newSecretStore(cfg config.Config) (ports.SecretStore, error) {
	switch cfg.Secrets.Backend {
	case "pass":
		return passstore.NewStore(), nil
	case "file":
		return filestore.NewStore(cfg.Paths.Secrets), nil
	default:
		return chainstore.NewPassFirstWithFileFallback(cfg.Paths.Secrets)
	}
}

// useLogLevel rebuilds the logger with fallback as the level when the config
// leaves log.level unset.
func (a *app) useLogLevel(fallback string) {
	a.logger = logging.Setup(logging.Config{
		Level:  a.cfg.LogLevel(fallback),
		Format: a.cfg.Log.Format,
	})
}

func (a *app) loginBrowser(headless, openBrowser bool, out io.Writer) ports.Browser {
	if headless {
		return browseradapter.NewJarBrowser()
	}

	var opener func(context.Context, string) error
	if openBrowser {
		opener = a.openURL
	}
	return browseradapter.NewPromptBrowser(out, a.cfg.Login.CookieName, a.cfg.Login.CookieDomain, opener)
}

func (a *app) authenticator(browser ports.Browser) *application.SessionAuthenticator {
	return application.NewSessionAuthenticator(browser, a.secretStore, application.LoginConfig{
		URL:          a.cfg.Login.URL,
		CookieName:   a.cfg.Login.CookieName,
		CookieDomain: a.cfg.Login.CookieDomain,
		Timeout:      a.cfg.Login.Timeout,
	}, a.logger)
}

func (a *app) exchangeService() *application.ExchangeRateService {
	return application.NewExchangeRateService(a.fx, a.rateCache, ports.SystemClock{}, a.logger)
}

// coordinator wires a refresh pipeline. A nil notifier records threshold
// crossings without delivering them.
func (a *app) coordinator(auth application.Authenticator, notifier ports.Notifier, opts ...application.CoordinatorOption) *application.RefreshCoordinator {
	return application.NewRefreshCoordinator(application.CoordinatorDeps{
		Auth:       auth,
		Billing:    a.billing,
		Rates:      a.exchangeService(),
		Thresholds: application.NewThresholdNotifier(notifier, a.logger),
		Settings:   a.settings,
		Clock:      ports.SystemClock{},
		Logger:     a.logger,
	}, opts...)
}

// notifier builds the configured sinks, keeping only those that are usable.
func (a *app) notifier(ctx context.Context) ports.Notifier {
	var sinks []ports.Notifier

	if a.cfg.Notify.Desktop {
		desktop := notify.NewDesktop("cspend")
		if err := desktop.RequestPermission(ctx); err != nil {
			a.logger.WarnContext(ctx, "desktop notifications disabled", "error", err)
		} else {
			sinks = append(sinks, desktop)
		}
	}
	if a.cfg.Notify.SlackWebhookURL != "" {
		sinks = append(sinks, notify.NewSlack(a.cfg.Notify.SlackWebhookURL))
	}

	if len(sinks) == 0 {
		return nil
	}
	return notify.NewFanout(sinks...)
}

// staleAfter is how old a snapshot may get before the status view flags it.
func (a *app) staleAfter(ctx context.Context) time.Duration {
	settings, err := a.settings.Load(ctx)
	if err != nil {
		return 2 * domain.DefaultRefreshInterval
	}
	return 2 * settings.RefreshInterval
}
