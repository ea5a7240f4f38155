package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/cursor-spend-cli/internal/adapters/statusapi"
	"github.com/bnema/cursor-spend-cli/internal/application"
	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newWatchCmd(app *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep refreshing spending in the background and send alerts",
		Long: "Refresh spending on the configured interval, deliver threshold notifications and print every update. " +
			"With --listen the state is also served over HTTP (/healthz, /v1/state, /v1/stream, /v1/refresh, /metrics).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.useLogLevel("info")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			coordinator := app.coordinator(app.authenticator(nil), app.notifier(ctx))
			return runWatch(ctx, cmd, app, coordinator, listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Serve the status API on this address (defaults to watch.listen)")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, app *app, coordinator *application.RefreshCoordinator, listen string) error {
	if listen == "" {
		listen = app.cfg.Watch.Listen
	}

	updates, unsubscribe := coordinator.Subscribe()
	defer unsubscribe()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case state, ok := <-updates:
				if !ok {
					return nil
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), statusLine(state)); err != nil {
					return err
				}
			}
		}
	})

	g.Go(func() error {
		coordinator.RefreshNow(gctx, true)
		return coordinator.Run(gctx)
	})

	g.Go(func() error {
		return coordinator.FollowSession(gctx, app.cfg.Watch.SessionCheck)
	})

	g.Go(func() error {
		previous, err := app.settings.Load(gctx)
		if err != nil {
			previous = domain.DefaultSettings()
		}
		return app.settings.Watch(gctx, app.logger, func(next domain.Settings) {
			if next.RefreshInterval != previous.RefreshInterval {
				coordinator.Reschedule()
			}
			if displayChanged(previous, next) {
				coordinator.RefreshNow(gctx, false)
			}
			previous = next
		})
	})

	if listen != "" {
		server := statusapi.New(coordinator, coordinator, app.logger)
		g.Go(func() error {
			return server.ListenAndServe(gctx, listen)
		})
	}

	return g.Wait()
}

// displayChanged reports whether next changes what a refresh would show.
// Team and email updates are written by the refresh itself and are ignored.
func displayChanged(previous, next domain.Settings) bool {
	return previous.CurrencyCode != next.CurrencyCode ||
		previous.WarningLimitUSD != next.WarningLimitUSD ||
		previous.UpperLimitUSD != next.UpperLimitUSD
}
