package toml

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRepositoryWatchReportsSaves(t *testing.T) {
	repo, err := NewSettingsRepository(filepath.Join(t.TempDir(), "settings.toml"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan domain.Settings, 8)
	done := make(chan error, 1)
	go func() {
		done <- repo.Watch(ctx, nil, func(settings domain.Settings) {
			changes <- settings
		})
	}()

	updated := domain.DefaultSettings()
	updated.RefreshInterval = 15 * time.Minute

	// The watcher registers asynchronously; keep saving until it reports.
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case got := <-changes:
			assert.Equal(t, 15*time.Minute, got.RefreshInterval)
			cancel()
			require.NoError(t, <-done)
			return
		case <-ticker.C:
			require.NoError(t, repo.Save(context.Background(), updated))
		case <-deadline:
			t.Fatal("settings change was not reported")
		}
	}
}
