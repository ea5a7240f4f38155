package toml

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange with the reloaded settings whenever the settings file is
// written, created or renamed into place. It blocks until ctx is done.
// The parent directory is watched so atomic replacements are observed.
func (r *SettingsRepository) Watch(ctx context.Context, logger *slog.Logger, onChange func(domain.Settings)) error {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create settings watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(r.path)
	if err := ensureDir(dir); err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch settings directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != r.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			settings, err := r.Load(ctx)
			if err != nil {
				logger.Warn("reload settings failed", "path", r.path, "error", err)
				continue
			}
			onChange(settings)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("settings watcher error", "error", err)
		}
	}
}
