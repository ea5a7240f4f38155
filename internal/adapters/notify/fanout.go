package notify

import (
	"context"
	"errors"

	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/bnema/cursor-spend-cli/internal/ports"
)

// Fanout delivers every notification to all sinks. One failing sink does not
// stop the others.
type Fanout struct {
	sinks []ports.Notifier
}

var _ ports.Notifier = (*Fanout)(nil)

func NewFanout(sinks ...ports.Notifier) *Fanout {
	kept := make([]ports.Notifier, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			kept = append(kept, sink)
		}
	}
	return &Fanout{sinks: kept}
}

func (f *Fanout) Len() int {
	return len(f.sinks)
}

func (f *Fanout) RequestPermission(ctx context.Context) error {
	var errs []error
	for _, sink := range f.sinks {
		if err := sink.RequestPermission(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *Fanout) Show(ctx context.Context, notification domain.Notification) error {
	var errs []error
	for _, sink := range f.sinks {
		if err := sink.Show(ctx, notification); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
