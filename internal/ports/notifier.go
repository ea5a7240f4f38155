package ports

import (
	"context"

	"github.com/bnema/cursor-spend-cli/internal/domain"
)

type Notifier interface {
	RequestPermission(ctx context.Context) error
	Show(ctx context.Context, notification domain.Notification) error
}
