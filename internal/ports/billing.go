package ports

import (
	"context"

	"github.com/bnema/cursor-spend-cli/internal/domain"
)

type BillingClient interface {
	FetchTeamInfo(ctx context.Context, token string) (domain.TeamInfo, error)
	FetchUserInfo(ctx context.Context, token string) (domain.UserInfo, error)
	FetchInvoice(ctx context.Context, token string, teamID int, month int, year int) (domain.Invoice, error)
}
