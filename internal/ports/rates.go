package ports

import (
	"context"

	"github.com/bnema/cursor-spend-cli/internal/domain"
)

// RateFetcher retrieves rates relative to USD for the requested currency codes.
type RateFetcher interface {
	FetchRates(ctx context.Context, codes []string) (map[string]float64, error)
}

// RateCache persists the last fetched rate table. Load returns an empty table
// when nothing has been cached yet.
type RateCache interface {
	Load(ctx context.Context) (domain.RateTable, error)
	Save(ctx context.Context, table domain.RateTable) error
}
