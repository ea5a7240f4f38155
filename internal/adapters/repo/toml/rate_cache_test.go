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

func TestRateCacheEmptyWhenFileMissing(t *testing.T) {
	t.Parallel()

	cache, err := NewRateCache(filepath.Join(t.TempDir(), "rates.toml"))
	require.NoError(t, err)

	table, err := cache.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, table.IsEmpty())
	assert.True(t, table.FetchedAt.IsZero())
}

func TestRateCacheRoundTrip(t *testing.T) {
	t.Parallel()

	cache, err := NewRateCache(filepath.Join(t.TempDir(), "rates.toml"))
	require.NoError(t, err)

	fetchedAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	table := domain.RateTable{
		Rates:     map[string]float64{"USD": 1, "EUR": 0.91, "JPY": 149.5},
		FetchedAt: fetchedAt,
	}

	require.NoError(t, cache.Save(context.Background(), table))

	got, err := cache.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, table.Rates, got.Rates)
	assert.True(t, fetchedAt.Equal(got.FetchedAt))
}
