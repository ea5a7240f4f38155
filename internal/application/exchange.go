package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/bnema/cursor-spend-cli/internal/logging"
	"github.com/bnema/cursor-spend-cli/internal/metrics"
	"github.com/bnema/cursor-spend-cli/internal/ports"
)

// RatesMaxAge is how long a fetched rate table is served without refetching.
const RatesMaxAge = 24 * time.Hour

// ExchangeRateService serves a rate table relative to USD. It never fails:
// when the remote table cannot be fetched the hard-coded fallback is returned.
type ExchangeRateService struct {
	fetcher ports.RateFetcher
	cache   ports.RateCache
	clock   ports.Clock
	logger  *slog.Logger

	mu          sync.Mutex
	table       domain.RateTable
	cacheLoaded bool
}

// NewExchangeRateService wires the service. cache may be nil, in which case
// rates only live in memory.
func NewExchangeRateService(fetcher ports.RateFetcher, cache ports.RateCache, clock ports.Clock, logger *slog.Logger) *ExchangeRateService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = logging.Discard()
	}

	return &ExchangeRateService{
		fetcher: fetcher,
		cache:   cache,
		clock:   clock,
		logger:  logger,
	}
}

// Snapshot returns the cached table while it is younger than RatesMaxAge and
// fetches a new one otherwise. Calls are serialized so at most one fetch is
// in flight.
func (s *ExchangeRateService) Snapshot(ctx context.Context) domain.RateTable {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadPersistedLocked(ctx)

	now := s.clock.Now()
	if s.table.IsFresh(now, RatesMaxAge) {
		metrics.FXSnapshotTotal.WithLabelValues(metrics.SourceCache).Inc()
		return cloneTable(s.table)
	}

	rates, err := s.fetcher.FetchRates(ctx, nonUSDCurrencies())
	if err != nil {
		s.logger.WarnContext(ctx, "exchange rate fetch failed, using fallback rates", "error", err)
		metrics.FXSnapshotTotal.WithLabelValues(metrics.SourceFallback).Inc()
		return domain.FallbackRateTable()
	}

	rates[domain.USD] = 1.0
	s.table = domain.RateTable{Rates: rates, FetchedAt: now}

	if s.cache != nil {
		if err := s.cache.Save(ctx, s.table); err != nil {
			s.logger.WarnContext(ctx, "persist exchange rates failed", "error", err)
		}
	}

	metrics.FXSnapshotTotal.WithLabelValues(metrics.SourceFetched).Inc()
	return cloneTable(s.table)
}

func (s *ExchangeRateService) loadPersistedLocked(ctx context.Context) {
	if s.cacheLoaded || s.cache == nil {
		return
	}

	table, err := s.cache.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "load cached exchange rates failed", "error", err)
		return
	}

	s.cacheLoaded = true
	if !table.IsEmpty() {
		table.Rates[domain.USD] = 1.0
		s.table = table
	}
}

func nonUSDCurrencies() []string {
	codes := make([]string, 0, len(domain.SupportedCurrencies)-1)
	for _, code := range domain.SupportedCurrencies {
		if code != domain.USD {
			codes = append(codes, code)
		}
	}
	return codes
}

func cloneTable(table domain.RateTable) domain.RateTable {
	rates := make(map[string]float64, len(table.Rates))
	for code, rate := range table.Rates {
		rates[code] = rate
	}
	return domain.RateTable{Rates: rates, FetchedAt: table.FetchedAt}
}
