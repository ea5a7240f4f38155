package toml

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/bnema/cursor-spend-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
)

const ratesTempPattern = ".rates-*.toml.tmp"

// RateCache persists the last fetched exchange rate table and its timestamp.
type RateCache struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.RateCache = (*RateCache)(nil)

func NewRateCache(path string) (*RateCache, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &RateCache{path: normalized, mu: lockForPath(normalized)}, nil
}

func (c *RateCache) Load(ctx context.Context) (domain.RateTable, error) {
	if err := ctx.Err(); err != nil {
		return domain.RateTable{}, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := readFileIfExists(c.path)
	if err != nil {
		return domain.RateTable{}, fmt.Errorf("read rates file: %w", err)
	}
	if data == nil {
		return domain.RateTable{}, nil
	}

	var file ratesFileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.RateTable{}, fmt.Errorf("decode rates file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return domain.RateTable{}, err
	}

	rates := make(map[string]float64, len(file.Rates))
	for code, rate := range file.Rates {
		rates[strings.ToUpper(code)] = rate
	}

	return domain.RateTable{Rates: rates, FetchedAt: parseTime(file.FetchedAt)}, nil
}

func (c *RateCache) Save(ctx context.Context, table domain.RateTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	file := ratesFileSchema{FetchedAt: formatTime(table.FetchedAt), Rates: table.Rates}
	file.applyDefaults()

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode rates file: %w", err)
	}

	return writeFileAtomic(c.path, data, ratesTempPattern)
}
