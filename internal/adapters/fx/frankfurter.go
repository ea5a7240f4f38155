// Package fx fetches public exchange rates from the Frankfurter API.
package fx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/bnema/cursor-spend-cli/internal/ports"
	"github.com/bnema/cursor-spend-cli/internal/version"
)

const (
	DefaultBaseURL = "https://api.frankfurter.app"

	latestEndpoint = "/latest"
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20
)

var errNoRates = errors.New("response contained no rates")

type latestResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

var _ ports.RateFetcher = (*Client)(nil)

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchRates returns rates relative to USD for codes. USD itself is never
// requested; callers pin it to 1.0.
func (c *Client) FetchRates(ctx context.Context, codes []string) (map[string]float64, error) {
	target, err := c.latestURL(codes)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &domain.InvalidURLError{Endpoint: latestEndpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Message: err.Error(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.NetworkError{
			Message:    fmt.Sprintf("unexpected status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	var payload latestResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&payload); err != nil {
		return nil, &domain.DecodingError{Message: "decode rates: " + err.Error(), StatusCode: resp.StatusCode, Err: err}
	}
	if len(payload.Rates) == 0 {
		return nil, &domain.DecodingError{Message: errNoRates.Error(), StatusCode: resp.StatusCode, Err: errNoRates}
	}

	rates := make(map[string]float64, len(payload.Rates))
	for code, value := range payload.Rates {
		rates[strings.ToUpper(code)] = value
	}

	return rates, nil
}

func (c *Client) latestURL(codes []string) (string, error) {
	joined, err := url.JoinPath(c.baseURL, latestEndpoint)
	if err != nil {
		return "", &domain.InvalidURLError{Endpoint: latestEndpoint, Err: err}
	}

	parsed, err := url.Parse(joined)
	if err != nil {
		return "", &domain.InvalidURLError{Endpoint: latestEndpoint, Err: err}
	}

	wanted := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" || code == domain.USD {
			continue
		}
		wanted = append(wanted, code)
	}

	query := parsed.Query()
	query.Set("from", domain.USD)
	if len(wanted) > 0 {
		query.Set("to", strings.Join(wanted, ","))
	}
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}
