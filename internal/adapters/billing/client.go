// Package billing talks to the Cursor dashboard API with a session cookie.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/bnema/cursor-spend-cli/internal/ports"
	"github.com/bnema/cursor-spend-cli/internal/version"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL    = "https://www.cursor.com/api"
	DefaultCookieName = "WorkosCursorSessionToken"

	teamsEndpoint   = "/dashboard/teams"
	meEndpoint      = "/auth/me"
	invoiceEndpoint = "/dashboard/get-monthly-invoice"

	requestTimeout = 15 * time.Second
	maxBodySize    = 1 << 20 // 1 MiB
	errorSnippet   = 200

	defaultRatePerSecond = 4
	defaultBurst         = 4
)

// Client is stateless apart from its rate limiter; the session token is
// passed on every call.
type Client struct {
	baseURL    string
	cookieName string
	http       *http.Client
	limiter    *rate.Limiter
}

var _ ports.BillingClient = (*Client)(nil)

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

// WithLimiter replaces the default 4 req/s limiter. A nil limiter disables limiting.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

func WithCookieName(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.cookieName = name
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		cookieName: DefaultCookieName,
		http:       &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(defaultRatePerSecond), defaultBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchTeamInfo returns the first team of the account. The first entry is
// authoritative; an empty list is domain.ErrNoTeamFound.
func (c *Client) FetchTeamInfo(ctx context.Context, token string) (domain.TeamInfo, error) {
	var resp teamsResponse
	if err := c.do(ctx, http.MethodPost, teamsEndpoint, token, struct{}{}, &resp); err != nil {
		return domain.TeamInfo{}, err
	}

	if len(resp.Teams) == 0 {
		return domain.TeamInfo{}, domain.ErrNoTeamFound
	}

	first := resp.Teams[0]
	return domain.TeamInfo{ID: first.ID, Name: first.Name}, nil
}

func (c *Client) FetchUserInfo(ctx context.Context, token string) (domain.UserInfo, error) {
	var resp meResponse
	if err := c.do(ctx, http.MethodGet, meEndpoint, token, nil, &resp); err != nil {
		return domain.UserInfo{}, err
	}

	return domain.UserInfo{Email: resp.Email, TeamID: resp.TeamID}, nil
}

// FetchInvoice returns the invoice of month (zero-based, January is 0) in year.
func (c *Client) FetchInvoice(ctx context.Context, token string, teamID int, month int, year int) (domain.Invoice, error) {
	if teamID <= 0 {
		return domain.Invoice{}, domain.ErrTeamIDNotSet
	}

	body := invoiceRequest{
		TeamID:             teamID,
		Month:              month,
		Year:               year,
		IncludeUsageEvents: true,
	}

	var resp invoiceResponse
	if err := c.do(ctx, http.MethodPost, invoiceEndpoint, token, body, &resp); err != nil {
		return domain.Invoice{}, err
	}

	return toInvoice(resp), nil
}

func (c *Client) endpointURL(endpoint string) (string, error) {
	joined, err := url.JoinPath(c.baseURL, endpoint)
	if err != nil {
		return "", &domain.InvalidURLError{Endpoint: endpoint, Err: err}
	}

	parsed, err := url.Parse(joined)
	if err != nil {
		return "", &domain.InvalidURLError{Endpoint: endpoint, Err: err}
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", &domain.InvalidURLError{Endpoint: endpoint, Err: errors.New("missing scheme or host")}
	}

	return parsed.String(), nil
}

// do performs one request and decodes a 2xx body into out. It never retries.
func (c *Client) do(ctx context.Context, method, endpoint, token string, body any, out any) error {
	target, err := c.endpointURL(endpoint)
	if err != nil {
		return err
	}

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &domain.UnknownError{Message: fmt.Sprintf("encode %s request: %v", endpoint, err)}
		}
		payload = bytes.NewReader(encoded)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &domain.NetworkError{Message: err.Error(), Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return &domain.InvalidURLError{Endpoint: endpoint, Err: err}
	}

	req.Header.Set("Cookie", c.cookieName+"="+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.NetworkError{Message: err.Error(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &domain.NetworkError{
			Message:    unexpectedStatusMessage(resp.StatusCode, data),
			StatusCode: resp.StatusCode,
		}
	}

	if readErr != nil {
		return &domain.NetworkError{Message: "read response: " + readErr.Error(), StatusCode: resp.StatusCode, Err: readErr}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &domain.DecodingError{
			Message:    fmt.Sprintf("decode %s response: %v", endpoint, err),
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	return nil
}

func unexpectedStatusMessage(status int, body []byte) string {
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > errorSnippet {
		snippet = snippet[:errorSnippet]
	}
	if snippet == "" {
		return fmt.Sprintf("unexpected status %d", status)
	}
	return fmt.Sprintf("unexpected status %d: %s", status, snippet)
}

func toInvoice(resp invoiceResponse) domain.Invoice {
	invoice := domain.Invoice{Items: make([]domain.InvoiceItem, 0, len(resp.Items))}
	for _, item := range resp.Items {
		invoice.Items = append(invoice.Items, domain.InvoiceItem{
			Cents:       int64(math.Round(item.Cents)),
			Description: item.Description,
		})
	}

	if resp.PricingDescription != nil {
		invoice.PricingDescription = &domain.PricingDescription{
			ID:          resp.PricingDescription.ID,
			Description: resp.PricingDescription.Description,
		}
	}

	return invoice
}
