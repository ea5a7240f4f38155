package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bnema/cursor-spend-cli/internal/ports"
	"github.com/bnema/cursor-spend-cli/internal/version"
	"golang.org/x/net/publicsuffix"
)

const (
	maxRedirects     = 10
	maxPageBodyBytes = 1 << 20
	eventBufferSize  = maxRedirects + 2
)

var errTooManyRedirects = errors.New("stopped after too many redirects")

// JarBrowser is a headless navigator. It follows the redirect chain of the
// login URL, reports every hop as a completed navigation and records every
// cookie the server sets.
type JarBrowser struct {
	transport http.RoundTripper
	timeout   time.Duration

	mu     sync.Mutex
	jar    *recordingJar
	cancel context.CancelFunc
}

var _ ports.Browser = (*JarBrowser)(nil)

type JarOption func(*JarBrowser)

// WithTransport replaces the round tripper used for navigation.
func WithTransport(transport http.RoundTripper) JarOption {
	return func(b *JarBrowser) {
		b.transport = transport
	}
}

func WithTimeout(timeout time.Duration) JarOption {
	return func(b *JarBrowser) {
		b.timeout = timeout
	}
}

func NewJarBrowser(opts ...JarOption) *JarBrowser {
	b := &JarBrowser{timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Open starts a fresh navigation with an empty cookie jar.
func (b *JarBrowser) Open(ctx context.Context, rawURL string) (<-chan ports.NavigationEvent, error) {
	target, err := parseNavigableURL(rawURL)
	if err != nil {
		return nil, err
	}

	jar, err := newRecordingJar()
	if err != nil {
		return nil, err
	}

	navCtx, cancel := context.WithCancel(ctx)

	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
	}
	b.jar = jar
	b.cancel = cancel
	b.mu.Unlock()

	events := make(chan ports.NavigationEvent, eventBufferSize)
	go b.navigate(navCtx, target, jar, events)

	return events, nil
}

func (b *JarBrowser) Cookies(ctx context.Context) ([]*http.Cookie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	jar := b.jar
	b.mu.Unlock()

	if jar == nil {
		return nil, nil
	}
	return jar.recorded(), nil
}

// Close aborts any navigation still running.
func (b *JarBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	return nil
}

func (b *JarBrowser) navigate(ctx context.Context, target *url.URL, jar *recordingJar, events chan<- ports.NavigationEvent) {
	defer close(events)

	emit := func(event ports.NavigationEvent) bool {
		select {
		case events <- event:
			return true
		case <-ctx.Done():
			return false
		}
	}

	client := &http.Client{
		Transport: b.transport,
		Timeout:   b.timeout,
		Jar:       jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errTooManyRedirects
			}
			// The previous hop's response, cookies included, is complete here.
			if !emit(ports.NavigationEvent{URL: via[len(via)-1].URL.String()}) {
				return ports.ErrNavigationCancelled
			}
			return nil
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		emit(ports.NavigationEvent{Err: fmt.Errorf("build login request: %w", err)})
		emit(ports.NavigationEvent{Closed: true})
		return
	}
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %w", ports.ErrNavigationCancelled, err)
		}
		emit(ports.NavigationEvent{URL: target.String(), Err: err})
		emit(ports.NavigationEvent{Closed: true})
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPageBodyBytes))
	_ = resp.Body.Close()

	if !emit(ports.NavigationEvent{URL: resp.Request.URL.String()}) {
		return
	}
	emit(ports.NavigationEvent{Closed: true})
}

func parseNavigableURL(rawURL string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("parse login url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.New("login url must use http or https")
	}
	if parsed.Host == "" {
		return nil, errors.New("login url host is required")
	}
	return parsed, nil
}

// recordingJar keeps a standard jar for the client and a flat record of every
// cookie set, with Domain filled in from the response host when absent.
type recordingJar struct {
	jar *cookiejar.Jar

	mu      sync.Mutex
	cookies map[string]*http.Cookie
	order   []string
}

func newRecordingJar() (*recordingJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &recordingJar{jar: jar, cookies: map[string]*http.Cookie{}}, nil
}

func (j *recordingJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.jar.SetCookies(u, cookies)

	j.mu.Lock()
	defer j.mu.Unlock()

	for _, cookie := range cookies {
		if cookie == nil {
			continue
		}
		recorded := *cookie
		if recorded.Domain == "" {
			recorded.Domain = u.Hostname()
		}
		if recorded.Path == "" {
			recorded.Path = "/"
		}

		key := recorded.Name + "\x00" + strings.TrimPrefix(strings.ToLower(recorded.Domain), ".") + "\x00" + recorded.Path
		if recorded.MaxAge < 0 {
			delete(j.cookies, key)
			continue
		}
		if _, seen := j.cookies[key]; !seen {
			j.order = append(j.order, key)
		}
		j.cookies[key] = &recorded
	}
}

func (j *recordingJar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

func (j *recordingJar) recorded() []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]*http.Cookie, 0, len(j.cookies))
	for _, key := range j.order {
		cookie, ok := j.cookies[key]
		if !ok {
			continue
		}
		copied := *cookie
		out = append(out, &copied)
	}
	return out
}
