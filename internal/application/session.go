package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/bnema/cursor-spend-cli/internal/logging"
	"github.com/bnema/cursor-spend-cli/internal/ports"
)

// SessionTokenKey is the secret store key of the session cookie value.
const SessionTokenKey = "cursor/session_token"

var errLoginTimedOut = errors.New("login timed out")

type LoginConfig struct {
	URL          string
	CookieName   string
	CookieDomain string
	Timeout      time.Duration
}

// SessionAuthenticator owns the session token. It captures the token from the
// browser's cookie store during login and keeps it in the secret store.
type SessionAuthenticator struct {
	browser ports.Browser
	store   ports.SecretStore
	cfg     LoginConfig
	logger  *slog.Logger

	mu    sync.Mutex
	state domain.LoginState
}

func NewSessionAuthenticator(browser ports.Browser, store ports.SecretStore, cfg LoginConfig, logger *slog.Logger) *SessionAuthenticator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &SessionAuthenticator{
		browser: browser,
		store:   store,
		cfg:     cfg,
		logger:  logger,
		state:   domain.LoginIdle,
	}
}

func (a *SessionAuthenticator) State() domain.LoginState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// CurrentToken reads the token from the secret store on every call, so a
// login or logout done by another process is seen by the next cycle. It
// returns "" when none is stored.
func (a *SessionAuthenticator) CurrentToken(ctx context.Context) (string, error) {
	token, err := a.store.Get(ctx, SessionTokenKey)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("load session token: %w", err)
	}
	return strings.TrimSpace(token), nil
}

func (a *SessionAuthenticator) IsAuthenticated(ctx context.Context) bool {
	token, err := a.CurrentToken(ctx)
	return err == nil && token != ""
}

// BeginLogin opens the login page and returns a channel that receives exactly
// one terminal LoginEvent before being closed. It returns
// domain.ErrLoginInProgress while another login window is open.
func (a *SessionAuthenticator) BeginLogin(ctx context.Context) (<-chan domain.LoginEvent, error) {
	a.mu.Lock()
	if a.state.InFlight() {
		a.mu.Unlock()
		return nil, domain.ErrLoginInProgress
	}
	a.state = domain.LoginPresenting
	a.mu.Unlock()

	var (
		loginCtx context.Context
		cancel   context.CancelFunc
	)
	if a.cfg.Timeout > 0 {
		loginCtx, cancel = context.WithTimeoutCause(ctx, a.cfg.Timeout, errLoginTimedOut)
	} else {
		loginCtx, cancel = context.WithCancel(ctx)
	}

	navigations, err := a.browser.Open(loginCtx, a.cfg.URL)
	if err != nil {
		cancel()
		a.setState(domain.LoginFailed)
		return nil, fmt.Errorf("open login page: %w", err)
	}

	a.setState(domain.LoginWaitingForCredential)

	attempt := &loginAttempt{events: make(chan domain.LoginEvent, 1)}
	go a.watch(loginCtx, cancel, navigations, attempt)

	return attempt.events, nil
}

// Logout removes the stored token. A missing token is not an error.
func (a *SessionAuthenticator) Logout(ctx context.Context) error {
	a.mu.Lock()
	if !a.state.InFlight() {
		a.state = domain.LoginIdle
	}
	a.mu.Unlock()

	if err := a.store.Delete(ctx, SessionTokenKey); err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
		return fmt.Errorf("delete session token: %w", err)
	}
	return nil
}

func (a *SessionAuthenticator) watch(ctx context.Context, cancel context.CancelFunc, navigations <-chan ports.NavigationEvent, attempt *loginAttempt) {
	defer cancel()
	defer func() {
		if err := a.browser.Close(); err != nil {
			a.logger.Debug("close login browser failed", "error", err)
		}
	}()

	for !attempt.isDone() {
		select {
		case <-ctx.Done():
			if errors.Is(context.Cause(ctx), errLoginTimedOut) {
				a.finish(attempt, domain.LoginEvent{Kind: domain.LoginEventFailed, Err: errLoginTimedOut})
			} else {
				a.finish(attempt, domain.LoginEvent{Kind: domain.LoginEventDismissed})
			}
		case event, ok := <-navigations:
			if !ok {
				a.finish(attempt, domain.LoginEvent{Kind: domain.LoginEventDismissed})
				continue
			}
			a.handleNavigation(ctx, attempt, event)
		}
	}
}

// handleNavigation is safe to call from several goroutines for the same
// attempt; only the first terminal outcome is reported.
func (a *SessionAuthenticator) handleNavigation(ctx context.Context, attempt *loginAttempt, event ports.NavigationEvent) {
	if attempt.isDone() {
		return
	}

	switch {
	case event.Err != nil:
		if isNavigationCancellation(event.Err) {
			return
		}
		a.finish(attempt, domain.LoginEvent{Kind: domain.LoginEventFailed, Err: event.Err})
		return
	case event.Closed:
		a.finish(attempt, domain.LoginEvent{Kind: domain.LoginEventDismissed})
		return
	}

	cookies, err := a.browser.Cookies(ctx)
	if err != nil {
		a.logger.Debug("read login cookies failed", "url", event.URL, "error", err)
		return
	}

	token, found := a.findSessionCookie(cookies)
	if !found {
		return
	}

	if !attempt.claim() {
		return
	}

	if err := a.store.Put(ctx, SessionTokenKey, token); err != nil {
		a.complete(attempt, domain.LoginEvent{Kind: domain.LoginEventFailed, Err: fmt.Errorf("store session token: %w", err)})
		return
	}

	a.complete(attempt, domain.LoginEvent{Kind: domain.LoginEventAuthenticated, Token: token})
}

func (a *SessionAuthenticator) findSessionCookie(cookies []*http.Cookie) (string, bool) {
	wantDomain := strings.TrimPrefix(strings.ToLower(a.cfg.CookieDomain), ".")
	for _, cookie := range cookies {
		if cookie == nil || cookie.Name != a.cfg.CookieName {
			continue
		}
		if strings.TrimPrefix(strings.ToLower(cookie.Domain), ".") != wantDomain {
			continue
		}
		if value := strings.TrimSpace(cookie.Value); value != "" {
			return value, true
		}
	}
	return "", false
}

// finish claims the attempt and reports event.
func (a *SessionAuthenticator) finish(attempt *loginAttempt, event domain.LoginEvent) {
	if !attempt.claim() {
		return
	}
	a.complete(attempt, event)
}

func (a *SessionAuthenticator) complete(attempt *loginAttempt, event domain.LoginEvent) {
	switch event.Kind {
	case domain.LoginEventAuthenticated:
		a.setState(domain.LoginAuthenticated)
	case domain.LoginEventFailed:
		a.setState(domain.LoginFailed)
	default:
		a.setState(domain.LoginDismissed)
	}

	attempt.deliver(event)
}

func (a *SessionAuthenticator) setState(state domain.LoginState) {
	a.mu.Lock()
	a.state = state
	a.mu.Unlock()
}

func isNavigationCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, ports.ErrNavigationCancelled)
}

// loginAttempt guarantees a single terminal event per login.
type loginAttempt struct {
	mu      sync.Mutex
	claimed bool
	done    bool
	events  chan domain.LoginEvent
}

// claim reports true for the first caller only.
func (l *loginAttempt) claim() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.claimed {
		return false
	}
	l.claimed = true
	return true
}

func (l *loginAttempt) deliver(event domain.LoginEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done {
		return
	}
	l.done = true
	l.events <- event
	close(l.events)
}

func (l *loginAttempt) isDone() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.done
}
