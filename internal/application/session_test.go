package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	filestore "github.com/bnema/cursor-spend-cli/internal/adapters/secrets/file"
	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/bnema/cursor-spend-cli/internal/ports"
	"github.com/bnema/cursor-spend-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLoginConfig = LoginConfig{
	URL:          "https://authenticator.cursor.sh/",
	CookieName:   "WorkosCursorSessionToken",
	CookieDomain: ".cursor.com",
	Timeout:      time.Minute,
}

// fakeBrowser replays scripted navigation events.
type fakeBrowser struct {
	mu       sync.Mutex
	events   chan ports.NavigationEvent
	cookies  []*http.Cookie
	openErr  error
	opened   int
	closed   int
	lookups  int
	openedAt string
}

func newFakeBrowser() *fakeBrowser {
	return &fakeBrowser{events: make(chan ports.NavigationEvent, 8)}
}

func (b *fakeBrowser) Open(_ context.Context, rawURL string) (<-chan ports.NavigationEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.openErr != nil {
		return nil, b.openErr
	}
	b.opened++
	b.openedAt = rawURL
	return b.events, nil
}

func (b *fakeBrowser) Cookies(context.Context) ([]*http.Cookie, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lookups++
	return b.cookies, nil
}

func (b *fakeBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed++
	return nil
}

func (b *fakeBrowser) setCookies(cookies ...*http.Cookie) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cookies = cookies
}

func sessionCookie(value string) *http.Cookie {
	return &http.Cookie{Name: "WorkosCursorSessionToken", Value: value, Domain: "cursor.com"}
}

func receiveLoginEvents(t *testing.T, events <-chan domain.LoginEvent) []domain.LoginEvent {
	t.Helper()

	var received []domain.LoginEvent
	timeout := time.After(2 * time.Second)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return received
			}
			received = append(received, event)
		case <-timeout:
			t.Fatal("login events channel was not closed")
			return nil
		}
	}
}

func TestSessionAuthenticatorCurrentTokenMissingIsEmpty(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	auth := NewSessionAuthenticator(newFakeBrowser(), store, testLoginConfig, nil)

	store.EXPECT().Get(mockAnyContext(), SessionTokenKey).Return("", fmt.Errorf("file: %w", domain.ErrSecretNotFound)).Times(2)

	token, err := auth.CurrentToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.False(t, auth.IsAuthenticated(context.Background()))
}

func TestSessionAuthenticatorCurrentTokenTrimsStoredValue(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	auth := NewSessionAuthenticator(newFakeBrowser(), store, testLoginConfig, nil)

	store.EXPECT().Get(mockAnyContext(), SessionTokenKey).Return("token-1\n", nil).Once()

	token, err := auth.CurrentToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)
}

func TestSessionAuthenticatorSeesTokenChangesFromAnotherStore(t *testing.T) {
	dir := t.TempDir()
	auth := NewSessionAuthenticator(newFakeBrowser(), filestore.NewStore(dir), testLoginConfig, nil)
	other := filestore.NewStore(dir)
	ctx := context.Background()

	assert.False(t, auth.IsAuthenticated(ctx))

	require.NoError(t, other.Put(ctx, SessionTokenKey, "token-a"))
	token, err := auth.CurrentToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-a", token)

	require.NoError(t, other.Put(ctx, SessionTokenKey, "token-b"))
	token, err = auth.CurrentToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-b", token)

	require.NoError(t, other.Delete(ctx, SessionTokenKey))
	token, err = auth.CurrentToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.False(t, auth.IsAuthenticated(ctx))
}

func TestSessionAuthenticatorCurrentTokenStoreFailure(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	auth := NewSessionAuthenticator(newFakeBrowser(), store, testLoginConfig, nil)

	store.EXPECT().Get(mockAnyContext(), SessionTokenKey).Return("", errors.New("gpg locked")).Once()

	_, err := auth.CurrentToken(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "gpg locked")
}

func TestSessionAuthenticatorLoginCapturesCookieOnce(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	browser := newFakeBrowser()
	auth := NewSessionAuthenticator(browser, store, testLoginConfig, nil)

	store.EXPECT().Put(mockAnyContext(), SessionTokenKey, "token-1").Return(nil).Once()

	events, err := auth.BeginLogin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testLoginConfig.URL, browser.openedAt)

	browser.events <- ports.NavigationEvent{URL: "https://authenticator.cursor.sh/"}
	browser.setCookies(
		&http.Cookie{Name: "WorkosCursorSessionToken", Value: "other", Domain: "example.com"},
		sessionCookie("token-1"),
	)
	browser.events <- ports.NavigationEvent{URL: "https://www.cursor.com/settings"}
	browser.events <- ports.NavigationEvent{URL: "https://www.cursor.com/dashboard"}

	received := receiveLoginEvents(t, events)
	require.Len(t, received, 1)
	assert.Equal(t, domain.LoginEvent{Kind: domain.LoginEventAuthenticated, Token: "token-1"}, received[0])
	assert.Equal(t, domain.LoginAuthenticated, auth.State())

	store.EXPECT().Get(mockAnyContext(), SessionTokenKey).Return("token-1", nil).Once()
	token, err := auth.CurrentToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)
}

func TestSessionAuthenticatorOverlappingNavigationsYieldOneEvent(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	browser := newFakeBrowser()
	browser.setCookies(sessionCookie("token-1"))
	auth := NewSessionAuthenticator(browser, store, testLoginConfig, nil)

	store.EXPECT().Put(mockAnyContext(), SessionTokenKey, "token-1").Return(nil).Once()

	attempt := &loginAttempt{events: make(chan domain.LoginEvent, 1)}
	auth.setState(domain.LoginWaitingForCredential)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			auth.handleNavigation(context.Background(), attempt, ports.NavigationEvent{URL: "https://www.cursor.com/"})
		}()
	}
	wg.Wait()

	received := receiveLoginEvents(t, attempt.events)
	require.Len(t, received, 1)
	assert.Equal(t, domain.LoginEventAuthenticated, received[0].Kind)
}

func TestSessionAuthenticatorBeginLoginWhileInFlight(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	browser := newFakeBrowser()
	auth := NewSessionAuthenticator(browser, store, testLoginConfig, nil)

	ctx, cancel := context.WithCancel(context.Background())
	events, err := auth.BeginLogin(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.LoginWaitingForCredential, auth.State())

	_, err = auth.BeginLogin(context.Background())
	require.ErrorIs(t, err, domain.ErrLoginInProgress)
	assert.Equal(t, domain.LoginWaitingForCredential, auth.State())
	assert.Equal(t, 1, browser.opened)

	cancel()
	received := receiveLoginEvents(t, events)
	require.Len(t, received, 1)
	assert.Equal(t, domain.LoginEventDismissed, received[0].Kind)
}

func TestSessionAuthenticatorNavigationErrors(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	browser := newFakeBrowser()
	auth := NewSessionAuthenticator(browser, store, testLoginConfig, nil)

	events, err := auth.BeginLogin(context.Background())
	require.NoError(t, err)

	navErr := errors.New("tls handshake failure")
	browser.events <- ports.NavigationEvent{Err: context.Canceled}
	browser.events <- ports.NavigationEvent{Err: ports.ErrNavigationCancelled}
	browser.events <- ports.NavigationEvent{Err: navErr}

	received := receiveLoginEvents(t, events)
	require.Len(t, received, 1)
	assert.Equal(t, domain.LoginEventFailed, received[0].Kind)
	assert.ErrorIs(t, received[0].Err, navErr)
	assert.Equal(t, domain.LoginFailed, auth.State())
}

func TestSessionAuthenticatorBrowserClosedIsDismissed(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	browser := newFakeBrowser()
	auth := NewSessionAuthenticator(browser, store, testLoginConfig, nil)

	events, err := auth.BeginLogin(context.Background())
	require.NoError(t, err)

	browser.events <- ports.NavigationEvent{URL: "https://authenticator.cursor.sh/"}
	browser.events <- ports.NavigationEvent{Closed: true}

	received := receiveLoginEvents(t, events)
	require.Len(t, received, 1)
	assert.Equal(t, domain.LoginEventDismissed, received[0].Kind)
	assert.Equal(t, domain.LoginDismissed, auth.State())

	browser.mu.Lock()
	defer browser.mu.Unlock()
	assert.Equal(t, 1, browser.closed)
}

func TestSessionAuthenticatorStoreFailureFailsLogin(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	browser := newFakeBrowser()
	browser.setCookies(sessionCookie("token-1"))
	auth := NewSessionAuthenticator(browser, store, testLoginConfig, nil)

	store.EXPECT().Put(mockAnyContext(), SessionTokenKey, "token-1").Return(errors.New("disk full")).Once()

	events, err := auth.BeginLogin(context.Background())
	require.NoError(t, err)
	browser.events <- ports.NavigationEvent{URL: "https://www.cursor.com/"}

	received := receiveLoginEvents(t, events)
	require.Len(t, received, 1)
	assert.Equal(t, domain.LoginEventFailed, received[0].Kind)
	assert.ErrorContains(t, received[0].Err, "disk full")
	assert.Equal(t, domain.LoginFailed, auth.State())
}

func TestSessionAuthenticatorLoginTimeout(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	cfg := testLoginConfig
	cfg.Timeout = 20 * time.Millisecond
	auth := NewSessionAuthenticator(newFakeBrowser(), store, cfg, nil)

	events, err := auth.BeginLogin(context.Background())
	require.NoError(t, err)

	received := receiveLoginEvents(t, events)
	require.Len(t, received, 1)
	assert.Equal(t, domain.LoginEventFailed, received[0].Kind)
	assert.ErrorIs(t, received[0].Err, errLoginTimedOut)
}

func TestSessionAuthenticatorOpenFailure(t *testing.T) {
	browser := newFakeBrowser()
	browser.openErr = errors.New("no display")
	auth := NewSessionAuthenticator(browser, mocks.NewMockSecretStore(t), testLoginConfig, nil)

	_, err := auth.BeginLogin(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.LoginFailed, auth.State())
}

func TestSessionAuthenticatorLogout(t *testing.T) {
	store := mocks.NewMockSecretStore(t)
	auth := NewSessionAuthenticator(newFakeBrowser(), store, testLoginConfig, nil)

	store.EXPECT().Get(mockAnyContext(), SessionTokenKey).Return("token-1", nil).Once()
	store.EXPECT().Delete(mockAnyContext(), SessionTokenKey).Return(fmt.Errorf("pass: %w", domain.ErrSecretNotFound)).Once()

	assert.True(t, auth.IsAuthenticated(context.Background()))
	require.NoError(t, auth.Logout(context.Background()))

	store.EXPECT().Get(mockAnyContext(), SessionTokenKey).Return("", fmt.Errorf("pass: %w", domain.ErrSecretNotFound)).Once()

	token, err := auth.CurrentToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Equal(t, domain.LoginIdle, auth.State())
}
