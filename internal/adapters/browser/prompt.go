package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/bnema/cursor-spend-cli/internal/ports"
)

var askOneFunc = survey.AskOne

// PromptBrowser asks the user to sign in with their own browser and paste the
// session cookie value. The pasted value is exposed as a cookie on the
// configured domain so the authenticator treats it like any captured cookie.
type PromptBrowser struct {
	out          io.Writer
	cookieName   string
	cookieDomain string
	openURL      func(ctx context.Context, rawURL string) error

	mu      sync.Mutex
	cookies []*http.Cookie
}

var _ ports.Browser = (*PromptBrowser)(nil)

// NewPromptBrowser writes instructions to out. openURL may be nil, in which
// case the user is only shown the URL.
func NewPromptBrowser(out io.Writer, cookieName, cookieDomain string, openURL func(context.Context, string) error) *PromptBrowser {
	if out == nil {
		out = io.Discard
	}
	return &PromptBrowser{
		out:          out,
		cookieName:   cookieName,
		cookieDomain: cookieDomain,
		openURL:      openURL,
	}
}

func (b *PromptBrowser) Open(ctx context.Context, rawURL string) (<-chan ports.NavigationEvent, error) {
	if _, err := parseNavigableURL(rawURL); err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.cookies = nil
	b.mu.Unlock()

	_, _ = fmt.Fprintf(b.out, "Sign in to Cursor at %s\n", rawURL)
	if b.openURL != nil {
		if err := b.openURL(ctx, rawURL); err != nil {
			_, _ = fmt.Fprintln(b.out, "Could not open a browser, open the URL above manually.")
		}
	}
	_, _ = fmt.Fprintf(b.out, "Then copy the value of the %s cookie for %s from the browser's developer tools.\n", b.cookieName, b.cookieDomain)

	events := make(chan ports.NavigationEvent, 2)
	go b.ask(ctx, rawURL, events)

	return events, nil
}

func (b *PromptBrowser) Cookies(ctx context.Context) ([]*http.Cookie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*http.Cookie, 0, len(b.cookies))
	for _, cookie := range b.cookies {
		copied := *cookie
		out = append(out, &copied)
	}
	return out, nil
}

func (b *PromptBrowser) Close() error {
	return nil
}

func (b *PromptBrowser) ask(ctx context.Context, rawURL string, events chan<- ports.NavigationEvent) {
	defer close(events)

	emit := func(event ports.NavigationEvent) bool {
		select {
		case events <- event:
			return true
		case <-ctx.Done():
			return false
		}
	}

	var answer string
	err := askOneFunc(&survey.Password{
		Message: fmt.Sprintf("Paste the %s cookie value:", b.cookieName),
		Help:    "Leave empty to cancel.",
	}, &answer)

	switch {
	case errors.Is(err, terminal.InterruptErr):
	case err != nil:
		emit(ports.NavigationEvent{URL: rawURL, Err: fmt.Errorf("read session cookie: %w", err)})
	default:
		value := strings.TrimSpace(answer)
		if value != "" {
			b.mu.Lock()
			b.cookies = []*http.Cookie{{
				Name:   b.cookieName,
				Value:  value,
				Domain: b.cookieDomain,
				Path:   "/",
			}}
			b.mu.Unlock()

			if !emit(ports.NavigationEvent{URL: rawURL}) {
				return
			}
		}
	}

	emit(ports.NavigationEvent{Closed: true})
}
