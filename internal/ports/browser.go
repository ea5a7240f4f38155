package ports

import (
	"context"
	"errors"
	"net/http"
)

// ErrNavigationCancelled is reported by browsers when a navigation was
// superseded or aborted. It never fails a login.
var ErrNavigationCancelled = errors.New("navigation cancelled")

// NavigationEvent is emitted for every completed navigation, navigation error
// and finally when the browser window goes away.
type NavigationEvent struct {
	URL    string
	Err    error
	Closed bool
}

// Browser is the embedded web view driving the login page.
type Browser interface {
	// Open starts navigating to rawURL. The returned channel is closed after
	// the Closed event has been delivered. Implementations stop sending once
	// ctx is done.
	Open(ctx context.Context, rawURL string) (<-chan NavigationEvent, error)
	// Cookies returns the cookie store contents, including each cookie's Domain.
	Cookies(ctx context.Context) ([]*http.Cookie, error)
	Close() error
}
