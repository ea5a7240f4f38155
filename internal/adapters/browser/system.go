package browser

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

var errNoOpener = errors.New("no system browser opener for this platform")

// OpenInSystemBrowser hands rawURL to the desktop's default browser.
func OpenInSystemBrowser(ctx context.Context, rawURL string) error {
	name, args, err := openerCommand(runtime.GOOS, rawURL)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("locate %s: %w", name, err)
	}

	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func openerCommand(goos, rawURL string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{rawURL}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{rawURL}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", rawURL}, nil
	default:
		return "", nil, errNoOpener
	}
}
