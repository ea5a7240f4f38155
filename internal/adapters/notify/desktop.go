package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/bnema/cursor-spend-cli/internal/ports"
)

var ErrDesktopUnavailable = errors.New("desktop notifications unavailable")

type runFunc func(ctx context.Context, name string, args ...string) (stderr string, err error)

type lookPathFunc func(name string) (string, error)

// Desktop shows notifications through notify-send on Linux and osascript on macOS.
type Desktop struct {
	goos     string
	appName  string
	run      runFunc
	lookPath lookPathFunc
}

var _ ports.Notifier = (*Desktop)(nil)

func NewDesktop(appName string) *Desktop {
	return &Desktop{
		goos:     runtime.GOOS,
		appName:  appName,
		run:      runCommand,
		lookPath: exec.LookPath,
	}
}

// RequestPermission checks that the notification binary for this platform exists.
func (d *Desktop) RequestPermission(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	binary, err := d.binary()
	if err != nil {
		return err
	}
	if _, err := d.lookPath(binary); err != nil {
		return fmt.Errorf("%w: %s not found", ErrDesktopUnavailable, binary)
	}
	return nil
}

func (d *Desktop) Show(ctx context.Context, notification domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	binary, err := d.binary()
	if err != nil {
		return err
	}

	var args []string
	switch binary {
	case "notify-send":
		args = []string{"-u", urgency(notification.Level)}
		if d.appName != "" {
			args = append(args, "-a", d.appName)
		}
		args = append(args, notification.Title, notification.Body)
	case "osascript":
		args = []string{"-e", appleScript(notification)}
	}

	stderr, err := d.run(ctx, binary, args...)
	if err != nil {
		if stderr != "" {
			return fmt.Errorf("%s: %w: %s", binary, err, stderr)
		}
		return fmt.Errorf("%s: %w", binary, err)
	}
	return nil
}

func (d *Desktop) binary() (string, error) {
	switch d.goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "notify-send", nil
	case "darwin":
		return "osascript", nil
	default:
		return "", fmt.Errorf("%w on %s", ErrDesktopUnavailable, d.goos)
	}
}

func urgency(level domain.NotificationLevel) string {
	if level == domain.NotificationUrgent {
		return "critical"
	}
	return "normal"
}

func appleScript(notification domain.Notification) string {
	script := fmt.Sprintf("display notification %s with title %s",
		strconv.Quote(notification.Body), strconv.Quote(notification.Title))
	if notification.Level == domain.NotificationUrgent {
		script += ` sound name "Sosumi"`
	}
	return script
}

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	return strings.TrimSpace(stderr.String()), err
}
