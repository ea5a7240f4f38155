package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)
	cursor := newCursorServer(t)
	env := []string{
		"HOME=" + home,
		"XDG_CONFIG_HOME=" + filepath.Join(home, ".config"),
		"CSPEND_SECRETS_BACKEND=file",
		"CSPEND_NOTIFY_DESKTOP=false",
		"CSPEND_BILLING_BASE_URL=" + cursor.URL + "/api",
		"CSPEND_FX_BASE_URL=" + cursor.URL + "/fx",
		"CSPEND_LOGIN_URL=" + cursor.URL + "/login",
		"CSPEND_LOGIN_COOKIE_DOMAIN=127.0.0.1",
	}

	stdout, stderr, err := runCSpend(t, binaryPath, env, "status", "--json")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, `"logged_in": false`)

	_, stderr, err = runCSpend(t, binaryPath, env, "settings", "set", "--currency", "EUR")
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err = runCSpend(t, binaryPath, env, "login", "--headless")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Logged in.")

	stdout, stderr, err = runCSpend(t, binaryPath, env, "status", "--json")
	require.NoError(t, err, "stderr: %s", stderr)

	var state struct {
		LoggedIn    bool   `json:"logged_in"`
		DisplayText string `json:"display_text"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &state))
	assert.True(t, state.LoggedIn)
	assert.Equal(t, "€9.00", state.DisplayText)

	stdout, stderr, err = runCSpend(t, binaryPath, env, "logout")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Logged out.")
}

func newCursorServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/dashboard/teams", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"teams":[{"id":3,"name":"Smoke"}]}`)
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"email":"smoke@example.com"}`)
	})
	mux.HandleFunc("POST /api/dashboard/get-monthly-invoice", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"items":[{"cents":1000,"description":"usage"}]}`)
	})
	mux.HandleFunc("GET /fx/latest", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"base":"USD","rates":{"EUR":0.9}}`)
	})
	mux.HandleFunc("GET /login", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "WorkosCursorSessionToken", Value: "smoke-token", Path: "/"})
		_, _ = fmt.Fprint(w, "ok")
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "cspend-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/cspend")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build cspend binary: %s", string(output))
	return binaryPath
}

func runCSpend(t *testing.T, binaryPath string, env []string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), env...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
