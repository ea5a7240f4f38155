package statusapi

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu      sync.Mutex
	state   domain.SpendingState
	updates chan domain.SpendingState
}

func newFakeSource(state domain.SpendingState) *fakeSource {
	return &fakeSource{state: state, updates: make(chan domain.SpendingState, 1)}
}

func (s *fakeSource) State() domain.SpendingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *fakeSource) Subscribe() (<-chan domain.SpendingState, func()) {
	return s.updates, func() {}
}

func (s *fakeSource) publish(state domain.SpendingState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.updates <- state
}

type fakeRefresher struct {
	result   bool
	calls    int
	announce bool
}

func (r *fakeRefresher) RefreshNow(_ context.Context, announce bool) bool {
	r.calls++
	r.announce = announce
	return r.result
}

func spending(v float64) *float64 {
	return &v
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(New(newFakeSource(domain.SpendingState{}), nil, nil).Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", string(body))
}

func TestStateReturnsSnapshot(t *testing.T) {
	t.Parallel()

	source := newFakeSource(domain.SpendingState{
		LoggedIn:     true,
		SpendingUSD:  spending(20),
		CurrencyCode: "USD",
		DisplayText:  "$20.00",
		TeamName:     "Acme",
	})
	server := httptest.NewServer(New(source, nil, nil).Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/v1/state")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got domain.SpendingState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.True(t, got.LoggedIn)
	assert.Equal(t, "$20.00", got.DisplayText)
	assert.Equal(t, "Acme", got.TeamName)
	require.NotNil(t, got.SpendingUSD)
	assert.InDelta(t, 20.0, *got.SpendingUSD, 1e-9)
}

func TestRefreshEndpoint(t *testing.T) {
	t.Parallel()

	refresher := &fakeRefresher{result: true}
	server := httptest.NewServer(New(newFakeSource(domain.SpendingState{DisplayText: "$1.00"}), refresher, nil).Handler())
	defer server.Close()

	resp, err := http.Post(server.URL+"/v1/refresh", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, refresher.calls)
	assert.True(t, refresher.announce)

	refresher.result = false
	resp, err = http.Post(server.URL+"/v1/refresh", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

type blockingRefresher struct {
	entered chan struct{}
	release chan struct{}
	ctxErr  chan error
}

func (r *blockingRefresher) RefreshNow(ctx context.Context, _ bool) bool {
	close(r.entered)
	<-r.release
	r.ctxErr <- ctx.Err()
	return true
}

func TestRefreshSurvivesClientDisconnect(t *testing.T) {
	t.Parallel()

	refresher := &blockingRefresher{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		ctxErr:  make(chan error, 1),
	}
	handler := New(newFakeSource(domain.SpendingState{}), refresher, nil).Handler()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequestWithContext(ctx, http.MethodPost, "/v1/refresh", nil)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		handler.ServeHTTP(rec, req)
		close(done)
	}()

	<-refresher.entered
	cancel()
	close(refresher.release)

	require.NoError(t, <-refresher.ctxErr)
	<-done
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshWithoutRefresher(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(New(newFakeSource(domain.SpendingState{}), nil, nil).Handler())
	defer server.Close()

	resp, err := http.Post(server.URL+"/v1/refresh", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestStreamSendsCurrentThenUpdates(t *testing.T) {
	t.Parallel()

	source := newFakeSource(domain.SpendingState{DisplayText: "$1.00"})
	server := httptest.NewServer(New(source, nil, nil).Handler())
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/v1/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	first := readEvent(t, reader)
	assert.Equal(t, "$1.00", first.DisplayText)

	source.publish(domain.SpendingState{DisplayText: "$2.00"})
	second := readEvent(t, reader)
	assert.Equal(t, "$2.00", second.DisplayText)
}

func readEvent(t *testing.T, reader *bufio.Reader) domain.SpendingState {
	t.Helper()

	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if data, ok := strings.CutPrefix(line, "data: "); ok {
			var state domain.SpendingState
			require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(data)), &state))
			return state
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(New(newFakeSource(domain.SpendingState{}), nil, nil).Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(newFakeSource(domain.SpendingState{}), nil, nil).Serve(ctx, listener)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + listener.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not stop")
	}
}
