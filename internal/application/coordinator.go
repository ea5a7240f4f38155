package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/cursor-spend-cli/internal/domain"
	"github.com/bnema/cursor-spend-cli/internal/logging"
	"github.com/bnema/cursor-spend-cli/internal/metrics"
	"github.com/bnema/cursor-spend-cli/internal/ports"
)

const (
	MessageSessionExpired   = "Session expired, please log in again"
	MessageNoTeam           = "Can't find your team, check your Cursor account"
	MessageRatesUnavailable = "Exchange rates unavailable, showing USD"
	MessageSynced           = "Synced"

	maxErrorMessageRunes  = 60
	defaultTransientDelay = 3 * time.Second
)

// Authenticator is the part of SessionAuthenticator the coordinator drives.
type Authenticator interface {
	CurrentToken(ctx context.Context) (string, error)
	BeginLogin(ctx context.Context) (<-chan domain.LoginEvent, error)
	Logout(ctx context.Context) error
}

// RateSource provides the rate table used for one cycle.
type RateSource interface {
	Snapshot(ctx context.Context) domain.RateTable
}

type CoordinatorDeps struct {
	Auth       Authenticator
	Billing    ports.BillingClient
	Rates      RateSource
	Thresholds *ThresholdNotifier
	Settings   ports.SettingsRepository
	Clock      ports.Clock
	Logger     *slog.Logger
}

// RefreshStage names the step a cycle is working on.
type RefreshStage string

const (
	StageSession RefreshStage = "session"
	StageAccount RefreshStage = "account"
	StageTeam    RefreshStage = "team"
	StageInvoice RefreshStage = "invoice"
	StageRates   RefreshStage = "rates"
)

type CoordinatorOption func(*RefreshCoordinator)

// WithTransientDelay sets how long the "Synced" message stays visible.
func WithTransientDelay(delay time.Duration) CoordinatorOption {
	return func(c *RefreshCoordinator) {
		c.transientDelay = delay
	}
}

// WithTickerFactory replaces the tickers used by Run and FollowSession.
func WithTickerFactory(factory ports.TickerFactory) CoordinatorOption {
	return func(c *RefreshCoordinator) {
		if factory != nil {
			c.newTicker = factory
		}
	}
}

// WithProgress reports each stage of a cycle to fn, from the cycle's goroutine.
func WithProgress(fn func(RefreshStage)) CoordinatorOption {
	return func(c *RefreshCoordinator) {
		c.progress = fn
	}
}

// RefreshCoordinator sequences token lookup, billing fetch, conversion and
// threshold evaluation, and publishes a full SpendingState after every cycle.
type RefreshCoordinator struct {
	auth       Authenticator
	billing    ports.BillingClient
	rates      RateSource
	thresholds *ThresholdNotifier
	settings   ports.SettingsRepository
	clock      ports.Clock
	logger     *slog.Logger

	transientDelay time.Duration
	afterFunc      func(time.Duration, func())
	newTicker      ports.TickerFactory
	progress       func(RefreshStage)

	inFlight   atomic.Bool
	followUp   atomic.Bool
	generation atomic.Uint64
	reschedule chan struct{}

	// sessionMu orders token observations against logout.
	sessionMu  sync.Mutex
	knownToken string
	tokenKnown bool

	mu          sync.Mutex
	state       domain.SpendingState
	publishSeq  uint64
	subscribers map[int]chan domain.SpendingState
	nextSubID   int
}

func NewRefreshCoordinator(deps CoordinatorDeps, opts ...CoordinatorOption) *RefreshCoordinator {
	if deps.Clock == nil {
		deps.Clock = ports.SystemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if deps.Thresholds == nil {
		deps.Thresholds = NewThresholdNotifier(nil, deps.Logger)
	}

	c := &RefreshCoordinator{
		auth:           deps.Auth,
		billing:        deps.Billing,
		rates:          deps.Rates,
		thresholds:     deps.Thresholds,
		settings:       deps.Settings,
		clock:          deps.Clock,
		logger:         deps.Logger,
		transientDelay: defaultTransientDelay,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		newTicker:   ports.NewSystemTicker,
		reschedule:  make(chan struct{}, 1),
		subscribers: map[int]chan domain.SpendingState{},
		state:       loggedOutState(domain.DefaultSettings(), "", time.Time{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the last published snapshot.
func (c *RefreshCoordinator) State() domain.SpendingState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe returns a channel receiving every published snapshot. Slow
// subscribers only see the latest one. The returned func unsubscribes.
func (c *RefreshCoordinator) Subscribe() (<-chan domain.SpendingState, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	ch := make(chan domain.SpendingState, 1)
	c.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subscribers[id]; ok {
				delete(c.subscribers, id)
				close(sub)
			}
		})
	}
}

// RefreshNow runs one cycle and blocks until it finishes. It returns false
// without doing anything when another cycle is already in flight. A follow-up
// requested for a new session while a cycle ran is executed before returning.
func (c *RefreshCoordinator) RefreshNow(ctx context.Context, announce bool) bool {
	ran := false
	for c.inFlight.CompareAndSwap(false, true) {
		if c.followUp.Swap(false) {
			announce = true
		}
		c.runTimedCycle(ctx, announce)
		c.inFlight.Store(false)
		ran = true

		if !c.followUp.Load() {
			break
		}
	}

	if !ran {
		metrics.RefreshCoalesced.Inc()
	}
	return ran
}

func (c *RefreshCoordinator) runTimedCycle(ctx context.Context, announce bool) {
	ctx = logging.WithCycleID(ctx)
	started := time.Now()
	outcome := c.runCycle(ctx, announce)
	metrics.RecordRefresh(outcome, time.Since(started).Seconds())
	c.logger.DebugContext(ctx, "refresh cycle finished", "outcome", outcome, "announce", announce)
}

// refreshNewSession announces the first refresh of a session. If a cycle of
// the previous session is in flight, its owner runs the refresh once done.
func (c *RefreshCoordinator) refreshNewSession(ctx context.Context) {
	c.followUp.Store(true)
	c.RefreshNow(ctx, true)
}

// Reschedule asks Run to rebuild its timer with the current interval.
func (c *RefreshCoordinator) Reschedule() {
	select {
	case c.reschedule <- struct{}{}:
	default:
	}
}

// Run drives periodic refreshes until ctx is done. The timer only exists
// while a session token is present and is rebuilt on every Reschedule.
func (c *RefreshCoordinator) Run(ctx context.Context) error {
	for {
		if !c.loggedIn(ctx) {
			select {
			case <-ctx.Done():
				return nil
			case <-c.reschedule:
				continue
			}
		}

		interval := c.currentInterval(ctx)
		c.logger.DebugContext(ctx, "refresh timer scheduled", "interval", interval)
		ticker := c.newTicker(interval)

		rebuild := false
		for !rebuild {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return nil
			case <-c.reschedule:
				rebuild = true
			case <-ticker.C():
				c.RefreshNow(ctx, false)
				if !c.State().LoggedIn {
					rebuild = true
				}
			}
		}
		ticker.Stop()
	}
}

// Login runs the login flow and waits for its outcome. On success the session
// generation advances, threshold flags reset and a first refresh is announced.
func (c *RefreshCoordinator) Login(ctx context.Context) (domain.LoginEvent, error) {
	events, err := c.auth.BeginLogin(ctx)
	if err != nil {
		return domain.LoginEvent{}, err
	}

	var event domain.LoginEvent
	select {
	case <-ctx.Done():
		return domain.LoginEvent{}, ctx.Err()
	case received, ok := <-events:
		if !ok {
			return domain.LoginEvent{Kind: domain.LoginEventDismissed}, nil
		}
		event = received
	}

	if event.Kind != domain.LoginEventAuthenticated {
		return event, nil
	}

	c.sessionMu.Lock()
	c.noteTokenLocked(event.Token)
	c.sessionMu.Unlock()

	c.startSession(ctx)

	return event, nil
}

// FollowSession checks the secret store every interval and reacts to a token
// written or removed by another process. A new token starts a session and
// refreshes; a removed one publishes the logged-out state and idles Run.
func (c *RefreshCoordinator) FollowSession(ctx context.Context, interval time.Duration) error {
	c.sessionMu.Lock()
	if token, err := c.auth.CurrentToken(ctx); err == nil {
		c.noteTokenLocked(token)
	}
	c.sessionMu.Unlock()

	ticker := c.newTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C():
			c.sessionMu.Lock()
			token, err := c.auth.CurrentToken(ctx)
			changed := err == nil && c.noteTokenLocked(token)
			c.sessionMu.Unlock()

			if err != nil {
				c.logger.DebugContext(ctx, "session check failed", "error", err)
				continue
			}
			if !changed {
				continue
			}

			if token == "" {
				c.logger.InfoContext(ctx, "session token removed")
				c.generation.Add(1)
				c.thresholds.ResetForNewSession()
				c.publish(loggedOutState(c.loadSettings(ctx), "", c.clock.Now()), false)
				c.Reschedule()
				continue
			}

			c.logger.InfoContext(ctx, "session token changed")
			c.startSession(ctx)
		}
	}
}

func (c *RefreshCoordinator) startSession(ctx context.Context) {
	c.generation.Add(1)
	c.thresholds.ResetForNewSession()
	c.Reschedule()
	c.refreshNewSession(ctx)
}

// noteTokenLocked records token and reports whether it differs from the one
// recorded before. The first observation is never a change.
func (c *RefreshCoordinator) noteTokenLocked(token string) bool {
	changed := c.tokenKnown && c.knownToken != token
	c.knownToken = token
	c.tokenKnown = true
	return changed
}

// Logout ends the session: the token is removed, threshold flags reset, the
// timer torn down and a logged-out state published.
func (c *RefreshCoordinator) Logout(ctx context.Context) error {
	return c.endSession(ctx, "")
}

func (c *RefreshCoordinator) endSession(ctx context.Context, message string) error {
	c.generation.Add(1)

	c.sessionMu.Lock()
	c.noteTokenLocked("")
	err := c.auth.Logout(ctx)
	c.sessionMu.Unlock()

	c.thresholds.ResetForNewSession()

	settings := c.loadSettings(ctx)
	c.publish(loggedOutState(settings, message, c.clock.Now()), false)
	c.Reschedule()

	return err
}

func (c *RefreshCoordinator) runCycle(ctx context.Context, announce bool) string {
	generation := c.generation.Load()

	c.report(StageSession)
	token, err := c.auth.CurrentToken(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "read session token failed", "error", err)
		if !c.isCurrent(ctx, generation, "") {
			return metrics.OutcomeStale
		}
		c.publish(c.failedState(err, c.State().LoggedIn), false)
		return metrics.OutcomeError
	}

	settings := c.loadSettings(ctx)

	if token == "" {
		if c.generation.Load() != generation {
			return metrics.OutcomeStale
		}
		c.publish(loggedOutState(settings, "", c.clock.Now()), false)
		return metrics.OutcomeLoggedOut
	}

	state, reading, err := c.fetch(ctx, token, settings)

	if !c.isCurrent(ctx, generation, token) {
		c.logger.InfoContext(ctx, "discarding refresh results for an ended session")
		return metrics.OutcomeStale
	}

	if err != nil {
		return c.handleFailure(ctx, err)
	}

	c.thresholds.Evaluate(ctx, reading)
	if state.SpendingUSD != nil {
		metrics.SpendingUSD.Set(*state.SpendingUSD)
	}
	c.publish(state, announce)

	return metrics.OutcomeSuccess
}

func (c *RefreshCoordinator) fetch(ctx context.Context, token string, settings domain.Settings) (domain.SpendingState, Reading, error) {
	c.report(StageAccount)
	user, err := c.billing.FetchUserInfo(ctx, token)
	if err != nil {
		return domain.SpendingState{}, Reading{}, err
	}

	c.report(StageTeam)
	teamInfo, err := c.billing.FetchTeamInfo(ctx, token)
	if err != nil {
		return domain.SpendingState{}, Reading{}, err
	}
	team := domain.ResolveTeam(user, teamInfo)
	c.rememberAccount(ctx, settings, team, user.Email)

	c.report(StageInvoice)
	now := c.clock.Now()
	invoice, err := c.billing.FetchInvoice(ctx, token, team.ID, int(now.Month())-1, now.Year())
	if err != nil {
		return domain.SpendingState{}, Reading{}, err
	}

	spendingUSD := invoice.SpendingUSD()
	c.report(StageRates)
	table := c.rates.Snapshot(ctx)

	state := domain.SpendingState{
		LoggedIn:     true,
		SpendingUSD:  &spendingUSD,
		CurrencyCode: settings.CurrencyCode,
		TeamName:     team.Name,
		UserEmail:    user.Email,
		UpdatedAt:    now,
	}

	spending, okSpending := domain.Convert(spendingUSD, domain.USD, settings.CurrencyCode, table)
	warning, okWarning := domain.Convert(settings.WarningLimitUSD, domain.USD, settings.CurrencyCode, table)
	upper, okUpper := domain.Convert(settings.UpperLimitUSD, domain.USD, settings.CurrencyCode, table)

	if okSpending && okWarning && okUpper {
		state.RatesAvailable = true
	} else {
		spending, warning, upper = spendingUSD, settings.WarningLimitUSD, settings.UpperLimitUSD
		state.LastErrorMessage = MessageRatesUnavailable
	}

	display := state.DisplayCurrency()
	state.SpendingConverted = &spending
	state.WarningLimitConverted = warning
	state.UpperLimitConverted = upper
	state.CurrencySymbol = domain.Symbol(display)
	state.DisplayText = domain.FormatAmount(spending, display)

	reading := Reading{
		SpendingUSD:  spendingUSD,
		WarningUSD:   settings.WarningLimitUSD,
		UpperUSD:     settings.UpperLimitUSD,
		Spending:     spending,
		Warning:      warning,
		Upper:        upper,
		CurrencyCode: display,
	}

	return state, reading, nil
}

func (c *RefreshCoordinator) handleFailure(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.logger.InfoContext(ctx, "session rejected, logging out")
		if logoutErr := c.endSession(ctx, MessageSessionExpired); logoutErr != nil {
			c.logger.WarnContext(ctx, "logout after unauthorized response failed", "error", logoutErr)
		}
		return metrics.OutcomeUnauthorized
	case errors.Is(err, domain.ErrNoTeamFound):
		state := c.clearedSpending(true)
		state.TeamIDFetchFailed = true
		state.LastErrorMessage = MessageNoTeam
		c.publish(state, false)
		return metrics.OutcomeNoTeam
	default:
		c.logger.WarnContext(ctx, "refresh failed", "error", err)
		c.publish(c.failedState(err, true), false)
		return metrics.OutcomeError
	}
}

// failedState keeps the team fields of the previous snapshot.
func (c *RefreshCoordinator) failedState(err error, loggedIn bool) domain.SpendingState {
	state := c.clearedSpending(loggedIn)
	state.LastErrorMessage = errorMessage(err)
	return state
}

func (c *RefreshCoordinator) clearedSpending(loggedIn bool) domain.SpendingState {
	state := c.State()
	state.LoggedIn = loggedIn
	state.SpendingUSD = nil
	state.SpendingConverted = nil
	state.DisplayText = ""
	state.TransientMessage = ""
	state.UpdatedAt = c.clock.Now()
	return state
}

// isCurrent reports whether a cycle started under generation with token may
// still publish. An empty token skips the token comparison.
func (c *RefreshCoordinator) isCurrent(ctx context.Context, generation uint64, token string) bool {
	if c.generation.Load() != generation {
		return false
	}
	if token == "" {
		return true
	}
	current, err := c.auth.CurrentToken(ctx)
	return err == nil && current == token
}

func (c *RefreshCoordinator) publish(state domain.SpendingState, announce bool) {
	c.mu.Lock()
	c.publishSeq++
	seq := c.publishSeq
	state.Generation = c.generation.Load()
	if announce {
		state.TransientMessage = MessageSynced
	}
	c.state = state
	c.broadcastLocked()
	c.mu.Unlock()

	if announce {
		c.afterFunc(c.transientDelay, func() {
			c.clearTransient(seq)
		})
	}
}

// clearTransient drops the transient message unless something newer was
// published in the meantime.
func (c *RefreshCoordinator) clearTransient(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.publishSeq != seq {
		return
	}
	c.publishSeq++
	c.state.TransientMessage = ""
	c.broadcastLocked()
}

func (c *RefreshCoordinator) broadcastLocked() {
	for _, ch := range c.subscribers {
		select {
		case ch <- c.state:
			continue
		default:
		}
		// Replace the unread snapshot with the newer one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- c.state:
		default:
		}
	}
}

func (c *RefreshCoordinator) report(stage RefreshStage) {
	if c.progress != nil {
		c.progress(stage)
	}
}

func (c *RefreshCoordinator) loggedIn(ctx context.Context) bool {
	token, err := c.auth.CurrentToken(ctx)
	return err == nil && token != ""
}

func (c *RefreshCoordinator) currentInterval(ctx context.Context) time.Duration {
	interval := c.loadSettings(ctx).RefreshInterval
	if interval < domain.MinRefreshInterval {
		return domain.MinRefreshInterval
	}
	return interval
}

func (c *RefreshCoordinator) loadSettings(ctx context.Context) domain.Settings {
	if c.settings == nil {
		return domain.DefaultSettings()
	}
	settings, err := c.settings.Load(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "load settings failed, using defaults", "error", err)
		return domain.DefaultSettings()
	}
	settings.Normalize()
	return settings
}

// rememberAccount persists the resolved team and email when they changed.
func (c *RefreshCoordinator) rememberAccount(ctx context.Context, settings domain.Settings, team domain.TeamInfo, email string) {
	if c.settings == nil {
		return
	}
	if settings.TeamID == team.ID && settings.TeamName == team.Name && settings.UserEmail == email {
		return
	}

	settings.TeamID = team.ID
	settings.TeamName = team.Name
	settings.UserEmail = email
	if err := c.settings.Save(ctx, settings); err != nil {
		c.logger.WarnContext(ctx, "persist team settings failed", "error", err)
	}
}

func loggedOutState(settings domain.Settings, message string, now time.Time) domain.SpendingState {
	return domain.SpendingState{
		LoggedIn:         false,
		CurrencyCode:     settings.CurrencyCode,
		CurrencySymbol:   domain.Symbol(domain.USD),
		LastErrorMessage: message,
		UpdatedAt:        now,
	}
}

// errorMessage renders err for display, capped at maxErrorMessageRunes.
func errorMessage(err error) string {
	message := []rune("Error: " + err.Error())
	if len(message) <= maxErrorMessageRunes {
		return string(message)
	}
	return string(message[:maxErrorMessageRunes-1]) + "…"
}
