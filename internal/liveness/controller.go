// Package liveness keeps the client's belief about credential validity
// aligned with backend truth. A single goroutine owns the failure counter
// and receives tick, visibility and stop events through its own select loop,
// so no locking is needed around the state.
//
// Two independent cadences run here: a frequent validity check (only while a
// credential is held) and a rare scrub of locally cached credential material
// (always, plus once at start).
package liveness

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avorobjovs/taskdeck/internal/authx"
	"github.com/avorobjovs/taskdeck/internal/cache"
	"github.com/avorobjovs/taskdeck/internal/logging"
	"github.com/avorobjovs/taskdeck/internal/models"
)

// Defaults for Options.
const (
	DefaultCheckInterval   = time.Minute
	DefaultCleanupInterval = 48 * time.Hour
	DefaultMaxRetries      = 3
)

// Options configures the controller's cadences and failure threshold.
// Zero values fall back to the defaults above.
type Options struct {
	CheckInterval   time.Duration
	CleanupInterval time.Duration
	MaxRetries      int
}

func (o Options) withDefaults() Options {
	if o.CheckInterval <= 0 {
		o.CheckInterval = DefaultCheckInterval
	}
	if o.CleanupInterval <= 0 {
		o.CleanupInterval = DefaultCleanupInterval
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	return o
}

// TokenSource exposes the currently held credential. Satisfied by
// authx.SessionHolder.
type TokenSource interface {
	Token() string
	Clear()
}

// Provider is the subset of the auth backend the controller talks to.
type Provider interface {
	GetCurrentUser(ctx context.Context, accessToken string) (*models.User, error)
	SignOut(ctx context.Context, accessToken string) error
}

// State is the per-session liveness bookkeeping.
type State struct {
	ConsecutiveFailures int
	LastCheckedAt       time.Time
}

// Controller runs the two background loops. Construct with New, then Start.
type Controller struct {
	opts     Options
	tokens   TokenSource
	provider Provider
	stores   []cache.Store
	logger   logging.Logger
	now      func() time.Time

	state State

	visibleCh chan struct{}
	stopCh    chan struct{}
	stopOnce  sync.Once
	doneCh    chan struct{}
	started   atomic.Bool
}

func New(opts Options, tokens TokenSource, provider Provider, stores []cache.Store, logger logging.Logger) *Controller {
	return &Controller{
		opts:      opts.withDefaults(),
		tokens:    tokens,
		provider:  provider,
		stores:    stores,
		logger:    logger,
		now:       time.Now,
		visibleCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Validate reports whether the held credential is currently good. It fails
// closed: no credential, an undecodable or expired exp claim, or any
// provider error all yield false, never an error. An expired claim is
// decided locally, without a network call.
func (c *Controller) Validate(ctx context.Context) bool {
	token := c.tokens.Token()
	if token == "" {
		return false
	}

	if authx.Expired(token, c.now()) {
		return false
	}

	u, err := c.provider.GetCurrentUser(ctx, token)
	if err != nil || u == nil || u.ID == "" {
		return false
	}
	return true
}

// Start launches the control loop. Stop it with Stop or by canceling ctx.
// Starting twice is a no-op.
func (c *Controller) Start(ctx context.Context) {
	if c.started.Swap(true) {
		return
	}
	go c.run(ctx)
}

// Stop tears down both loops and waits for the goroutine to exit. Safe to
// call multiple times, and safe to call when the loop never started.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
	if c.started.Load() {
		<-c.doneCh
	}
}

// NotifyVisible requests an immediate check because the host surface came
// back to the foreground. Non-blocking; coalesces with a pending request.
func (c *Controller) NotifyVisible() {
	select {
	case c.visibleCh <- struct{}{}:
	default:
	}
}

func (c *Controller) run(ctx context.Context) {
	defer close(c.doneCh)

	check := time.NewTicker(c.opts.CheckInterval)
	defer check.Stop()
	cleanup := time.NewTicker(c.opts.CleanupInterval)
	defer cleanup.Stop()

	// One scrub right away: stale artifacts may predate this process.
	c.runCleanup(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopCh:
			return
		case <-check.C:
			if c.tokens.Token() != "" {
				c.runCheck(ctx)
			}
		case <-c.visibleCh:
			if c.tokens.Token() != "" {
				c.runCheck(ctx)
			}
		case <-cleanup.C:
			c.runCleanup(ctx)
		}
	}
}

// runCheck is the single check path shared by the periodic loop and the
// foreground-resume trigger. Counter updates happen only on the loop
// goroutine (or in single-threaded tests), keeping them serialized.
func (c *Controller) runCheck(ctx context.Context) {
	ok := c.Validate(ctx)
	c.state.LastCheckedAt = c.now()

	if ok {
		c.state.ConsecutiveFailures = 0
		return
	}

	c.state.ConsecutiveFailures++
	c.logger.Warn(ctx, "session validation failed",
		"consecutive_failures", c.state.ConsecutiveFailures,
		"max_retries", c.opts.MaxRetries)

	if c.state.ConsecutiveFailures >= c.opts.MaxRetries {
		c.forceSignOut(ctx)
		c.state.ConsecutiveFailures = 0
	}
}

// forceSignOut purges cached credential artifacts, revokes the session with
// the provider and drops the held credential. Errors are logged, never
// propagated: the loop must survive any backend state.
func (c *Controller) forceSignOut(ctx context.Context) {
	c.logger.Warn(ctx, "validation threshold reached, forcing sign-out")

	c.purgeCredentialKeys(ctx)

	if token := c.tokens.Token(); token != "" {
		if err := c.provider.SignOut(ctx, token); err != nil {
			c.logger.Error(ctx, "provider sign-out failed", "error", err)
		}
	}
	c.tokens.Clear()
}
