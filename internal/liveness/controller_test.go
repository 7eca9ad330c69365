package liveness

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/avorobjovs/taskdeck/internal/cache"
	"github.com/avorobjovs/taskdeck/internal/logging"
	"github.com/avorobjovs/taskdeck/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokens struct {
	token string
}

func (f *fakeTokens) Token() string { return f.token }
func (f *fakeTokens) Clear()        { f.token = "" }

type fakeProvider struct {
	userCalls    atomic.Int32
	signOutCalls atomic.Int32
	userErr      error
	user         *models.User
}

func (f *fakeProvider) GetCurrentUser(ctx context.Context, token string) (*models.User, error) {
	f.userCalls.Add(1)
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.user, nil
}

func (f *fakeProvider) SignOut(ctx context.Context, token string) error {
	f.signOutCalls.Add(1)
	return nil
}

func quietLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func tokenExpiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u-1", "exp": exp.Unix()})
	s, err := tok.SignedString([]byte("irrelevant"))
	require.NoError(t, err)
	return s
}

func newController(t *testing.T, tokens *fakeTokens, provider *fakeProvider, stores ...cache.Store) *Controller {
	t.Helper()
	c := New(Options{MaxRetries: 3}, tokens, provider, stores, quietLogger())
	return c
}

func TestValidate_NoCredentialFailsClosed(t *testing.T) {
	p := &fakeProvider{user: &models.User{ID: "u-1"}}
	c := newController(t, &fakeTokens{}, p)

	assert.False(t, c.Validate(context.Background()))
	assert.Zero(t, p.userCalls.Load())
}

func TestValidate_ExpiredClaimSkipsProvider(t *testing.T) {
	p := &fakeProvider{user: &models.User{ID: "u-1"}}
	tokens := &fakeTokens{token: tokenExpiringAt(t, time.Now().Add(-time.Minute))}
	c := newController(t, tokens, p)

	assert.False(t, c.Validate(context.Background()))
	assert.Zero(t, p.userCalls.Load(), "expired claim must be decided locally")
}

func TestValidate_MalformedTokenFailsClosed(t *testing.T) {
	p := &fakeProvider{user: &models.User{ID: "u-1"}}
	c := newController(t, &fakeTokens{token: "not%%a%%jwt"}, p)

	assert.False(t, c.Validate(context.Background()))
	assert.Zero(t, p.userCalls.Load())
}

func TestValidate_ConfirmsWithProvider(t *testing.T) {
	p := &fakeProvider{user: &models.User{ID: "u-1"}}
	tokens := &fakeTokens{token: tokenExpiringAt(t, time.Now().Add(time.Hour))}
	c := newController(t, tokens, p)

	assert.True(t, c.Validate(context.Background()))
	assert.Equal(t, int32(1), p.userCalls.Load())
}

func TestValidate_ProviderErrorFailsClosed(t *testing.T) {
	p := &fakeProvider{userErr: errors.New("backend down")}
	tokens := &fakeTokens{token: tokenExpiringAt(t, time.Now().Add(time.Hour))}
	c := newController(t, tokens, p)

	assert.False(t, c.Validate(context.Background()))
}

func TestRunCheck_ThresholdForcesSingleSignOut(t *testing.T) {
	p := &fakeProvider{userErr: errors.New("revoked")}
	tokens := &fakeTokens{token: tokenExpiringAt(t, time.Now().Add(time.Hour))}
	c := newController(t, tokens, p)
	ctx := context.Background()

	c.runCheck(ctx)
	c.runCheck(ctx)
	assert.Equal(t, 2, c.state.ConsecutiveFailures)
	assert.Zero(t, p.signOutCalls.Load(), "below threshold, no sign-out")

	c.runCheck(ctx)
	assert.Equal(t, int32(1), p.signOutCalls.Load(), "exactly one forced sign-out")
	assert.Zero(t, c.state.ConsecutiveFailures, "counter resets after sign-out")
	assert.Empty(t, tokens.Token(), "held credential dropped")
}

func TestRunCheck_SuccessResetsCounter(t *testing.T) {
	p := &fakeProvider{userErr: errors.New("flaky")}
	tokens := &fakeTokens{token: tokenExpiringAt(t, time.Now().Add(time.Hour))}
	c := newController(t, tokens, p)
	ctx := context.Background()

	c.runCheck(ctx)
	c.runCheck(ctx)
	require.Equal(t, 2, c.state.ConsecutiveFailures)

	p.userErr = nil
	p.user = &models.User{ID: "u-1"}
	c.runCheck(ctx)

	assert.Zero(t, c.state.ConsecutiveFailures)
	assert.Zero(t, p.signOutCalls.Load(), "recovery must not sign out")
	assert.NotEmpty(t, tokens.Token())
}

func TestRunCheck_RecordsLastCheckedAt(t *testing.T) {
	p := &fakeProvider{user: &models.User{ID: "u-1"}}
	tokens := &fakeTokens{token: tokenExpiringAt(t, time.Now().Add(time.Hour))}
	c := newController(t, tokens, p)

	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	c.runCheck(context.Background())
	assert.Equal(t, fixed, c.state.LastCheckedAt)
}

func TestForceSignOut_PurgesCredentialKeys(t *testing.T) {
	durable := cache.NewMemoryStoreWithTier(cache.Durable)
	ctx := context.Background()
	require.NoError(t, durable.Set(ctx, "sb-auth-token", []byte(`{"exp":1}`)))
	require.NoError(t, durable.Set(ctx, "ui-theme", []byte(`"dark"`)))

	p := &fakeProvider{userErr: errors.New("revoked")}
	tokens := &fakeTokens{token: tokenExpiringAt(t, time.Now().Add(time.Hour))}
	c := newController(t, tokens, p, durable)

	for i := 0; i < 3; i++ {
		c.runCheck(ctx)
	}

	v, err := durable.Get(ctx, "sb-auth-token")
	require.NoError(t, err)
	assert.Nil(t, v, "credential entry purged")

	v, err = durable.Get(ctx, "ui-theme")
	require.NoError(t, err)
	assert.NotNil(t, v, "unrelated entries untouched")
}

func TestLoop_VisibilityTriggersImmediateCheck(t *testing.T) {
	p := &fakeProvider{user: &models.User{ID: "u-1"}}
	tokens := &fakeTokens{token: tokenExpiringAt(t, time.Now().Add(time.Hour))}
	c := New(Options{CheckInterval: time.Hour, CleanupInterval: time.Hour, MaxRetries: 3},
		tokens, p, nil, quietLogger())

	c.Start(context.Background())
	defer c.Stop()

	c.NotifyVisible()

	require.Eventually(t, func() bool { return p.userCalls.Load() >= 1 },
		2*time.Second, 10*time.Millisecond, "foreground resume must validate without waiting for the ticker")
}

func TestLoop_PeriodicCheckSkippedWithoutCredential(t *testing.T) {
	p := &fakeProvider{user: &models.User{ID: "u-1"}}
	tokens := &fakeTokens{}
	c := New(Options{CheckInterval: 5 * time.Millisecond, CleanupInterval: time.Hour, MaxRetries: 3},
		tokens, p, nil, quietLogger())

	c.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	c.Stop()

	assert.Zero(t, p.userCalls.Load(), "check loop runs only while a credential is held")
}

func TestLoop_CleanupRunsImmediatelyAtStart(t *testing.T) {
	durable := cache.NewMemoryStoreWithTier(cache.Durable)
	ctx := context.Background()
	require.NoError(t, durable.Set(ctx, "auth-token", []byte("not json")))

	c := New(Options{CheckInterval: time.Hour, CleanupInterval: time.Hour, MaxRetries: 3},
		&fakeTokens{}, &fakeProvider{}, []cache.Store{durable}, quietLogger())

	c.Start(ctx)
	defer c.Stop()

	require.Eventually(t, func() bool {
		v, err := durable.Get(ctx, "auth-token")
		return err == nil && v == nil
	}, 2*time.Second, 10*time.Millisecond, "corrupt entry scrubbed at startup")
}

func TestStop_Idempotent(t *testing.T) {
	c := New(Options{}, &fakeTokens{}, &fakeProvider{}, nil, quietLogger())
	c.Start(context.Background())

	c.Stop()
	c.Stop() // second call must not panic or hang
}

func TestStop_WithoutStart(t *testing.T) {
	c := New(Options{}, &fakeTokens{}, &fakeProvider{}, nil, quietLogger())
	c.Stop()
}

func TestStop_NoTicksAfterTeardown(t *testing.T) {
	p := &fakeProvider{user: &models.User{ID: "u-1"}}
	tokens := &fakeTokens{token: tokenExpiringAt(t, time.Now().Add(time.Hour))}
	c := New(Options{CheckInterval: 5 * time.Millisecond, CleanupInterval: time.Hour, MaxRetries: 3},
		tokens, p, nil, quietLogger())

	c.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	c.Stop()

	calls := p.userCalls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, p.userCalls.Load(), "no orphaned timer may fire after teardown")
}
