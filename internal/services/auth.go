package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avorobjovs/taskdeck/internal/authx"
	"github.com/avorobjovs/taskdeck/internal/cache"
	"github.com/avorobjovs/taskdeck/internal/logging"
	"github.com/avorobjovs/taskdeck/internal/models"
)

// SessionCacheKey is where the signed-in session is mirrored in the durable
// cache. The "sb-" prefix marks it as credential material for the
// credential-cache cleanup.
const SessionCacheKey = "sb-taskdeck-auth-token"

// cachedSession is the JSON shape mirrored into the durable cache. The
// expires_at field is a unix timestamp in seconds; the cleanup pass reads
// it to decide staleness.
type cachedSession struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         models.User `json:"user"`
	ExpiresAt    int64       `json:"expires_at"`
}

// AuthService owns sign-in and sign-out: it talks to the auth provider,
// keeps the in-memory holder current, and mirrors the session into the
// durable cache so a restart can show who was signed in.
type AuthService struct {
	provider authx.Provider
	holder   *authx.SessionHolder
	durable  cache.Store
	logger   logging.Logger
}

func NewAuthService(provider authx.Provider, holder *authx.SessionHolder, durable cache.Store, logger logging.Logger) *AuthService {
	return &AuthService{
		provider: provider,
		holder:   holder,
		durable:  durable,
		logger:   logger.With("component", "auth"),
	}
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	session, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.holder.Set(session)

	cached := cachedSession{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		User:         session.User,
		ExpiresAt:    session.ExpiresAt.Unix(),
	}
	b, err := json.Marshal(cached)
	if err != nil {
		return nil, err
	}
	if err := s.durable.Set(ctx, SessionCacheKey, b); err != nil {
		// The session is still usable in memory; it just won't survive
		// a restart.
		s.logger.Warn(ctx, "failed to cache session", "error", err)
	}

	s.logger.Info(ctx, "signed in", "user", session.User.ID)
	return session, nil
}

// Restore loads a previously cached session into the holder. It returns
// false when nothing usable is cached; a stale or corrupt entry is removed.
func (s *AuthService) Restore(ctx context.Context) (bool, error) {
	b, err := s.durable.Get(ctx, SessionCacheKey)
	if err != nil {
		return false, err
	}
	if b == nil {
		return false, nil
	}

	var cached cachedSession
	if err := json.Unmarshal(b, &cached); err != nil || cached.AccessToken == "" {
		_ = s.durable.Remove(ctx, SessionCacheKey)
		return false, nil
	}

	if authx.Expired(cached.AccessToken, time.Now()) {
		_ = s.durable.Remove(ctx, SessionCacheKey)
		return false, nil
	}

	s.holder.Set(&models.Session{
		AccessToken:  cached.AccessToken,
		RefreshToken: cached.RefreshToken,
		User:         cached.User,
	})
	return true, nil
}

// SignOut revokes the session server-side, clears the holder, and drops the
// cached mirror. The local teardown happens even when revocation fails.
func (s *AuthService) SignOut(ctx context.Context) error {
	token := s.holder.Token()
	if token != "" {
		if err := s.provider.SignOut(ctx, token); err != nil {
			s.logger.Warn(ctx, "remote sign-out failed", "error", err)
		}
	}

	s.holder.Clear()
	if err := s.durable.Remove(ctx, SessionCacheKey); err != nil {
		s.logger.Warn(ctx, "failed to drop cached session", "error", err)
	}

	s.logger.Info(ctx, "signed out")
	return nil
}
