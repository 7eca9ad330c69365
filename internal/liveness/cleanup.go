package liveness

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/avorobjovs/taskdeck/internal/cache"
)

// credentialKey matches the naming patterns under which the auth provider
// mirrors credential material into local storage.
func credentialKey(key string) bool {
	l := strings.ToLower(key)
	return strings.HasPrefix(l, "sb-") ||
		strings.Contains(l, "auth") ||
		strings.Contains(l, "session")
}

// cachedExpiry is the shape of credential entries we care about: a JSON
// object carrying expires_at or exp in epoch seconds.
type cachedExpiry struct {
	ExpiresAt *int64 `json:"expires_at"`
	Exp       *int64 `json:"exp"`
}

// runCleanup scrubs expired or corrupt credential entries from every
// configured storage tier. Durable entries are parsed first and removed when
// expired or unreadable; ephemeral (session-scope) entries are removed
// unconditionally. One bad entry never blocks the rest of the pass.
func (c *Controller) runCleanup(ctx context.Context) {
	for _, store := range c.stores {
		keys, err := store.ListKeys(ctx)
		if err != nil {
			c.logger.Error(ctx, "cleanup: listing keys failed", "error", err)
			continue
		}

		for _, key := range keys {
			if !credentialKey(key) {
				continue
			}

			if store.Tier() == cache.Ephemeral {
				c.removeKey(ctx, store, key)
				continue
			}

			value, err := store.Get(ctx, key)
			if err != nil {
				c.logger.Error(ctx, "cleanup: read failed", "key", key, "error", err)
				continue
			}
			if value == nil {
				continue // raced with another remover
			}

			if c.entryExpired(value) {
				c.removeKey(ctx, store, key)
			}
		}
	}
}

// entryExpired decides whether a cached credential entry should go. Corrupt
// entries (bad JSON, or no recognizable expiry field) count as expired.
func (c *Controller) entryExpired(value []byte) bool {
	var e cachedExpiry
	if err := json.Unmarshal(value, &e); err != nil {
		return true
	}

	ts := e.ExpiresAt
	if ts == nil {
		ts = e.Exp
	}
	if ts == nil {
		return true
	}
	return *ts <= c.now().Unix()
}

func (c *Controller) removeKey(ctx context.Context, store cache.Store, key string) {
	if err := store.Remove(ctx, key); err != nil {
		c.logger.Error(ctx, "cleanup: remove failed", "key", key, "error", err)
		return
	}
	c.logger.Debug(ctx, "cleanup: removed cached credential entry", "key", key)
}

// purgeCredentialKeys removes every credential-patterned key from every
// tier, regardless of expiry. Used by forced sign-out.
func (c *Controller) purgeCredentialKeys(ctx context.Context) {
	for _, store := range c.stores {
		keys, err := store.ListKeys(ctx)
		if err != nil {
			c.logger.Error(ctx, "purge: listing keys failed", "error", err)
			continue
		}
		for _, key := range keys {
			if credentialKey(key) {
				c.removeKey(ctx, store, key)
			}
		}
	}
}
