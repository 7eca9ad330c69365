// Package cache abstracts the local key-value storage tiers holding cached
// credential material. The liveness controller's cleanup pass runs against
// this capability interface, so the scrub algorithm is storage-tier-agnostic
// and testable with an in-memory fake.
package cache

import "context"

// Tier distinguishes how strongly a store persists.
type Tier int

const (
	// Durable survives process restarts (local database file).
	Durable Tier = iota
	// Ephemeral lives only for this process (session-scope storage).
	Ephemeral
)

// Store is the minimal capability the cleanup algorithm needs, plus Set for
// the writers that mirror credentials in.
type Store interface {
	// ListKeys returns all keys currently present.
	ListKeys(ctx context.Context) ([]string, error)

	// Get returns the value for key, or (nil, nil) when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Tier reports the persistence level of this store.
	Tier() Tier
}
