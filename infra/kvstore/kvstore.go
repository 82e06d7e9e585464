package kvstore

import (
	"context"
	"time"
)

// Key is the type storing the store key name. It is a string but is a separate type to avoid bugs related to mixing up strings.
type Key string

// NoExpiration indicates a value should be retained until explicitly deleted
const NoExpiration time.Duration = -1

// Provider is the interface for the durable key-value backing store which can be
// implemented by in-memory, redis, memcache, etc. Values are opaque serialized
// strings; freshness policy is the caller's concern, the provider only bounds
// retention.
type Provider interface {
	// Get returns the value stored under key, or nil if the key is absent
	Get(ctx context.Context, key Key) (*string, error)
	// Set stores value under key with the given retention; NoExpiration means keep until deleted
	Set(ctx context.Context, key Key, value string, retention time.Duration) error
	// Delete removes the value stored under key (absent key is not an error)
	Delete(ctx context.Context, key Key) error
	// Flush removes every key starting with prefix
	Flush(ctx context.Context, prefix string) error
	// GetName returns the name of the store for logging
	GetName() string
}
