package kvstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"deskwise.io/infra/dwerr"
	"deskwise.io/infra/dwlog"
)

// RegionalRedisStoreName is the default name of the regional redis store
const RegionalRedisStoreName = "redisRegionalStore"

// batch size for Flush scans so we don't block redis on a huge keyspace
const flushScanCount = 100

// RedisProvider is the redis-backed implementation of the Provider interface
type RedisProvider struct {
	rc        *redis.Client
	prefix    string
	storeName string
}

// NewRedisProvider creates a new RedisProvider. All keys are stored under
// the given prefix so multiple clients can share one redis deployment.
func NewRedisProvider(rc *redis.Client, prefix string, storeName string) *RedisProvider {
	return &RedisProvider{rc: rc, prefix: prefix, storeName: storeName}
}

func (p *RedisProvider) prefixedKey(key Key) (string, error) {
	if key == "" {
		return "", dwerr.New("Expected a non-empty key")
	}
	return p.prefix + string(key), nil
}

// Get returns the value stored under key, or nil if the key is absent
func (p *RedisProvider) Get(ctx context.Context, key Key) (*string, error) {
	k, err := p.prefixedKey(key)
	if err != nil {
		return nil, dwerr.Wrap(err)
	}

	value, err := p.rc.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		dwlog.Verbosef(ctx, "Store[%v] miss key %v", p.storeName, key)
		return nil, nil
	}
	if err != nil {
		return nil, dwerr.Wrap(err)
	}
	dwlog.Verbosef(ctx, "Store[%v] hit key %v", p.storeName, key)
	return &value, nil
}

// Set stores value under key with the given retention
func (p *RedisProvider) Set(ctx context.Context, key Key, value string, retention time.Duration) error {
	k, err := p.prefixedKey(key)
	if err != nil {
		return dwerr.Wrap(err)
	}

	if retention == NoExpiration {
		retention = 0 // redis uses 0 for no expiration
	}
	if err := p.rc.Set(ctx, k, value, retention).Err(); err != nil {
		return dwerr.Wrap(err)
	}
	dwlog.Verbosef(ctx, "Store[%v] set key %v", p.storeName, key)
	return nil
}

// Delete removes the value stored under key
func (p *RedisProvider) Delete(ctx context.Context, key Key) error {
	k, err := p.prefixedKey(key)
	if err != nil {
		return dwerr.Wrap(err)
	}

	if err := p.rc.Del(ctx, k).Err(); err != nil {
		return dwerr.Wrap(err)
	}
	dwlog.Verbosef(ctx, "Store[%v] deleted key %v", p.storeName, key)
	return nil
}

// Flush removes every key starting with prefix
func (p *RedisProvider) Flush(ctx context.Context, prefix string) error {
	iter := p.rc.Scan(ctx, 0, p.prefix+prefix+"*", flushScanCount).Iterator()
	for iter.Next(ctx) {
		if err := p.rc.Del(ctx, iter.Val()).Err(); err != nil {
			return dwerr.Wrap(err)
		}
	}
	return dwerr.Wrap(iter.Err())
}

// GetName returns the name of the store
func (p *RedisProvider) GetName() string {
	return p.storeName
}
