package itsm

import (
	"context"
	"encoding/json"

	"deskwise.io/infra/dwlog"
	"deskwise.io/infra/kvstore"
)

// Bucket names in the persistent key-value store. Each bucket holds one full
// mapping serialized as JSON; refreshes replace entries inside the mapping and
// write the whole mapping back.
const (
	assetTypeBucket   = "asset_type_cache"
	locationBucket    = "location_cache"
	assetSearchBucket = "asset_search_cache"
)

// bucketKeyPrefix namespaces our keys within a shared store
const bucketKeyPrefix = "resolution:"

// Store reads and writes named cache buckets in the durable key-value store.
// All failures degrade: reads come back as an empty mapping, writes report
// false. Callers never see an error from the store.
type Store struct {
	provider kvstore.Provider
}

// NewStore creates a Store over the given provider
func NewStore(provider kvstore.Provider) *Store {
	return &Store{provider: provider}
}

func bucketKey(bucket string) kvstore.Key {
	return kvstore.Key(bucketKeyPrefix + bucket)
}

// getBucket returns the mapping stored for bucket, or an empty mapping on any
// read or decode failure
func getBucket[T any](ctx context.Context, s *Store, bucket string) map[string]CacheEntry[T] {
	m := make(map[string]CacheEntry[T])

	value, err := s.provider.Get(ctx, bucketKey(bucket))
	if err != nil {
		dwlog.Debugf(ctx, "Bucket[%s] read failed, treating as empty: %v", bucket, err)
		return m
	}
	if value == nil {
		return m
	}

	if err := json.Unmarshal([]byte(*value), &m); err != nil {
		dwlog.Debugf(ctx, "Bucket[%s] holds undecodable value, treating as empty: %v", bucket, err)
		return make(map[string]CacheEntry[T])
	}
	return m
}

// setBucket writes the full mapping for bucket and reports whether the write
// stuck, so callers can decide to retry or ignore
func setBucket[T any](ctx context.Context, s *Store, bucket string, m map[string]CacheEntry[T]) bool {
	bs, err := json.Marshal(m)
	if err != nil {
		dwlog.Errorf(ctx, "Bucket[%s] failed to serialize mapping: %v", bucket, err)
		return false
	}

	// Entries are retained past the freshness TTL so stale values stay
	// available as fallbacks; the caller checks CachedAt on read.
	if err := s.provider.Set(ctx, bucketKey(bucket), string(bs), kvstore.NoExpiration); err != nil {
		dwlog.Warningf(ctx, "Bucket[%s] write failed: %v", bucket, err)
		return false
	}
	dwlog.Verbosef(ctx, "Bucket[%s] wrote %d entries", bucket, len(m))
	return true
}

// clear resets one bucket to empty
func (s *Store) clear(ctx context.Context, bucket string) bool {
	if err := s.provider.Delete(ctx, bucketKey(bucket)); err != nil {
		dwlog.Warningf(ctx, "Bucket[%s] clear failed: %v", bucket, err)
		return false
	}
	return true
}

// clearAll resets every bucket to empty
func (s *Store) clearAll(ctx context.Context) bool {
	ok := true
	for _, bucket := range []string{assetTypeBucket, locationBucket, assetSearchBucket} {
		if !s.clear(ctx, bucket) {
			ok = false
		}
	}
	return ok
}
