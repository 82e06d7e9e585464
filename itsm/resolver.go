package itsm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"deskwise.io/infra/dwlog"
	"deskwise.io/infra/pagination"
	"deskwise.io/infra/request"
)

// Resolver turns opaque upstream identifiers (asset type IDs, location IDs,
// agent/user IDs, managed-by references) into human-readable names, backed by
// the bucket store. It is constructed once at startup and passed by reference
// to consumers; resolution methods never return an error, every failure mode
// degrades to a displayable string or an empty collection.
type Resolver struct {
	client *Client
	store  *Store

	// refreshes for the same bucket share one in-flight sweep rather than
	// issuing duplicate sweeps and racing the write-back
	group singleflight.Group

	opts resolverOptions

	// memoized per-resolver lookups for managed-by resolution
	usersMutex  sync.RWMutex
	users       map[int64]string
	assetsMutex sync.RWMutex
	assets      map[int64]*Asset
}

type resolverOptions struct {
	interPageDelay    time.Duration
	assetTypeMaxPages int
	locationMaxPages  int
	searchPerPage     int
}

// ResolverOption makes Resolver extensible
type ResolverOption interface {
	apply(*resolverOptions)
}

type resolverOptFunc func(*resolverOptions)

func (o resolverOptFunc) apply(opts *resolverOptions) {
	o(opts)
}

// InterPageDelay overrides the pause between page requests during a sweep
func InterPageDelay(d time.Duration) ResolverOption {
	return resolverOptFunc(func(opts *resolverOptions) {
		opts.interPageDelay = d
	})
}

// AssetTypeMaxPages overrides the page ceiling for asset type sweeps
func AssetTypeMaxPages(n int) ResolverOption {
	return resolverOptFunc(func(opts *resolverOptions) {
		opts.assetTypeMaxPages = n
	})
}

// LocationMaxPages overrides the page ceiling for location sweeps
func LocationMaxPages(n int) ResolverOption {
	return resolverOptFunc(func(opts *resolverOptions) {
		opts.locationMaxPages = n
	})
}

// SearchPerPage overrides how many results one asset search requests
func SearchPerPage(n int) ResolverOption {
	return resolverOptFunc(func(opts *resolverOptions) {
		opts.searchPerPage = n
	})
}

// NewResolver creates a Resolver over the given API client and bucket store
func NewResolver(client *Client, store *Store, opts ...ResolverOption) *Resolver {
	options := resolverOptions{
		interPageDelay:    defaultInterPageDelay,
		assetTypeMaxPages: defaultAssetTypeMaxPages,
		locationMaxPages:  defaultLocationMaxPages,
		searchPerPage:     defaultSearchPerPage,
	}
	for _, opt := range opts {
		opt.apply(&options)
	}

	return &Resolver{
		client: client,
		store:  store,
		opts:   options,
		users:  make(map[int64]string),
		assets: make(map[int64]*Asset),
	}
}

// AssetTypeName resolves an asset type ID to its display name. A fresh cache
// entry is served directly; otherwise the whole bucket is refreshed by a full
// sweep and re-checked. An ID that is still unknown resolves to a synthesized
// placeholder, never an error.
func (r *Resolver) AssetTypeName(ctx context.Context, id int64) string {
	ctx = request.NewRequestID(ctx)

	bucket := getBucket[AssetTypeRecord](ctx, r.store, assetTypeBucket)
	if entry, ok := bucket[cacheKeyForID(id)]; ok && entry.IsFresh(time.Now().UTC()) {
		return entry.Value.Name
	}

	bucket = r.refreshAssetTypes(ctx)
	if entry, ok := bucket[cacheKeyForID(id)]; ok {
		return entry.Value.Name
	}

	return fmt.Sprintf("Asset Type %d", id)
}

// LocationName resolves a location ID to its display name, with the same
// refresh-then-recheck flow as AssetTypeName plus an individual lookup as an
// additional step before giving up.
func (r *Resolver) LocationName(ctx context.Context, id int64) string {
	ctx = request.NewRequestID(ctx)

	bucket := getBucket[LocationRecord](ctx, r.store, locationBucket)
	if entry, ok := bucket[cacheKeyForID(id)]; ok && entry.IsFresh(time.Now().UTC()) {
		return entry.Value.Name
	}

	bucket = r.refreshLocations(ctx)
	if entry, ok := bucket[cacheKeyForID(id)]; ok {
		return entry.Value.Name
	}

	// The bucket sweep can miss a location (probe skip, page ceiling), so try
	// the single-item endpoint and merge any result back into the cache.
	if loc, err := r.client.GetLocation(ctx, id); err == nil && loc.Name != "" {
		bucket[cacheKeyForID(id)] = NewCacheEntry(*loc)
		setBucket(ctx, r.store, locationBucket, bucket)
		return loc.Name
	}

	return fmt.Sprintf("Location %d", id)
}

// UserName resolves an agent/requester ID to a display name, or a labeled
// placeholder when the upstream doesn't know the ID
func (r *Resolver) UserName(ctx context.Context, id int64) string {
	ctx = request.NewRequestID(ctx)

	if res := r.resolveUser(ctx, id); res.Resolved {
		return res.Name
	}
	return fmt.Sprintf("User ID: %d", id)
}

// ClearAllCaches resets every cache bucket and the per-resolver memos, so
// every subsequent resolution behaves as a cold cache
func (r *Resolver) ClearAllCaches(ctx context.Context) bool {
	ctx = request.NewRequestID(ctx)

	r.usersMutex.Lock()
	r.users = make(map[int64]string)
	r.usersMutex.Unlock()

	r.assetsMutex.Lock()
	r.assets = make(map[int64]*Asset)
	r.assetsMutex.Unlock()

	return r.store.clearAll(ctx)
}

// refreshAssetTypes sweeps the asset type endpoint, merges the results into
// the bucket mapping (replacing each swept ID's entry) and writes the whole
// mapping back. Returns the post-refresh mapping.
func (r *Resolver) refreshAssetTypes(ctx context.Context) map[string]CacheEntry[AssetTypeRecord] {
	v, _, _ := r.group.Do(assetTypeBucket, func() (interface{}, error) {
		swept := fetchAllPages(ctx, sweepConfig{
			name:     "asset_types",
			perPage:  pagination.DefaultPerPage,
			maxPages: r.opts.assetTypeMaxPages,
			delay:    r.opts.interPageDelay,
		}, func(ctx context.Context, page, perPage int) ([]AssetTypeRecord, error) {
			resp, err := r.client.ListAssetTypes(ctx, pagination.Page(page), pagination.PerPage(perPage))
			if err != nil {
				return nil, err
			}
			return resp.AssetTypes, nil
		}, func(at AssetTypeRecord) string { return cacheKeyForID(at.ID) })

		bucket := getBucket[AssetTypeRecord](ctx, r.store, assetTypeBucket)
		if len(swept) == 0 {
			// refresh failed or returned nothing; keep stale entries as fallback
			return bucket, nil
		}
		for key, record := range swept {
			bucket[key] = NewCacheEntry(record)
		}
		setBucket(ctx, r.store, assetTypeBucket, bucket)
		return bucket, nil
	})
	return v.(map[string]CacheEntry[AssetTypeRecord])
}

// refreshLocations is the location equivalent of refreshAssetTypes, preceded
// by one lightweight probe request: some deployments don't expose the
// locations API at all, and that is a normal outcome, not a failure.
func (r *Resolver) refreshLocations(ctx context.Context) map[string]CacheEntry[LocationRecord] {
	v, _, _ := r.group.Do(locationBucket, func() (interface{}, error) {
		bucket := getBucket[LocationRecord](ctx, r.store, locationBucket)

		probe, err := r.client.ListLocations(ctx, pagination.Page(1), pagination.PerPage(1))
		if err != nil || len(probe.Locations) == 0 {
			dwlog.Debugf(ctx, "Locations probe returned no data, skipping sweep")
			return bucket, nil
		}

		swept := fetchAllPages(ctx, sweepConfig{
			name:     "locations",
			perPage:  pagination.DefaultPerPage,
			maxPages: r.opts.locationMaxPages,
			delay:    r.opts.interPageDelay,
		}, func(ctx context.Context, page, perPage int) ([]LocationRecord, error) {
			resp, err := r.client.ListLocations(ctx, pagination.Page(page), pagination.PerPage(perPage))
			if err != nil {
				return nil, err
			}
			return resp.Locations, nil
		}, func(loc LocationRecord) string { return cacheKeyForID(loc.ID) })

		if len(swept) == 0 {
			return bucket, nil
		}
		for key, record := range swept {
			bucket[key] = NewCacheEntry(record)
		}
		setBucket(ctx, r.store, locationBucket, bucket)
		return bucket, nil
	})
	return v.(map[string]CacheEntry[LocationRecord])
}

// resolveUser resolves an ID as a person, memoizing successful lookups
func (r *Resolver) resolveUser(ctx context.Context, id int64) Resolution {
	if id <= 0 {
		return Unresolved()
	}

	r.usersMutex.RLock()
	name, ok := r.users[id]
	r.usersMutex.RUnlock()
	if ok {
		return Resolved(name)
	}

	agent, err := r.client.GetAgent(ctx, id)
	if err != nil {
		dwlog.Debugf(ctx, "User lookup for %d failed: %v", id, err)
		return Unresolved()
	}
	name = agent.DisplayName()
	if name == "" {
		return Unresolved()
	}

	r.usersMutex.Lock()
	r.users[id] = name
	r.usersMutex.Unlock()

	return Resolved(name)
}

// fetchAsset fetches an asset by ID, memoizing successful lookups
func (r *Resolver) fetchAsset(ctx context.Context, id int64) *Asset {
	if id <= 0 {
		return nil
	}

	r.assetsMutex.RLock()
	asset, ok := r.assets[id]
	r.assetsMutex.RUnlock()
	if ok {
		return asset
	}

	asset, err := r.client.GetAsset(ctx, id)
	if err != nil {
		dwlog.Debugf(ctx, "Asset lookup for %d failed: %v", id, err)
		return nil
	}

	r.assetsMutex.Lock()
	r.assets[id] = asset
	r.assetsMutex.Unlock()

	return asset
}
