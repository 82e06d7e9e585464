package itsm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"deskwise.io/infra/dwlog"
	"deskwise.io/infra/pagination"
	"deskwise.io/infra/request"
)

// defaultSearchPerPage is how many results one asset search requests
const defaultSearchPerPage = 50

// minSearchTermLength is the shortest term worth sending upstream
const minSearchTermLength = 2

// includeTypeFields requests the extended per-asset fields needed for
// managed-by resolution on search results
const includeTypeFields = "type_fields"

// SearchAssets runs a field-scoped free-text asset search, serving repeat
// queries within the TTL window from the cache. Search is best effort: bad
// input and remote failures both yield an empty sequence, never an error.
func (r *Resolver) SearchAssets(ctx context.Context, term, field string) []Asset {
	ctx = request.NewRequestID(ctx)

	if field == "" {
		field = "name"
	}
	if len(term) < minSearchTermLength {
		return []Asset{}
	}

	key := searchCacheKey(term, field)
	bucket := getBucket[[]Asset](ctx, r.store, assetSearchBucket)
	if entry, ok := bucket[key]; ok && entry.IsFresh(time.Now().UTC()) {
		dwlog.Verbosef(ctx, "Search cache hit for %q", key)
		return entry.Value
	}

	resp, err := r.client.ListAssets(ctx, fmt.Sprintf("%s:'%s'", field, term), includeTypeFields,
		pagination.Page(1), pagination.PerPage(r.opts.searchPerPage))
	if err != nil {
		dwlog.Debugf(ctx, "Asset search for %q failed: %v", key, err)
		return []Asset{}
	}

	results := resp.Assets
	if results == nil {
		results = []Asset{}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return strings.ToLower(results[i].Label()) < strings.ToLower(results[j].Label())
	})

	// read-modify-write the whole bucket; a failed write just means the next
	// identical query goes upstream again
	bucket[key] = NewCacheEntry(results)
	setBucket(ctx, r.store, assetSearchBucket, bucket)

	return results
}

// searchCacheKey derives the composite cache key for one search. The term is
// lowercased so queries differing only in case share an entry.
func searchCacheKey(term, field string) string {
	return field + ":" + strings.ToLower(term)
}
