package itsm

import (
	"context"

	"deskwise.io/infra/dwlog"
	"deskwise.io/infra/request"
)

// WarmResult summarizes a cache warming pass
type WarmResult struct {
	AssetTypes int      `json:"asset_types"`
	Locations  int      `json:"locations"`
	Errors     []string `json:"errors"`
}

// InitializeAllCaches warms the asset type and location buckets with full
// sweeps. Intended to be invoked once at application startup. Partial failure
// is recorded in Errors and never fatal: an empty bucket just means later
// resolutions go upstream again.
func (r *Resolver) InitializeAllCaches(ctx context.Context) WarmResult {
	ctx = request.NewRequestID(ctx)

	result := WarmResult{Errors: []string{}}

	assetTypes := r.refreshAssetTypes(ctx)
	result.AssetTypes = len(assetTypes)
	if len(assetTypes) == 0 {
		result.Errors = append(result.Errors, "asset type cache is empty after refresh")
	}

	locations := r.refreshLocations(ctx)
	result.Locations = len(locations)
	if len(locations) == 0 {
		result.Errors = append(result.Errors, "location cache is empty after refresh")
	}

	dwlog.Infof(ctx, "Cache warm complete: %d asset types, %d locations, %d errors",
		result.AssetTypes, result.Locations, len(result.Errors))
	return result
}
