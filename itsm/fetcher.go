package itsm

import (
	"context"
	"time"

	"deskwise.io/infra/dwlog"
	"deskwise.io/infra/pagination"
)

// Default sweep ceilings per endpoint. Asset types outnumber locations in
// most deployments, so they get the larger ceiling.
const (
	defaultAssetTypeMaxPages = 20
	defaultLocationMaxPages  = 10
)

// defaultInterPageDelay is a soft backpressure pause between page requests,
// not a hard rate limit
const defaultInterPageDelay = 100 * time.Millisecond

// sweepConfig carries the knobs for one pagination sweep
type sweepConfig struct {
	name     string // endpoint name for logging
	perPage  int
	maxPages int
	delay    time.Duration
}

// pageFetch fetches one page of records from a listing endpoint
type pageFetch[T any] func(ctx context.Context, page, perPage int) ([]T, error)

// fetchAllPages drives sequential page requests until the end of data or the
// page ceiling, accumulating records into a mapping. A single page's failure
// does not abort the sweep: the fetcher advances to the next page number so a
// transient failure can't blank out previously collected pages. Whatever was
// accumulated is always returned; an empty mapping means "no data available",
// not an error.
func fetchAllPages[T any](ctx context.Context, cfg sweepConfig, fetch pageFetch[T], keyOf func(T) string) map[string]T {
	collected := make(map[string]T)

	pager, err := pagination.ApplyOptions(pagination.PerPage(cfg.perPage), pagination.MaxPages(cfg.maxPages))
	if err != nil {
		dwlog.Errorf(ctx, "Sweep[%s] invalid pagination config: %v", cfg.name, err)
		return collected
	}

	for {
		records, err := fetch(ctx, pager.GetPage(), pager.GetPerPage())
		if err != nil {
			dwlog.Debugf(ctx, "Sweep[%s] page %d failed, skipping: %v", cfg.name, pager.GetPage(), err)
			if !pager.AdvancePage() {
				dwlog.Debugf(ctx, "Sweep[%s] hit page ceiling %d with %d records", cfg.name, pager.GetMaxPages(), len(collected))
				break
			}
			if !sleepBetweenPages(ctx, cfg.delay) {
				break
			}
			continue
		}

		if len(records) == 0 {
			// end of data reached
			break
		}

		for _, record := range records {
			collected[keyOf(record)] = record
		}

		if !pager.AdvancePage() {
			dwlog.Debugf(ctx, "Sweep[%s] hit page ceiling %d with %d records", cfg.name, pager.GetMaxPages(), len(collected))
			break
		}
		if !sleepBetweenPages(ctx, cfg.delay) {
			break
		}
	}

	dwlog.Verbosef(ctx, "Sweep[%s] collected %d records", cfg.name, len(collected))
	return collected
}

// sleepBetweenPages waits out the inter-page delay, returning false if the
// context was canceled while waiting
func sleepBetweenPages(ctx context.Context, delay time.Duration) bool {
	if delay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
