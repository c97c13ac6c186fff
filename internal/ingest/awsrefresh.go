package ingest

import (
	"context"
	"log/slog"

	"github.com/skypie-oracle/precomputer/internal/catalog"
)

// AWSStoragePricer is the subset of catalog.PriceClient RefreshAWSStoragePrices
// needs, narrowed so tests can supply a stub instead of a live AWS client.
type AWSStoragePricer interface {
	StoragePrice(ctx context.Context, region, storageClass string) (float64, error)
}

// RefreshAWSStoragePrices overwrites the storage-group price of every aws
// vendor row with a live lookup from pricer, leaving non-aws rows and
// non-storage groups untouched. A lookup failure is logged and the row's
// CSV-sourced price is kept, since a live-pricing outage should degrade to
// the static catalog rather than abort the run.
func RefreshAWSStoragePrices(ctx context.Context, pricer AWSStoragePricer, rows []catalog.StoreRaw, logger *slog.Logger) []catalog.StoreRaw {
	logger = orDefault(logger)
	out := make([]catalog.StoreRaw, len(rows))
	for i, r := range rows {
		if r.Vendor == "aws" && r.Group == catalog.GroupStorage {
			price, err := pricer.StoragePrice(ctx, r.Region, r.Tier)
			if err != nil {
				logger.Warn("live AWS price lookup failed, keeping CSV price", "region", r.Region, "tier", r.Tier, "err", err)
			} else {
				r.PricePerUnit = price
			}
		}
		out[i] = r
	}
	return out
}
