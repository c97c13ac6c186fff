package ingest

import (
	"context"
	"fmt"
	"testing"

	"github.com/skypie-oracle/precomputer/internal/catalog"
	"github.com/stretchr/testify/assert"
)

type stubPricer struct {
	prices map[string]float64
}

func (s stubPricer) StoragePrice(_ context.Context, region, storageClass string) (float64, error) {
	key := region + "-" + storageClass
	p, ok := s.prices[key]
	if !ok {
		return 0, fmt.Errorf("no stub price for %s", key)
	}
	return p, nil
}

func TestRefreshAWSStoragePricesOverwritesAWSStorageRows(t *testing.T) {
	rows := []catalog.StoreRaw{
		{Vendor: "aws", Region: "us-east-1", Name: "s3", Tier: "Standard", Group: catalog.GroupStorage, PricePerUnit: 0.023},
		{Vendor: "aws", Region: "us-east-1", Name: "s3", Tier: "Standard", Group: catalog.GroupGetRequest, PricePerUnit: 0.0004},
		{Vendor: "gcp", Region: "us-central1", Name: "gcs", Tier: "standard", Group: catalog.GroupStorage, PricePerUnit: 0.02},
	}
	pricer := stubPricer{prices: map[string]float64{"us-east-1-Standard": 0.021}}

	out := RefreshAWSStoragePrices(context.Background(), pricer, rows, nil)

	assert.Equal(t, 0.021, out[0].PricePerUnit, "aws storage row is refreshed")
	assert.Equal(t, 0.0004, out[1].PricePerUnit, "non-storage aws row is untouched")
	assert.Equal(t, 0.02, out[2].PricePerUnit, "non-aws row is untouched")
}

func TestRefreshAWSStoragePricesKeepsCSVPriceOnLookupFailure(t *testing.T) {
	rows := []catalog.StoreRaw{
		{Vendor: "aws", Region: "eu-west-1", Name: "s3", Tier: "Glacier", Group: catalog.GroupStorage, PricePerUnit: 0.004},
	}
	pricer := stubPricer{prices: map[string]float64{}}

	out := RefreshAWSStoragePrices(context.Background(), pricer, rows, nil)

	assert.Equal(t, 0.004, out[0].PricePerUnit)
}
