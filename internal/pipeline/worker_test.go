package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skypie-oracle/precomputer/internal/catalog"
	"github.com/skypie-oracle/precomputer/internal/decision"
	"github.com/skypie-oracle/precomputer/internal/enumerate"
	"github.com/skypie-oracle/precomputer/internal/redundancy"
)

type memSink struct {
	records []decision.Decision
	closed  bool
}

func (m *memSink) Write(d decision.Decision) error { m.records = append(m.records, d); return nil }
func (m *memSink) Close() error                    { m.closed = true; return nil }

func twoByTwoCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	rows := []catalog.StoreRaw{}
	for _, region := range []string{"0", "1"} {
		for _, g := range []catalog.PriceGroup{catalog.GroupStorage, catalog.GroupGetRequest, catalog.GroupGetTransfer, catalog.GroupPutRequest, catalog.GroupPutTransfer} {
			price := 0.01
			if region == "1" && g == catalog.GroupGetRequest {
				// Cheaper gets in region 1 make its store the better read
				// store for small objects even from region 0, so region 0's
				// envelope has two segments (crossing at size 0.45).
				price = 0.001
			}
			rows = append(rows, catalog.StoreRaw{Vendor: "aws", Region: region, Name: "s3", Tier: "standard", Group: g, PricePerUnit: price})
		}
	}
	network := []catalog.NetworkRaw{
		{SrcVendor: "aws", SrcRegion: "0", DestVendor: "aws", DestRegion: "0", Cost: 0},
		{SrcVendor: "aws", SrcRegion: "0", DestVendor: "aws", DestRegion: "1", Cost: 0.02},
		{SrcVendor: "aws", SrcRegion: "1", DestVendor: "aws", DestRegion: "0", Cost: 0.02},
		{SrcVendor: "aws", SrcRegion: "1", DestVendor: "aws", DestRegion: "1", Cost: 0},
	}
	cat, err := catalog.Load(catalog.LoaderInput{PriceRows: rows, NetworkRows: network})
	require.NoError(t, err)
	require.Len(t, cat.Stores, 2)
	require.Len(t, cat.AppRegions, 2)
	return cat
}

func TestWorkerEndToEndTwoRegionsTwoStoresR2(t *testing.T) {
	cat := twoByTwoCatalog(t)
	candidates, optimal := &memSink{}, &memSink{}
	w := NewWorker(0, cat, redundancy.Naive{}, redundancy.Config{}, 100, candidates, optimal, nil, nil)

	gen := enumerate.NewGenerator(2, 2, 2, 10)
	ctx := context.Background()
	for {
		b := gen.Next()
		require.NoError(t, w.ProcessBatch(ctx, b))
		if b.Tombstone {
			break
		}
	}

	assert.True(t, w.Done())
	assert.True(t, candidates.closed)
	assert.True(t, optimal.closed)
	assert.Len(t, candidates.records, 2, "r=2 over 2 stores is the single write choice {0,1}, producing 2 distinct read-choice decisions")
	assert.GreaterOrEqual(t, len(optimal.records), 1)
	assert.LessOrEqual(t, len(optimal.records), len(candidates.records))

	for _, d := range optimal.records {
		hp := d.CostVector(true)
		assert.Len(t, hp, decision.Dimension(2))
	}
}

func TestWorkerProcessBatchIdempotentAfterTombstone(t *testing.T) {
	cat := twoByTwoCatalog(t)
	candidates, optimal := &memSink{}, &memSink{}
	w := NewWorker(0, cat, redundancy.Naive{}, redundancy.Config{}, 100, candidates, optimal, nil, nil)

	ctx := context.Background()
	require.NoError(t, w.ProcessBatch(ctx, enumerate.Batch{Tombstone: true}))
	require.NoError(t, w.ProcessBatch(ctx, enumerate.Batch{Tombstone: true}))
	assert.True(t, w.Done())
}
