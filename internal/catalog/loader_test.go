package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePriceRows() []StoreRaw {
	rows := []StoreRaw{}
	for _, region := range []string{"us-east-1", "eu-west-1"} {
		for _, group := range []PriceGroup{GroupStorage, GroupGetRequest, GroupGetTransfer, GroupPutRequest, GroupPutTransfer} {
			rows = append(rows, StoreRaw{Vendor: "aws", Region: region, Name: "s3", Tier: "standard", Group: group, PricePerUnit: 0.01})
		}
	}
	return rows
}

func sampleNetworkRows() []NetworkRaw {
	return []NetworkRaw{
		{SrcVendor: "aws", SrcRegion: "us-east-1", DestVendor: "aws", DestRegion: "us-east-1", Cost: 0},
		{SrcVendor: "aws", SrcRegion: "us-east-1", DestVendor: "aws", DestRegion: "eu-west-1", Cost: 0.02},
		{SrcVendor: "aws", SrcRegion: "eu-west-1", DestVendor: "aws", DestRegion: "us-east-1", Cost: 0.02},
		{SrcVendor: "aws", SrcRegion: "eu-west-1", DestVendor: "aws", DestRegion: "eu-west-1", Cost: 0},
	}
}

func TestLoadAssignsDenseIDsInSortedOrder(t *testing.T) {
	cat, err := Load(LoaderInput{PriceRows: samplePriceRows(), NetworkRows: sampleNetworkRows()})
	require.NoError(t, err)
	require.Len(t, cat.Regions, 2)
	assert.Equal(t, "aws-eu-west-1", cat.Regions[0].Name)
	assert.Equal(t, "aws-us-east-1", cat.Regions[1].Name)
	require.Len(t, cat.Stores, 2)
	for _, s := range cat.Stores {
		assert.Equal(t, s.Region.ID, s.ID)
	}
}

func TestLoadFoldsDuplicatePriceRowsByMax(t *testing.T) {
	rows := samplePriceRows()
	rows = append(rows, StoreRaw{Vendor: "aws", Region: "us-east-1", Name: "s3", Tier: "standard", Group: GroupGetRequest, PricePerUnit: 0.05})
	cat, err := Load(LoaderInput{PriceRows: rows, NetworkRows: sampleNetworkRows()})
	require.NoError(t, err)
	var usEast *ObjectStore
	for i := range cat.Stores {
		if cat.Stores[i].Region.Name == "aws-us-east-1" {
			usEast = &cat.Stores[i]
		}
	}
	require.NotNil(t, usEast)
	assert.Equal(t, 0.05, usEast.Cost.GetCost)
}

func TestLoadSkipsUnknownGroup(t *testing.T) {
	rows := samplePriceRows()
	rows = append(rows, StoreRaw{Vendor: "aws", Region: "us-east-1", Name: "s3", Tier: "standard", Group: PriceGroup("mystery"), PricePerUnit: 42})
	cat, err := Load(LoaderInput{PriceRows: rows, NetworkRows: sampleNetworkRows()})
	require.NoError(t, err)
	assert.NotEqual(t, float64(42), cat.Stores[0].Cost.GetCost)
}

func TestLoadEmptyCatalogError(t *testing.T) {
	_, err := Load(LoaderInput{})
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCatalogIncomplete, loadErr.Kind)
}

func TestLoadLatencySLOWithoutLatencyFileFails(t *testing.T) {
	slo := 100.0
	_, err := Load(LoaderInput{PriceRows: samplePriceRows(), NetworkRows: sampleNetworkRows(), LatencySLO: &slo})
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrLatencyDataMissing, loadErr.Kind)
}

func TestLoadLatencySLOFiltersIncompatiblePairs(t *testing.T) {
	slo := 50.0
	latency := []LatencyRaw{
		{SrcVendor: "aws", SrcRegion: "us-east-1", DestVendor: "aws", DestRegion: "us-east-1", Latency: 1},
		{SrcVendor: "aws", SrcRegion: "us-east-1", DestVendor: "aws", DestRegion: "eu-west-1", Latency: 120},
		{SrcVendor: "aws", SrcRegion: "eu-west-1", DestVendor: "aws", DestRegion: "us-east-1", Latency: 120},
		{SrcVendor: "aws", SrcRegion: "eu-west-1", DestVendor: "aws", DestRegion: "eu-west-1", Latency: 1},
	}
	cat, err := Load(LoaderInput{
		PriceRows:   samplePriceRows(),
		NetworkRows: sampleNetworkRows(),
		LatencyRows: latency,
		LatencySLO:  &slo,
	})
	require.NoError(t, err)

	var usEastStore, euWestStore *ObjectStore
	var usEastApp, euWestApp *ApplicationRegion
	for i := range cat.Stores {
		if cat.Stores[i].Region.Name == "aws-us-east-1" {
			usEastStore = &cat.Stores[i]
		} else {
			euWestStore = &cat.Stores[i]
		}
	}
	for i := range cat.AppRegions {
		if cat.AppRegions[i].Region.Name == "aws-us-east-1" {
			usEastApp = &cat.AppRegions[i]
		} else {
			euWestApp = &cat.AppRegions[i]
		}
	}
	require.NotNil(t, usEastStore)
	require.NotNil(t, euWestApp)
	assert.True(t, cat.Compat.IsCompatible(usEastStore, usEastApp))
	assert.False(t, cat.Compat.IsCompatible(usEastStore, euWestApp))
	assert.False(t, cat.Compat.IsCompatible(euWestStore, usEastApp))
}

func TestLoadSelfCostInjectedEvenWithoutRow(t *testing.T) {
	network := []NetworkRaw{
		{SrcVendor: "aws", SrcRegion: "us-east-1", DestVendor: "aws", DestRegion: "eu-west-1", Cost: 0.02},
		{SrcVendor: "aws", SrcRegion: "eu-west-1", DestVendor: "aws", DestRegion: "us-east-1", Cost: 0.02},
	}
	_, err := Load(LoaderInput{PriceRows: samplePriceRows(), NetworkRows: network})
	require.NoError(t, err)
}

type prefixSelector string

func (p prefixSelector) Allow(name string) bool {
	return len(name) >= len(p) && name[:len(p)] == string(p)
}

func TestLoadRegionSelectorFiltersRegions(t *testing.T) {
	cat, err := Load(LoaderInput{
		PriceRows:      samplePriceRows(),
		NetworkRows:    sampleNetworkRows(),
		RegionSelector: prefixSelector("aws-us"),
	})
	require.NoError(t, err)
	require.Len(t, cat.Regions, 1)
	assert.Equal(t, "aws-us-east-1", cat.Regions[0].Name)
}

// A region that appears only in the network price table, with no object
// store of its own, must still become a Region and an ApplicationRegion:
// §4.2 step 2 only requires src/dst presence in every required cost table,
// never that the region host a store.
func TestLoadKeepsNetworkOnlyRegionWithoutObjectStore(t *testing.T) {
	network := append(sampleNetworkRows(),
		NetworkRaw{SrcVendor: "aws", SrcRegion: "ap-south-1", DestVendor: "aws", DestRegion: "ap-south-1", Cost: 0},
		NetworkRaw{SrcVendor: "aws", SrcRegion: "us-east-1", DestVendor: "aws", DestRegion: "ap-south-1", Cost: 0.03},
		NetworkRaw{SrcVendor: "aws", SrcRegion: "ap-south-1", DestVendor: "aws", DestRegion: "us-east-1", Cost: 0.03},
		NetworkRaw{SrcVendor: "aws", SrcRegion: "eu-west-1", DestVendor: "aws", DestRegion: "ap-south-1", Cost: 0.03},
		NetworkRaw{SrcVendor: "aws", SrcRegion: "ap-south-1", DestVendor: "aws", DestRegion: "eu-west-1", Cost: 0.03},
	)

	cat, err := Load(LoaderInput{PriceRows: samplePriceRows(), NetworkRows: network})
	require.NoError(t, err)

	require.Len(t, cat.Regions, 3)
	var apSouth *ApplicationRegion
	for i := range cat.AppRegions {
		if cat.AppRegions[i].Region.Name == "aws-ap-south-1" {
			apSouth = &cat.AppRegions[i]
		}
	}
	require.NotNil(t, apSouth, "network-only region must still surface as an ApplicationRegion")

	for i := range cat.Stores {
		assert.NotEqual(t, "aws-ap-south-1", cat.Stores[i].Region.Name, "a network-only region must host no object store")
	}
}
