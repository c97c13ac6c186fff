package assignment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skypie-oracle/precomputer/internal/catalog"
)

func fixtureStore(id uint16, getCost, egressTo0 float64) *catalog.ObjectStore {
	return &catalog.ObjectStore{
		ID:   id,
		Name: "s",
		Cost: catalog.Cost{
			GetCost: getCost,
			Egress:  map[uint16]float64{0: egressTo0},
			Ingress: map[uint16]float64{0: 0},
		},
	}
}

func fixtureAppRegion() *catalog.ApplicationRegion {
	return &catalog.ApplicationRegion{Region: catalog.Region{ID: 0, Name: "a"}}
}

func TestEnvelopeTwoStoresCrossover(t *testing.T) {
	o1 := fixtureStore(0, 10, 1)
	o2 := fixtureStore(1, 2, 2)
	a := fixtureAppRegion()

	segs := Envelope([]*catalog.ObjectStore{o1, o2}, a)
	require.Len(t, segs, 2)

	assert.Same(t, o2, segs[0].Store)
	assert.InDelta(t, 0, segs[0].Range.Min, 1e-9)
	assert.InDelta(t, 8, segs[0].Range.Max, 1e-9)

	assert.Same(t, o1, segs[1].Store)
	assert.InDelta(t, 8, segs[1].Range.Min, 1e-9)
	assert.True(t, math.IsInf(segs[1].Range.Max, 1))
}

func TestEnvelopeEqualEgressTieByGetCost(t *testing.T) {
	o1 := fixtureStore(0, 5, 3)
	o2 := fixtureStore(1, 7, 3)
	a := fixtureAppRegion()

	segs := Envelope([]*catalog.ObjectStore{o1, o2}, a)
	require.Len(t, segs, 1)
	assert.Same(t, o1, segs[0].Store)
	assert.True(t, math.IsInf(segs[0].Range.Max, 1))
}

func TestEnvelopeSingleStoreCoversWholeAxis(t *testing.T) {
	o1 := fixtureStore(0, 5, 1)
	a := fixtureAppRegion()
	segs := Envelope([]*catalog.ObjectStore{o1}, a)
	require.Len(t, segs, 1)
	assert.Same(t, o1, segs[0].Store)
	assert.True(t, math.IsInf(segs[0].Range.Max, 1))
	assert.True(t, math.IsInf(segs[0].Range.Min, -1))
}

func TestEnvelopePartitionsTheNonNegativeAxis(t *testing.T) {
	o1 := fixtureStore(0, 10, 1)
	o2 := fixtureStore(1, 2, 2)
	o3 := fixtureStore(2, 1, 5)
	a := fixtureAppRegion()

	segs := Envelope([]*catalog.ObjectStore{o1, o2, o3}, a)
	require.NotEmpty(t, segs)

	for i := 1; i < len(segs); i++ {
		assert.LessOrEqual(t, segs[i-1].Range.Max, segs[i].Range.Min)
	}
	assert.InDelta(t, 0, segs[0].Range.Min, 1e-9)
	assert.True(t, math.IsInf(segs[len(segs)-1].Range.Max, 1))
}

func TestCompatibleFiltersIncompatibleStores(t *testing.T) {
	o1 := fixtureStore(0, 10, 1)
	o2 := fixtureStore(1, 2, 2)
	a := fixtureAppRegion()

	o2.Region = catalog.Region{ID: 1, Name: "far"}
	checker := catalog.NewNetworkSLOChecker(map[[2]uint16]float64{{0, 0}: 10}, 20)
	out := Compatible([]*catalog.ObjectStore{o1, o2}, a, checker)
	require.Len(t, out, 1)
	assert.Same(t, o1, out[0])
}
