package baselines

import (
	"math"
	"sort"

	"github.com/skypie-oracle/precomputer/internal/catalog"
	"github.com/skypie-oracle/precomputer/internal/decision"
)

// Placement is a write choice plus a read assignment and the total price it
// costs against some Workload.
type Placement struct {
	Write []catalog.ObjectStore
	Read  map[uint16]*catalog.ObjectStore
	Cost  float64
}

// KMeansPicker implements spec.md §4.9's k-means replica picker, grounded
// on internal/tetris/packer.go's greedy-assignment shape: both walk a
// sorted-by-demand item list, greedily assign to the best existing bucket,
// and open a new one only when nothing fits — here "bucket" is a centroid
// store and "item" an application region.
type KMeansPicker struct {
	Catalog              *catalog.Catalog
	Compat               catalog.CompatibilityChecker
	KMin, KMax           int
	MaxIterations        int
	ImprovementThreshold float64
}

// NewKMeansPicker builds a picker with the spec's default stopping
// parameters.
func NewKMeansPicker(cat *catalog.Catalog, compat catalog.CompatibilityChecker, kMin, kMax int) *KMeansPicker {
	return &KMeansPicker{Catalog: cat, Compat: compat, KMin: kMin, KMax: kMax, MaxIterations: 50, ImprovementThreshold: 1e-9}
}

// Pick runs k-means for every k in [KMin, KMax] and returns the
// minimum-cost result.
func (p *KMeansPicker) Pick(w Workload) Placement {
	regions := p.sortedRegions(w)

	var best Placement
	haveBest := false
	for k := p.KMin; k <= p.KMax; k++ {
		placement := p.runOnce(k, regions, w)
		if !haveBest || placement.Cost < best.Cost {
			best, haveBest = placement, true
		}
	}
	return best
}

func (p *KMeansPicker) sortedRegions(w Workload) []*catalog.ApplicationRegion {
	regions := make([]*catalog.ApplicationRegion, len(p.Catalog.AppRegions))
	for i := range p.Catalog.AppRegions {
		regions[i] = &p.Catalog.AppRegions[i]
	}
	sort.Slice(regions, func(i, j int) bool {
		return getRate(w, regions[i]) > getRate(w, regions[j])
	})
	return regions
}

func getRate(w Workload, a *catalog.ApplicationRegion) float64 {
	if int(a.Region.ID) >= len(w.Gets) {
		return 0
	}
	return w.Gets[a.Region.ID]
}

func (p *KMeansPicker) runOnce(k int, regions []*catalog.ApplicationRegion, w Workload) Placement {
	centroids := p.seedCentroids(k, regions)
	if len(centroids) == 0 {
		return Placement{Read: map[uint16]*catalog.ObjectStore{}}
	}

	assignment := map[uint16]*catalog.ObjectStore{}
	prevCost := math.Inf(1)

	for iter := 0; iter < p.MaxIterations; iter++ {
		for _, a := range regions {
			assignment[a.Region.ID] = nearestOf(a, centroids)
		}

		clusters := map[uint16][]*catalog.ApplicationRegion{}
		for _, a := range regions {
			c := assignment[a.Region.ID]
			clusters[c.ID] = append(clusters[c.ID], a)
		}

		newCentroids := make([]*catalog.ObjectStore, 0, len(clusters))
		for _, members := range clusters {
			newCentroids = append(newCentroids, p.bestCentroidFor(members))
		}
		centroids = newCentroids

		cost := p.totalCost(centroids, assignment, w)
		if prevCost-cost < p.ImprovementThreshold {
			prevCost = cost
			break
		}
		prevCost = cost
	}

	for _, a := range regions {
		assignment[a.Region.ID] = nearestOf(a, centroids)
	}
	return Placement{Write: dedupStores(centroids), Read: assignment, Cost: p.totalCost(centroids, assignment, w)}
}

// seedCentroids picks each region's nearest compatible store in order
// until k distinct stores are collected, per §4.9 step (b).
func (p *KMeansPicker) seedCentroids(k int, regions []*catalog.ApplicationRegion) []*catalog.ObjectStore {
	seen := map[uint16]bool{}
	var centroids []*catalog.ObjectStore
	for _, a := range regions {
		if len(centroids) >= k {
			break
		}
		nearest := p.nearestCompatible(a)
		if nearest == nil || seen[nearest.ID] {
			continue
		}
		seen[nearest.ID] = true
		centroids = append(centroids, nearest)
	}
	return centroids
}

func (p *KMeansPicker) nearestCompatible(a *catalog.ApplicationRegion) *catalog.ObjectStore {
	var best *catalog.ObjectStore
	bestCost := math.Inf(1)
	for i := range p.Catalog.Stores {
		o := &p.Catalog.Stores[i]
		if p.Compat != nil && !p.Compat.IsCompatible(o, a) {
			continue
		}
		c := catalog.ReadCost(o, a, 1, 0)
		if c < bestCost {
			bestCost, best = c, o
		}
	}
	return best
}

func nearestOf(a *catalog.ApplicationRegion, centroids []*catalog.ObjectStore) *catalog.ObjectStore {
	var best *catalog.ObjectStore
	bestCost := math.Inf(1)
	for _, o := range centroids {
		c := catalog.ReadCost(o, a, 1, 0)
		if c < bestCost {
			bestCost, best = c, o
		}
	}
	return best
}

// bestCentroidFor replaces a cluster's centroid with the store minimizing
// total read-cost for its members, per §4.9 step (d).
func (p *KMeansPicker) bestCentroidFor(members []*catalog.ApplicationRegion) *catalog.ObjectStore {
	var best *catalog.ObjectStore
	bestCost := math.Inf(1)
	for i := range p.Catalog.Stores {
		o := &p.Catalog.Stores[i]
		var total float64
		for _, a := range members {
			total += catalog.ReadCost(o, a, 1, 0)
		}
		if total < bestCost {
			bestCost, best = total, o
		}
	}
	return best
}

func (p *KMeansPicker) totalCost(centroids []*catalog.ObjectStore, assignment map[uint16]*catalog.ObjectStore, w Workload) float64 {
	stores := dedupStores(centroids)
	wc := decision.WriteChoice{Stores: stores}
	rc := decision.NewReadChoice(len(p.Catalog.AppRegions))
	for i := range p.Catalog.AppRegions {
		a := &p.Catalog.AppRegions[i]
		if o, ok := assignment[a.Region.ID]; ok {
			rc.Set(a, o)
		}
	}
	return Cost(decision.Decision{Write: wc, Read: rc}, w)
}

func dedupStores(centroids []*catalog.ObjectStore) []catalog.ObjectStore {
	seen := map[uint16]bool{}
	out := make([]catalog.ObjectStore, 0, len(centroids))
	for _, o := range centroids {
		if seen[o.ID] {
			continue
		}
		seen[o.ID] = true
		out = append(out, *o)
	}
	return out
}
