package baselines

import (
	"math"

	"github.com/skypie-oracle/precomputer/internal/catalog"
	"github.com/skypie-oracle/precomputer/internal/decision"
)

// HillClimber implements spec.md §4.9's profit hill-climber: seed with the
// cheapest single store for the workload, then repeatedly add whichever
// remaining store gives the largest per-unit-size cost reduction, stopping
// once no store helps.
type HillClimber struct {
	Catalog *catalog.Catalog
	Compat  catalog.CompatibilityChecker
}

func NewHillClimber(cat *catalog.Catalog, compat catalog.CompatibilityChecker) *HillClimber {
	return &HillClimber{Catalog: cat, Compat: compat}
}

// Climb returns the placement it converges to for w.
func (h *HillClimber) Climb(w Workload) Placement {
	chosen := []catalog.ObjectStore{h.cheapestSingleStore(w)}
	best := h.evaluate(chosen, w)

	for {
		candidate, ok := h.bestAddition(chosen, best, w)
		if !ok {
			break
		}
		chosen = append(chosen, candidate.Write[len(candidate.Write)-1])
		best = candidate
	}
	return best
}

func (h *HillClimber) cheapestSingleStore(w Workload) catalog.ObjectStore {
	var bestStore catalog.ObjectStore
	bestCost := math.Inf(1)
	for i := range h.Catalog.Stores {
		o := h.Catalog.Stores[i]
		cost := h.evaluate([]catalog.ObjectStore{o}, w).Cost
		if cost < bestCost {
			bestCost, bestStore = cost, o
		}
	}
	return bestStore
}

// bestAddition tries adding each store not already chosen and returns the
// placement with the largest per-unit-size cost reduction over current,
// or ok=false if none improves.
func (h *HillClimber) bestAddition(chosen []catalog.ObjectStore, current Placement, w Workload) (Placement, bool) {
	have := map[uint16]bool{}
	for _, o := range chosen {
		have[o.ID] = true
	}

	var best Placement
	bestReduction := 0.0
	found := false
	size := w.Storage
	if size <= 0 {
		size = 1
	}

	for i := range h.Catalog.Stores {
		o := h.Catalog.Stores[i]
		if have[o.ID] {
			continue
		}
		trial := append(append([]catalog.ObjectStore{}, chosen...), o)
		placement := h.evaluate(trial, w)
		reduction := (current.Cost - placement.Cost) / size
		if reduction > bestReduction {
			bestReduction, best, found = reduction, placement, true
		}
	}
	return best, found
}

// evaluate assigns every application region to its cheapest compatible
// store among stores, then prices the resulting placement.
func (h *HillClimber) evaluate(stores []catalog.ObjectStore, w Workload) Placement {
	ptrs := make([]*catalog.ObjectStore, len(stores))
	for i := range stores {
		ptrs[i] = &stores[i]
	}

	rc := decision.NewReadChoice(len(h.Catalog.AppRegions))
	read := map[uint16]*catalog.ObjectStore{}
	for i := range h.Catalog.AppRegions {
		a := &h.Catalog.AppRegions[i]
		best := nearestCompatibleOf(a, ptrs, h.Compat)
		if best == nil {
			continue
		}
		rc.Set(a, best)
		read[a.Region.ID] = best
	}

	wc := decision.WriteChoice{Stores: stores}
	d := decision.Decision{Write: wc, Read: rc}
	return Placement{Write: stores, Read: read, Cost: Cost(d, w)}
}

func nearestCompatibleOf(a *catalog.ApplicationRegion, stores []*catalog.ObjectStore, compat catalog.CompatibilityChecker) *catalog.ObjectStore {
	var best *catalog.ObjectStore
	bestCost := math.Inf(1)
	for _, o := range stores {
		if compat != nil && !compat.IsCompatible(o, a) {
			continue
		}
		c := catalog.ReadCost(o, a, 1, 0)
		if c < bestCost {
			bestCost, best = c, o
		}
	}
	return best
}
