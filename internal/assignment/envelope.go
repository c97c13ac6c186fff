// Package assignment implements the optimal-assignment lower envelope (C3):
// for a WriteChoice and an ApplicationRegion, which store minimizes
// read-cost at every object size.
package assignment

import (
	"math"
	"sort"

	"github.com/skypie-oracle/precomputer/internal/catalog"
)

// Segment is one piece of the envelope: Store is read-cost-minimizing for
// every size in Range.
type Segment struct {
	Store *catalog.ObjectStore
	Range catalog.Range
}

// Compatible narrows stores to those the checker allows for region a,
// applied before the envelope is computed per spec.md §4.2 step 3 /
// §4.3's last bullet.
func Compatible(stores []*catalog.ObjectStore, a *catalog.ApplicationRegion, compat catalog.CompatibilityChecker) []*catalog.ObjectStore {
	out := make([]*catalog.ObjectStore, 0, len(stores))
	for _, o := range stores {
		if compat.IsCompatible(o, a) {
			out = append(out, o)
		}
	}
	return out
}

// Envelope computes the geometric lower envelope of read cost over object
// size for stores, for application region a, per spec.md §4.3.
//
// Every pair (o, p) contributes a split at their cost-crossing size; each
// store's final interval is the intersection of every half-line in which it
// dominates the other member of the pair. Ties on egress price are broken
// by lower get-cost, then smaller dense id, matching §4.1's numerical
// policy.
func Envelope(stores []*catalog.ObjectStore, a *catalog.ApplicationRegion) []Segment {
	if len(stores) == 0 {
		return nil
	}
	if len(stores) == 1 {
		return []Segment{{Store: stores[0], Range: catalog.FullRange()}}
	}

	intervals := make(map[uint16]catalog.Range, len(stores))
	for _, o := range stores {
		intervals[o.ID] = catalog.FullRange()
	}

	for i := 0; i < len(stores); i++ {
		for j := i + 1; j < len(stores); j++ {
			o, p := stores[i], stores[j]
			lower, upper := splitPair(o, p, a)
			intervals[lower.Store.ID] = intervals[lower.Store.ID].Intersect(lower.Range)
			intervals[upper.Store.ID] = intervals[upper.Store.ID].Intersect(upper.Range)
		}
	}

	segments := make([]Segment, 0, len(stores))
	for _, o := range stores {
		r := intervals[o.ID]
		if r.Empty() || r.Max <= 0 {
			continue
		}
		segments = append(segments, Segment{Store: o, Range: catalog.Range{Min: max0(r.Min), Max: r.Max}})
	}

	sort.Slice(segments, func(i, j int) bool { return segments[i].Range.Max < segments[j].Range.Max })
	return segments
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// splitPair decides, for the pair (o, p), which store dominates below their
// crossing size and which dominates above, returning each as a
// (store, half-line) pair. When egress prices are identical the tie is
// broken by lower get-cost, then smaller dense id, and the loser is pinned
// to an empty interval for the whole axis.
func splitPair(o, p *catalog.ObjectStore, a *catalog.ApplicationRegion) (lower, upper struct {
	Store *catalog.ObjectStore
	Range catalog.Range
}) {
	oEgress, pEgress := catalog.Egress(o, a), catalog.Egress(p, a)

	if oEgress == pEgress {
		winner, loser := o, p
		if p.Cost.GetCost < o.Cost.GetCost || (p.Cost.GetCost == o.Cost.GetCost && p.ID < o.ID) {
			winner, loser = p, o
		}
		lower.Store, lower.Range = winner, catalog.FullRange()
		upper.Store, upper.Range = loser, catalog.EmptyRange()
		return
	}

	crossing := catalog.CostDelta(o, p, a)
	// Probe at crossing-1 to see which store is cheaper below the split.
	probe := crossing - 1
	oCostAtProbe := o.Cost.GetCost + oEgress*probe
	pCostAtProbe := p.Cost.GetCost + pEgress*probe

	below, above := o, p
	if pCostAtProbe < oCostAtProbe {
		below, above = p, o
	}

	lower.Store, lower.Range = below, catalog.Range{Min: math.Inf(-1), Max: crossing}
	upper.Store, upper.Range = above, catalog.Range{Min: crossing, Max: math.Inf(1)}
	return
}
