// Package merge implements the merge iterator (C4): turning, for a fixed
// WriteChoice, the per-region envelopes produced by internal/assignment
// into the stream of jointly-optimal Decisions.
package merge

import (
	"container/heap"

	"github.com/skypie-oracle/precomputer/internal/assignment"
	"github.com/skypie-oracle/precomputer/internal/catalog"
	"github.com/skypie-oracle/precomputer/internal/decision"
)

// RegionEnvelope pairs an ApplicationRegion with its envelope, the per-region
// input to Merge.
type RegionEnvelope struct {
	Region   *catalog.ApplicationRegion
	Segments []assignment.Segment
}

type queueEntry struct {
	upperBound float64
	region     *catalog.ApplicationRegion
	store      *catalog.ObjectStore
	segIndex   int // index of this segment within its region's envelope
}

type entryHeap []queueEntry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].upperBound < h[j].upperBound }
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x interface{}) { *h = append(*h, x.(queueEntry)) }
func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Merge runs the §4.4 procedure: it returns every Decision jointly optimal
// for some contiguous region of workload space, for the fixed write choice
// w given the per-region envelopes. A region with an empty envelope yields
// zero Decisions for w, per §4.3's "no feasible read-store" case.
func Merge(w decision.WriteChoice, envelopes []RegionEnvelope) []decision.Decision {
	for _, e := range envelopes {
		if len(e.Segments) == 0 {
			return nil
		}
	}

	numRegions := len(envelopes)
	read := decision.NewReadChoice(regionCount(envelopes))

	q := make(entryHeap, 0, numRegions)
	for _, e := range envelopes {
		first := e.Segments[0]
		read.Set(e.Region, first.Store)
		for idx, seg := range e.Segments {
			if idx == 0 {
				continue
			}
			q = append(q, queueEntry{upperBound: e.Segments[idx-1].Range.Max, region: e.Region, store: seg.Store, segIndex: idx})
		}
	}
	heap.Init(&q)

	var out []decision.Decision
	s := -1.0
	snapshot := func() decision.Decision {
		snap := decision.NewReadChoice(read.Len())
		for _, e := range envelopes {
			snap.Set(e.Region, read.Get(e.Region))
		}
		return decision.Decision{Write: w, Read: snap}
	}

	for q.Len() > 0 {
		entry := heap.Pop(&q).(queueEntry)
		if entry.upperBound > s {
			out = append(out, snapshot())
		}
		read.Set(entry.region, entry.store)
		s = entry.upperBound
	}
	out = append(out, snapshot())

	return out
}

func regionCount(envelopes []RegionEnvelope) int {
	max := 0
	for _, e := range envelopes {
		if int(e.Region.Region.ID)+1 > max {
			max = int(e.Region.Region.ID) + 1
		}
	}
	return max
}
