package decision

import "github.com/skypie-oracle/precomputer/internal/catalog"

// Decision pairs a WriteChoice with the ReadChoice it enables. A Decision is
// a tombstone iff its WriteChoice is, per spec.md §4.4/§4.6.
type Decision struct {
	Write WriteChoice
	Read  ReadChoice
}

// TombstoneDecision returns the zero-valued sentinel.
func TombstoneDecision() Decision {
	return Decision{Write: TombstoneWriteChoice(), Read: TombstoneReadChoice()}
}

// IsTombstone reports whether d signals end-of-stream.
func (d Decision) IsTombstone() bool { return d.Write.IsTombstone() }

// CostVector derives the workload-feature coefficient row for d, per
// spec.md §4.6's "Halfplane form": `w = (storage, puts, get_0…get_{n-1},
// ingress_0…, egress_0…)`. When asHalfplane is true the vector is
// additionally wrapped with a leading intercept (always 0) and a trailing
// cost coefficient (always -1), giving the full `D = 2 + 3n + 2` halfplane
// row; otherwise the bare `2 + 3n` cost vector is returned. Grounded on
// original_source/skypie_lib/src/decision.rs's DecisionCostIter, whose
// layout and fixed component order this mirrors exactly.
func (d Decision) CostVector(asHalfplane bool) []float64 {
	assignments := d.Read.Assignments()
	n := len(assignments)

	dim := 2 + 3*n
	if asHalfplane {
		dim += 2
	}
	out := make([]float64, 0, dim)

	if asHalfplane {
		out = append(out, 0) // intercept, absent
	}

	var storage, put float64
	for _, o := range d.Write.Stores {
		storage += o.Cost.SizeCost
		put += o.Cost.PutCost
	}
	out = append(out, storage, put)

	for _, a := range assignments {
		out = append(out, a.Store.Cost.GetCost)
	}
	for _, a := range assignments {
		var ingress float64
		for i := range d.Write.Stores {
			ingress += catalog.Ingress(&d.Write.Stores[i], a.Region)
		}
		out = append(out, ingress)
	}
	for _, a := range assignments {
		out = append(out, catalog.Egress(a.Store, a.Region))
	}

	if asHalfplane {
		out = append(out, -1)
	}

	return out
}

// Dimension returns the halfplane dimension D for a Decision serving
// numApps application regions, per spec.md §4.6.
func Dimension(numApps int) int { return 2 + 3*numApps + 2 }
