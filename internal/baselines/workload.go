// Package baselines implements C9's online/offline comparison points: a
// k-means replica picker, a profit hill-climber, and a stateful online
// migration policy, each evaluated against the same cost model
// internal/decision uses for the precomputed catalog.
package baselines

import "github.com/skypie-oracle/precomputer/internal/decision"

// Workload is one concrete point in workload-feature space, in the same
// component order as decision.Decision.CostVector(false): storage size,
// put rate, then per-application-region get/ingress/egress rates indexed
// by dense region id.
type Workload struct {
	Storage float64
	Puts    float64
	Gets    []float64
	Ingress []float64
	Egress  []float64
}

// Vector returns the bare (non-halfplane) feature vector, matching the
// layout decision.Decision.CostVector(false) produces its price
// coefficients in.
func (w Workload) Vector() []float64 {
	n := len(w.Gets)
	out := make([]float64, 0, 2+3*n)
	out = append(out, w.Storage, w.Puts)
	out = append(out, w.Gets...)
	out = append(out, w.Ingress...)
	out = append(out, w.Egress...)
	return out
}

// Cost evaluates d's total price at w: the dot product of d's bare cost
// vector (prices) with w's feature vector (amounts).
func Cost(d decision.Decision, w Workload) float64 {
	coeffs := d.CostVector(false)
	vec := w.Vector()
	var total float64
	for i := range coeffs {
		total += coeffs[i] * vec[i]
	}
	return total
}
