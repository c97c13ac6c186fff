package redundancy

import (
	"context"
	"log/slog"

	"github.com/skypie-oracle/precomputer/internal/decision"
)

// Pack converts a batch of candidate Decisions into the row-major n×D
// halfplane matrix the Backend contract expects, per §4.6's cost-vector
// layout.
func Pack(decisions []decision.Decision) [][]float64 {
	matrix := make([][]float64, len(decisions))
	for i, d := range decisions {
		matrix[i] = d.CostVector(true)
	}
	return matrix
}

// ShouldBypass reports whether a batch of n candidates is too small for
// Clarkson's pre-filter to apply: with fewer than D+1 points the algorithm
// cannot establish redundancy, so the batch passes through untouched per
// §4.6.
func ShouldBypass(n, dimension int) bool { return n < dimension+1 }

// Bridge invokes backend on a batch of candidates and returns the surviving
// Decisions, honoring the small-batch bypass and the §7 BackendCallFailed
// policy: a failing call is logged once and treated as "all inputs
// survived" so the pipeline continues.
func Bridge(ctx context.Context, logger *slog.Logger, backend Backend, candidates []decision.Decision, cfg Config, dimension int) []decision.Decision {
	if len(candidates) == 0 {
		return nil
	}
	if ShouldBypass(len(candidates), dimension) {
		return candidates
	}

	matrix := Pack(candidates)
	survive, err := backend.Eliminate(ctx, matrix, cfg)
	if err != nil {
		if logger != nil {
			logger.Warn("redundancy backend call failed, treating batch as fully surviving", "err", err, "batch_size", len(candidates))
		}
		survive = AllSurvive(len(candidates))
	}

	out := make([]decision.Decision, len(survive))
	for i, idx := range survive {
		out[i] = candidates[idx]
	}
	return out
}
