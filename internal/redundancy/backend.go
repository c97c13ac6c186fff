// Package redundancy implements the redundancy-elimination bridge (C7): the
// contract with a pluggable numeric backend, plus a naive reference
// implementation and the matrix-packing bridge used by internal/pipeline.
package redundancy

import (
	"context"
	"fmt"
)

// Config is the recognized, closed set of backend configuration parameters
// per spec.md §4.7. Unknown keys are rejected by the CLI layer before a
// Config is ever constructed.
type Config struct {
	// DSize is the target batch size; informational only, backends may
	// ignore it.
	DSize int
	// UseClarkson toggles the Clarkson's-algorithm pre-filter.
	UseClarkson bool
	// Optimizer names the backend solver variant to use.
	Optimizer string
}

// Backend is the numeric redundancy-elimination contract: given an n×D
// matrix of halfplane coefficients (row-major), return the indices of rows
// whose lower envelope touches the upper envelope of cost-minimum over the
// non-negative workload orthant.
//
// Implementations must be monotone (a surviving row in a larger batch
// survives restriction to any subset containing it) and idempotent across
// successive calls on their own output, per §4.7.
type Backend interface {
	Eliminate(ctx context.Context, matrix [][]float64, cfg Config) ([]int, error)
}

// AllSurvive is the conservative fallback used when a backend call fails:
// every row is reported as surviving, per §7's BackendCallFailed policy.
func AllSurvive(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// ErrUnknownConfigKey is returned by backends that validate Config against a
// narrower recognized set than the package-level Config type exposes.
var ErrUnknownConfigKey = fmt.Errorf("redundancy: unknown config key")
