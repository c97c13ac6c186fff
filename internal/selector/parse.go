package selector

import (
	"strings"

	"github.com/skypie-oracle/precomputer/internal/catalog"
)

// celPrefix disambiguates a CLI-supplied selector string: "cel:<expr>"
// compiles as a CEL boolean predicate, anything else compiles as a
// regular expression. A bare regex is the common case (spec.md §6's
// original examples are all regexes), so it stays the unprefixed default.
const celPrefix = "cel:"

// Parse builds a catalog.Selector from a CLI flag value.
func Parse(expr string) (catalog.Selector, error) {
	if rest, ok := strings.CutPrefix(expr, celPrefix); ok {
		return NewCEL(rest)
	}
	return NewRegex(expr)
}
