// Package selector implements the region/object-store name filters the
// loader's catalog.Selector interface accepts: a plain regular expression,
// or (prefixed "cel:") a CEL boolean predicate, per §6's
// --region-selector/--object-store-selector flags.
package selector

import (
	"fmt"
	"regexp"
)

// RegexSelector allows any name the compiled pattern matches anywhere in
// the string.
type RegexSelector struct {
	re *regexp.Regexp
}

// NewRegex compiles expr as a regular expression.
func NewRegex(expr string) (*RegexSelector, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("selector: compile regex %q: %w", expr, err)
	}
	return &RegexSelector{re: re}, nil
}

func (s *RegexSelector) Allow(name string) bool { return s.re.MatchString(name) }
