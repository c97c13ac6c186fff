package selector

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"
)

// CELSelector allows a name when a compiled CEL boolean expression
// evaluates to true against it. Grounded on pkg/engine/policy/
// cel_engine.go's NewEnv/Compile/Program/Eval shape, narrowed from that
// engine's multi-rule inverted index down to the single boolean predicate
// a selector needs.
type CELSelector struct {
	program cel.Program
}

// NewCEL compiles expr, a boolean expression over a single `name` string
// variable (e.g. `name.startsWith("aws-")`).
func NewCEL(expr string) (*CELSelector, error) {
	env, err := cel.NewEnv(cel.Declarations(decls.NewVar("name", decls.String)))
	if err != nil {
		return nil, fmt.Errorf("selector: build CEL env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("selector: compile CEL expression %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("selector: build CEL program %q: %w", expr, err)
	}
	return &CELSelector{program: prg}, nil
}

func (s *CELSelector) Allow(name string) bool {
	out, _, err := s.program.Eval(map[string]interface{}{"name": name})
	if err != nil {
		return false
	}
	match, ok := out.Value().(bool)
	return ok && match
}
