package query

import (
	"fmt"
	"sync"

	"github.com/arthur-debert/nanodoc/nanodoc/types"
	"github.com/google/cel-go/cel"
)

var (
	envOnce sync.Once
	celEnv  *cel.Env
	envErr  error
)

// environment declares the variables an expression can use: doc, the
// document body, and id, the document id.
func environment() (*cel.Env, error) {
	envOnce.Do(func() {
		celEnv, envErr = cel.NewEnv(
			cel.Variable("doc", cel.MapType(cel.StringType, cel.DynType)),
			cel.Variable("id", cel.StringType),
		)
	})
	return celEnv, envErr
}

// Expression is a compiled CEL predicate, for example
//
//	doc.status == 'active' && doc.count > 5
//	has(doc.owner) && id.startsWith('a')
type Expression struct {
	source  string
	program cel.Program
}

// Compile parses and type-checks a CEL expression.
func Compile(expr string) (*Expression, error) {
	env, err := environment()
	if err != nil {
		return nil, fmt.Errorf("CEL environment error: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL compile error: %v: %w", issues.Err(), types.ErrInvalidArgument)
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("CEL program creation error: %v: %w", err, types.ErrInvalidArgument)
	}

	return &Expression{source: expr, program: prg}, nil
}

// String returns the expression source
func (e *Expression) String() string {
	return e.source
}

// Match implements Matcher. A document the expression cannot be evaluated
// against, such as one missing a referenced field, does not match. A result
// that is not a boolean is an error.
func (e *Expression) Match(id string, body types.Body) (bool, error) {
	out, _, err := e.program.Eval(map[string]interface{}{
		"doc": map[string]interface{}(body),
		"id":  id,
	})
	if err != nil {
		return false, nil
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("CEL result is not boolean: %T: %w", out.Value(), types.ErrInvalidArgument)
	}
	return result, nil
}
