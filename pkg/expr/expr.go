package expr

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// ErrEvaluate is returned by [Environment.Select] when a selector compiles
// but cannot be applied to the document, e.g. indexing into a scalar.
var ErrEvaluate = errors.New("evaluate selector")

// Environment compiles selectors over a document and caches the programs.
// It is safe for concurrent use.
type Environment struct {
	env *cel.Env

	// Compiled programs keyed by selector.
	programs sync.Map

	// Guards compilation, which cel.Env does not allow concurrently.
	mu sync.Mutex
}

// NewEnvironment creates a new [Environment].
func NewEnvironment() (*Environment, error) {
	env, err := cel.NewEnv(cel.Lib(&lib{}))
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return &Environment{env: env}, nil
}

// MustNewEnvironment creates a new [Environment] and panics on error.
func MustNewEnvironment() *Environment {
	env, err := NewEnvironment()
	if err != nil {
		panic(err)
	}

	return env
}

// Compile returns the program for selector, compiling it on first use.
//
//nolint:ireturn // Following CEL's function signature.
func (e *Environment) Compile(selector string) (cel.Program, error) {
	if prg, ok := e.programs.Load(selector); ok {
		return prg.(cel.Program), nil //nolint:forcetypeassert // Only programs are stored.
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ast, issues := e.env.Compile(selector)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	e.programs.Store(selector, prg)

	return prg, nil
}

// Select evaluates selector against doc. It reports false when the selected
// value is absent or null.
func (e *Environment) Select(doc any, selector string) (any, bool, error) {
	prg, err := e.Compile(selector)
	if err != nil {
		return nil, false, err
	}

	out, _, err := prg.Eval(map[string]any{DocumentVar: doc})
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrEvaluate, err)
	}

	v, ok := unwrap(out)
	if !ok {
		return nil, false, nil
	}

	return v.Value(), true, nil
}

//nolint:ireturn // CEL values are interfaces.
func unwrap(out ref.Val) (ref.Val, bool) {
	if opt, ok := out.(*types.Optional); ok {
		if !opt.HasValue() {
			return nil, false
		}

		out = opt.GetValue()
	}

	if out == types.NullValue {
		return nil, false
	}

	return out, true
}
