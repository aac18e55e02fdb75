package field

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/expr"
)

var env = expr.MustNewEnvironment()

// Value is the result of a lookup. The zero value is absent.
type Value struct {
	raw     any
	path    string
	present bool
}

// Absent returns an absent [Value] for path.
func Absent(path string) Value {
	return Value{path: path}
}

// Of returns a present [Value] holding raw. A nil raw is absent.
func Of(path string, raw any) Value {
	return Value{path: path, raw: raw, present: raw != nil}
}

// Extract returns the value at path within root.
func Extract(root any, path string) Value {
	if root == nil {
		return Absent(path)
	}

	p, err := ParsePath(path)
	if err != nil {
		slog.Error("parse field path",
			slog.String("path", path),
			slog.Any("err", err),
		)

		return Absent(path)
	}

	raw, ok, err := env.Select(root, p.selector())
	switch {
	case errors.Is(err, expr.ErrEvaluate):
		// Indexing into a scalar, or a key of the wrong type.
		slog.Debug("field lookup failed",
			slog.String("path", path),
			slog.Any("err", err),
		)

		return Absent(path)
	case err != nil:
		slog.Error("compile field path",
			slog.String("path", path),
			slog.Any("err", err),
		)

		return Absent(path)
	case !ok:
		return Absent(path)
	}

	return Of(path, raw)
}

// Get extracts path relative to v.
func (v Value) Get(path string) Value {
	if !v.present {
		return Absent(join(v.path, path))
	}

	out := Extract(v.raw, path)
	out.path = join(v.path, path)

	return out
}

// Present reports whether the lookup found a non-null value.
func (v Value) Present() bool {
	return v.present
}

// Raw returns the underlying decoded value, or nil when absent.
func (v Value) Raw() any {
	return v.raw
}

// Path returns the path the value was looked up at.
func (v Value) Path() string {
	return v.path
}

// String returns the value if it is a string.
func (v Value) String() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok
}

// Bool returns the value if it is a boolean.
func (v Value) Bool() (bool, bool) {
	b, ok := v.raw.(bool)
	return b, ok
}

// List returns the value if it is a sequence.
func (v Value) List() ([]any, bool) {
	l, ok := v.raw.([]any)
	return l, ok
}

// Map returns the value if it is a mapping with string keys.
func (v Value) Map() (map[string]any, bool) {
	m, ok := v.raw.(map[string]any)
	return m, ok
}

// Truthy reports whether the value is present and not a zero scalar or an
// empty string. Empty mappings and sequences are truthy.
func (v Value) Truthy() bool {
	if !v.present {
		return false
	}

	switch x := v.raw.(type) {
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case uint64:
		return x != 0
	case float64:
		return x != 0
	}

	return true
}

// Format renders the value for learner-facing messages.
func (v Value) Format() string {
	if !v.present {
		return "<missing>"
	}

	if s, ok := v.raw.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", v.raw)
}

func join(base, path string) string {
	switch {
	case base == "":
		return path
	case path == "":
		return base
	case path[0] == '[':
		return base + path
	}

	return base + "." + path
}
