package challenge

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/objective"
)

var ErrInvalidChallenge = errors.New("invalid challenge specified")

// Variant is a challenge the verifier knows how to grade.
type Variant int

const (
	Adventure01Beginner Variant = iota + 1
	Adventure01Intermediate
)

type definition struct {
	checks func() []objective.Check
	id     string
}

var definitions = map[Variant]definition{
	Adventure01Beginner: {
		id:     "01-echoes-lost-in-orbit_beginner",
		checks: adventure01BeginnerChecks,
	},
	Adventure01Intermediate: {
		id:     "01-echoes-lost-in-orbit_intermediate",
		checks: adventure01IntermediateChecks,
	},
}

// String returns the selector of the variant.
func (v Variant) String() string {
	if d, ok := definitions[v]; ok {
		return d.id
	}

	return fmt.Sprintf("Variant(%d)", int(v))
}

// Variants returns all known variants, in order.
func Variants() []Variant {
	vs := make([]Variant, 0, len(definitions))
	for v := range definitions {
		vs = append(vs, v)
	}

	slices.Sort(vs)

	return vs
}

// IDs returns the selectors of all known variants, in order.
func IDs() []string {
	vs := Variants()

	ids := make([]string, 0, len(vs))
	for _, v := range vs {
		ids = append(ids, v.String())
	}

	return ids
}

// Parse returns the [Variant] for the selector id. Unknown selectors yield an
// [*InvalidChallengeError].
func Parse(id string) (Variant, error) {
	id = strings.TrimSpace(id)

	for v, d := range definitions {
		if d.id == id {
			return v, nil
		}
	}

	return 0, &InvalidChallengeError{
		ID:          id,
		Known:       IDs(),
		Suggestions: suggest(id, IDs()),
	}
}

func suggest(id string, known []string) []string {
	if id == "" {
		return nil
	}

	matches := fuzzy.Find(id, known)

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Str)
	}

	return out
}

// InvalidChallengeError is returned by [Parse] for unknown selectors.
type InvalidChallengeError struct {
	ID          string
	Known       []string
	Suggestions []string
}

func (e *InvalidChallengeError) Error() string {
	var sb strings.Builder

	if e.ID == "" {
		sb.WriteString("no challenge specified")
	} else {
		fmt.Fprintf(&sb, "unknown challenge %q", e.ID)
	}

	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&sb, "; did you mean %s?", strings.Join(e.Suggestions, " or "))
	} else if len(e.Known) > 0 {
		fmt.Fprintf(&sb, "; known challenges: %s", strings.Join(e.Known, ", "))
	}

	return sb.String()
}

func (e *InvalidChallengeError) Unwrap() error {
	return ErrInvalidChallenge
}
