package field

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/expr"
)

var ErrInvalidPath = errors.New("invalid path")

// Segment is one step of a [Path]: either a mapping key or a sequence index.
type Segment struct {
	Key   string
	Index int
	IsKey bool
}

// Path is a parsed field path.
type Path []Segment

// ParsePath parses a dotted path with optional `[N]` indexes. A leading `$`
// is accepted so that YAML path strings such as `$.spec.source` work too.
// The empty path refers to the document root.
func ParsePath(s string) (Path, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "$"), ".")
	if s == "" {
		return Path{}, nil
	}

	var p Path

	for part := range strings.SplitSeq(s, ".") {
		key, rest, _ := strings.Cut(part, "[")
		if key == "" && rest == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, s)
		}

		if key != "" {
			p = append(p, Segment{Key: key, IsKey: true})
		}

		if rest == "" {
			continue
		}

		for idx := range strings.SplitSeq(strings.TrimSuffix(rest, "]"), "][") {
			n, err := strconv.Atoi(idx)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: bad index %q in %q", ErrInvalidPath, idx, s)
			}

			p = append(p, Segment{Index: n})
		}
	}

	return p, nil
}

// String returns the dotted representation of the path.
func (p Path) String() string {
	var sb strings.Builder

	for i, seg := range p {
		if seg.IsKey {
			if i > 0 {
				sb.WriteByte('.')
			}

			sb.WriteString(seg.Key)

			continue
		}

		sb.WriteString("[" + strconv.Itoa(seg.Index) + "]")
	}

	return sb.String()
}

// selector returns the CEL selector for the path, rooted at the document.
func (p Path) selector() string {
	var sb strings.Builder

	sb.WriteString(expr.DocumentVar)

	for _, seg := range p {
		if seg.IsKey {
			sb.WriteString("[?" + strconv.Quote(seg.Key) + "]")
		} else {
			sb.WriteString("[?" + strconv.Itoa(seg.Index) + "]")
		}
	}

	return sb.String()
}
