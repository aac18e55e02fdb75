package report

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"
)

// highlighter renders YAML excerpts with chroma.
type highlighter struct {
	lexer     chroma.Lexer
	formatter chroma.Formatter
	style     *chroma.Style
}

// newHighlighter returns nil for profiles without color.
func newHighlighter(profile termenv.Profile) *highlighter {
	var formatterName string

	switch profile {
	case termenv.TrueColor:
		formatterName = "terminal16m"
	case termenv.ANSI256:
		formatterName = "terminal256"
	case termenv.ANSI:
		formatterName = "terminal8"
	default:
		return nil
	}

	return &highlighter{
		lexer:     chroma.Coalesce(lexers.Get("YAML")),
		formatter: formatters.Get(formatterName),
		style:     styles.Get("monokai"),
	}
}

func (h *highlighter) highlight(yaml string) (string, error) {
	if h == nil {
		return yaml, nil
	}

	iterator, err := h.lexer.Tokenise(nil, yaml)
	if err != nil {
		return "", fmt.Errorf("lexer tokenize: %w", err)
	}

	buf := &bytes.Buffer{}

	err = h.formatter.Format(buf, h.style, iterator)
	if err != nil {
		return "", fmt.Errorf("format: %w", err)
	}

	return buf.String(), nil
}
