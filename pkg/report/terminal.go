package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/challenge"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/objective"
)

const defaultWidth = 100

// Terminal reports with styled text for interactive use.
type Terminal struct {
	w           io.Writer
	highlighter *highlighter
	styles      terminalStyles
	width       int
}

type terminalStyles struct {
	header  lipgloss.Style
	section lipgloss.Style
	title   lipgloss.Style
	pass    lipgloss.Style
	fail    lipgloss.Style
	detail  lipgloss.Style
	added   lipgloss.Style
	removed lipgloss.Style
	link    lipgloss.Style
}

// TerminalOpt configures a [Terminal] reporter.
type TerminalOpt func(*Terminal)

// WithWidth sets the wrap width. Zero disables wrapping.
func WithWidth(width int) TerminalOpt {
	return func(t *Terminal) {
		t.width = width
	}
}

// NewTerminal creates a new [Terminal] reporter writing to w with the given
// color profile.
func NewTerminal(w io.Writer, profile termenv.Profile, opts ...TerminalOpt) *Terminal {
	r := lipgloss.NewRenderer(w, termenv.WithProfile(profile))

	t := &Terminal{
		w:           w,
		width:       defaultWidth,
		highlighter: newHighlighter(profile),
		styles: terminalStyles{
			header:  r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
			section: r.NewStyle().Bold(true),
			title:   r.NewStyle().Foreground(lipgloss.Color("7")),
			pass:    r.NewStyle().Foreground(lipgloss.Color("2")),
			fail:    r.NewStyle().Foreground(lipgloss.Color("1")),
			detail:  r.NewStyle().Faint(true),
			added:   r.NewStyle().Foreground(lipgloss.Color("2")),
			removed: r.NewStyle().Foreground(lipgloss.Color("1")),
			link:    r.NewStyle().Foreground(lipgloss.Color("4")).Underline(true),
		},
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Report implements [Reporter].
func (t *Terminal) Report(c *challenge.Challenge, outcome *objective.Outcome) error {
	var sb strings.Builder

	sb.WriteString(t.styles.header.Render(Header(c)) + "\n\n")

	for _, m := range outcome.Manifests {
		sb.WriteString(t.styles.section.Render(fmt.Sprintf("📋 Validating %s YAML format...", m.Name)) + "\n")

		if m.OK() {
			sb.WriteString(t.styles.pass.Render(fmt.Sprintf("  ✅ %s YAML is valid", m.Name)) + "\n")
		} else {
			sb.WriteString(t.styles.fail.Render(t.wrap("  ❌ ", m.Err.Message())) + "\n")
		}
	}

	sb.WriteString("\n" + t.styles.section.Render("🎯 Verifying objectives...") + "\n")
	sb.WriteString("  Details: " + t.styles.link.Render(c.Docs) + "\n")

	for _, s := range sections(outcome.Results) {
		for _, title := range s.titles {
			sb.WriteString(t.styles.title.Render(t.wrap("  - ", title)) + "\n")
		}

		for _, r := range s.results {
			err := t.result(&sb, r)
			if err != nil {
				return err
			}
		}
	}

	sb.WriteString("\n")

	if outcome.Passed {
		sb.WriteString(t.styles.header.Render(SuccessMessage))
	} else {
		sb.WriteString(t.styles.header.Render(FailureMessage))
	}

	sb.WriteString("\n")

	_, err := io.WriteString(t.w, sb.String())
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

func (t *Terminal) result(sb *strings.Builder, r objective.Result) error {
	if r.Passed {
		sb.WriteString(t.styles.pass.Render(t.wrap("    ✅ ", r.Message)) + "\n")

		return nil
	}

	sb.WriteString(t.styles.fail.Render(t.wrap("    ❌ ", r.Message)) + "\n")

	for _, d := range r.Details {
		var style lipgloss.Style

		switch {
		case strings.HasPrefix(d, "+++"), strings.HasPrefix(d, "---"):
			style = t.styles.detail
		case strings.HasPrefix(d, "+"):
			style = t.styles.added
		case strings.HasPrefix(d, "-"):
			style = t.styles.removed
		default:
			style = t.styles.detail
		}

		sb.WriteString(indent.String(style.Render(d), 6) + "\n")
	}

	if r.Excerpt != "" {
		excerpt, err := t.highlighter.highlight(r.Excerpt)
		if err != nil {
			return fmt.Errorf("highlight excerpt: %w", err)
		}

		sb.WriteString(indent.String(strings.TrimRight(excerpt, "\n"), 6) + "\n")
	}

	return nil
}

// wrap word-wraps msg to the reporter width, indenting continuation lines
// to align with the text after prefix.
func (t *Terminal) wrap(prefix, msg string) string {
	if t.width <= 0 {
		return prefix + msg
	}

	pad := lipgloss.Width(prefix)

	wrapped := wordwrap.String(msg, max(t.width-pad, 20))
	lines := strings.Split(wrapped, "\n")

	for i := 1; i < len(lines); i++ {
		lines[i] = strings.Repeat(" ", pad) + lines[i]
	}

	return prefix + strings.Join(lines, "\n")
}
