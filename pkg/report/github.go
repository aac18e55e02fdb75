package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/sethvargo/go-githubactions"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/challenge"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/objective"
)

// GitHub reports through GitHub Actions workflow commands.
// Uses [github.com/sethvargo/go-githubactions].
type GitHub struct {
	action *githubactions.Action
	accent lipgloss.Style
}

// GitHubOpt configures a [GitHub] reporter.
type GitHubOpt func(*githubOptions)

type githubOptions struct {
	getenv func(string) string
	w      io.Writer
}

// WithGitHubWriter sets where workflow commands are written.
func WithGitHubWriter(w io.Writer) GitHubOpt {
	return func(o *githubOptions) {
		o.w = w
	}
}

// WithGitHubGetenv sets the environment lookup, e.g. for GITHUB_STEP_SUMMARY.
func WithGitHubGetenv(fn func(string) string) GitHubOpt {
	return func(o *githubOptions) {
		o.getenv = fn
	}
}

// NewGitHub creates a new [GitHub] reporter.
func NewGitHub(opts ...GitHubOpt) *GitHub {
	o := &githubOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var actionOpts []githubactions.Option
	if o.w != nil {
		actionOpts = append(actionOpts, githubactions.WithWriter(o.w))
	}

	if o.getenv != nil {
		actionOpts = append(actionOpts, githubactions.WithGetenv(o.getenv))
	}

	w := o.w
	if w == nil {
		w = io.Discard
	}

	// The Actions log viewer renders 256 colors regardless of the runner's TTY.
	r := lipgloss.NewRenderer(w, termenv.WithProfile(termenv.ANSI256))

	return &GitHub{
		action: githubactions.New(actionOpts...),
		accent: r.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// Report implements [Reporter].
func (g *GitHub) Report(c *challenge.Challenge, outcome *objective.Outcome) error {
	a := g.action

	a.Infof("%s", g.accent.Bold(true).Render(Header(c)))

	for _, m := range outcome.Manifests {
		a.Infof("📋 Validating %s YAML format...", m.Name)

		if m.OK() {
			a.Infof("  ✅ %s YAML is valid", m.Name)
		} else {
			a.Errorf("❌ %s", m.Err.Message())
		}
	}

	a.Infof("🎯 Verifying objectives...")
	a.Infof("  Details: %s", c.Docs)

	for _, s := range sections(outcome.Results) {
		for _, title := range s.titles {
			a.Infof("  - %s", title)
		}

		for _, r := range s.results {
			g.result(r)
		}
	}

	if outcome.Passed {
		a.Noticef("%s", g.accent.Render(SuccessMessage))
	} else {
		a.Errorf("%s", g.accent.Render(FailureMessage))
	}

	if a.Getenv("GITHUB_STEP_SUMMARY") != "" {
		a.AddStepSummary(Summary(c, outcome))
	}

	return nil
}

// InvalidChallenge fails the job for a selector that names no challenge.
func (g *GitHub) InvalidChallenge(err error) {
	g.action.Errorf("%s", InvalidChallengeMessage)
	g.action.Infof("  %v", err)
}

func (g *GitHub) result(r objective.Result) {
	a := g.action

	if r.Passed {
		a.Infof("    ✅ %s", r.Message)

		return
	}

	a.Errorf("❌ %s", r.Message)

	if len(r.Details) == 0 && r.Excerpt == "" {
		return
	}

	a.Group(r.Name)

	for _, d := range r.Details {
		a.Infof("%s", d)
	}

	if r.Excerpt != "" {
		a.Infof("%s", r.Excerpt)
	}

	a.EndGroup()
}

// Summary renders the outcome as a markdown table for the job summary.
func Summary(c *challenge.Challenge, outcome *objective.Outcome) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "### %s\n\n", Header(c))
	sb.WriteString("| | Objective | Result |\n|---|---|---|\n")

	for _, r := range outcome.Results {
		glyph := "✅"
		if !r.Passed {
			glyph = "❌"
		}

		title, _, _ := strings.Cut(r.Description, "\n")
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", glyph, escapeCell(title), escapeCell(r.Message))
	}

	sb.WriteString("\n")

	if outcome.Passed {
		sb.WriteString(SuccessMessage)
	} else {
		sb.WriteString(FailureMessage)
	}

	fmt.Fprintf(&sb, "\n\n[Challenge details](%s)\n", c.Docs)

	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
