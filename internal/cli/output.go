package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/report"
)

const (
	OutputAuto   = "auto"
	OutputGitHub = "github"
	OutputText   = "text"
)

var (
	ErrUnknownOutput = errors.New("unknown output format")

	AllOutputs = []string{OutputAuto, OutputGitHub, OutputText}
)

// NewReporter returns the [report.Reporter] for output. The auto output
// selects GitHub workflow commands when running in GitHub Actions.
//
//nolint:ireturn // Reporter is chosen at runtime.
func NewReporter(w io.Writer, output string, getenv func(string) string) (report.Reporter, error) {
	switch output {
	case OutputAuto:
		if getenv("GITHUB_ACTIONS") == "true" {
			return newGitHubReporter(w, getenv), nil
		}

		return newTerminalReporter(w), nil

	case OutputGitHub:
		return newGitHubReporter(w, getenv), nil

	case OutputText:
		return newTerminalReporter(w), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownOutput, output)
}

func newGitHubReporter(w io.Writer, getenv func(string) string) *report.GitHub {
	return report.NewGitHub(
		report.WithGitHubWriter(w),
		report.WithGitHubGetenv(getenv),
	)
}

func newTerminalReporter(w io.Writer) *report.Terminal {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) { //nolint:gosec // G115: file descriptors fit in int.
		return report.NewTerminal(w, termenv.Ascii, report.WithWidth(0))
	}

	var opts []report.TerminalOpt

	width, _, err := term.GetSize(int(f.Fd())) //nolint:gosec // G115: file descriptors fit in int.
	if err == nil && width > 0 {
		opts = append(opts, report.WithWidth(width))
	}

	return report.NewTerminal(w, termenv.NewOutput(f).EnvColorProfile(), opts...)
}
