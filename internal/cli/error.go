package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/challenge"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/objective"
)

// ErrorHandler renders errors returned by the root command.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	mustN(fmt.Fprintln(w, styles.ErrorHeader.String()))
	mustN(fmt.Fprintln(w, lipgloss.NewStyle().MarginLeft(2).Render(err.Error())))
	mustN(fmt.Fprintln(w))

	// The report already lists every failed objective.
	if errors.Is(err, objective.ErrVerificationFailed) {
		return
	}

	var invalid *challenge.InvalidChallengeError
	if errors.As(err, &invalid) && len(invalid.Known) > 0 {
		mustN(fmt.Fprintln(w, styles.ErrorText.UnsetWidth().Render("Known challenges:")))

		for _, id := range invalid.Known {
			mustN(fmt.Fprintln(w, lipgloss.NewStyle().MarginLeft(2).Render("- "+id)))
		}

		mustN(fmt.Fprintln(w))
	}

	if isUsageError(err) {
		mustN(fmt.Fprintln(w, lipgloss.JoinHorizontal(
			lipgloss.Left,
			styles.ErrorText.UnsetWidth().Render("Try"),
			styles.Program.Flag.Render("--help"),
			styles.ErrorText.UnsetWidth().UnsetMargins().UnsetTransform().PaddingLeft(1).Render("for usage."),
		)))
		mustN(fmt.Fprintln(w))
	}
}

// XXX: cobra does not type its usage errors.
// See: https://github.com/spf13/cobra/pull/2266
func isUsageError(err error) bool {
	s := err.Error()
	for _, prefix := range []string{
		"flag needs an argument:",
		"unknown flag:",
		"unknown shorthand flag:",
		"unknown command",
		"invalid argument",
		"accepts at most",
	} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustN(_ int, err error) {
	must(err)
}
