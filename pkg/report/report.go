// Package report presents a verification [objective.Outcome] to the learner.
//
// Two reporters are provided: [GitHub] writes GitHub Actions workflow
// commands, so failures are annotated on the job, and [Terminal] writes
// styled output for local runs.
package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/api/v1beta1/catalogs"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/challenge"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/objective"
)

const (
	SuccessMessage = "✅ 🎉 Congratulations! You have successfully completed the challenge! 🎉"
	FailureMessage = "❌ Challenge verification failed. Please review all errors and try again."

	InvalidChallengeMessage = "❌ Invalid challenge specified."
)

// Reporter presents the outcome of a verification run.
type Reporter interface {
	Report(c *challenge.Challenge, outcome *objective.Outcome) error
}

var levelTitle = cases.Title(language.English)

// Header returns the title line of a challenge, e.g.
// "🚀 Adventure 01 | 🟢 Beginner (Broken Echoes)".
func Header(c *challenge.Challenge) string {
	return fmt.Sprintf("🚀 Adventure %s | %s %s (%s)",
		c.Adventure, levelGlyph(c.Level), levelTitle.String(string(c.Level)), c.Title)
}

func levelGlyph(l catalogs.Level) string {
	switch l {
	case catalogs.LevelBeginner:
		return "🟢"
	case catalogs.LevelIntermediate:
		return "🟡"
	case catalogs.LevelExpert:
		return "🔴"
	}

	return "⚪"
}

// section is a run of consecutive results sharing the same titles.
type section struct {
	titles  []string
	results []objective.Result
}

// sections groups consecutive results with the same description.
func sections(results []objective.Result) []section {
	var out []section

	for _, r := range results {
		if n := len(out); n > 0 && strings.Join(out[n-1].titles, "\n") == r.Description {
			out[n-1].results = append(out[n-1].results, r)

			continue
		}

		out = append(out, section{
			titles:  strings.Split(r.Description, "\n"),
			results: []objective.Result{r},
		})
	}

	return out
}
