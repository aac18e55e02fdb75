package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/challenge"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/manifest"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/objective"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/report"
)

func getChallenge(t *testing.T, v challenge.Variant) *challenge.Challenge {
	t.Helper()

	c, err := challenge.Get(v)
	require.NoError(t, err)

	return c
}

const queries = "Two working PromQL queries in the `AnalysisTemplate` that validate application health during releases"

func failedOutcome() *objective.Outcome {
	return &objective.Outcome{
		Manifests: []manifest.Loaded{
			{Ref: manifest.Ref{Key: "rollout", Name: "Rollout", Path: "rollout.yaml"}, Manifest: &manifest.Manifest{}},
			{
				Ref: manifest.Ref{Key: "analysis-template", Name: "AnalysisTemplate", Path: "analysis.yaml"},
				Err: &manifest.LoadError{Kind: manifest.KindNotFound, Name: "AnalysisTemplate", Path: "analysis.yaml"},
			},
		},
		Results: []objective.Result{
			{
				Name:        "image",
				Description: "Pod info version 6.9.3 deployed",
				Message:     "Image and/or tag is incorrect. Found: a. Expected: b",
				Details:     []string{"-old", "+new"},
				Excerpt:     "> 3 | image: a",
			},
			{Name: "container-restarts", Description: queries, Message: "restarts ok", Passed: true},
			{Name: "ready-containers", Description: queries, Message: "ready | ok", Passed: true},
			{
				Name:        "progression",
				Description: "Rollouts progress\nAll rollouts complete",
				Message:     "Rollouts may not be progressing automatically due to previous errors",
			},
		},
	}
}

func TestHeader(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "🚀 Adventure 01 | 🟢 Beginner (Broken Echoes)",
		report.Header(getChallenge(t, challenge.Adventure01Beginner)))
	assert.Equal(t, "🚀 Adventure 01 | 🟡 Intermediate (The Silent Canary)",
		report.Header(getChallenge(t, challenge.Adventure01Intermediate)))
}

func TestGitHub_Report(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	r := report.NewGitHub(
		report.WithGitHubWriter(&buf),
		report.WithGitHubGetenv(func(string) string { return "" }),
	)

	require.NoError(t, r.Report(getChallenge(t, challenge.Adventure01Intermediate), failedOutcome()))

	out := ansi.Strip(buf.String())

	for _, want := range []string{
		"🚀 Adventure 01 | 🟡 Intermediate (The Silent Canary)\n",
		"📋 Validating Rollout YAML format...\n  ✅ Rollout YAML is valid\n",
		"::error::❌ AnalysisTemplate manifest not found at: analysis.yaml\n",
		"  Details: https://dynatrace-oss.github.io/open-ecosystem-challenges/01-echoes-lost-in-orbit/intermediate/#objective\n",
		"::error::❌ Image and/or tag is incorrect. Found: a. Expected: b\n",
		"::group::image\n-old\n+new\n> 3 | image: a\n::endgroup::\n",
		"    ✅ restarts ok\n",
		"  - Rollouts progress\n  - All rollouts complete\n",
		"::error::" + report.FailureMessage + "\n",
	} {
		assert.Contains(t, out, want)
	}

	assert.Equal(t, 1, strings.Count(out, queries), "consecutive objectives share one title")
}

func TestGitHub_Report_Success(t *testing.T) {
	t.Parallel()

	summary := filepath.Join(t.TempDir(), "summary.md")
	require.NoError(t, os.WriteFile(summary, nil, 0o600))

	var buf bytes.Buffer

	r := report.NewGitHub(
		report.WithGitHubWriter(&buf),
		report.WithGitHubGetenv(func(key string) string {
			if key == "GITHUB_STEP_SUMMARY" {
				return summary
			}

			return ""
		}),
	)

	outcome := &objective.Outcome{
		Passed:  true,
		Results: []objective.Result{{Name: "prune", Description: "Prune", Message: "pruned", Passed: true}},
	}

	require.NoError(t, r.Report(getChallenge(t, challenge.Adventure01Beginner), outcome))

	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "::notice::"+report.SuccessMessage)
	assert.NotContains(t, out, "::error::")

	b, err := os.ReadFile(summary)
	require.NoError(t, err)
	assert.Contains(t, string(b), "| ✅ | Prune | pruned |")
}

func TestGitHub_InvalidChallenge(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	r := report.NewGitHub(report.WithGitHubWriter(&buf))

	_, err := challenge.Parse("01-echoes_beginer")
	require.Error(t, err)

	r.InvalidChallenge(err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "::error::"+report.InvalidChallengeMessage+"\n"), out)
	assert.Contains(t, out, "did you mean")
}

func TestSummary(t *testing.T) {
	t.Parallel()

	got := report.Summary(getChallenge(t, challenge.Adventure01Intermediate), failedOutcome())

	assert.Contains(t, got, "### 🚀 Adventure 01 | 🟡 Intermediate (The Silent Canary)\n")
	assert.Contains(t, got, "| ❌ | Pod info version 6.9.3 deployed | Image and/or tag is incorrect. Found: a. Expected: b |\n")
	assert.Contains(t, got, `| ✅ | `+queries+` | ready \| ok |`)
	assert.Contains(t, got, "| ❌ | Rollouts progress | ")
	assert.Contains(t, got, report.FailureMessage)
}

func TestTerminal_Report(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		profile termenv.Profile
		colored bool
	}{
		"ascii":     {profile: termenv.Ascii},
		"ansi256":   {profile: termenv.ANSI256, colored: true},
		"truecolor": {profile: termenv.TrueColor, colored: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			r := report.NewTerminal(&buf, tc.profile, report.WithWidth(0))
			require.NoError(t, r.Report(getChallenge(t, challenge.Adventure01Intermediate), failedOutcome()))

			raw := buf.String()
			assert.Equal(t, tc.colored, raw != ansi.Strip(raw))

			out := ansi.Strip(raw)
			for _, want := range []string{
				"🚀 Adventure 01 | 🟡 Intermediate (The Silent Canary)",
				"✅ Rollout YAML is valid",
				"❌ AnalysisTemplate manifest not found at: analysis.yaml",
				"❌ Image and/or tag is incorrect. Found: a. Expected: b",
				"      -old",
				"      +new",
				"image: a",
				"✅ restarts ok",
				report.FailureMessage,
			} {
				assert.Contains(t, out, want)
			}

			assert.Equal(t, 1, strings.Count(out, queries))
		})
	}
}

func TestTerminal_Wrap(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	outcome := &objective.Outcome{
		Results: []objective.Result{{
			Name:        "ready-containers",
			Description: "Queries",
			Message: "The PromQL query to check for ready containers is incorrect or missing. " +
				"It should check how many containers of echo-server pods are ready in the correct namespace.",
		}},
	}

	r := report.NewTerminal(&buf, termenv.Ascii, report.WithWidth(60))
	require.NoError(t, r.Report(getChallenge(t, challenge.Adventure01Intermediate), outcome))

	// Only objective messages are wrapped; the docs URL and the footer are
	// printed whole.
	wrapped := 0

	for line := range strings.SplitSeq(buf.String(), "\n") {
		if !strings.HasPrefix(line, "    ❌ ") && !strings.HasPrefix(line, "       ") {
			continue
		}

		wrapped++

		assert.LessOrEqual(t, ansi.StringWidth(strings.TrimRight(line, " ")), 60, line)
	}

	assert.GreaterOrEqual(t, wrapped, 2)

	assert.Contains(t, buf.String(), "    ❌ The PromQL query")
	assert.Contains(t, buf.String(), "\n       ")
}
