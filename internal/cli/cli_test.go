package cli_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/internal/cli"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/challenge"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/objective"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/report"
)

const appSet = `apiVersion: argoproj.io/v1alpha1
kind: ApplicationSet
metadata:
  name: echo-server
  namespace: argocd
spec:
  generators:
    - list:
        elements:
          - env: staging
  template:
    metadata:
      name: 'echo-server-{{path.basename}}'
    spec:
      source:
        path: '{{path}}'
      destination:
        namespace: 'echo-{{path.basename}}'
      syncPolicy:
        automated:
          selfHeal: true
`

func workspace(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "adventures/01-echoes-lost-in-orbit/beginner/manifests/appset.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(appSet), 0o600))

	return dir
}

func TestRunArgs_Selector(t *testing.T) {
	t.Parallel()

	ra := cli.NewRunArgs(cli.NewRootArgs())
	ra.Getenv = func(key string) string {
		if key == "INPUT_CHALLENGE" {
			return " 01-echoes-lost-in-orbit_beginner "
		}

		return ""
	}

	assert.Equal(t, "01-echoes-lost-in-orbit_intermediate", ra.Selector([]string{"01-echoes-lost-in-orbit_intermediate"}))
	assert.Equal(t, "01-echoes-lost-in-orbit_beginner", ra.Selector(nil))
}

func TestRootCmd_Verify(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	cmd := cli.NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"01-echoes-lost-in-orbit_beginner", "--dir", workspace(t), "--output", "text"})

	err := cmd.Execute()
	require.ErrorIs(t, err, objective.ErrVerificationFailed)

	out := ansi.Strip(stdout.String())
	assert.Contains(t, out, "🚀 Adventure 01 | 🟢 Beginner (Broken Echoes)")
	assert.Contains(t, out, "✅ System is resilient to changes from outside Git")
	assert.Contains(t, out, "❌ Stale resources will not be removed automatically")
	assert.Contains(t, out, report.FailureMessage)
}

func TestRootCmd_GitHubOutput(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	cmd := cli.NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"01-echoes-lost-in-orbit_beginner", "-d", workspace(t), "-o", "github"})

	err := cmd.Execute()
	require.ErrorIs(t, err, objective.ErrVerificationFailed)

	out := ansi.Strip(stdout.String())
	assert.Contains(t, out, "::error::❌ Stale resources will not be removed automatically")
	assert.Contains(t, out, "::error::"+report.FailureMessage)
}

func TestRootCmd_InvalidChallenge(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"02-unknown_beginner", "--output", "text"})

	err := cmd.Execute()
	require.ErrorIs(t, err, challenge.ErrInvalidChallenge)
}

func TestRootCmd_InvalidChallenge_GitHub(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	cmd := cli.NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"02-unknown_beginner", "--output", "github"})

	err := cmd.Execute()
	require.ErrorIs(t, err, challenge.ErrInvalidChallenge)

	out := ansi.Strip(stdout.String())
	assert.Contains(t, out, "::error::"+report.InvalidChallengeMessage+"\n")
	assert.Contains(t, out, `unknown challenge "02-unknown_beginner"`)
}

func TestRootCmd_UnknownOutput(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"01-echoes-lost-in-orbit_beginner", "--output", "xml"})

	err := cmd.Execute()
	require.ErrorIs(t, err, cli.ErrUnknownOutput)
}

func TestListCmd(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	cmd := cli.NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"list"})

	require.NoError(t, cmd.Execute())

	out := ansi.Strip(stdout.String())
	assert.Contains(t, out, "01-echoes-lost-in-orbit_beginner\n")
	assert.Contains(t, out, "🟡 Intermediate (The Silent Canary)")
}

func TestNewReporter(t *testing.T) {
	t.Parallel()

	noEnv := func(string) string { return "" }
	inActions := func(key string) string {
		if key == "GITHUB_ACTIONS" {
			return "true"
		}

		return ""
	}

	tcs := map[string]struct {
		getenv  func(string) string
		want    any
		output  string
		wantErr error
	}{
		"auto outside actions": {output: cli.OutputAuto, getenv: noEnv, want: &report.Terminal{}},
		"auto in actions":      {output: cli.OutputAuto, getenv: inActions, want: &report.GitHub{}},
		"github":               {output: cli.OutputGitHub, getenv: noEnv, want: &report.GitHub{}},
		"text":                 {output: cli.OutputText, getenv: inActions, want: &report.Terminal{}},
		"unknown":              {output: "html", getenv: noEnv, wantErr: cli.ErrUnknownOutput},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r, err := cli.NewReporter(&bytes.Buffer{}, tc.output, tc.getenv)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			assert.IsType(t, tc.want, r)
		})
	}
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	var styles fang.Styles

	tcs := map[string]struct {
		err         error
		wantContain []string
		wantMissing []string
	}{
		"invalid challenge": {
			err:         &challenge.InvalidChallengeError{ID: "x", Known: []string{"01-echoes-lost-in-orbit_beginner"}},
			wantContain: []string{`unknown challenge "x"`, "- 01-echoes-lost-in-orbit_beginner"},
			wantMissing: []string{"--help"},
		},
		"usage": {
			err:         errors.New("unknown flag: --nope"),
			wantContain: []string{"unknown flag: --nope", "--help"},
		},
		"verification failed": {
			err:         objective.ErrVerificationFailed,
			wantContain: []string{"challenge verification failed"},
			wantMissing: []string{"--help", "Known challenges"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			cli.ErrorHandler(&buf, styles, tc.err)

			out := ansi.Strip(buf.String())
			for _, s := range tc.wantContain {
				assert.Contains(t, out, s)
			}

			for _, s := range tc.wantMissing {
				assert.NotContains(t, out, s)
			}
		})
	}
}
