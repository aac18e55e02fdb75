package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/challenge"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/log"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/objective"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/report"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/watch"
)

type RunArgs struct {
	*RootArgs

	Getenv func(string) string
	Dir    string
	Output string
	Watch  bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
		Getenv:   os.Getenv,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&ra.Dir, "dir", "d", ".", "Workspace root holding the adventures directory")
	cmd.Flags().StringVarP(&ra.Output, "output", "o", OutputAuto,
		fmt.Sprintf("Output format, one of: %s", AllOutputs))
	cmd.Flags().BoolVarP(&ra.Watch, "watch", "w", false, "Watch the challenge manifests and verify on every change")

	must(cmd.MarkFlagDirname("dir"))
	must(cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(AllOutputs, cobra.ShellCompDirectiveNoFileComp),
	))
}

// Selector returns the challenge selector from args, falling back to the
// GitHub Actions input "challenge".
func (ra *RunArgs) Selector(args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	return githubactions.New(githubactions.WithGetenv(ra.Getenv)).GetInput("challenge")
}

func (ra *RunArgs) Run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := log.WithContext(ctx)

	reporter, err := NewReporter(cmd.OutOrStdout(), ra.Output, ra.Getenv)
	if err != nil {
		return err
	}

	v, err := challenge.Parse(ra.Selector(args))
	if err != nil {
		if gh, ok := reporter.(*report.GitHub); ok {
			gh.InvalidChallenge(err)
		}

		return err
	}

	c, err := challenge.Get(v)
	if err != nil {
		return fmt.Errorf("get challenge: %w", err)
	}

	logger.DebugContext(ctx, "selected challenge",
		slog.String("challenge", c.ID),
		slog.String("dir", ra.Dir),
		slog.String("output", ra.Output),
	)

	verify := func(ctx context.Context) error {
		outcome := c.Verify(ctx, ra.Dir)

		err := reporter.Report(c, outcome)
		if err != nil {
			return fmt.Errorf("report: %w", err)
		}

		return outcome.Err()
	}

	if !ra.Watch {
		return verify(ctx)
	}

	err = watch.Run(ctx, c.Paths(ra.Dir), func(ctx context.Context) {
		err := verify(ctx)
		if err != nil && !errors.Is(err, objective.ErrVerificationFailed) {
			logger.ErrorContext(ctx, "verify challenge", slog.Any("err", err))
		}
	})
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	return nil
}
