package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/challenge"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/log"
)

const (
	cmdName = "verifier"
	cmdDesc = `Verify GitOps manifests against the objectives of an Open Ecosystem Challenge.`

	cmdExamples = `  # Verify the beginner challenge of adventure 01 in the current directory:
  verifier 01-echoes-lost-in-orbit_beginner

  # Verify a checkout somewhere else:
  verifier 01-echoes-lost-in-orbit_intermediate --dir ~/src/open-ecosystem-challenges

  # Re-run whenever a manifest changes:
  verifier 01-echoes-lost-in-orbit_beginner --watch

  # In a GitHub Actions workflow, the challenge is read from the "challenge" input:
  INPUT_CHALLENGE=01-echoes-lost-in-orbit_beginner verifier`
)

type RootArgs struct {
	LogLevel  string
	LogFormat string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))

	must(cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	))
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()
	runArgs := NewRunArgs(args)

	cmd := &cobra.Command{
		Use:               cmdName + " [challenge]",
		Short:             cmdDesc,
		Example:           cmdExamples,
		Args:              cobra.MaximumNArgs(1),
		PersistentPreRunE: setupLogging(args),
		ValidArgsFunction: cobra.FixedCompletions(challenge.IDs(), cobra.ShellCompDirectiveNoFileComp),
		SilenceUsage:      true,
		RunE:              runArgs.Run,
	}

	args.AddFlags(cmd)
	runArgs.AddFlags(cmd)
	cmd.AddCommand(NewListCmd())

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(rc *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), rc.LogLevel, rc.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		logger := slog.New(logHandler)
		slog.SetDefault(logger)
		cmd.SetContext(log.NewContext(cmd.Context(), logger))

		return nil
	}
}
