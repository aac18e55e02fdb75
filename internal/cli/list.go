package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/challenge"
	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/pkg/report"
)

func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the challenges that can be verified",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			idStyle := lipgloss.NewRenderer(cmd.OutOrStdout()).NewStyle().Bold(true)

			for _, v := range challenge.Variants() {
				c, err := challenge.Get(v)
				if err != nil {
					return fmt.Errorf("get challenge: %w", err)
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n  %s\n  %s\n",
					idStyle.Render(c.ID), report.Header(c), c.Docs)
				if err != nil {
					return fmt.Errorf("write challenge: %w", err)
				}
			}

			return nil
		},
	}
}
