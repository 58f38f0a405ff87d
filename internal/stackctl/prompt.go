package stackctl

import (
	"fmt"

	"github.com/spf13/cobra"

	"techstack-backend/internal/llm"
	"techstack-backend/internal/recommend"
)

func newPromptCmd(deps Deps) *cobra.Command {
	var (
		in            recommend.ProjectInput
		recommendFlag bool
		dryRun        bool
		format        string
	)
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Synthesize a tailored prompt, or a full recommendation, from project inputs",
		Long: `Run the context-synthesis call for the given project inputs and print
the tailored prompt. With --recommend, run the stack call as well and print
the parsed recommendation.

The provider and models come from the same environment and CONFIG_FILE as
the API server. --dry-run prints the prompts that would be sent.`,
		Example: `  stackctl prompt --app-type "B2B SaaS" --scale startup --focus "time to market"
  stackctl prompt --app-type marketplace --scale enterprise --focus security --recommend -f yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dryRun {
				return printContextRequest(cmd, in)
			}
			if deps.Service == nil {
				return fmt.Errorf("no model service available")
			}
			ctx := cmd.Context()
			svc, cleanup, err := deps.Service(ctx)
			if err != nil {
				return err
			}
			if cleanup != nil {
				defer cleanup()
			}

			if !recommendFlag {
				prompt, err := svc.GeneratePrompt(ctx, in)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), prompt)
				return err
			}
			rec, err := svc.Recommend(ctx, in)
			if err != nil {
				return err
			}
			return writeFormatted(cmd.OutOrStdout(), format, rec)
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.AppType, "app-type", "", "Application type (required)")
	f.StringVar(&in.Scale, "scale", "", "Expected scale (required)")
	f.StringVar(&in.Focus, "focus", "", "Primary focus (required)")
	f.StringVar(&in.TeamSize, "team-size", "", "Team size")
	f.StringVar(&in.Budget, "budget", "", "Budget")
	f.StringVar(&in.TimeToMarket, "time-to-market", "", "Time to market")
	f.StringVar(&in.SecurityLevel, "security-level", "", "Security level (default standard)")
	f.StringVar(&in.CustomConstraints, "constraints", "", "Additional constraints")
	f.BoolVar(&recommendFlag, "recommend", false, "Run the stack call and print the parsed recommendation")
	f.BoolVar(&dryRun, "dry-run", false, "Print the context-synthesis prompts without calling the model")
	f.StringVarP(&format, "format", "f", "json", "Output format for --recommend (json/yaml)")
	return cmd
}

func printContextRequest(cmd *cobra.Command, in recommend.ProjectInput) error {
	in, err := in.Normalize()
	if err != nil {
		return err
	}
	req := llm.DefaultPrompts().ContextRequest(in.ProjectContext(), llm.Stage{})
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "--- system ---\n%s\n--- user ---\n%s\n", req.System, req.User)
	return err
}
