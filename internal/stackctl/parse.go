package stackctl

import (
	"github.com/spf13/cobra"

	"techstack-backend/internal/stackparse"
)

func newParseCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "parse <response-file>",
		Short: "Parse a saved model reply into structured stacks",
		Long: `Parse a saved model reply and print the primary stack, the
alternative stacks with their explanations, and the raw diagram.

Use "-" to read the reply from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			result := stackparse.NewParser(nil, nil).ParseResponse(doc)
			return writeFormatted(cmd.OutOrStdout(), format, result)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json/yaml)")
	return cmd
}
