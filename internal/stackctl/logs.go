package stackctl

import (
	"fmt"

	"github.com/spf13/cobra"

	"techstack-backend/internal/requestlog"
)

func newLogsCmd(deps Deps) *cobra.Command {
	var (
		modelType string
		limit     int
		format    string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent request log entries stored in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch modelType {
			case requestlog.ModelPromptEngineering, requestlog.ModelStackRecommendation:
			default:
				return fmt.Errorf("unknown model type %q", modelType)
			}
			if deps.Logs == nil {
				return fmt.Errorf("no request log database available")
			}
			ctx := cmd.Context()
			reader, cleanup, err := deps.Logs(ctx)
			if err != nil {
				return err
			}
			if cleanup != nil {
				defer cleanup()
			}

			entries, err := reader.Recent(ctx, modelType, limit)
			if err != nil {
				return fmt.Errorf("list request logs: %w", err)
			}
			if entries == nil {
				entries = []requestlog.Entry{}
			}
			return writeFormatted(cmd.OutOrStdout(), format, entries)
		},
	}
	cmd.Flags().StringVarP(&modelType, "model-type", "t", requestlog.ModelStackRecommendation, "Entry type (prompt_engineering/stack_recommendation)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format (json/yaml)")
	return cmd
}
