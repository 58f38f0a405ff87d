// Package stackctl implements the stackctl command line tool. It runs the
// parsing and diagram pipeline over local files and talks to the same model
// providers and request log as the API.
package stackctl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"techstack-backend/internal/recommend"
	"techstack-backend/internal/requestlog"
)

// LogReader lists stored request log entries.
type LogReader interface {
	Recent(ctx context.Context, modelType string, limit int) ([]requestlog.Entry, error)
}

// Deps lets callers replace the model service and the log store.
type Deps struct {
	// Service returns the recommend service and a cleanup func.
	Service func(ctx context.Context) (*recommend.Service, func(), error)
	// Logs returns a reader over the request log database and a cleanup func.
	Logs func(ctx context.Context) (LogReader, func(), error)
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string, deps Deps) *cobra.Command {
	root := &cobra.Command{
		Use:           "stackctl",
		Short:         "Inspect tech stack recommendations and their diagrams",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newParseCmd(),
		newDiagramCmd(),
		newPromptCmd(deps),
		newLogsCmd(deps),
	)
	return root
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}

func writeFormatted(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
