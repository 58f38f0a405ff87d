package stackctl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"techstack-backend/internal/mermaid"
)

// ErrInvalidDiagram is returned by "diagram validate" when any block is rejected.
var ErrInvalidDiagram = errors.New("invalid diagram")

func newDiagramCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagram",
		Short: "Validate, sanitize or repair mermaid diagrams",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "validate <file>",
			Short: "Check a diagram or every fenced diagram in a document",
			Args:  cobra.ExactArgs(1),
			RunE:  runDiagramValidate,
		},
		&cobra.Command{
			Use:   "sanitize <file>",
			Short: "Print the sanitized form of a bare diagram",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				code, err := readInput(args[0], cmd.InOrStdin())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), mermaid.Sanitize(code))
				return err
			},
		},
		&cobra.Command{
			Use:   "repair <file>",
			Short: "Replace rejected diagram blocks in a document with a failure notice",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				doc, err := readInput(args[0], cmd.InOrStdin())
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), mermaid.RepairDocument(doc))
				return err
			},
		},
	)
	return cmd
}

func runDiagramValidate(cmd *cobra.Command, args []string) error {
	input, err := readInput(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if !strings.Contains(input, "```mermaid") {
		ok, msg := mermaid.Validate(input)
		if !ok {
			fmt.Fprintf(out, "invalid: %s\n", msg)
			return ErrInvalidDiagram
		}
		fmt.Fprintln(out, "valid")
		return nil
	}

	v := mermaid.NewValidator(nil)
	_, reports := v.RepairDocument(input)
	if len(reports) == 0 {
		fmt.Fprintln(out, "invalid: unterminated mermaid block")
		return ErrInvalidDiagram
	}
	rejected := 0
	for i, r := range reports {
		if r.Valid {
			fmt.Fprintf(out, "block %d: valid\n", i+1)
			continue
		}
		rejected++
		fmt.Fprintf(out, "block %d: invalid: %s\n", i+1, r.Reason)
	}
	if rejected > 0 {
		return fmt.Errorf("%w: %d of %d blocks rejected", ErrInvalidDiagram, rejected, len(reports))
	}
	return nil
}
