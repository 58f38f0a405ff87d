package mermaid

import "fmt"

// FailureNotice is the first line of the block that replaces a rejected diagram.
const FailureNotice = "⚠️ Architecture diagram could not be generated."

// BlockReport describes the outcome for one fenced diagram block.
type BlockReport struct {
	Raw    string
	Valid  bool
	Reason string
}

// RepairDocument validates every fenced mermaid block in doc with the default
// rules and replaces rejected blocks in place. See Validator.RepairDocument.
func RepairDocument(doc string) string {
	out, _ := defaultValidator.RepairDocument(doc)
	return out
}

// ExtractFirst returns the raw body of the first fenced mermaid block in doc,
// or "" when there is none.
func ExtractFirst(doc string) string {
	return defaultValidator.ExtractFirst(doc)
}

// RepairDocument evaluates each fenced mermaid block independently. Valid
// blocks are left untouched; invalid blocks are swapped for a plain fenced
// block carrying FailureNotice and the rejection reason. Documents without a
// diagram pass through unchanged.
func (v *Validator) RepairDocument(doc string) (string, []BlockReport) {
	var reports []BlockReport
	out := v.rules.fencedBlock.ReplaceAllStringFunc(doc, func(block string) string {
		m := v.rules.fencedBlock.FindStringSubmatch(block)
		if m == nil {
			return block
		}
		ok, msg := v.Validate(m[1])
		report := BlockReport{Raw: m[1], Valid: ok}
		if !ok {
			report.Reason = msg
		}
		reports = append(reports, report)
		if ok {
			return block
		}
		return fmt.Sprintf("```\n%s\nReason: %s\n```", FailureNotice, msg)
	})
	return out, reports
}

// ExtractFirst returns the raw body of the first fenced mermaid block.
func (v *Validator) ExtractFirst(doc string) string {
	m := v.rules.fencedBlock.FindStringSubmatch(doc)
	if m == nil {
		return ""
	}
	return m[1]
}
