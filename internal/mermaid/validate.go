package mermaid

import (
	"fmt"
	"strings"
)

// Validator checks diagram blocks against a fixed rule set. It is safe for
// concurrent use because it holds no mutable state.
type Validator struct {
	rules *Rules
}

// NewValidator constructs a Validator. A nil rules value selects DefaultRules.
func NewValidator(rules *Rules) *Validator {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Validator{rules: rules}
}

var defaultValidator = NewValidator(nil)

// Validate checks code with the default rules. See Validator.Validate.
func Validate(code string) (bool, string) {
	return defaultValidator.Validate(code)
}

// Validate sanitizes code and then checks it. When the diagram is rejected
// the second return value is the reason; when it is accepted the second
// return value is the sanitized diagram.
func (v *Validator) Validate(code string) (bool, string) {
	r := v.rules
	if len(strings.TrimSpace(code)) < r.MinLength {
		return false, "Code too short"
	}

	code = v.Sanitize(code)
	lines := strings.Split(strings.TrimSpace(code), "\n")

	if !hasHeader(lines, r.Header) {
		return false, fmt.Sprintf("Must start with '%s'", r.Header)
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, r.RootKeyword) {
			continue
		}
		if strings.Count(line, "[") != strings.Count(line, "]") {
			return false, "Unmatched brackets in line: " + truncate(line, r.MaxReported)
		}
	}

	for _, line := range lines {
		if strings.Count(line, "|")%2 != 0 {
			return false, "Unmatched pipes in arrow label: " + truncate(line, r.MaxReported)
		}
	}

	for _, denied := range r.denied {
		if denied.Pattern.MatchString(code) {
			return false, denied.Reason
		}
	}

	for _, entity := range r.entities {
		if strings.Contains(code, entity) {
			return false, "HTML entities not allowed"
		}
	}

	if r.spaceBeforeNode.MatchString(code) {
		return false, "Spaces in node definitions"
	}
	if !r.nodeDefinition.MatchString(code) {
		return false, "No valid nodes found"
	}
	if !strings.Contains(code, r.Arrow) {
		return false, "No valid connections found"
	}

	return true, code
}

func hasHeader(lines []string, header string) bool {
	limit := len(lines)
	if limit > 3 {
		limit = 3
	}
	for _, line := range lines[:limit] {
		if strings.Contains(line, header) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
