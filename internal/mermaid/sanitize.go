package mermaid

import (
	"strings"
	"unicode"
)

// Sanitize repairs common generation mistakes in a diagram block using the
// default rules. Lines that cannot be repaired are dropped.
func Sanitize(code string) string {
	return defaultValidator.Sanitize(code)
}

// Sanitize repairs a diagram block line by line. Blank lines are dropped,
// the header line is kept verbatim, and the remaining lines are either fixed
// in place or removed. Relative order is preserved.
func (v *Validator) Sanitize(code string) string {
	lines := make([]string, 0, strings.Count(code, "\n")+1)
	for _, raw := range strings.Split(code, "\n") {
		line, ok := v.sanitizeLine(raw)
		if ok {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func (v *Validator) sanitizeLine(raw string) (string, bool) {
	r := v.rules
	line := strings.TrimSpace(raw)
	if line == "" {
		return "", false
	}
	if strings.HasPrefix(line, r.RootKeyword) {
		return line, true
	}

	isArrow := strings.Contains(line, r.Arrow)
	if isArrow && v.hasNoTarget(line) {
		return "", false
	}

	opens := strings.Count(line, "[")
	closes := strings.Count(line, "]")
	switch {
	case !isArrow && opens > closes:
		line += strings.Repeat("]", opens-closes)
	case !isArrow && closes > opens:
		return "", false
	case isArrow && opens > 0 && closes == 0:
		if strings.HasSuffix(line, "[") {
			line += "]"
		} else if !r.bracketPair.MatchString(line) {
			return "", false
		}
	}

	line = r.bracketLabel.ReplaceAllStringFunc(line, underscoreSpaces)
	line = r.pipeLabel.ReplaceAllStringFunc(line, underscoreSpaces)

	if isArrow && !r.nodeTarget.MatchString(line) && !r.labeledTarget.MatchString(line) {
		return "", false
	}
	return line, true
}

// hasNoTarget reports arrows that stop before naming a target node.
func (v *Validator) hasNoTarget(line string) bool {
	arrow := v.rules.Arrow
	return strings.HasSuffix(line, arrow+"|") ||
		strings.HasSuffix(line, arrow) ||
		v.rules.incompleteArrow.MatchString(line)
}

// underscoreSpaces keeps the delimiters of a label and rewrites every
// whitespace rune inside it to an underscore.
func underscoreSpaces(label string) string {
	if len(label) < 2 {
		return label
	}
	inner := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, label[1:len(label)-1])
	return label[:1] + inner + label[len(label)-1:]
}
