package stackparse

import (
	"regexp"
	"strings"
)

// Patterns is the compiled, read-only configuration shared by the splitter
// and the section scanner. Build it once with DefaultPatterns.
type Patterns struct {
	primaryHeader     *regexp.Regexp
	primaryEnd        string
	alternativeHeader *regexp.Regexp

	whenToUse   *regexp.Regexp
	tradeOff    *regexp.Regexp
	whyConsider *regexp.Regexp

	explanationKeywords []string
	categoryKeywords    []categoryKeyword
	labeledName         *regexp.Regexp
	boldName            *regexp.Regexp
	bulletGlyphs        []string
	boldSubLabel        *regexp.Regexp
	trailingComma       *regexp.Regexp
	whyPrefix           *regexp.Regexp
}

type categoryKeyword struct {
	keyword  string
	category Category
}

// DefaultPatterns returns the patterns for the markdown layout requested by
// the stack recommendation prompt.
func DefaultPatterns() *Patterns {
	return &Patterns{
		primaryHeader:     regexp.MustCompile(`## PRIMARY Technology Stack[ \t]*\n`),
		primaryEnd:        "## ALTERNATIVE",
		alternativeHeader: regexp.MustCompile(`## ALTERNATIVE STACK #(\d+)[ \t]*\n`),

		whenToUse:   explanationPattern("When to use this stack:"),
		tradeOff:    explanationPattern("Primary trade-off vs recommended stack:"),
		whyConsider: explanationPattern("Why this option is worth considering:"),

		explanationKeywords: []string{"When to use", "Primary trade-off", "Why this option"},
		categoryKeywords: []categoryKeyword{
			{keyword: "frontend", category: CategoryFrontend},
			{keyword: "backend", category: CategoryBackend},
			{keyword: "database", category: CategoryDatabase},
			{keyword: "devops", category: CategoryDevOps},
			{keyword: "infrastructure", category: CategoryDevOps},
			{keyword: "additional", category: CategoryAdditional},
		},
		labeledName:   regexp.MustCompile(`\*\*Tech_Name:\*\*\s+(.+?)\s+-\s+`),
		boldName:      regexp.MustCompile(`\*\*(.+?)\*\*\s*-\s*`),
		bulletGlyphs:  []string{"â€¢", "•", "- ", "* "},
		boldSubLabel:  regexp.MustCompile(`^\*\*[^*]+?(?::\*\*|\*\*:)\s*`),
		trailingComma: regexp.MustCompile(`,\s*$`),
		whyPrefix:     regexp.MustCompile(`(?i)^why:\s*`),
	}
}

// explanationPattern matches a bold label and the paragraph after it, up to
// a blank line, the next bold marker, a heading, or the end of the text.
func explanationPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)\*\*` + regexp.QuoteMeta(label) + `\*\*[ \t]*(.*?)(?:\n[ \t]*\n|\*\*|\n#|$)`)
}

// categoryFor returns the category whose keyword appears first in header.
func (p *Patterns) categoryFor(header string) Category {
	lower := strings.ToLower(header)
	best, at := CategoryNone, -1
	for _, ck := range p.categoryKeywords {
		i := strings.Index(lower, ck.keyword)
		if i >= 0 && (at < 0 || i < at) {
			best, at = ck.category, i
		}
	}
	return best
}

func (p *Patterns) techName(line string) (string, bool) {
	if m := p.labeledName.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	if m := p.boldName.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

func (p *Patterns) bulletText(line string) (string, bool) {
	for _, glyph := range p.bulletGlyphs {
		if strings.HasPrefix(line, glyph) {
			text := strings.TrimSpace(strings.TrimPrefix(line, glyph))
			text = p.boldSubLabel.ReplaceAllString(text, "")
			text = p.trailingComma.ReplaceAllString(text, "")
			return strings.TrimSpace(text), true
		}
	}
	return "", false
}

func (p *Patterns) isExplanation(line string) bool {
	if !strings.HasPrefix(line, "**") {
		return false
	}
	for _, kw := range p.explanationKeywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}
