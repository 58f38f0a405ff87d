package stackparse

import (
	"strconv"
	"strings"

	"techstack-backend/internal/mermaid"
)

// Parser converts a model reply into a RecommendationResult. It holds only
// read-only configuration and is safe for concurrent use.
type Parser struct {
	patterns *Patterns
	diagrams *mermaid.Validator
}

// NewParser constructs a Parser. Nil arguments select the defaults.
func NewParser(patterns *Patterns, diagrams *mermaid.Validator) *Parser {
	if patterns == nil {
		patterns = DefaultPatterns()
	}
	if diagrams == nil {
		diagrams = mermaid.NewValidator(nil)
	}
	return &Parser{patterns: patterns, diagrams: diagrams}
}

// Section is the body of one numbered alternative stack.
type Section struct {
	Number int
	Body   string
}

// Sections holds the stack sections found in a document, in document order.
type Sections struct {
	Primary      string
	Alternatives []Section
}

// Split locates the primary section and every numbered alternative section.
// Alternative numbers are reported as written; duplicates and gaps are kept.
func (p *Parser) Split(doc string) Sections {
	var out Sections

	if loc := p.patterns.primaryHeader.FindStringIndex(doc); loc != nil {
		body := doc[loc[1]:]
		if end := strings.Index(body, p.patterns.primaryEnd); end >= 0 {
			body = body[:end]
		}
		out.Primary = body
	}

	matches := p.patterns.alternativeHeader.FindAllStringSubmatchIndex(doc, -1)
	for i, m := range matches {
		end := len(doc)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		number, err := strconv.Atoi(doc[m[2]:m[3]])
		if err != nil {
			number = 0
		}
		out.Alternatives = append(out.Alternatives, Section{Number: number, Body: doc[m[1]:end]})
	}
	return out
}

// ParseResponse runs the full pipeline over one model reply. It is total:
// missing sections and malformed bodies produce empty structure, never errors.
func (p *Parser) ParseResponse(doc string) RecommendationResult {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	sections := p.Split(doc)

	result := RecommendationResult{
		ArchitectureDiagram:     p.diagrams.ExtractFirst(doc),
		Primary:                 p.ParseSection(sections.Primary),
		Alternatives:            make([]TechStack, 0, len(sections.Alternatives)),
		AlternativeExplanations: make([]AlternativeExplanation, 0, len(sections.Alternatives)),
	}
	for _, alt := range sections.Alternatives {
		result.AlternativeExplanations = append(result.AlternativeExplanations, p.Explain(alt))
		result.Alternatives = append(result.Alternatives, p.ParseSection(alt.Body))
	}
	return result
}

// Explain extracts the labeled paragraphs that introduce an alternative stack.
func (p *Parser) Explain(alt Section) AlternativeExplanation {
	return AlternativeExplanation{
		StackNumber: alt.Number,
		WhenToUse:   firstGroup(p.patterns.whenToUse.FindStringSubmatch(alt.Body)),
		TradeOff:    firstGroup(p.patterns.tradeOff.FindStringSubmatch(alt.Body)),
		WhyConsider: firstGroup(p.patterns.whyConsider.FindStringSubmatch(alt.Body)),
	}
}

func firstGroup(m []string) string {
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
