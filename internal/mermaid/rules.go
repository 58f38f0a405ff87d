package mermaid

import "regexp"

// DeniedPattern pairs a syntax pattern that breaks the renderer with the
// reason reported when it is found.
type DeniedPattern struct {
	Pattern *regexp.Regexp
	Reason  string
}

// Rules holds the compiled patterns used by the sanitizer and validator.
// A Rules value is built once at startup and never mutated afterwards.
type Rules struct {
	RootKeyword string
	Header      string
	Arrow       string
	MinLength   int
	MaxReported int

	incompleteArrow *regexp.Regexp
	bracketPair     *regexp.Regexp
	bracketLabel    *regexp.Regexp
	pipeLabel       *regexp.Regexp
	nodeTarget      *regexp.Regexp
	labeledTarget   *regexp.Regexp
	spaceBeforeNode *regexp.Regexp
	nodeDefinition  *regexp.Regexp
	denied          []DeniedPattern
	entities        []string
	fencedBlock     *regexp.Regexp
}

// DefaultRules returns the rule set for top-down flowcharts.
func DefaultRules() *Rules {
	return &Rules{
		RootKeyword: "graph",
		Header:      "graph TD",
		Arrow:       "-->",
		MinLength:   10,
		MaxReported: 40,

		incompleteArrow: regexp.MustCompile(`-->\|[^|]*\|?\s*$`),
		bracketPair:     regexp.MustCompile(`\[[a-zA-Z0-9_]*\]`),
		bracketLabel:    regexp.MustCompile(`\[[^\]]+\]`),
		pipeLabel:       regexp.MustCompile(`\|[^|]+\|`),
		nodeTarget:      regexp.MustCompile(`-->\s*[a-zA-Z0-9_]+\[\w*\]`),
		labeledTarget:   regexp.MustCompile(`-->\|[^|]+\|\s*[a-zA-Z0-9_]+`),
		spaceBeforeNode: regexp.MustCompile(`\s+\[`),
		nodeDefinition:  regexp.MustCompile(`[a-zA-Z0-9_]+\[`),
		denied: []DeniedPattern{
			{Pattern: regexp.MustCompile(`--\.-+`), Reason: "Dotted arrows not allowed"},
			{Pattern: regexp.MustCompile(`-+\|>`), Reason: "Special arrowheads not allowed"},
			{Pattern: regexp.MustCompile(`===+>`), Reason: "Thick arrows not allowed"},
			{Pattern: regexp.MustCompile(`-->+\*`), Reason: "Invalid symbols in arrows"},
			{Pattern: regexp.MustCompile(`\]\[`), Reason: "Consecutive brackets error"},
			{Pattern: regexp.MustCompile(`(?m)-->\|\s*$`), Reason: "Incomplete arrow statement"},
			{Pattern: regexp.MustCompile(`(?m)-->\|$`), Reason: "Missing arrow label target"},
		},
		entities:    []string{"&lt;", "&gt;", "&amp;"},
		fencedBlock: regexp.MustCompile("(?s)```mermaid\n(.*?)\n```"),
	}
}

// DeniedPatterns returns a copy of the denylist in evaluation order.
func (r *Rules) DeniedPatterns() []DeniedPattern {
	out := make([]DeniedPattern, len(r.denied))
	copy(out, r.denied)
	return out
}
