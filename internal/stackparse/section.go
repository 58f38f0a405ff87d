package stackparse

import "strings"

// lineKind is the syntactic class of one trimmed section line.
type lineKind int

const (
	lineBlank lineKind = iota
	lineExplanation
	lineCategory
	lineTechName
	lineProsMarker
	lineConsMarker
	lineWhyMarker
	lineBullet
	lineText
)

// state is the scanner position within a section.
type state int

const (
	stateIdle state = iota
	stateInCategory
	stateInItem
	stateCollectingPros
	stateCollectingCons
	stateCollectingWhy
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case stateInCategory:
		return "InCategory"
	case stateInItem:
		return "InItem"
	case stateCollectingPros:
		return "CollectingPros"
	case stateCollectingCons:
		return "CollectingCons"
	case stateCollectingWhy:
		return "CollectingWhy"
	}
	return "Unknown"
}

func (s state) hasItem() bool {
	return s >= stateInItem
}

type transition func(sc *scanner, line string)

// transitions maps each line class to its handler. Handlers whose
// preconditions fail fall back to onText, so every line is consumed exactly
// once.
var transitions = map[lineKind]transition{
	lineBlank:       (*scanner).onBlank,
	lineExplanation: (*scanner).onExplanation,
	lineCategory:    (*scanner).onCategory,
	lineTechName:    (*scanner).onTechName,
	lineProsMarker:  (*scanner).onPros,
	lineConsMarker:  (*scanner).onCons,
	lineWhyMarker:   (*scanner).onWhy,
	lineBullet:      (*scanner).onBullet,
	lineText:        (*scanner).onText,
}

type scanner struct {
	p        *Patterns
	stack    TechStack
	state    state
	category Category
	item     *TechItem
}

// ParseSection turns the markdown body of one stack section into a TechStack.
// It never fails; unrecognized content yields empty buckets.
func (p *Parser) ParseSection(text string) TechStack {
	sc := &scanner{p: p.patterns, stack: NewTechStack()}
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		transitions[sc.classify(line)](sc, line)
	}
	sc.flush()
	return sc.stack
}

func (sc *scanner) classify(line string) lineKind {
	lower := strings.ToLower(line)
	switch {
	case line == "":
		return lineBlank
	case sc.p.isExplanation(line):
		return lineExplanation
	case strings.HasPrefix(line, "###"):
		return lineCategory
	case strings.HasPrefix(line, "**") && strings.Contains(line, " - "):
		return lineTechName
	case lower == "pros:":
		return lineProsMarker
	case lower == "cons:":
		return lineConsMarker
	case strings.HasPrefix(lower, "why:"):
		return lineWhyMarker
	}
	if _, ok := sc.p.bulletText(line); ok {
		return lineBullet
	}
	return lineText
}

// flush appends the in-progress item to its category and forgets it.
func (sc *scanner) flush() {
	if sc.item != nil && sc.category != CategoryNone {
		sc.stack.Append(sc.category, *sc.item)
	}
	sc.item = nil
}

func (sc *scanner) clearMode() {
	if sc.state > stateInItem {
		sc.state = stateInItem
	}
}

func (sc *scanner) onBlank(string) {
	sc.clearMode()
}

func (sc *scanner) onExplanation(string) {
	sc.clearMode()
}

func (sc *scanner) onCategory(line string) {
	sc.flush()
	sc.category = sc.p.categoryFor(line)
	if sc.category == CategoryNone {
		sc.state = stateIdle
		return
	}
	sc.state = stateInCategory
}

func (sc *scanner) onTechName(line string) {
	if sc.category == CategoryNone {
		sc.onText(line)
		return
	}
	sc.flush()
	sc.state = stateInCategory
	if name, ok := sc.p.techName(line); ok {
		sc.item = newTechItem(name)
		sc.state = stateInItem
	}
}

func (sc *scanner) onPros(line string) {
	if !sc.state.hasItem() {
		sc.onText(line)
		return
	}
	sc.state = stateCollectingPros
}

func (sc *scanner) onCons(line string) {
	if !sc.state.hasItem() {
		sc.onText(line)
		return
	}
	sc.state = stateCollectingCons
}

func (sc *scanner) onWhy(line string) {
	if !sc.state.hasItem() {
		sc.onText(line)
		return
	}
	rest := strings.TrimSpace(sc.p.whyPrefix.ReplaceAllString(line, ""))
	if rest == "" {
		sc.state = stateCollectingWhy
		return
	}
	sc.item.Why = rest
	sc.state = stateInItem
}

func (sc *scanner) onBullet(line string) {
	if !sc.state.hasItem() {
		sc.onText(line)
		return
	}
	text, _ := sc.p.bulletText(line)
	switch sc.state {
	case stateCollectingPros:
		sc.item.Pros = append(sc.item.Pros, text)
	case stateCollectingCons:
		sc.item.Cons = append(sc.item.Cons, text)
	}
}

func (sc *scanner) onText(line string) {
	switch {
	case sc.state == stateCollectingWhy:
		if sc.item.Why == "" {
			sc.item.Why = line
		} else {
			sc.item.Why += " " + line
		}
	case sc.state > stateInItem && strings.HasPrefix(line, "**"):
		sc.clearMode()
	}
}
