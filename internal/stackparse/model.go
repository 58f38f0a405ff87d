package stackparse

// TechItem is one recommended technology within a category.
type TechItem struct {
	Name string   `json:"name" yaml:"name"`
	Pros []string `json:"pros" yaml:"pros"`
	Cons []string `json:"cons" yaml:"cons"`
	Why  string   `json:"why" yaml:"why"`
}

// TechStack groups technologies by role. Items keep document order and are
// never de-duplicated.
type TechStack struct {
	Frontend   []TechItem `json:"frontend" yaml:"frontend"`
	Backend    []TechItem `json:"backend" yaml:"backend"`
	Database   []TechItem `json:"database" yaml:"database"`
	DevOps     []TechItem `json:"devops" yaml:"devops"`
	Additional []TechItem `json:"additional" yaml:"additional"`
}

// AlternativeExplanation carries the labeled paragraphs that introduce an
// alternative stack. Absent paragraphs are empty strings.
type AlternativeExplanation struct {
	StackNumber int    `json:"stack_number" yaml:"stack_number"`
	WhenToUse   string `json:"when_to_use" yaml:"when_to_use"`
	TradeOff    string `json:"trade_off" yaml:"trade_off"`
	WhyConsider string `json:"why_consider" yaml:"why_consider"`
}

// RecommendationResult is the structured form of one model reply.
// Alternatives and AlternativeExplanations are index-aligned.
type RecommendationResult struct {
	ArchitectureDiagram     string                   `json:"architecture_diagram" yaml:"architecture_diagram"`
	Primary                 TechStack                `json:"primary" yaml:"primary"`
	Alternatives            []TechStack              `json:"alternatives" yaml:"alternatives"`
	AlternativeExplanations []AlternativeExplanation `json:"alternative_explanations" yaml:"alternative_explanations"`
}

// Category names one of the five technology buckets.
type Category string

const (
	CategoryNone       Category = ""
	CategoryFrontend   Category = "frontend"
	CategoryBackend    Category = "backend"
	CategoryDatabase   Category = "database"
	CategoryDevOps     Category = "devops"
	CategoryAdditional Category = "additional"
)

// NewTechStack returns a stack with every bucket initialized to an empty slice.
func NewTechStack() TechStack {
	return TechStack{
		Frontend:   []TechItem{},
		Backend:    []TechItem{},
		Database:   []TechItem{},
		DevOps:     []TechItem{},
		Additional: []TechItem{},
	}
}

func newTechItem(name string) *TechItem {
	return &TechItem{Name: name, Pros: []string{}, Cons: []string{}}
}

// Append adds item to the bucket for c. Unknown categories are ignored.
func (s *TechStack) Append(c Category, item TechItem) {
	switch c {
	case CategoryFrontend:
		s.Frontend = append(s.Frontend, item)
	case CategoryBackend:
		s.Backend = append(s.Backend, item)
	case CategoryDatabase:
		s.Database = append(s.Database, item)
	case CategoryDevOps:
		s.DevOps = append(s.DevOps, item)
	case CategoryAdditional:
		s.Additional = append(s.Additional, item)
	}
}

// Items returns the bucket for c.
func (s TechStack) Items(c Category) []TechItem {
	switch c {
	case CategoryFrontend:
		return s.Frontend
	case CategoryBackend:
		return s.Backend
	case CategoryDatabase:
		return s.Database
	case CategoryDevOps:
		return s.DevOps
	case CategoryAdditional:
		return s.Additional
	}
	return nil
}

// Len reports the total number of items across all buckets.
func (s TechStack) Len() int {
	return len(s.Frontend) + len(s.Backend) + len(s.Database) + len(s.DevOps) + len(s.Additional)
}
