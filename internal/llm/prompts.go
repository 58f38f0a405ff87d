package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/context_synthesis.txt
	contextSynthesisPrompt string
	//go:embed prompts/stack_recommendation.txt
	stackRecommendationPrompt string
	//go:embed prompts/project_context.txt
	projectContextTemplate string
)

// ProjectContext carries the user's project requirements into the first prompt.
type ProjectContext struct {
	AppType           string
	Scale             string
	Focus             string
	TeamSize          string
	Budget            string
	TimeToMarket      string
	SecurityLevel     string
	CustomConstraints string
}

// PromptSet holds the prompt texts for the two chained calls. It is built
// once at startup and passed to the services that need it.
type PromptSet struct {
	ContextSystem  string
	StackSystem    string
	ContextUserTpl string
}

// DefaultPrompts returns the embedded prompt texts.
func DefaultPrompts() PromptSet {
	return PromptSet{
		ContextSystem:  strings.TrimSpace(contextSynthesisPrompt),
		StackSystem:    strings.TrimSpace(stackRecommendationPrompt),
		ContextUserTpl: strings.TrimSpace(projectContextTemplate),
	}
}

// ContextRequest builds the context-synthesis call that turns raw project
// inputs into a tailored recommendation prompt.
func (p PromptSet) ContextRequest(in ProjectContext, stage Stage) Request {
	replacer := strings.NewReplacer(
		"{{APP_TYPE}}", in.AppType,
		"{{SCALE}}", in.Scale,
		"{{FOCUS}}", in.Focus,
		"{{TEAM_SIZE}}", in.TeamSize,
		"{{BUDGET}}", in.Budget,
		"{{TIME_TO_MARKET}}", in.TimeToMarket,
		"{{SECURITY_LEVEL}}", in.SecurityLevel,
		"{{CUSTOM_CONSTRAINTS}}", in.CustomConstraints,
	)
	return Request{
		System:      p.ContextSystem,
		User:        replacer.Replace(p.ContextUserTpl),
		Model:       stage.Model,
		Temperature: stage.Temperature,
		MaxTokens:   stage.MaxTokens,
	}
}

// StackRequest builds the recommendation call from the synthesized prompt.
func (p PromptSet) StackRequest(customPrompt string, stage Stage) Request {
	return Request{
		System:      p.StackSystem,
		User:        customPrompt,
		Model:       stage.Model,
		Temperature: stage.Temperature,
		MaxTokens:   stage.MaxTokens,
	}
}
