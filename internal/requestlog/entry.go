package requestlog

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Model types recorded by the recommend service.
const (
	ModelPromptEngineering   = "prompt_engineering"
	ModelStackRecommendation = "stack_recommendation"
)

const previewRunes = 500

// Entry is one logged model exchange.
type Entry struct {
	ID              string            `json:"id" yaml:"id"`
	Timestamp       time.Time         `json:"timestamp" yaml:"timestamp"`
	ModelType       string            `json:"model_type" yaml:"model_type"`
	Inputs          map[string]string `json:"inputs" yaml:"inputs"`
	CustomPrompt    string            `json:"custom_prompt,omitempty" yaml:"custom_prompt,omitempty"`
	MasterPrompt    string            `json:"master_prompt,omitempty" yaml:"master_prompt,omitempty"`
	ResponsePreview string            `json:"response_preview" yaml:"response_preview"`
	ResponseLength  int               `json:"response_length" yaml:"response_length"`
}

// NewEntry stamps an entry with a fresh id and the current UTC time. The
// response is reduced to a preview of its first 500 characters and its
// length in characters.
func NewEntry(modelType string, inputs map[string]string, response, customPrompt, masterPrompt string) Entry {
	if inputs == nil {
		inputs = map[string]string{}
	}
	return Entry{
		ID:              uuid.NewString(),
		Timestamp:       time.Now().UTC(),
		ModelType:       modelType,
		Inputs:          inputs,
		CustomPrompt:    customPrompt,
		MasterPrompt:    masterPrompt,
		ResponsePreview: preview(response, previewRunes),
		ResponseLength:  utf8.RuneCountInString(response),
	}
}

func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
