package recommend

import (
	"fmt"
	"strings"

	"techstack-backend/internal/llm"
	"techstack-backend/internal/stackparse"
)

const (
	notSpecified         = "not specified"
	defaultSecurityLevel = "standard"
)

// ProjectInput is the request body for both model-backed endpoints.
type ProjectInput struct {
	AppType           string `json:"appType"`
	Scale             string `json:"scale"`
	Focus             string `json:"focus"`
	TeamSize          string `json:"teamSize"`
	Budget            string `json:"budget"`
	TimeToMarket      string `json:"timeToMarket"`
	SecurityLevel     string `json:"securityLevel"`
	CustomConstraints string `json:"customConstraints"`
}

// Normalize trims every field, fills defaults for the optional ones and
// reports missing required fields as ErrInvalidInput.
func (in ProjectInput) Normalize() (ProjectInput, error) {
	out := ProjectInput{
		AppType:           strings.TrimSpace(in.AppType),
		Scale:             strings.TrimSpace(in.Scale),
		Focus:             strings.TrimSpace(in.Focus),
		TeamSize:          orDefault(in.TeamSize, notSpecified),
		Budget:            orDefault(in.Budget, notSpecified),
		TimeToMarket:      orDefault(in.TimeToMarket, notSpecified),
		SecurityLevel:     orDefault(in.SecurityLevel, defaultSecurityLevel),
		CustomConstraints: strings.TrimSpace(in.CustomConstraints),
	}

	var missing []string
	if out.AppType == "" {
		missing = append(missing, "appType")
	}
	if out.Scale == "" {
		missing = append(missing, "scale")
	}
	if out.Focus == "" {
		missing = append(missing, "focus")
	}
	if len(missing) > 0 {
		return out, fmt.Errorf("%w: missing required fields: %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	return out, nil
}

func orDefault(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}

// ProjectContext converts the input into the prompt template fields.
func (in ProjectInput) ProjectContext() llm.ProjectContext {
	return llm.ProjectContext{
		AppType:           in.AppType,
		Scale:             in.Scale,
		Focus:             in.Focus,
		TeamSize:          in.TeamSize,
		Budget:            in.Budget,
		TimeToMarket:      in.TimeToMarket,
		SecurityLevel:     in.SecurityLevel,
		CustomConstraints: in.CustomConstraints,
	}
}

func (in ProjectInput) logInputs() map[string]string {
	return map[string]string{
		"appType":           in.AppType,
		"scale":             in.Scale,
		"focus":             in.Focus,
		"teamSize":          in.TeamSize,
		"budget":            in.Budget,
		"timeToMarket":      in.TimeToMarket,
		"securityLevel":     in.SecurityLevel,
		"customConstraints": in.CustomConstraints,
	}
}

// Recommendation is the parsed result plus the repaired document the UI
// renders.
type Recommendation struct {
	stackparse.RecommendationResult `yaml:",inline"`
	CleanedResponse                 string `json:"cleaned_response" yaml:"cleaned_response"`
	DiagramValid                    bool   `json:"diagram_valid" yaml:"diagram_valid"`
	DiagramError                    string `json:"diagram_error,omitempty" yaml:"diagram_error,omitempty"`
}

// SystemPromptInfo summarizes the stack system prompt for debugging.
type SystemPromptInfo struct {
	Length        int    `json:"system_prompt_length"`
	HasPrimary    bool   `json:"has_primary"`
	HasFrontend   bool   `json:"has_frontend"`
	First500Chars string `json:"first_500_chars"`
	SampleSection string `json:"sample_section"`
}
