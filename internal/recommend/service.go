package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"techstack-backend/internal/llm"
	"techstack-backend/internal/mermaid"
	"techstack-backend/internal/requestlog"
	"techstack-backend/internal/shared/metrics"
	"techstack-backend/internal/shared/telemetry"
	"techstack-backend/internal/stackparse"
)

const noDiagramReason = "No architecture diagram in response"

// Service runs the two chained model calls and turns the reply into a
// Recommendation.
type Service struct {
	LLM         llm.Client
	Prompts     llm.PromptSet
	PromptStage llm.Stage
	StackStage  llm.Stage
	Parser      *stackparse.Parser
	Diagrams    *mermaid.Validator
	Log         requestlog.Sink
}

// NewService constructs a Service with the embedded prompts and default
// parsing rules.
func NewService(client llm.Client, promptStage, stackStage llm.Stage, sink requestlog.Sink) *Service {
	diagrams := mermaid.NewValidator(nil)
	return &Service{
		LLM:         client,
		Prompts:     llm.DefaultPrompts(),
		PromptStage: promptStage,
		StackStage:  stackStage,
		Parser:      stackparse.NewParser(nil, diagrams),
		Diagrams:    diagrams,
		Log:         sink,
	}
}

// GeneratePrompt runs only the context-synthesis call and returns the
// tailored prompt.
func (s *Service) GeneratePrompt(ctx context.Context, in ProjectInput) (string, error) {
	in, err := in.Normalize()
	if err != nil {
		return "", err
	}
	prompt, err := s.synthesize(ctx, in)
	if err != nil {
		return "", err
	}
	requestlog.Record(ctx, s.Log, requestlog.NewEntry(
		requestlog.ModelPromptEngineering, in.logInputs(), prompt, prompt, s.Prompts.ContextSystem,
	))
	return prompt, nil
}

// Recommend runs both calls, parses the reply and repairs its diagrams.
func (s *Service) Recommend(ctx context.Context, in ProjectInput) (Recommendation, error) {
	in, err := in.Normalize()
	if err != nil {
		return Recommendation{}, err
	}

	metrics.IncRecommendStarted()
	rec, err := s.recommend(ctx, in)
	if err != nil {
		metrics.IncRecommendFailed()
		return Recommendation{}, err
	}
	metrics.IncRecommendCompleted()
	return rec, nil
}

func (s *Service) recommend(ctx context.Context, in ProjectInput) (Recommendation, error) {
	customPrompt, err := s.synthesize(ctx, in)
	if err != nil {
		return Recommendation{}, err
	}

	response, err := s.complete(ctx, "stack", s.Prompts.StackRequest(customPrompt, s.StackStage))
	if err != nil {
		return Recommendation{}, err
	}

	result := s.Parser.ParseResponse(response)
	cleaned, reports := s.Diagrams.RepairDocument(response)
	rec := Recommendation{
		RecommendationResult: result,
		CleanedResponse:      cleaned,
	}
	valid, rejected, reason := summarizeDiagrams(reports)
	metrics.AddDiagrams(valid, rejected)
	rec.DiagramValid = valid > 0 && rejected == 0
	rec.DiagramError = reason
	if len(reports) == 0 {
		rec.DiagramError = noDiagramReason
	}
	s.logDiagnostics(response, result, len(reports), rejected)

	requestlog.Record(ctx, s.Log, requestlog.NewEntry(
		requestlog.ModelStackRecommendation, in.logInputs(), response, customPrompt, s.Prompts.StackSystem,
	))
	return rec, nil
}

func (s *Service) synthesize(ctx context.Context, in ProjectInput) (string, error) {
	prompt, err := s.complete(ctx, "prompt", s.Prompts.ContextRequest(in.ProjectContext(), s.PromptStage))
	if err != nil {
		return "", err
	}
	metrics.IncPromptsGenerated()
	return prompt, nil
}

func (s *Service) complete(ctx context.Context, stage string, req llm.Request) (string, error) {
	if s.LLM == nil {
		return "", fmt.Errorf("%w: %s call: %w", ErrUpstream, stage, llm.ErrNotConfigured)
	}
	start := time.Now()
	out, err := s.LLM.Complete(ctx, req)
	metrics.ObserveLLMDuration(time.Since(start))
	if err != nil {
		metrics.IncLLMErrors()
		telemetry.Error("llm.call_failed", map[string]any{
			"stage": stage,
			"model": req.Model,
			"error": err.Error(),
		})
		return "", fmt.Errorf("%w: %s call: %w", ErrUpstream, stage, err)
	}
	if strings.TrimSpace(out) == "" {
		metrics.IncLLMErrors()
		return "", fmt.Errorf("%w: %s call returned no text", ErrUpstream, stage)
	}
	return out, nil
}

// summarizeDiagrams counts accepted and rejected blocks and returns the
// first rejection reason.
func summarizeDiagrams(reports []mermaid.BlockReport) (valid, rejected int, reason string) {
	for _, r := range reports {
		if r.Valid {
			valid++
			continue
		}
		rejected++
		if reason == "" {
			reason = r.Reason
		}
	}
	return valid, rejected, reason
}

func (s *Service) logDiagnostics(response string, result stackparse.RecommendationResult, blocks, rejected int) {
	sections := s.Parser.Split(response)
	telemetry.Info("recommend.diagnostics", map[string]any{
		"response_length":  len([]rune(response)),
		"has_primary":      strings.Contains(response, "## PRIMARY"),
		"has_mermaid":      strings.Contains(response, "```mermaid"),
		"primary_length":   len(sections.Primary),
		"primary_items":    result.Primary.Len(),
		"alternatives":     len(result.Alternatives),
		"diagram_blocks":   blocks,
		"diagram_rejected": rejected,
	})
}

// SystemPromptInfo describes the stack system prompt.
func (s *Service) SystemPromptInfo() SystemPromptInfo {
	prompt := s.Prompts.StackSystem
	runes := []rune(prompt)
	return SystemPromptInfo{
		Length:        len(runes),
		HasPrimary:    strings.Contains(prompt, "## PRIMARY"),
		HasFrontend:   strings.Contains(prompt, "### Frontend"),
		First500Chars: runeSlice(runes, 0, 500),
		SampleSection: runeSlice(runes, 100, 400),
	}
}

func runeSlice(r []rune, from, to int) string {
	if from > len(r) {
		from = len(r)
	}
	if to > len(r) {
		to = len(r)
	}
	return string(r[from:to])
}

// IsNotConfigured reports whether err stems from a missing model provider.
func IsNotConfigured(err error) bool {
	return errors.Is(err, llm.ErrNotConfigured)
}
