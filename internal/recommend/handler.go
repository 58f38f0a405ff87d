package recommend

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"techstack-backend/internal/shared/server/middleware"
	"techstack-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the recommend service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the model-backed routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate-prompt", h.generatePrompt)
	rg.POST("/recommend", h.recommend)
}

// RegisterDebugRoutes attaches introspection routes. Only for dev.
func (h *Handler) RegisterDebugRoutes(rg *gin.RouterGroup) {
	rg.GET("/debug/system-prompt", h.systemPrompt)
}

type promptResponse struct {
	Success bool   `json:"success"`
	Prompt  string `json:"prompt,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *Handler) generatePrompt(c *gin.Context) {
	var in ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, promptResponse{Error: "invalid JSON body"})
		return
	}

	prompt, err := h.Svc.GeneratePrompt(c.Request.Context(), in)
	if err != nil {
		c.AbortWithStatusJSON(statusFor(err), promptResponse{Error: err.Error()})
		return
	}
	respond.OK(c, promptResponse{Success: true, Prompt: prompt})
}

func (h *Handler) recommend(c *gin.Context) {
	var in ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "request body must be a JSON object", nil)
		return
	}

	rec, err := h.Svc.Recommend(c.Request.Context(), in)
	if err != nil {
		status := statusFor(err)
		switch status {
		case http.StatusBadRequest:
			respond.Error(c, status, ErrorCodeInvalidInput, err.Error(), nil)
		case http.StatusServiceUnavailable:
			respond.Error(c, status, ErrorCodeLLMNotConfigured, "no model provider is configured", nil)
		case http.StatusBadGateway:
			respond.Error(c, status, ErrorCodeUpstream, "the model provider failed to respond", nil)
		default:
			respond.Error(c, status, ErrorCodeInternal, "failed to generate recommendation", nil)
		}
		return
	}

	middleware.AddLogField(c, "diagram_valid", rec.DiagramValid)
	middleware.AddLogField(c, "alternatives", len(rec.Alternatives))
	respond.OK(c, rec)
}

func (h *Handler) systemPrompt(c *gin.Context) {
	respond.OK(c, h.Svc.SystemPromptInfo())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case IsNotConfigured(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
