package recommend

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"techstack-backend/internal/llm"
	"techstack-backend/internal/requestlog"
)

func newTestRouter(client llm.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(newTestService(client, requestlog.NewMemorySink()))
	r := gin.New()
	api := r.Group("/api")
	h.RegisterRoutes(api)
	h.RegisterDebugRoutes(api)
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const validBody = `{"appType":"SaaS","scale":"startup","focus":"speed"}`

func TestGeneratePromptHandler(t *testing.T) {
	quietLogs(t)
	tests := []struct {
		name       string
		client     llm.Client
		body       string
		wantStatus int
		wantOK     bool
	}{
		{name: "success", client: &fakeLLM{prompt: "tailored"}, body: validBody, wantStatus: http.StatusOK, wantOK: true},
		{name: "bad json", client: &fakeLLM{}, body: `{`, wantStatus: http.StatusBadRequest},
		{name: "missing fields", client: &fakeLLM{}, body: `{"appType":"SaaS"}`, wantStatus: http.StatusBadRequest},
		{name: "not configured", client: llm.PlaceholderClient{}, body: validBody, wantStatus: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			w := post(newTestRouter(tt.client), "/api/generate-prompt", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			var resp promptResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Success != tt.wantOK {
				t.Fatalf("success = %v, want %v", resp.Success, tt.wantOK)
			}
			if tt.wantOK && resp.Prompt != "tailored" {
				t.Fatalf("prompt = %q", resp.Prompt)
			}
			if !tt.wantOK && resp.Error == "" {
				t.Fatalf("expected error message")
			}
		})
	}
}

func TestRecommendHandler(t *testing.T) {
	quietLogs(t)
	w := post(newTestRouter(&fakeLLM{prompt: "p", stack: stackReply}), "/api/recommend", validBody)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"architecture_diagram", "primary", "alternatives", "alternative_explanations", "cleaned_response", "diagram_valid"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("missing %q in %s", key, w.Body.String())
		}
	}
	if body["diagram_valid"] != true {
		t.Fatalf("expected diagram_valid true")
	}
	if _, ok := body["diagram_error"]; ok {
		t.Fatalf("diagram_error should be omitted when valid")
	}
}

func TestRecommendHandlerErrors(t *testing.T) {
	quietLogs(t)
	tests := []struct {
		name       string
		client     llm.Client
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "bad json", client: &fakeLLM{}, body: `[1,2`, wantStatus: http.StatusBadRequest, wantCode: ErrorCodeInvalidJSON},
		{name: "missing fields", client: &fakeLLM{}, body: `{}`, wantStatus: http.StatusBadRequest, wantCode: ErrorCodeInvalidInput},
		{name: "not configured", client: llm.PlaceholderClient{}, body: validBody, wantStatus: http.StatusServiceUnavailable, wantCode: ErrorCodeLLMNotConfigured},
		{name: "upstream", client: &fakeLLM{prompt: "p", stackErr: errors.New("boom")}, body: validBody, wantStatus: http.StatusBadGateway, wantCode: ErrorCodeUpstream},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			w := post(newTestRouter(tt.client), "/api/recommend", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			var resp struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Error.Code != tt.wantCode {
				t.Fatalf("code = %q, want %q", resp.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestSystemPromptRoute(t *testing.T) {
	r := newTestRouter(nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/debug/system-prompt", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var info SystemPromptInfo
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Length == 0 || !info.HasPrimary {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestStatusFor(t *testing.T) {
	if got := statusFor(errors.New("other")); got != http.StatusInternalServerError {
		t.Fatalf("status = %d", got)
	}
}
