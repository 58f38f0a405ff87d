package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"techstack-backend/internal/llm"
	"techstack-backend/internal/recommend"
	"techstack-backend/internal/requestlog"
	"techstack-backend/internal/shared/config"
	"techstack-backend/internal/shared/telemetry"
)

func testDeps(env string, burst int) RouterDeps {
	svc := recommend.NewService(llm.PlaceholderClient{}, llm.Stage{}, llm.Stage{}, requestlog.NewMemorySink())
	return RouterDeps{
		Config: config.Config{
			Env:             env,
			CORSAllowOrigin: []string{"*"},
			RateLimitRPS:    1,
			RateLimitBurst:  burst,
		},
		RecommendHandler: recommend.NewHandler(svc),
	}
}

func TestBanner(t *testing.T) {
	t.Cleanup(telemetry.SetOutput(io.Discard))
	r := NewRouter(testDeps("dev", 5))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got banner
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Version != Version || !strings.Contains(got.Message, "Brain is Active") || len(got.Features) != 4 {
		t.Fatalf("unexpected banner: %+v", got)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	t.Cleanup(telemetry.SetOutput(io.Discard))
	r := NewRouter(testDeps("prod", 5))
	for _, path := range []string{"/api/health", "/metrics"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, w.Code)
		}
	}
}

func TestDebugRouteOnlyInDev(t *testing.T) {
	t.Cleanup(telemetry.SetOutput(io.Discard))
	tests := []struct {
		env  string
		want int
	}{
		{env: "dev", want: http.StatusOK},
		{env: "prod", want: http.StatusNotFound},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.env, func(t *testing.T) {
			r := NewRouter(testDeps(tt.env, 5))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/debug/system-prompt", nil))
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestModelRoutesAreRateLimited(t *testing.T) {
	t.Cleanup(telemetry.SetOutput(io.Discard))
	r := NewRouter(testDeps("prod", 1))
	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	if code := send(); code != http.StatusBadRequest {
		t.Fatalf("first request status = %d", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health should not be limited, got %d", w.Code)
	}
}

func TestAddr(t *testing.T) {
	tests := map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"}
	for in, want := range tests {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
