package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"techstack-backend/internal/recommend"
	"techstack-backend/internal/shared/config"
	"techstack-backend/internal/shared/metrics"
	"techstack-backend/internal/shared/server/middleware"
	"techstack-backend/internal/shared/server/respond"
)

// Version is reported by the root banner.
const Version = "2.0"

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config           config.Config
	RecommendHandler *recommend.Handler
}

type banner struct {
	Message  string   `json:"message"`
	Version  string   `json:"version"`
	Features []string `json:"features"`
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Limiter: middleware.NewClientLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, nil),
			Match:   callsModel,
		}),
	)

	r.GET("/", func(c *gin.Context) {
		respond.OK(c, banner{
			Message: "TechStack.io Brain is Active 🧠",
			Version: Version,
			Features: []string{
				"prompt_engineering",
				"tech_stack_recommendation",
				"mermaid_diagrams",
				"logging",
			},
		})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.RecommendHandler != nil {
		deps.RecommendHandler.RegisterRoutes(api)
		if cfg.Env == "dev" {
			deps.RecommendHandler.RegisterDebugRoutes(api)
		}
	}

	return r
}

// callsModel reports whether the request reaches a model provider. Only
// those routes are rate limited.
func callsModel(c *gin.Context) bool {
	if c.Request.Method != http.MethodPost {
		return false
	}
	switch c.Request.URL.Path {
	case "/api/generate-prompt", "/api/recommend":
		return true
	}
	return false
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
