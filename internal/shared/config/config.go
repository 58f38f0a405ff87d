package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"techstack-backend/internal/llm"
	"techstack-backend/internal/shared/telemetry"
)

// Provider names accepted in LLM_PROVIDER.
const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Request log sink names accepted in REQUEST_LOG.
const (
	SinkFile    = "file"
	SinkDB      = "db"
	SinkS3      = "s3"
	SinkArchive = "archive"
	SinkMemory  = "memory"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	LLMProvider string
	LLMBaseURL  string
	LLMAPIKey   string
	LLMTimeout  time.Duration
	PromptStage llm.Stage
	StackStage  llm.Stage

	LogDir        string
	RequestLog    []string
	LocalStoreDir string
	DatabaseURL   string
	AWSRegion     string
	S3Bucket      string
	S3Prefix      string
	SSEKMSKeyID   string

	RateLimitRPS   float64
	RateLimitBurst int

	ConfigFile string
}

// Load reads configuration from an optional YAML file named by CONFIG_FILE
// and then from environment variables, which take precedence.
func Load() (Config, error) {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	path := strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	file, err := loadFile(path)
	if err != nil {
		return Config{}, err
	}

	provider := normalizeProvider(getEnv("LLM_PROVIDER", file.LLM.Provider))
	defaultModel := DefaultModel(provider)

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "*")),

		LLMProvider: provider,
		LLMBaseURL:  getEnv("LLM_BASE_URL", file.LLM.BaseURL),
		LLMAPIKey:   apiKeyFor(provider),
		LLMTimeout:  getEnvDuration("LLM_TIMEOUT", orDuration(file.LLM.Timeout, 120*time.Second)),
		PromptStage: llm.Stage{
			Model:       getEnv("PROMPT_MODEL", orString(file.LLM.Prompt.Model, defaultModel)),
			Temperature: getEnvFloat("PROMPT_TEMPERATURE", orFloat(file.LLM.Prompt.Temperature, 0.7)),
			MaxTokens:   getEnvInt("PROMPT_MAX_TOKENS", file.LLM.Prompt.MaxTokens),
		},
		StackStage: llm.Stage{
			Model:       getEnv("STACK_MODEL", orString(file.LLM.Stack.Model, defaultModel)),
			Temperature: getEnvFloat("STACK_TEMPERATURE", orFloat(file.LLM.Stack.Temperature, 0.2)),
			MaxTokens:   getEnvInt("STACK_MAX_TOKENS", file.LLM.Stack.MaxTokens),
		},

		LogDir:        getEnv("LOG_DIR", orString(file.LogDir, "logs")),
		RequestLog:    normalizeSinks(getEnv("REQUEST_LOG", orString(strings.Join(file.RequestLog, ","), SinkFile))),
		LocalStoreDir: getEnv("LOCAL_STORE_DIR", "./data"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		AWSRegion:     getEnv("AWS_REGION", ""),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3Prefix:      getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:   getEnv("SSE_KMS_KEY_ID", ""),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", orFloat(file.RateLimit.RPS, 1)),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", orInt(file.RateLimit.Burst, 5)),

		ConfigFile: path,
	}

	if cfg.HasSink(SinkDB) && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("REQUEST_LOG includes %q but DATABASE_URL is empty", SinkDB)
	}
	if cfg.HasSink(SinkS3) && cfg.S3Bucket == "" {
		return Config{}, fmt.Errorf("REQUEST_LOG includes %q but S3_BUCKET is empty", SinkS3)
	}
	if cfg.LLMAPIKey == "" {
		telemetry.Warn("config.llm_key_missing", map[string]any{"provider": provider})
	}
	return cfg, nil
}

// HasSink reports whether the named request log sink is enabled.
func (c Config) HasSink(name string) bool {
	for _, s := range c.RequestLog {
		if s == name {
			return true
		}
	}
	return false
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderAnthropic:
		return "claude-sonnet-4-20250514"
	default:
		return "llama-3.1-8b-instant"
	}
}

func apiKeyFor(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return os.Getenv("GROQ_API_KEY")
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		telemetry.Warn("config.invalid_float", map[string]any{"key": key, "value": raw})
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		telemetry.Warn("config.invalid_int", map[string]any{"key": key, "value": raw})
		return def
	}
	return v
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		telemetry.Warn("config.invalid_duration", map[string]any{"key": key, "value": raw})
		return def
	}
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ProviderOpenAI:
		return ProviderOpenAI
	case ProviderAnthropic, "claude":
		return ProviderAnthropic
	default:
		return ProviderGroq
	}
}

func normalizeSinks(raw string) []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range splitAndTrim(strings.ToLower(raw)) {
		switch s {
		case SinkFile, SinkDB, SinkS3, SinkArchive, SinkMemory:
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		case "none", "off":
		default:
			telemetry.Warn("config.unknown_sink", map[string]any{"sink": s})
		}
	}
	return out
}

func orString(v, def string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func orFloat(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

func orInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func orDuration(v string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil && d > 0 {
		return d
	}
	return def
}
