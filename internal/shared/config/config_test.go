package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

var configKeys = []string{
	"PORT", "ENV", "CORS_ALLOW_ORIGINS", "LLM_PROVIDER", "LLM_BASE_URL", "LLM_TIMEOUT",
	"GROQ_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
	"PROMPT_MODEL", "STACK_MODEL", "PROMPT_TEMPERATURE", "STACK_TEMPERATURE",
	"PROMPT_MAX_TOKENS", "STACK_MAX_TOKENS", "LOG_DIR", "REQUEST_LOG", "LOCAL_STORE_DIR",
	"DATABASE_URL", "AWS_REGION", "S3_BUCKET", "S3_PREFIX", "SSE_KMS_KEY_ID",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "CONFIG_FILE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Env != "dev" {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.CORSAllowOrigin, []string{"*"}) {
		t.Fatalf("cors = %v", cfg.CORSAllowOrigin)
	}
	if cfg.LLMProvider != ProviderGroq || cfg.LLMTimeout != 120*time.Second {
		t.Fatalf("unexpected llm defaults: %+v", cfg)
	}
	if cfg.PromptStage.Model != "llama-3.1-8b-instant" || cfg.PromptStage.Temperature != 0.7 {
		t.Fatalf("prompt stage = %+v", cfg.PromptStage)
	}
	if cfg.StackStage.Model != "llama-3.1-8b-instant" || cfg.StackStage.Temperature != 0.2 {
		t.Fatalf("stack stage = %+v", cfg.StackStage)
	}
	if cfg.LogDir != "logs" || !reflect.DeepEqual(cfg.RequestLog, []string{SinkFile}) {
		t.Fatalf("unexpected log defaults: dir=%q sinks=%v", cfg.LogDir, cfg.RequestLog)
	}
	if cfg.RateLimitRPS != 1 || cfg.RateLimitBurst != 5 {
		t.Fatalf("unexpected rate limit: %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "prod")
	t.Setenv("LLM_PROVIDER", "Anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("STACK_TEMPERATURE", "0.4")
	t.Setenv("PROMPT_TEMPERATURE", "hot")
	t.Setenv("REQUEST_LOG", "file, memory,file,bogus")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "production" || cfg.LLMProvider != ProviderAnthropic || cfg.LLMAPIKey != "sk-ant" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.StackStage.Model != DefaultModel(ProviderAnthropic) {
		t.Fatalf("stack model = %q", cfg.StackStage.Model)
	}
	if cfg.StackStage.Temperature != 0.4 || cfg.PromptStage.Temperature != 0.7 {
		t.Fatalf("temperatures = %v / %v", cfg.PromptStage.Temperature, cfg.StackStage.Temperature)
	}
	if !reflect.DeepEqual(cfg.RequestLog, []string{SinkFile, SinkMemory}) {
		t.Fatalf("sinks = %v", cfg.RequestLog)
	}
	if !reflect.DeepEqual(cfg.CORSAllowOrigin, []string{"http://a.test", "http://b.test"}) {
		t.Fatalf("cors = %v", cfg.CORSAllowOrigin)
	}
}

func TestLoadRequiresBackingStores(t *testing.T) {
	tests := []struct {
		name string
		sink string
	}{
		{name: "db without url", sink: "db"},
		{name: "s3 without bucket", sink: "s3"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("REQUEST_LOG", tt.sink)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for sink %q", tt.sink)
			}
		})
	}
}

func TestLoadYAMLFileWithEnvPrecedence(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `llm:
  provider: openai
  base_url: https://llm.internal/v1
  timeout: 30s
  prompt:
    model: gpt-4o
    temperature: 0
  stack:
    model: gpt-4o-mini
    max_tokens: 4000
log_dir: /var/log/techstack
request_log: [file, archive]
rate_limit:
  rps: 2.5
  burst: 10
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("STACK_MODEL", "gpt-4.1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLMProvider != ProviderOpenAI || cfg.LLMBaseURL != "https://llm.internal/v1" || cfg.LLMTimeout != 30*time.Second {
		t.Fatalf("unexpected llm cfg: %+v", cfg)
	}
	if cfg.PromptStage.Model != "gpt-4o" || cfg.PromptStage.Temperature != 0 {
		t.Fatalf("prompt stage = %+v", cfg.PromptStage)
	}
	if cfg.StackStage.Model != "gpt-4.1" || cfg.StackStage.MaxTokens != 4000 || cfg.StackStage.Temperature != 0.2 {
		t.Fatalf("stack stage = %+v", cfg.StackStage)
	}
	if cfg.LogDir != "/var/log/techstack" || !reflect.DeepEqual(cfg.RequestLog, []string{SinkFile, SinkArchive}) {
		t.Fatalf("unexpected log cfg: %q %v", cfg.LogDir, cfg.RequestLog)
	}
	if cfg.RateLimitRPS != 2.5 || cfg.RateLimitBurst != 10 {
		t.Fatalf("rate limit = %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoadYAMLRejectsUnknownFields(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("llm:\n  modle: typo\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadEnvFilesKeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nexport TS_DOTENV_NEW=\"from-file\"\nTS_DOTENV_SET=from-file\nnot a pair\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("TS_DOTENV_SET", "from-env")
	t.Setenv("TS_DOTENV_NEW", "")
	os.Unsetenv("TS_DOTENV_NEW")

	loadEnvFiles(path, filepath.Join(dir, "missing.env"))

	if got := os.Getenv("TS_DOTENV_NEW"); got != "from-file" {
		t.Fatalf("TS_DOTENV_NEW = %q", got)
	}
	if got := os.Getenv("TS_DOTENV_SET"); got != "from-env" {
		t.Fatalf("TS_DOTENV_SET = %q", got)
	}
}
