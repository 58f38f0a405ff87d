package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/gin-gonic/gin"

	"techstack-backend/internal/llm"
	anthropicllm "techstack-backend/internal/llm/anthropic"
	openai "techstack-backend/internal/llm/openai"
	"techstack-backend/internal/recommend"
	"techstack-backend/internal/requestlog"
	"techstack-backend/internal/shared/config"
	"techstack-backend/internal/shared/server"
	"techstack-backend/internal/shared/storage/db"
	localstore "techstack-backend/internal/shared/storage/object/local"
	s3store "techstack-backend/internal/shared/storage/object/s3"
	"techstack-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	LLM              llm.Client
	Log              requestlog.Sink
	RecommendService *recommend.Service
	RecommendHandler *recommend.Handler
}

// Build prepares every dependency and wires the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	client, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		LLM:    client,
	}

	sink, err := buildSinks(ctx, app)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Log = sink

	app.RecommendService = recommend.NewService(client, cfg.PromptStage, cfg.StackStage, sink)
	app.RecommendHandler = recommend.NewHandler(app.RecommendService)
	app.Router = server.NewRouter(server.RouterDeps{
		Config:           cfg,
		RecommendHandler: app.RecommendHandler,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":         cfg.Env,
		"provider":    cfg.LLMProvider,
		"request_log": cfg.RequestLog,
	})
	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() {
	if a == nil || a.DB == nil {
		return
	}
	if err := a.DB.Close(); err != nil {
		telemetry.Warn("bootstrap.db_close_failed", map[string]any{"error": err.Error()})
	}
	a.DB = nil
}

// buildLLM selects the provider client. Without credentials the placeholder
// is used so the service still starts and reports llm_not_configured.
func buildLLM(cfg config.Config) (llm.Client, error) {
	if strings.TrimSpace(cfg.LLMAPIKey) == "" {
		telemetry.Warn("bootstrap.llm_placeholder", map[string]any{"provider": cfg.LLMProvider})
		return llm.PlaceholderClient{}, nil
	}

	var (
		client llm.Client
		err    error
	)
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		opts := []option.RequestOption{option.WithRequestTimeout(cfg.LLMTimeout)}
		if cfg.LLMBaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.LLMBaseURL))
		}
		client, err = anthropicllm.NewClient(cfg.LLMAPIKey, opts...)
	case config.ProviderOpenAI:
		client, err = openai.NewClient(openai.Options{
			Name:    config.ProviderOpenAI,
			APIKey:  cfg.LLMAPIKey,
			BaseURL: orDefault(cfg.LLMBaseURL, openai.OpenAIBaseURL),
			Timeout: cfg.LLMTimeout,
		})
	default:
		client, err = openai.NewClient(openai.Options{
			Name:    config.ProviderGroq,
			APIKey:  cfg.LLMAPIKey,
			BaseURL: orDefault(cfg.LLMBaseURL, openai.GroqBaseURL),
			Timeout: cfg.LLMTimeout,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("build %s client: %w", cfg.LLMProvider, err)
	}
	return llm.WithRetry(client), nil
}

// buildSinks constructs every configured request log sink. The database
// handle, when opened, is stored on app so Close can release it.
func buildSinks(ctx context.Context, app *App) (requestlog.Sink, error) {
	cfg := app.Config
	var sinks requestlog.Multi
	for _, name := range cfg.RequestLog {
		switch name {
		case config.SinkFile:
			fs, err := requestlog.NewFileSink(cfg.LogDir)
			if err != nil {
				return nil, fmt.Errorf("file request log: %w", err)
			}
			sinks = append(sinks, fs)
		case config.SinkMemory:
			sinks = append(sinks, requestlog.NewMemorySink())
		case config.SinkArchive:
			sinks = append(sinks, requestlog.NewArchiveSink(localstore.New(cfg.LocalStoreDir)))
		case config.SinkS3:
			store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
			if err != nil {
				return nil, fmt.Errorf("s3 request log: %w", err)
			}
			sinks = append(sinks, requestlog.NewArchiveSink(store))
		case config.SinkDB:
			sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
			if err != nil {
				return nil, fmt.Errorf("db request log: %w", err)
			}
			app.DB = sqlDB
			if err := db.RunMigrations(ctx, sqlDB); err != nil {
				return nil, fmt.Errorf("db request log: %w", err)
			}
			sinks = append(sinks, &requestlog.PGSink{DB: sqlDB})
		default:
			return nil, fmt.Errorf("unknown request log sink %q", name)
		}
	}

	switch len(sinks) {
	case 0:
		return nil, nil
	case 1:
		return sinks[0], nil
	default:
		return sinks, nil
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
