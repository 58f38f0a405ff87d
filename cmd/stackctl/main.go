package main

import (
	"context"
	"fmt"
	"os"

	"techstack-backend/internal/bootstrap"
	"techstack-backend/internal/recommend"
	"techstack-backend/internal/requestlog"
	"techstack-backend/internal/shared/config"
	"techstack-backend/internal/shared/storage/db"
	"techstack-backend/internal/shared/telemetry"
	"techstack-backend/internal/stackctl"
)

var version = "2.0"

func main() {
	// Keep stdout for command output.
	telemetry.SetOutput(os.Stderr)

	root := stackctl.NewRootCmd(version, stackctl.Deps{
		Service: newService,
		Logs:    newLogReader,
	})
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newService(ctx context.Context) (*recommend.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return app.RecommendService, app.Close, nil
}

func newLogReader(ctx context.Context) (stackctl.LogReader, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		return nil, nil, err
	}
	return &requestlog.PGSink{DB: sqlDB}, func() { _ = sqlDB.Close() }, nil
}
