package main

// Apply the request log schema:
//   go run ./cmd/migrate
// Print the applied version only:
//   go run ./cmd/migrate -status

import (
	"context"
	"flag"
	"fmt"
	"os"

	"techstack-backend/internal/shared/config"
	"techstack-backend/internal/shared/storage/db"
	"techstack-backend/internal/shared/telemetry"
)

func main() {
	status := flag.Bool("status", false, "print the applied schema version and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		telemetry.Error("config.load_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if *status {
		version, err := db.SchemaVersion(ctx, sqlDB)
		if err != nil {
			telemetry.Error("migrate.status_failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		fmt.Println(version)
		return
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
