// cmd/seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/unclebandit/smsleopard-otp/internal/config"
	"github.com/unclebandit/smsleopard-otp/internal/db"
	"github.com/unclebandit/smsleopard-otp/internal/logger"
)

// Applies the schema, then any seed files given as arguments, in order:
//
//	seeder seed/campaigns.sql
func main() {
	schemaOnly := flag.Bool("schema-only", false, "apply the schema and skip seed files")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.New(cfg.App.Environment, cfg.App.LogLevel)

	conn, err := db.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer conn.Close()

	if err := db.Migrate(ctx, conn); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Msg("Schema applied")

	if *schemaOnly {
		return
	}
	if err := seed(ctx, conn, flag.Args(), log); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().Msg("Database seeding completed successfully!")
}

func seed(ctx context.Context, conn *sqlx.DB, files []string, log zerolog.Logger) error {
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		if _, err := conn.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to execute %s: %w", file, err)
		}
		log.Info().Str("file", file).Msg("Seeded")
	}
	return nil
}
