package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/safar/go-sql-notes/internal/config"
	"github.com/safar/go-sql-notes/internal/database"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) < 2 {
		log.Fatal().Msg("usage: go run scripts/run_migrations.go [up|down]")
	}
	direction := os.Args[1]

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbCfg := config.LoadDatabase()
	db, err := database.NewConnection(ctx, &dbCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer db.Close()

	ran, err := database.Migrate(ctx, db, "migrations", direction)
	if err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	for _, name := range ran {
		log.Info().Str("file", name).Msg("migration applied")
	}
	log.Info().Int("count", len(ran)).Str("direction", direction).Msg("migrations complete")
}
