// Command migrate applies the embedded goose migrations.
//
//	migrate [up|down|status|version|redo|reset] [args...]
package main

import (
	"context"
	"os"
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/config"
	"github.com/DerliscrDev/bodega-eirete/internal/infra"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env ignored")
	}

	comando := "up"
	var args []string
	if len(os.Args) > 1 {
		comando, args = os.Args[1], os.Args[2:]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer func() { _ = infra.Close(db, nil) }()

	if err := infra.Migrar(context.Background(), db, comando, args...); err != nil {
		log.Fatal().Err(err).Str("comando", comando).Msg("migration failed")
	}
	log.Info().Str("comando", comando).Msg("migrations done")
}
