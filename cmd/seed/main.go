// Command seed creates the permission catalog, the system roles and the admin
// superuser. Safe to run on every deploy.
package main

import (
	"context"
	"os"
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/config"
	"github.com/DerliscrDev/bodega-eirete/internal/infra"
	"github.com/DerliscrDev/bodega-eirete/internal/repository"
	"github.com/DerliscrDev/bodega-eirete/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env ignored")
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

	usuarios := repository.NewUsuarioRepository(db)
	permisos := repository.NewPermisoRepository(db)
	acceso := service.NewAccesoService(usuarios, permisos, nil, cfg, nil)
	seed := service.NewSeedService(permisos, repository.NewRolRepository(db),
		repository.NewPersonaRepository(db), usuarios, acceso)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := seed.InicializarSistema(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	ev := log.Info().
		Int("permisos_creados", res.PermisosCreados).
		Int("roles_creados", res.RolesCreados).
		Bool("admin_creado", res.AdminCreado)
	if res.AdminCreado {
		ev = ev.Str("username", service.AdminUsername)
	}
	ev.Msg("sistema inicializado")
}
