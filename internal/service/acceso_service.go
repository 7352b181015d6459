package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/config"
	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/metrics"
	"github.com/DerliscrDev/bodega-eirete/internal/model"
	"github.com/DerliscrDev/bodega-eirete/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Resultados del control de acceso, also used as metric labels.
const (
	AccesoPermitido = "permitido"
	AccesoDenegado  = "denegado"
	AccesoBypass    = "bypass"
	AccesoBootstrap = "bootstrap"
)

const claveVersionPermisos = "permisos:version"

var filtroPermisosActivos = dto.CatalogoFilter{Activo: "true", Paginacion: dto.Paginacion{Page: 1, Limit: 1000}}

// AccesoService is the permission gate. It decides whether a user may run
// an operation identified by a "modulo.accion" code.
type AccesoService interface {
	Autorizar(ctx context.Context, usuarioID uuid.UUID, codigo string) (bool, error)
	// PermisosEfectivos returns the codes granted through roles. Superusers
	// and staff get every active code.
	PermisosEfectivos(ctx context.Context, u *model.Usuario) ([]string, error)
	// Invalidar discards every cached permission set.
	Invalidar(ctx context.Context)
}

type accesoService struct {
	usuarios  repository.UsuarioRepository
	permisos  repository.PermisoRepository
	rdb       *redis.Client
	bootstrap bool
	ttl       time.Duration
	metrics   *metrics.Metrics
}

func NewAccesoService(
	usuarios repository.UsuarioRepository,
	permisos repository.PermisoRepository,
	rdb *redis.Client,
	cfg *config.Config,
	m *metrics.Metrics,
) AccesoService {
	return &accesoService{
		usuarios:  usuarios,
		permisos:  permisos,
		rdb:       rdb,
		bootstrap: cfg.PermisosBootstrap,
		ttl:       time.Duration(cfg.PermisosCacheSegundos) * time.Second,
		metrics:   m,
	}
}

func (s *accesoService) Autorizar(ctx context.Context, usuarioID uuid.UUID, codigo string) (bool, error) {
	u, err := s.usuarios.FindByID(ctx, usuarioID)
	if err != nil {
		if repository.EsNoEncontrado(err) {
			s.metrics.IncPermiso(AccesoDenegado)
			return false, nil
		}
		return false, err
	}

	resultado, err := s.decidir(ctx, u, codigo)
	if err != nil {
		return false, err
	}
	s.metrics.IncPermiso(resultado)

	switch resultado {
	case AccesoBootstrap:
		log.Warn().
			Str("usuario", u.Username).
			Str("permiso", codigo).
			Msg("acceso concedido en modo bootstrap: la tabla de permisos esta vacia")
		return true, nil
	case AccesoDenegado:
		log.Info().Str("usuario", u.Username).Str("permiso", codigo).Msg("acceso denegado")
		return false, nil
	}
	return true, nil
}

func (s *accesoService) decidir(ctx context.Context, u *model.Usuario, codigo string) (string, error) {
	if !u.Activo {
		return AccesoDenegado, nil
	}
	if u.EsSuperusuario || u.EsStaff {
		return AccesoBypass, nil
	}

	total, err := s.permisos.Count(ctx)
	if err != nil {
		return "", err
	}
	if total == 0 {
		if s.bootstrap {
			return AccesoBootstrap, nil
		}
		return AccesoDenegado, nil
	}

	codigos, err := s.codigos(ctx, u.ID)
	if err != nil {
		return "", err
	}
	if slices.Contains(codigos, codigo) {
		return AccesoPermitido, nil
	}
	return AccesoDenegado, nil
}

func (s *accesoService) PermisosEfectivos(ctx context.Context, u *model.Usuario) ([]string, error) {
	if u.EsSuperusuario || u.EsStaff {
		todos, _, err := s.permisos.List(ctx, filtroPermisosActivos)
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(todos))
		for _, p := range todos {
			out = append(out, p.Codigo)
		}
		return out, nil
	}
	return s.codigos(ctx, u.ID)
}

// codigos reads the role-derived codes through the Redis cache. Cache keys
// embed a version counter so Invalidar only needs one INCR.
func (s *accesoService) codigos(ctx context.Context, usuarioID uuid.UUID) ([]string, error) {
	if s.rdb == nil {
		return s.usuarios.CodigosPermiso(ctx, usuarioID)
	}

	version, err := s.rdb.Get(ctx, claveVersionPermisos).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Msg("acceso: cache de permisos no disponible")
		return s.usuarios.CodigosPermiso(ctx, usuarioID)
	}
	clave := fmt.Sprintf("permisos:%d:%s", version, usuarioID)

	if data, err := s.rdb.Get(ctx, clave).Bytes(); err == nil {
		var codigos []string
		if json.Unmarshal(data, &codigos) == nil {
			return codigos, nil
		}
	}

	codigos, err := s.usuarios.CodigosPermiso(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(codigos); err == nil {
		if err := s.rdb.Set(ctx, clave, data, s.ttl).Err(); err != nil {
			log.Warn().Err(err).Msg("acceso: no se pudo guardar permisos en cache")
		}
	}
	return codigos, nil
}

func (s *accesoService) Invalidar(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Incr(ctx, claveVersionPermisos).Err(); err != nil {
		log.Warn().Err(err).Msg("acceso: no se pudo invalidar la cache de permisos")
	}
}
