package service

import (
	"context"
	"strings"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"
	"github.com/DerliscrDev/bodega-eirete/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Roles ────────────────────────────────────────────────────────────────────

type RolService interface {
	Crear(ctx context.Context, req dto.RolRequest) (*dto.RolResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.RolResponse, error)
	Listar(ctx context.Context, filter dto.RolFilter) (*dto.ListResponse[dto.RolResponse], error)
	// Actualizar renames the role. PermisoIDs, when sent, replaces the set.
	Actualizar(ctx context.Context, id uuid.UUID, req dto.RolRequest) (*dto.RolResponse, error)
	AlternarActivo(ctx context.Context, id uuid.UUID) (*dto.ToggleResponse, error)
	AsignarPermisos(ctx context.Context, id uuid.UUID, req dto.AsignarPermisosRequest) (*dto.RolResponse, error)
}

type rolService struct {
	repo     repository.RolRepository
	permisos repository.PermisoRepository
	acceso   AccesoService
}

func NewRolService(repo repository.RolRepository, permisos repository.PermisoRepository, acceso AccesoService) RolService {
	return &rolService{repo: repo, permisos: permisos, acceso: acceso}
}

func (s *rolService) Crear(ctx context.Context, req dto.RolRequest) (*dto.RolResponse, error) {
	permisos, err := s.buscarPermisos(ctx, req.PermisoIDs)
	if err != nil {
		return nil, err
	}
	rol := &model.Rol{
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: req.Descripcion,
		Activo:      true,
		Permisos:    permisos,
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, rol)
	})
	if err != nil {
		return nil, duplicado(err, "nombre", "Ya existe un rol con ese nombre")
	}
	s.acceso.Invalidar(ctx)
	resp := toRolResponse(rol)
	return &resp, nil
}

func (s *rolService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.RolResponse, error) {
	rol, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Rol no encontrado")
	}
	resp := toRolResponse(rol)
	return &resp, nil
}

func (s *rolService) Listar(ctx context.Context, filter dto.RolFilter) (*dto.ListResponse[dto.RolResponse], error) {
	roles, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.RolResponse, len(roles))
	for i := range roles {
		data[i] = toRolResponse(&roles[i])
	}
	return dto.NewListResponse(data, total, filter.Paginacion), nil
}

func (s *rolService) Actualizar(ctx context.Context, id uuid.UUID, req dto.RolRequest) (*dto.RolResponse, error) {
	rol, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Rol no encontrado")
	}
	var permisos []model.Permiso
	if req.PermisoIDs != nil {
		if permisos, err = s.buscarPermisos(ctx, req.PermisoIDs); err != nil {
			return nil, err
		}
	}
	rol.Nombre = strings.TrimSpace(req.Nombre)
	rol.Descripcion = req.Descripcion

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, rol); err != nil {
			return err
		}
		if req.PermisoIDs != nil {
			return s.repo.ReemplazarPermisos(ctx, tx, rol, permisos)
		}
		return nil
	})
	if err != nil {
		return nil, duplicado(err, "nombre", "Ya existe un rol con ese nombre")
	}
	if req.PermisoIDs != nil {
		rol.Permisos = permisos
	}
	s.acceso.Invalidar(ctx)
	resp := toRolResponse(rol)
	return &resp, nil
}

func (s *rolService) AlternarActivo(ctx context.Context, id uuid.UUID) (*dto.ToggleResponse, error) {
	rol, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Rol no encontrado")
	}
	if err := s.repo.SetActivo(ctx, id, !rol.Activo); err != nil {
		return nil, err
	}
	s.acceso.Invalidar(ctx)
	return &dto.ToggleResponse{ID: id.String(), Activo: !rol.Activo}, nil
}

func (s *rolService) AsignarPermisos(ctx context.Context, id uuid.UUID, req dto.AsignarPermisosRequest) (*dto.RolResponse, error) {
	rol, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Rol no encontrado")
	}
	permisos, err := s.buscarPermisos(ctx, req.PermisoIDs)
	if err != nil {
		return nil, err
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.ReemplazarPermisos(ctx, tx, rol, permisos)
	})
	if err != nil {
		return nil, err
	}
	s.acceso.Invalidar(ctx)
	rol.Permisos = permisos
	resp := toRolResponse(rol)
	return &resp, nil
}

func (s *rolService) buscarPermisos(ctx context.Context, raw []string) ([]model.Permiso, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := parseID("permiso_ids", r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	permisos, err := s.permisos.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(permisos) != len(uniqueIDs(ids)) {
		return nil, apierror.Validation("permiso_ids", "Uno o mas permisos no existen")
	}
	return permisos, nil
}

func toRolResponse(r *model.Rol) dto.RolResponse {
	permisos := make([]dto.PermisoResponse, len(r.Permisos))
	for i := range r.Permisos {
		permisos[i] = toPermisoResponse(&r.Permisos[i])
	}
	return dto.RolResponse{
		ID:          r.ID.String(),
		Nombre:      r.Nombre,
		Descripcion: r.Descripcion,
		Activo:      r.Activo,
		Permisos:    permisos,
	}
}

// ── Permisos ─────────────────────────────────────────────────────────────────

type PermisoService interface {
	Crear(ctx context.Context, req dto.PermisoRequest) (*dto.PermisoResponse, error)
	Listar(ctx context.Context, filter dto.CatalogoFilter) (*dto.ListResponse[dto.PermisoResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.PermisoRequest) (*dto.PermisoResponse, error)
	AlternarActivo(ctx context.Context, id uuid.UUID) (*dto.ToggleResponse, error)
}

type permisoService struct {
	repo   repository.PermisoRepository
	acceso AccesoService
}

func NewPermisoService(repo repository.PermisoRepository, acceso AccesoService) PermisoService {
	return &permisoService{repo: repo, acceso: acceso}
}

func (s *permisoService) Crear(ctx context.Context, req dto.PermisoRequest) (*dto.PermisoResponse, error) {
	p := &model.Permiso{
		Codigo:      strings.ToLower(strings.TrimSpace(req.Codigo)),
		Descripcion: strings.TrimSpace(req.Descripcion),
		Activo:      true,
	}
	if err := s.repo.Create(ctx, nil, p); err != nil {
		return nil, duplicado(err, "codigo", "Ya existe un permiso con ese codigo")
	}
	s.acceso.Invalidar(ctx)
	resp := toPermisoResponse(p)
	return &resp, nil
}

func (s *permisoService) Listar(ctx context.Context, filter dto.CatalogoFilter) (*dto.ListResponse[dto.PermisoResponse], error) {
	permisos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PermisoResponse, len(permisos))
	for i := range permisos {
		data[i] = toPermisoResponse(&permisos[i])
	}
	return dto.NewListResponse(data, total, filter.Paginacion), nil
}

func (s *permisoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.PermisoRequest) (*dto.PermisoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Permiso no encontrado")
	}
	p.Codigo = strings.ToLower(strings.TrimSpace(req.Codigo))
	p.Descripcion = strings.TrimSpace(req.Descripcion)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, duplicado(err, "codigo", "Ya existe un permiso con ese codigo")
	}
	s.acceso.Invalidar(ctx)
	resp := toPermisoResponse(p)
	return &resp, nil
}

func (s *permisoService) AlternarActivo(ctx context.Context, id uuid.UUID) (*dto.ToggleResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Permiso no encontrado")
	}
	if err := s.repo.SetActivo(ctx, id, !p.Activo); err != nil {
		return nil, err
	}
	s.acceso.Invalidar(ctx)
	return &dto.ToggleResponse{ID: id.String(), Activo: !p.Activo}, nil
}

func toPermisoResponse(p *model.Permiso) dto.PermisoResponse {
	return dto.PermisoResponse{
		ID:          p.ID.String(),
		Codigo:      p.Codigo,
		Descripcion: p.Descripcion,
		Activo:      p.Activo,
	}
}
