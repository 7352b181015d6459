package service

import (
	"context"
	"strings"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"
	"github.com/DerliscrDev/bodega-eirete/internal/repository"

	"github.com/google/uuid"
)

// ProveedorService defines business operations for suppliers.
type ProveedorService interface {
	Crear(ctx context.Context, req dto.ProveedorRequest) (*dto.ProveedorResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context, filter dto.CatalogoFilter) (*dto.ListResponse[dto.ProveedorResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ProveedorRequest) (*dto.ProveedorResponse, error)
	AlternarActivo(ctx context.Context, id uuid.UUID) (*dto.ToggleResponse, error)
}

type proveedorService struct {
	repo repository.ProveedorRepository
}

func NewProveedorService(repo repository.ProveedorRepository) ProveedorService {
	return &proveedorService{repo: repo}
}

func mapProveedor(p *model.Proveedor) dto.ProveedorResponse {
	return dto.ProveedorResponse{
		ID:          p.ID.String(),
		RazonSocial: p.RazonSocial,
		RUC:         p.RUC,
		Telefono:    p.Telefono,
		Email:       p.Email,
		Direccion:   p.Direccion,
		Activo:      p.Activo,
	}
}

func aplicarProveedor(p *model.Proveedor, req dto.ProveedorRequest) {
	p.RazonSocial = strings.TrimSpace(req.RazonSocial)
	p.RUC = strings.TrimSpace(req.RUC)
	p.Telefono = recortar(req.Telefono)
	p.Email = minusculas(recortar(req.Email))
	p.Direccion = recortar(req.Direccion)
}

func (s *proveedorService) Crear(ctx context.Context, req dto.ProveedorRequest) (*dto.ProveedorResponse, error) {
	p := &model.Proveedor{Activo: true}
	aplicarProveedor(p, req)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, duplicado(err, "ruc", "Ya existe un proveedor con ese RUC")
	}
	resp := mapProveedor(p)
	return &resp, nil
}

func (s *proveedorService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Proveedor no encontrado")
	}
	resp := mapProveedor(p)
	return &resp, nil
}

func (s *proveedorService) Listar(ctx context.Context, filter dto.CatalogoFilter) (*dto.ListResponse[dto.ProveedorResponse], error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProveedorResponse, 0, len(list))
	for i := range list {
		data = append(data, mapProveedor(&list[i]))
	}
	return dto.NewListResponse(data, total, filter.Paginacion), nil
}

func (s *proveedorService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ProveedorRequest) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Proveedor no encontrado")
	}
	aplicarProveedor(p, req)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, duplicado(err, "ruc", "Ya existe un proveedor con ese RUC")
	}
	resp := mapProveedor(p)
	return &resp, nil
}

func (s *proveedorService) AlternarActivo(ctx context.Context, id uuid.UUID) (*dto.ToggleResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Proveedor no encontrado")
	}
	if err := s.repo.SetActivo(ctx, id, !p.Activo); err != nil {
		return nil, err
	}
	return &dto.ToggleResponse{ID: id.String(), Activo: !p.Activo}, nil
}
