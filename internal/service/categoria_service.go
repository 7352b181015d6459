package service

import (
	"context"
	"strings"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"
	"github.com/DerliscrDev/bodega-eirete/internal/repository"

	"github.com/google/uuid"
)

// CategoriaService defines business operations for product categories.
type CategoriaService interface {
	Crear(ctx context.Context, req dto.CategoriaRequest) (*dto.CategoriaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CategoriaResponse, error)
	Listar(ctx context.Context, filter dto.CatalogoFilter) (*dto.ListResponse[dto.CategoriaResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CategoriaRequest) (*dto.CategoriaResponse, error)
	AlternarActivo(ctx context.Context, id uuid.UUID) (*dto.ToggleResponse, error)
}

type categoriaService struct {
	repo repository.CategoriaRepository
}

func NewCategoriaService(repo repository.CategoriaRepository) CategoriaService {
	return &categoriaService{repo: repo}
}

func mapCategoria(c *model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:          c.ID.String(),
		Nombre:      c.Nombre,
		Descripcion: c.Descripcion,
		Activo:      c.Activo,
	}
}

func (s *categoriaService) Crear(ctx context.Context, req dto.CategoriaRequest) (*dto.CategoriaResponse, error) {
	c := &model.Categoria{
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: recortar(req.Descripcion),
		Activo:      true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, duplicado(err, "nombre", "Ya existe una categoria con ese nombre")
	}
	resp := mapCategoria(c)
	return &resp, nil
}

func (s *categoriaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CategoriaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Categoria no encontrada")
	}
	resp := mapCategoria(c)
	return &resp, nil
}

func (s *categoriaService) Listar(ctx context.Context, filter dto.CatalogoFilter) (*dto.ListResponse[dto.CategoriaResponse], error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CategoriaResponse, 0, len(list))
	for i := range list {
		data = append(data, mapCategoria(&list[i]))
	}
	return dto.NewListResponse(data, total, filter.Paginacion), nil
}

func (s *categoriaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CategoriaRequest) (*dto.CategoriaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Categoria no encontrada")
	}
	c.Nombre = strings.TrimSpace(req.Nombre)
	c.Descripcion = recortar(req.Descripcion)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, duplicado(err, "nombre", "Ya existe una categoria con ese nombre")
	}
	resp := mapCategoria(c)
	return &resp, nil
}

func (s *categoriaService) AlternarActivo(ctx context.Context, id uuid.UUID) (*dto.ToggleResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Categoria no encontrada")
	}
	if err := s.repo.SetActivo(ctx, id, !c.Activo); err != nil {
		return nil, err
	}
	return &dto.ToggleResponse{ID: id.String(), Activo: !c.Activo}, nil
}

// ── Marcas ───────────────────────────────────────────────────────────────────

type MarcaService interface {
	Crear(ctx context.Context, req dto.MarcaRequest) (*dto.MarcaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.MarcaResponse, error)
	Listar(ctx context.Context, filter dto.CatalogoFilter) (*dto.ListResponse[dto.MarcaResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.MarcaRequest) (*dto.MarcaResponse, error)
	AlternarActivo(ctx context.Context, id uuid.UUID) (*dto.ToggleResponse, error)
}

type marcaService struct {
	repo repository.MarcaRepository
}

func NewMarcaService(repo repository.MarcaRepository) MarcaService {
	return &marcaService{repo: repo}
}

func mapMarca(m *model.Marca) dto.MarcaResponse {
	return dto.MarcaResponse{
		ID:          m.ID.String(),
		Nombre:      m.Nombre,
		Descripcion: m.Descripcion,
		Activo:      m.Activo,
	}
}

func (s *marcaService) Crear(ctx context.Context, req dto.MarcaRequest) (*dto.MarcaResponse, error) {
	m := &model.Marca{
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: recortar(req.Descripcion),
		Activo:      true,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, duplicado(err, "nombre", "Ya existe una marca con ese nombre")
	}
	resp := mapMarca(m)
	return &resp, nil
}

func (s *marcaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.MarcaResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Marca no encontrada")
	}
	resp := mapMarca(m)
	return &resp, nil
}

func (s *marcaService) Listar(ctx context.Context, filter dto.CatalogoFilter) (*dto.ListResponse[dto.MarcaResponse], error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MarcaResponse, 0, len(list))
	for i := range list {
		data = append(data, mapMarca(&list[i]))
	}
	return dto.NewListResponse(data, total, filter.Paginacion), nil
}

func (s *marcaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.MarcaRequest) (*dto.MarcaResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Marca no encontrada")
	}
	m.Nombre = strings.TrimSpace(req.Nombre)
	m.Descripcion = recortar(req.Descripcion)
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, duplicado(err, "nombre", "Ya existe una marca con ese nombre")
	}
	resp := mapMarca(m)
	return &resp, nil
}

func (s *marcaService) AlternarActivo(ctx context.Context, id uuid.UUID) (*dto.ToggleResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Marca no encontrada")
	}
	if err := s.repo.SetActivo(ctx, id, !m.Activo); err != nil {
		return nil, err
	}
	return &dto.ToggleResponse{ID: id.String(), Activo: !m.Activo}, nil
}
