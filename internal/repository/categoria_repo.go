package repository

import (
	"context"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Categorias ───────────────────────────────────────────────────────────────

type CategoriaRepository interface {
	Create(ctx context.Context, c *model.Categoria) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Categoria, error)
	List(ctx context.Context, filter dto.CatalogoFilter) ([]model.Categoria, int64, error)
	Update(ctx context.Context, c *model.Categoria) error
	SetActivo(ctx context.Context, id uuid.UUID, activo bool) error
}

type categoriaRepo struct{ db *gorm.DB }

func NewCategoriaRepository(db *gorm.DB) CategoriaRepository {
	return &categoriaRepo{db: db}
}

func (r *categoriaRepo) Create(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoriaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Categoria, error) {
	var c model.Categoria
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepo) List(ctx context.Context, filter dto.CatalogoFilter) ([]model.Categoria, int64, error) {
	var cats []model.Categoria
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Categoria{})
	q = filtrarActivo(q, filter.Activo)
	if filter.Q != "" {
		q = q.Where("LOWER(nombre) LIKE ?", like(filter.Q))
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q, filter.Page, filter.Limit).Order("nombre ASC").Find(&cats).Error
	return cats, total, err
}

func (r *categoriaRepo) Update(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoriaRepo) SetActivo(ctx context.Context, id uuid.UUID, activo bool) error {
	return r.db.WithContext(ctx).Model(&model.Categoria{}).Where("id = ?", id).Update("activo", activo).Error
}

// ── Marcas ───────────────────────────────────────────────────────────────────

type MarcaRepository interface {
	Create(ctx context.Context, m *model.Marca) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Marca, error)
	List(ctx context.Context, filter dto.CatalogoFilter) ([]model.Marca, int64, error)
	Update(ctx context.Context, m *model.Marca) error
	SetActivo(ctx context.Context, id uuid.UUID, activo bool) error
}

type marcaRepo struct{ db *gorm.DB }

func NewMarcaRepository(db *gorm.DB) MarcaRepository { return &marcaRepo{db: db} }

func (r *marcaRepo) Create(ctx context.Context, m *model.Marca) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *marcaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Marca, error) {
	var m model.Marca
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *marcaRepo) List(ctx context.Context, filter dto.CatalogoFilter) ([]model.Marca, int64, error) {
	var marcas []model.Marca
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Marca{})
	q = filtrarActivo(q, filter.Activo)
	if filter.Q != "" {
		q = q.Where("LOWER(nombre) LIKE ?", like(filter.Q))
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q, filter.Page, filter.Limit).Order("nombre ASC").Find(&marcas).Error
	return marcas, total, err
}

func (r *marcaRepo) Update(ctx context.Context, m *model.Marca) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *marcaRepo) SetActivo(ctx context.Context, id uuid.UUID, activo bool) error {
	return r.db.WithContext(ctx).Model(&model.Marca{}).Where("id = ?", id).Update("activo", activo).Error
}
