package repository

import (
	"context"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProveedorRepository interface {
	Create(ctx context.Context, p *model.Proveedor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error)
	FindByRUC(ctx context.Context, ruc string) (*model.Proveedor, error)
	List(ctx context.Context, filter dto.CatalogoFilter) ([]model.Proveedor, int64, error)
	Update(ctx context.Context, p *model.Proveedor) error
	SetActivo(ctx context.Context, id uuid.UUID, activo bool) error
}

type proveedorRepo struct{ db *gorm.DB }

func NewProveedorRepository(db *gorm.DB) ProveedorRepository {
	return &proveedorRepo{db: db}
}

func (r *proveedorRepo) Create(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Omit("Productos").Create(p).Error
}

func (r *proveedorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error) {
	var p model.Proveedor
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proveedorRepo) FindByRUC(ctx context.Context, ruc string) (*model.Proveedor, error) {
	var p model.Proveedor
	if err := r.db.WithContext(ctx).Where("ruc = ?", ruc).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proveedorRepo) List(ctx context.Context, filter dto.CatalogoFilter) ([]model.Proveedor, int64, error) {
	var provs []model.Proveedor
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Proveedor{})
	q = filtrarActivo(q, filter.Activo)
	if filter.Q != "" {
		pat := like(filter.Q)
		q = q.Where("LOWER(razon_social) LIKE ? OR LOWER(ruc) LIKE ?", pat, pat)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q, filter.Page, filter.Limit).Order("razon_social ASC").Find(&provs).Error
	return provs, total, err
}

func (r *proveedorRepo) Update(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Omit("Productos").Save(p).Error
}

func (r *proveedorRepo) SetActivo(ctx context.Context, id uuid.UUID, activo bool) error {
	return r.db.WithContext(ctx).Model(&model.Proveedor{}).Where("id = ?", id).Update("activo", activo).Error
}
