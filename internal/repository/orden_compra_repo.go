package repository

import (
	"context"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrdenCompraRepository interface {
	// Create inserts the order with its detail lines.
	Create(ctx context.Context, tx *gorm.DB, o *model.OrdenCompra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.OrdenCompra, error)
	List(ctx context.Context, filter dto.OrdenCompraFilter) ([]model.OrdenCompra, int64, error)

	// FindByIDForUpdateTx locks the order header and loads its lines.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.OrdenCompra, error)
	UpdateTx(tx *gorm.DB, o *model.OrdenCompra) error
	DB() *gorm.DB
}

type ordenCompraRepo struct{ db *gorm.DB }

func NewOrdenCompraRepository(db *gorm.DB) OrdenCompraRepository {
	return &ordenCompraRepo{db: db}
}

func (r *ordenCompraRepo) DB() *gorm.DB { return r.db }

func (r *ordenCompraRepo) Create(ctx context.Context, tx *gorm.DB, o *model.OrdenCompra) error {
	return conn(ctx, r.db, tx).Omit("Proveedor", "Almacen", "Detalles.Producto").Create(o).Error
}

func (r *ordenCompraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.OrdenCompra, error) {
	var o model.OrdenCompra
	err := r.db.WithContext(ctx).
		Preload("Proveedor").Preload("Almacen").Preload("Detalles.Producto").
		First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *ordenCompraRepo) List(ctx context.Context, filter dto.OrdenCompraFilter) ([]model.OrdenCompra, int64, error) {
	var ordenes []model.OrdenCompra
	var total int64

	q := r.db.WithContext(ctx).Model(&model.OrdenCompra{})
	if filter.ProveedorID != "" {
		q = q.Where("proveedor_id = ?", filter.ProveedorID)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	desde, hasta, err := filter.Limites()
	if err != nil {
		return nil, 0, err
	}
	if desde != nil {
		q = q.Where("created_at >= ?", *desde)
	}
	if hasta != nil {
		q = q.Where("created_at < ?", *hasta)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err = paginar(q, filter.Page, filter.Limit).
		Preload("Proveedor").Preload("Almacen").
		Order("created_at DESC").
		Find(&ordenes).Error
	return ordenes, total, err
}

func (r *ordenCompraRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.OrdenCompra, error) {
	var o model.OrdenCompra
	if err := tx.Clauses(forUpdate).First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("orden_compra_id = ?", id).Find(&o.Detalles).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *ordenCompraRepo) UpdateTx(tx *gorm.DB, o *model.OrdenCompra) error {
	return tx.Omit(clause.Associations).Save(o).Error
}
