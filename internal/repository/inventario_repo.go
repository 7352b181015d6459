package repository

import (
	"context"
	"errors"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ── Almacenes ────────────────────────────────────────────────────────────────

type AlmacenRepository interface {
	Create(ctx context.Context, a *model.Almacen) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Almacen, error)
	List(ctx context.Context, filter dto.CatalogoFilter) ([]model.Almacen, int64, error)
	Update(ctx context.Context, a *model.Almacen) error
	SetActivo(ctx context.Context, id uuid.UUID, activo bool) error
}

type almacenRepo struct{ db *gorm.DB }

func NewAlmacenRepository(db *gorm.DB) AlmacenRepository { return &almacenRepo{db: db} }

func (r *almacenRepo) Create(ctx context.Context, a *model.Almacen) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *almacenRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Almacen, error) {
	var a model.Almacen
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *almacenRepo) List(ctx context.Context, filter dto.CatalogoFilter) ([]model.Almacen, int64, error) {
	var almacenes []model.Almacen
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Almacen{})
	q = filtrarActivo(q, filter.Activo)
	if filter.Q != "" {
		q = q.Where("LOWER(nombre) LIKE ?", like(filter.Q))
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q, filter.Page, filter.Limit).Order("nombre ASC").Find(&almacenes).Error
	return almacenes, total, err
}

func (r *almacenRepo) Update(ctx context.Context, a *model.Almacen) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *almacenRepo) SetActivo(ctx context.Context, id uuid.UUID, activo bool) error {
	return r.db.WithContext(ctx).Model(&model.Almacen{}).Where("id = ?", id).Update("activo", activo).Error
}

// ── Inventario y movimientos ─────────────────────────────────────────────────

// InventarioRepository owns the per-warehouse stock counters and the
// movement ledger. Writes only happen inside a caller transaction.
type InventarioRepository interface {
	// BloquearTx returns the counter row locked FOR UPDATE, creating it with
	// cantidad 0 when the product was never stocked in that warehouse.
	BloquearTx(tx *gorm.DB, productoID, almacenID uuid.UUID) (*model.Inventario, error)
	ActualizarCantidadTx(tx *gorm.DB, id uuid.UUID, cantidad int) error
	CrearMovimientoTx(tx *gorm.DB, m *model.MovimientoStock) error

	List(ctx context.Context, filter dto.InventarioFilter) ([]model.Inventario, int64, error)
	// ListarTodos returns every counter, optionally for one warehouse.
	ListarTodos(ctx context.Context, almacenID *uuid.UUID) ([]model.Inventario, error)
	ListMovimientos(ctx context.Context, filter dto.MovimientoFilter) ([]model.MovimientoStock, int64, error)
	DB() *gorm.DB
}

type inventarioRepo struct{ db *gorm.DB }

func NewInventarioRepository(db *gorm.DB) InventarioRepository { return &inventarioRepo{db: db} }

func (r *inventarioRepo) DB() *gorm.DB { return r.db }

func (r *inventarioRepo) BloquearTx(tx *gorm.DB, productoID, almacenID uuid.UUID) (*model.Inventario, error) {
	inv, err := r.buscarBloqueado(tx, productoID, almacenID)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	nuevo := model.Inventario{ProductoID: productoID, AlmacenID: almacenID}
	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "producto_id"}, {Name: "almacen_id"}},
		DoNothing: true,
	}).Create(&nuevo).Error
	if err != nil {
		return nil, err
	}
	return r.buscarBloqueado(tx, productoID, almacenID)
}

func (r *inventarioRepo) buscarBloqueado(tx *gorm.DB, productoID, almacenID uuid.UUID) (*model.Inventario, error) {
	var inv model.Inventario
	err := tx.Clauses(forUpdate).
		Where("producto_id = ? AND almacen_id = ?", productoID, almacenID).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *inventarioRepo) ActualizarCantidadTx(tx *gorm.DB, id uuid.UUID, cantidad int) error {
	return tx.Model(&model.Inventario{}).Where("id = ?", id).UpdateColumn("cantidad", cantidad).Error
}

func (r *inventarioRepo) CrearMovimientoTx(tx *gorm.DB, m *model.MovimientoStock) error {
	return tx.Omit(clause.Associations).Create(m).Error
}

func (r *inventarioRepo) List(ctx context.Context, filter dto.InventarioFilter) ([]model.Inventario, int64, error) {
	var items []model.Inventario
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Inventario{})
	if filter.ProductoID != "" {
		q = q.Where("producto_id = ?", filter.ProductoID)
	}
	if filter.AlmacenID != "" {
		q = q.Where("almacen_id = ?", filter.AlmacenID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q, filter.Page, filter.Limit).
		Preload("Producto").Preload("Almacen").
		Order("almacen_id, producto_id").
		Find(&items).Error
	return items, total, err
}

func (r *inventarioRepo) ListarTodos(ctx context.Context, almacenID *uuid.UUID) ([]model.Inventario, error) {
	var items []model.Inventario
	q := r.db.WithContext(ctx).Preload("Producto").Preload("Almacen")
	if almacenID != nil {
		q = q.Where("almacen_id = ?", *almacenID)
	}
	err := q.Order("almacen_id, producto_id").Find(&items).Error
	return items, err
}

func (r *inventarioRepo) ListMovimientos(ctx context.Context, filter dto.MovimientoFilter) ([]model.MovimientoStock, int64, error) {
	var movs []model.MovimientoStock
	var total int64

	q := r.db.WithContext(ctx).Model(&model.MovimientoStock{})
	if filter.ProductoID != "" {
		q = q.Where("producto_id = ?", filter.ProductoID)
	}
	if filter.AlmacenID != "" {
		q = q.Where("almacen_id = ?", filter.AlmacenID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
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
		Preload("Producto").Preload("Almacen").
		Order("created_at DESC").
		Find(&movs).Error
	return movs, total, err
}
