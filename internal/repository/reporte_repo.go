package repository

import (
	"context"
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/model"

	"gorm.io/gorm"
)

// ReporteRepository serves the read-only aggregations. Grouping is done by
// the caller so the queries stay portable across dialects.
type ReporteRepository interface {
	// FacturasEmitidas returns non-annulled invoice headers with fecha in [desde, hasta).
	FacturasEmitidas(ctx context.Context, desde, hasta *time.Time) ([]model.Factura, error)
	// ComprasRecibidas returns received orders with recibido_at in [desde, hasta).
	ComprasRecibidas(ctx context.Context, desde, hasta *time.Time) ([]model.OrdenCompra, error)
	ContarProductos(ctx context.Context) (activos, bajoMinimo int64, err error)
}

type reporteRepo struct{ db *gorm.DB }

func NewReporteRepository(db *gorm.DB) ReporteRepository { return &reporteRepo{db: db} }

func entre(q *gorm.DB, col string, desde, hasta *time.Time) *gorm.DB {
	if desde != nil {
		q = q.Where(col+" >= ?", *desde)
	}
	if hasta != nil {
		q = q.Where(col+" < ?", *hasta)
	}
	return q
}

func (r *reporteRepo) FacturasEmitidas(ctx context.Context, desde, hasta *time.Time) ([]model.Factura, error) {
	var facturas []model.Factura
	q := r.db.WithContext(ctx).Where("estado <> ?", model.FacturaAnulada)
	err := entre(q, "fecha", desde, hasta).Order("fecha ASC").Find(&facturas).Error
	return facturas, err
}

func (r *reporteRepo) ComprasRecibidas(ctx context.Context, desde, hasta *time.Time) ([]model.OrdenCompra, error) {
	var ordenes []model.OrdenCompra
	q := r.db.WithContext(ctx).Preload("Proveedor").Where("estado = ?", model.OrdenRecibido)
	err := entre(q, "recibido_at", desde, hasta).Order("recibido_at ASC").Find(&ordenes).Error
	return ordenes, err
}

func (r *reporteRepo) ContarProductos(ctx context.Context) (activos, bajoMinimo int64, err error) {
	base := r.db.WithContext(ctx).Model(&model.Producto{}).Where("activo = ?", true)
	if err = base.Session(&gorm.Session{}).Count(&activos).Error; err != nil {
		return 0, 0, err
	}
	err = base.Session(&gorm.Session{}).Where("stock < stock_minimo").Count(&bajoMinimo).Error
	return activos, bajoMinimo, err
}
