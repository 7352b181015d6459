package repository

import (
	"context"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FacturaRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error)
	List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error)
	CountPorEstado(ctx context.Context, estado string) (int64, error)

	// CreateTx inserts the header with its detail lines.
	CreateTx(tx *gorm.DB, f *model.Factura) error
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Factura, error)
	UpdateTx(tx *gorm.DB, f *model.Factura) error
	AgregarDetalleTx(tx *gorm.DB, d *model.DetalleFactura) error
	EliminarDetalleTx(tx *gorm.DB, facturaID, detalleID uuid.UUID) (bool, error)
	// SiguienteNumeroTx increments the named counter under a row lock and
	// returns the new value.
	SiguienteNumeroTx(tx *gorm.DB, serie string) (int64, error)
	DB() *gorm.DB
}

type facturaRepo struct{ db *gorm.DB }

func NewFacturaRepository(db *gorm.DB) FacturaRepository { return &facturaRepo{db: db} }

func (r *facturaRepo) DB() *gorm.DB { return r.db }

func (r *facturaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Detalles", func(db *gorm.DB) *gorm.DB { return db.Order("descripcion ASC") }).
		First(&f, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *facturaRepo) List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error) {
	var facturas []model.Factura
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Factura{})
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	desde, hasta, err := filter.Limites()
	if err != nil {
		return nil, 0, err
	}
	if desde != nil {
		q = q.Where("fecha >= ?", *desde)
	}
	if hasta != nil {
		q = q.Where("fecha < ?", *hasta)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err = paginar(q, filter.Page, filter.Limit).
		Preload("Cliente").
		Order("numero DESC").
		Find(&facturas).Error
	return facturas, total, err
}

func (r *facturaRepo) CountPorEstado(ctx context.Context, estado string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Factura{}).Where("estado = ?", estado).Count(&n).Error
	return n, err
}

func (r *facturaRepo) CreateTx(tx *gorm.DB, f *model.Factura) error {
	return tx.Omit("Cliente").Create(f).Error
}

func (r *facturaRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	if err := tx.Clauses(forUpdate).First(&f, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("factura_id = ?", id).Find(&f.Detalles).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *facturaRepo) UpdateTx(tx *gorm.DB, f *model.Factura) error {
	return tx.Omit(clause.Associations).Save(f).Error
}

func (r *facturaRepo) AgregarDetalleTx(tx *gorm.DB, d *model.DetalleFactura) error {
	return tx.Create(d).Error
}

func (r *facturaRepo) EliminarDetalleTx(tx *gorm.DB, facturaID, detalleID uuid.UUID) (bool, error) {
	res := tx.Where("id = ? AND factura_id = ?", detalleID, facturaID).Delete(&model.DetalleFactura{})
	return res.RowsAffected > 0, res.Error
}

func (r *facturaRepo) SiguienteNumeroTx(tx *gorm.DB, serie string) (int64, error) {
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Secuencia{Nombre: serie}).Error
	if err != nil {
		return 0, err
	}
	var s model.Secuencia
	if err := tx.Clauses(forUpdate).Where("nombre = ?", serie).First(&s).Error; err != nil {
		return 0, err
	}
	s.Valor++
	if err := tx.Model(&s).UpdateColumn("valor", s.Valor).Error; err != nil {
		return 0, err
	}
	return s.Valor, nil
}
