package repository

import (
	"context"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CajaRepository interface {
	CreateSesion(ctx context.Context, tx *gorm.DB, s *model.SesionCaja) error
	// FindAbierta returns the open session, locking it when tx is given.
	FindAbierta(ctx context.Context, tx *gorm.DB) (*model.SesionCaja, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error)
	List(ctx context.Context, p dto.Paginacion) ([]model.SesionCaja, int64, error)
	UpdateSesionTx(tx *gorm.DB, s *model.SesionCaja) error

	// Movimientos are immutable: no Update/Delete.
	CreateMovimiento(ctx context.Context, tx *gorm.DB, m *model.MovimientoCaja) error
	SumaMovimientos(ctx context.Context, tx *gorm.DB, sesionID uuid.UUID) (decimal.Decimal, error)
	DB() *gorm.DB
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) DB() *gorm.DB { return r.db }

func (r *cajaRepo) CreateSesion(ctx context.Context, tx *gorm.DB, s *model.SesionCaja) error {
	return conn(ctx, r.db, tx).Omit(clause.Associations).Create(s).Error
}

func (r *cajaRepo) FindAbierta(ctx context.Context, tx *gorm.DB) (*model.SesionCaja, error) {
	var s model.SesionCaja
	q := conn(ctx, r.db, tx)
	if tx != nil {
		q = q.Clauses(forUpdate)
	}
	if err := q.Where("estado = ?", model.CajaAbierta).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cajaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).
		Preload("Movimientos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cajaRepo) List(ctx context.Context, p dto.Paginacion) ([]model.SesionCaja, int64, error) {
	var sesiones []model.SesionCaja
	var total int64
	q := r.db.WithContext(ctx).Model(&model.SesionCaja{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q, p.Page, p.Limit).Order("abierta_at DESC").Find(&sesiones).Error
	return sesiones, total, err
}

func (r *cajaRepo) UpdateSesionTx(tx *gorm.DB, s *model.SesionCaja) error {
	return tx.Omit(clause.Associations).Save(s).Error
}

func (r *cajaRepo) CreateMovimiento(ctx context.Context, tx *gorm.DB, m *model.MovimientoCaja) error {
	return conn(ctx, r.db, tx).Create(m).Error
}

func (r *cajaRepo) SumaMovimientos(ctx context.Context, tx *gorm.DB, sesionID uuid.UUID) (decimal.Decimal, error) {
	var suma decimal.Decimal
	err := conn(ctx, r.db, tx).Model(&model.MovimientoCaja{}).
		Select("COALESCE(SUM(monto), 0)").
		Where("sesion_caja_id = ?", sesionID).
		Row().Scan(&suma)
	return suma, err
}
