package repository

import (
	"context"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PedidoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error)
	CountPorEstado(ctx context.Context, estado string) (int64, error)

	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Pedido, error)
	UpdateTx(tx *gorm.DB, p *model.Pedido) error
	// ReemplazarDetallesTx deletes the current lines and inserts detalles.
	ReemplazarDetallesTx(tx *gorm.DB, pedidoID uuid.UUID, detalles []model.DetallePedido) error
	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error {
	return conn(ctx, r.db, tx).Omit("Cliente", "Detalles.Producto").Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Cliente").Preload("Detalles.Producto").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var pedidos []model.Pedido
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Pedido{})
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q, filter.Page, filter.Limit).
		Preload("Cliente").
		Order("created_at DESC").
		Find(&pedidos).Error
	return pedidos, total, err
}

func (r *pedidoRepo) CountPorEstado(ctx context.Context, estado string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Pedido{}).Where("estado = ?", estado).Count(&n).Error
	return n, err
}

func (r *pedidoRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	if err := tx.Clauses(forUpdate).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Preload("Producto").Where("pedido_id = ?", id).Find(&p.Detalles).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) UpdateTx(tx *gorm.DB, p *model.Pedido) error {
	return tx.Omit(clause.Associations).Save(p).Error
}

func (r *pedidoRepo) ReemplazarDetallesTx(tx *gorm.DB, pedidoID uuid.UUID, detalles []model.DetallePedido) error {
	if err := tx.Where("pedido_id = ?", pedidoID).Delete(&model.DetallePedido{}).Error; err != nil {
		return err
	}
	if len(detalles) == 0 {
		return nil
	}
	for i := range detalles {
		detalles[i].PedidoID = pedidoID
	}
	return tx.Omit("Producto").Create(&detalles).Error
}
