package repository

import (
	"context"
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation.
type ProductoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	// ListarTodos applies the filter without pagination, for exports.
	ListarTodos(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, error)
	Update(ctx context.Context, tx *gorm.DB, p *model.Producto) error
	SetActivo(ctx context.Context, id uuid.UUID, activo bool) error
	ExisteCodigo(ctx context.Context, codigo string, excluir uuid.UUID) (bool, error)

	// Used inside transactions; callers must pass the tx instance
	FindByIDTx(tx *gorm.DB, id uuid.UUID, bloquear bool) (*model.Producto, error)
	// AjustarStockTx adds delta to the aggregate stock without running hooks.
	AjustarStockTx(tx *gorm.DB, id uuid.UUID, delta int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Producto) error {
	return conn(ctx, r.db, tx).Omit(clause.Associations).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Preload("Categoria").Preload("Marca").Preload("Proveedor").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("codigo = ? AND activo = ?", codigo, true).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) filtrar(ctx context.Context, filter dto.ProductoFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Producto{})
	q = filtrarActivo(q, filter.Activo)
	if filter.Q != "" {
		pat := like(filter.Q)
		q = q.Where("LOWER(codigo) LIKE ? OR LOWER(nombre) LIKE ?", pat, pat)
	}
	if filter.CategoriaID != "" {
		q = q.Where("categoria_id = ?", filter.CategoriaID)
	}
	if filter.MarcaID != "" {
		q = q.Where("marca_id = ?", filter.MarcaID)
	}
	if filter.ProveedorID != "" {
		q = q.Where("proveedor_id = ?", filter.ProveedorID)
	}
	if filter.BajoMinimo {
		q = q.Where("stock < stock_minimo")
	}
	return q
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.filtrar(ctx, filter)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q, filter.Page, filter.Limit).
		Preload("Categoria").Preload("Marca").Preload("Proveedor").
		Order("nombre ASC").
		Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) ListarTodos(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.filtrar(ctx, filter).
		Preload("Categoria").Preload("Marca").
		Order("nombre ASC").
		Find(&productos).Error
	return productos, err
}

// Update saves the editable columns. Stock only moves through AjustarStockTx.
func (r *productoRepo) Update(ctx context.Context, tx *gorm.DB, p *model.Producto) error {
	return conn(ctx, r.db, tx).Omit(clause.Associations, "Stock").Save(p).Error
}

func (r *productoRepo) SetActivo(ctx context.Context, id uuid.UUID, activo bool) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).UpdateColumn("activo", activo).Error
}

func (r *productoRepo) ExisteCodigo(ctx context.Context, codigo string, excluir uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("codigo = ? AND id <> ?", codigo, excluir).
		Count(&n).Error
	return n > 0, err
}

func (r *productoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID, bloquear bool) (*model.Producto, error) {
	var p model.Producto
	q := tx
	if bloquear {
		q = q.Clauses(forUpdate)
	}
	if err := q.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) AjustarStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta)).Error
}

// ── Historial de precios ─────────────────────────────────────────────────────

type PrecioRepository interface {
	CreateTx(tx *gorm.DB, p *model.PrecioProducto) error
	// FindVigenteTx locks and returns the open-ended price, or ErrNotFound.
	FindVigenteTx(tx *gorm.DB, productoID uuid.UUID) (*model.PrecioProducto, error)
	CerrarTx(tx *gorm.DB, id uuid.UUID, fin time.Time) error
	ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.PrecioProducto, error)
	// Vigentes maps product ids to their open-ended price.
	Vigentes(ctx context.Context, productoIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
}

type precioRepo struct{ db *gorm.DB }

func NewPrecioRepository(db *gorm.DB) PrecioRepository { return &precioRepo{db: db} }

func (r *precioRepo) CreateTx(tx *gorm.DB, p *model.PrecioProducto) error {
	return tx.Create(p).Error
}

func (r *precioRepo) FindVigenteTx(tx *gorm.DB, productoID uuid.UUID) (*model.PrecioProducto, error) {
	var p model.PrecioProducto
	err := tx.Clauses(forUpdate).
		Where("producto_id = ? AND fecha_fin IS NULL", productoID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *precioRepo) CerrarTx(tx *gorm.DB, id uuid.UUID, fin time.Time) error {
	return tx.Model(&model.PrecioProducto{}).Where("id = ?", id).UpdateColumn("fecha_fin", fin).Error
}

func (r *precioRepo) ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.PrecioProducto, error) {
	var precios []model.PrecioProducto
	err := r.db.WithContext(ctx).
		Where("producto_id = ?", productoID).
		Order("fecha_inicio DESC").
		Find(&precios).Error
	return precios, err
}

func (r *precioRepo) Vigentes(ctx context.Context, productoIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	out := make(map[uuid.UUID]decimal.Decimal, len(productoIDs))
	if len(productoIDs) == 0 {
		return out, nil
	}
	var precios []model.PrecioProducto
	err := r.db.WithContext(ctx).
		Where("producto_id IN ? AND fecha_fin IS NULL", productoIDs).
		Find(&precios).Error
	if err != nil {
		return nil, err
	}
	for _, p := range precios {
		out[p.ProductoID] = p.Precio
	}
	return out, nil
}
