package model

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de movimiento de stock.
const (
	MovimientoEntrada = "entrada"
	MovimientoSalida  = "salida"
)

// Almacen is a warehouse holding stock.
type Almacen struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre      string    `gorm:"uniqueIndex;not null"`
	Direccion   *string
	Descripcion *string
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Almacen) TableName() string { return "almacenes" }

// Inventario is the stock counter of one product in one warehouse.
type Inventario struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventario_producto_almacen"`
	AlmacenID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventario_producto_almacen"`
	Cantidad   int       `gorm:"not null;check:chk_inventarios_cantidad,cantidad >= 0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Almacen  *Almacen  `gorm:"foreignKey:AlmacenID"`
}

func (Inventario) TableName() string { return "inventarios" }

// MovimientoStock records one inbound or outbound quantity event against a
// product in a warehouse. Rows are immutable.
type MovimientoStock struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;index"`
	AlmacenID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo       string    `gorm:"type:varchar(10);not null"` // entrada | salida
	// Cantidad is always positive, Tipo carries the direction
	Cantidad      int `gorm:"not null"`
	StockAnterior int `gorm:"not null"`
	StockNuevo    int `gorm:"not null"`
	Observacion   *string
	UsuarioID     *uuid.UUID `gorm:"type:uuid"`
	OrdenCompraID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Almacen  *Almacen  `gorm:"foreignKey:AlmacenID"`
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }

// Delta returns the signed change this movement applies to stock.
func (m *MovimientoStock) Delta() int {
	if m.Tipo == MovimientoSalida {
		return -m.Cantidad
	}
	return m.Cantidad
}
