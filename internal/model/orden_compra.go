package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	OrdenPendiente = "pendiente"
	OrdenRecibido  = "recibido"
	OrdenCancelado = "cancelado"
)

// OrdenCompra is a purchase order to a supplier. Receiving it books one
// entrada per line into AlmacenID.
type OrdenCompra struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProveedorID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	AlmacenID     uuid.UUID       `gorm:"type:uuid;not null"`
	Estado        string          `gorm:"type:varchar(10);not null;index"`
	NroFactura    *string         `gorm:"type:varchar(30)"`
	FechaEntrega  *time.Time      `gorm:"type:date"`
	Observacion   *string
	Total         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreadoPorID   *uuid.UUID      `gorm:"type:uuid"`
	RecibidoPorID *uuid.UUID      `gorm:"type:uuid"`
	RecibidoAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Proveedor *Proveedor           `gorm:"foreignKey:ProveedorID"`
	Almacen   *Almacen             `gorm:"foreignKey:AlmacenID"`
	Detalles  []DetalleOrdenCompra `gorm:"foreignKey:OrdenCompraID"`
}

func (OrdenCompra) TableName() string { return "ordenes_compra" }

// DetalleOrdenCompra is one line of a purchase order.
type DetalleOrdenCompra struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrdenCompraID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(14,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (DetalleOrdenCompra) TableName() string { return "detalles_orden_compra" }
