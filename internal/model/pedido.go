package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de un pedido.
const (
	PedidoPendiente = "pendiente"
	PedidoEnviado   = "enviado"
	PedidoEntregado = "entregado"
	PedidoCancelado = "cancelado"
)

// transicionesPedido lists the legal next states of each estado.
var transicionesPedido = map[string][]string{
	PedidoPendiente: {PedidoEnviado, PedidoCancelado},
	PedidoEnviado:   {PedidoEntregado, PedidoCancelado},
}

// PuedeTransicionar reports whether a pedido may move from one estado to another.
func PuedeTransicionar(desde, hacia string) bool {
	for _, e := range transicionesPedido[desde] {
		if e == hacia {
			return true
		}
	}
	return false
}

// Pedido is a customer sales order. FacturaID is set once it has been billed.
type Pedido struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ClienteID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Estado      string          `gorm:"type:varchar(10);not null;index"`
	Observacion *string
	Total       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	FacturaID   *uuid.UUID      `gorm:"type:uuid"`
	CreadoPorID *uuid.UUID      `gorm:"type:uuid"`
	EnviadoAt   *time.Time
	EntregadoAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Cliente  *Persona        `gorm:"foreignKey:ClienteID"`
	Detalles []DetallePedido `gorm:"foreignKey:PedidoID"`
}

// Facturado reports whether an invoice was already generated from the pedido.
func (p *Pedido) Facturado() bool { return p.FacturaID != nil }

// DetallePedido is one line of a pedido.
type DetallePedido struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PedidoID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(14,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (DetallePedido) TableName() string { return "detalles_pedido" }
