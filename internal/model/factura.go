package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de una factura.
const (
	FacturaPendiente = "pendiente"
	FacturaPagada    = "pagada"
	FacturaAnulada   = "anulada"
)

// Factura is an invoice. Totals are always derived from Detalles.
type Factura struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Numero         string     `gorm:"type:varchar(20);uniqueIndex;not null"` // 001-001-0000001
	Timbrado       string     `gorm:"type:varchar(20);not null"`
	ClienteID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	PedidoID       *uuid.UUID `gorm:"type:uuid;index"`
	Fecha          time.Time  `gorm:"not null;index"`
	CondicionVenta string     `gorm:"type:varchar(10);not null"` // contado | credito
	Estado         string     `gorm:"type:varchar(10);not null;index"`
	Observacion    *string
	Total          decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TotalExenta    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TotalIVA5      decimal.Decimal `gorm:"column:total_iva5;type:decimal(14,2);not null"`
	TotalIVA10     decimal.Decimal `gorm:"column:total_iva10;type:decimal(14,2);not null"`
	// Liquidacion = IVA included in the gravada totals (5%: /21, 10%: /11)
	LiquidacionIVA5  decimal.Decimal `gorm:"column:liquidacion_iva5;type:decimal(14,2);not null"`
	LiquidacionIVA10 decimal.Decimal `gorm:"column:liquidacion_iva10;type:decimal(14,2);not null"`
	CreadoPorID      *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Cliente  *Persona         `gorm:"foreignKey:ClienteID"`
	Detalles []DetalleFactura `gorm:"foreignKey:FacturaID"`
}

// DetalleFactura is one invoice line. Descripcion snapshots the product name.
type DetalleFactura struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FacturaID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Descripcion    string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	IVAAplicado    int             `gorm:"column:iva_aplicado;not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
}

func (DetalleFactura) TableName() string { return "detalles_factura" }

var (
	divisorIVA5  = decimal.NewFromInt(21)
	divisorIVA10 = decimal.NewFromInt(11)
)

// RecalcularTotales recomputes every line subtotal and the header totals
// from Detalles. Prices are IVA-inclusive.
func (f *Factura) RecalcularTotales() {
	f.Total = decimal.Zero
	f.TotalExenta = decimal.Zero
	f.TotalIVA5 = decimal.Zero
	f.TotalIVA10 = decimal.Zero
	for i := range f.Detalles {
		d := &f.Detalles[i]
		d.Subtotal = d.PrecioUnitario.Mul(decimal.NewFromInt(int64(d.Cantidad))).Round(2)
		f.Total = f.Total.Add(d.Subtotal)
		switch d.IVAAplicado {
		case 5:
			f.TotalIVA5 = f.TotalIVA5.Add(d.Subtotal)
		case 10:
			f.TotalIVA10 = f.TotalIVA10.Add(d.Subtotal)
		default:
			f.TotalExenta = f.TotalExenta.Add(d.Subtotal)
		}
	}
	f.LiquidacionIVA5 = f.TotalIVA5.Div(divisorIVA5).Round(2)
	f.LiquidacionIVA10 = f.TotalIVA10.Div(divisorIVA10).Round(2)
}
