package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Unidades de medida admitidas.
const (
	UnidadUnidad = "unidad"
	UnidadLitros = "litros"
	UnidadKilos  = "kilos"
	UnidadCajas  = "cajas"
)

// Producto is a catalog item. PrecioVenta is derived from PrecioCompra,
// Margen and IVA and is recomputed on every save. Stock is the aggregate of
// every Inventario row and is only written by inventory movements.
type Producto struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Codigo       string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"index;not null"`
	Descripcion  *string
	CategoriaID  *uuid.UUID      `gorm:"type:uuid;index"`
	MarcaID      *uuid.UUID      `gorm:"type:uuid;index"`
	ProveedorID  *uuid.UUID      `gorm:"type:uuid;index"`
	UnidadMedida string          `gorm:"type:varchar(10);not null"`
	PrecioCompra decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Margen       decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	// IVA rate in percent: 0 (exento), 5 or 10
	IVA              int             `gorm:"column:iva;not null"`
	PrecioVenta      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	StockMinimo      int             `gorm:"not null"`
	Stock            int             `gorm:"not null"`
	FechaVencimiento *time.Time      `gorm:"type:date"`
	Activo           bool            `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
	Marca     *Marca     `gorm:"foreignKey:MarcaID"`
	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
}

var cien = decimal.NewFromInt(100)

// CalcularPrecioVenta returns round(compra × (1+margen/100) × (1+iva/100), 2).
func CalcularPrecioVenta(compra, margen decimal.Decimal, iva int) decimal.Decimal {
	factorMargen := decimal.NewFromInt(1).Add(margen.Div(cien))
	factorIVA := decimal.NewFromInt(1).Add(decimal.NewFromInt(int64(iva)).Div(cien))
	return compra.Mul(factorMargen).Mul(factorIVA).Round(2)
}

// BeforeSave recomputes PrecioVenta from the stored price inputs, whether or
// not they changed.
func (p *Producto) BeforeSave(_ *gorm.DB) error {
	p.PrecioVenta = CalcularPrecioVenta(p.PrecioCompra, p.Margen, p.IVA)
	return nil
}

// BajoMinimo reports whether aggregate stock is under the alert threshold.
func (p *Producto) BajoMinimo() bool {
	return p.Stock < p.StockMinimo
}

// PrecioProducto is one entry of a product's price history. At most one
// entry per product is open-ended (FechaFin nil): the current price.
type PrecioProducto struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductoID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Precio      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	FechaInicio time.Time       `gorm:"not null"`
	FechaFin    *time.Time
	CreatedAt   time.Time
}

func (PrecioProducto) TableName() string { return "precios_producto" }

// Vigente reports whether the entry is the open-ended current price.
func (pp *PrecioProducto) Vigente() bool { return pp.FechaFin == nil }
