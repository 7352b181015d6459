package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de sesión de caja.
const (
	CajaAbierta = "abierta"
	CajaCerrada = "cerrada"
)

// Tipos de movimiento de caja.
const (
	CajaIngreso      = "ingreso"
	CajaEgreso       = "egreso"
	CajaCobroFactura = "cobro_factura"
)

// SesionCaja represents the lifecycle of a cash register session.
// Only one session may be abierta at a time.
type SesionCaja struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UsuarioAperturaID uuid.UUID       `gorm:"type:uuid;not null"`
	UsuarioCierreID   *uuid.UUID      `gorm:"type:uuid"`
	MontoInicial      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	// MontoEsperado is computed on close: MontoInicial + SUM(movimientos)
	MontoEsperado  *decimal.Decimal `gorm:"type:decimal(14,2)"`
	MontoDeclarado *decimal.Decimal `gorm:"type:decimal(14,2)"`
	Diferencia     *decimal.Decimal `gorm:"type:decimal(14,2)"`
	Estado         string           `gorm:"type:varchar(10);not null;index"`
	// Clasificacion: "normal" | "advertencia" | "critico"
	Clasificacion *string `gorm:"type:varchar(12)"`
	Observaciones *string
	AbiertaAt     time.Time `gorm:"not null"`
	CerradaAt     *time.Time

	Movimientos []MovimientoCaja `gorm:"foreignKey:SesionCajaID"`
}

func (SesionCaja) TableName() string { return "sesiones_caja" }

// MovimientoCaja is an immutable signed entry of a cash session.
// Egresos are stored negated.
type MovimientoCaja struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SesionCajaID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Tipo         string          `gorm:"type:varchar(15);not null"`
	Monto        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Descripcion  string          `gorm:"not null"`
	FacturaID    *uuid.UUID      `gorm:"type:uuid"`
	UsuarioID    *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt    time.Time
}

func (MovimientoCaja) TableName() string { return "movimientos_caja" }
