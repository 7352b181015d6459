package model

import (
	"time"

	"github.com/google/uuid"
)

// Proveedor represents a supplier. RUC is the Paraguayan tax id.
type Proveedor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RazonSocial string    `gorm:"not null"`
	RUC         string    `gorm:"column:ruc;uniqueIndex;not null"`
	Telefono    *string
	Email       *string
	Direccion   *string
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Productos []Producto `gorm:"foreignKey:ProveedorID"`
}

func (Proveedor) TableName() string { return "proveedores" }
