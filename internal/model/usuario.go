package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario stores system accounts. Access is granted through Roles, or
// bypassed entirely for superusers and staff.
type Usuario struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username       string    `gorm:"uniqueIndex;not null"`
	Email          string    `gorm:"uniqueIndex;not null"`
	PasswordHash   string    `gorm:"not null"`
	EsSuperusuario bool      `gorm:"not null"`
	EsStaff        bool      `gorm:"not null"`
	// No gorm default: new staff accounts are inserted with Activo=false.
	Activo              bool `gorm:"not null"`
	DebeCambiarPassword bool `gorm:"not null"`
	UltimoLogin         *time.Time
	EmpleadoID          *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Empleado *Persona `gorm:"foreignKey:EmpleadoID"`
	Roles    []Rol    `gorm:"many2many:usuario_roles;"`
}

// Rol is a named bundle of permisos assignable to users.
type Rol struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre      string    `gorm:"uniqueIndex;not null"`
	Descripcion *string
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Permisos []Permiso `gorm:"many2many:rol_permisos;"`
}

func (Rol) TableName() string { return "roles" }

// Permiso grants access to one gated operation. Codigo has the form
// "modulo.accion", e.g. "personas.ver".
type Permiso struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Codigo      string    `gorm:"uniqueIndex;not null"`
	Descripcion string    `gorm:"not null"`
	Activo      bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
