package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// Persona tipos. Exactly one variant detail row exists for empleado/cliente.
const (
	TipoContacto = "contacto"
	TipoEmpleado = "empleado"
	TipoCliente  = "cliente"
)

// Persona is the shared identity record. Tipo tags which variant (if any)
// hangs off it; Empleado and Cliente are 1:1 detail rows keyed by PersonaID.
type Persona struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Tipo      string    `gorm:"type:varchar(20);not null;index"`
	Documento *string   `gorm:"type:varchar(20);uniqueIndex"` // cédula
	RUC       *string   `gorm:"column:ruc;type:varchar(20);uniqueIndex"`
	Nombre    string    `gorm:"not null"`
	Apellido  string    `gorm:"not null"`
	Telefono  *string
	Email     *string `gorm:"uniqueIndex"`
	Direccion *string
	Ciudad    *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Empleado *Empleado `gorm:"foreignKey:PersonaID"`
	Cliente  *Cliente  `gorm:"foreignKey:PersonaID"`
}

// NombreCompleto returns "Nombre Apellido".
func (p *Persona) NombreCompleto() string {
	return strings.TrimSpace(p.Nombre + " " + p.Apellido)
}

// BeforeSave normalizes names, document ids and email on every write.
func (p *Persona) BeforeSave(_ *gorm.DB) error {
	p.Nombre = normalizarNombre(p.Nombre)
	p.Apellido = normalizarNombre(p.Apellido)
	p.Documento = recortarVacio(p.Documento)
	p.RUC = recortarVacio(p.RUC)
	if p.Email = recortarVacio(p.Email); p.Email != nil {
		e := strings.ToLower(*p.Email)
		p.Email = &e
	}
	return nil
}

func normalizarNombre(s string) string {
	// cases.Caser is stateful, one per call
	return cases.Title(language.Spanish).String(strings.Join(strings.Fields(s), " "))
}

func recortarVacio(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// Empleado carries the employment data of a Persona with Tipo=empleado.
type Empleado struct {
	PersonaID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FechaContratacion time.Time       `gorm:"type:date;not null"`
	Cargo             string          `gorm:"not null"`
	Sucursal          *string
	Salario           decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Genero            *string         `gorm:"type:varchar(1)"` // M | F | O
	FechaNacimiento   *time.Time      `gorm:"type:date"`
	GrupoSanguineo    *string         `gorm:"type:varchar(3)"`
	Barrio            *string
	Departamento      *string
	Pais              *string
	CodigoPostal      *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Condiciones de pago de un cliente.
const (
	CondicionContado = "contado"
	CondicionCredito = "credito"
)

// Cliente carries the credit terms of a Persona with Tipo=cliente.
type Cliente struct {
	PersonaID     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CondicionPago string          `gorm:"type:varchar(10);not null"`
	DiasCredito   int             `gorm:"not null"`
	LimiteCredito decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
