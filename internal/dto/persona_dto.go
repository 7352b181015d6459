package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// PersonaRequest carries the identity fields shared by every persona variant.
type PersonaRequest struct {
	Documento *string `json:"documento" validate:"omitempty,max=20"`
	RUC       *string `json:"ruc"       validate:"omitempty,max=20"`
	Nombre    string  `json:"nombre"    validate:"required,min=2,max=100"`
	Apellido  string  `json:"apellido"  validate:"required,min=2,max=100"`
	Telefono  *string `json:"telefono"  validate:"omitempty,max=30"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Direccion *string `json:"direccion"`
	Ciudad    *string `json:"ciudad"`
}

type EmpleadoRequest struct {
	PersonaRequest
	FechaContratacion string          `json:"fecha_contratacion" validate:"required,datetime=2006-01-02"`
	Cargo             string          `json:"cargo"              validate:"required,max=100"`
	Sucursal          *string         `json:"sucursal"`
	Salario           decimal.Decimal `json:"salario"            validate:"min=0"`
	Genero            *string         `json:"genero"             validate:"omitempty,oneof=M F O"`
	FechaNacimiento   *string         `json:"fecha_nacimiento"   validate:"omitempty,datetime=2006-01-02"`
	GrupoSanguineo    *string         `json:"grupo_sanguineo"    validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Barrio            *string         `json:"barrio"`
	Departamento      *string         `json:"departamento"`
	Pais              *string         `json:"pais"`
	CodigoPostal      *string         `json:"codigo_postal"`
}

type ClienteRequest struct {
	PersonaRequest
	CondicionPago string          `json:"condicion_pago" validate:"required,oneof=contado credito"`
	DiasCredito   int             `json:"dias_credito"   validate:"min=0,max=365"`
	LimiteCredito decimal.Decimal `json:"limite_credito" validate:"min=0"`
}

type PersonaFilter struct {
	Q      string `form:"q"`
	Tipo   string `form:"tipo"   validate:"omitempty,oneof=contacto empleado cliente"`
	Activo string `form:"activo" validate:"omitempty,oneof=true false all"`
	Paginacion
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EmpleadoDetalle struct {
	FechaContratacion string          `json:"fecha_contratacion"`
	Cargo             string          `json:"cargo"`
	Sucursal          *string         `json:"sucursal"`
	Salario           decimal.Decimal `json:"salario"`
	Genero            *string         `json:"genero"`
	FechaNacimiento   *string         `json:"fecha_nacimiento"`
	GrupoSanguineo    *string         `json:"grupo_sanguineo"`
	Barrio            *string         `json:"barrio"`
	Departamento      *string         `json:"departamento"`
	Pais              *string         `json:"pais"`
	CodigoPostal      *string         `json:"codigo_postal"`
}

type ClienteDetalle struct {
	CondicionPago string          `json:"condicion_pago"`
	DiasCredito   int             `json:"dias_credito"`
	LimiteCredito decimal.Decimal `json:"limite_credito"`
}

type PersonaResponse struct {
	ID             string           `json:"id"`
	Tipo           string           `json:"tipo"`
	Documento      *string          `json:"documento"`
	RUC            *string          `json:"ruc"`
	Nombre         string           `json:"nombre"`
	Apellido       string           `json:"apellido"`
	NombreCompleto string           `json:"nombre_completo"`
	Telefono       *string          `json:"telefono"`
	Email          *string          `json:"email"`
	Direccion      *string          `json:"direccion"`
	Ciudad         *string          `json:"ciudad"`
	Activo         bool             `json:"activo"`
	Empleado       *EmpleadoDetalle `json:"empleado,omitempty"`
	Cliente        *ClienteDetalle  `json:"cliente,omitempty"`
	CreatedAt      string           `json:"created_at"`
}

// PersonaResumen is embedded in other responses.
type PersonaResumen struct {
	ID             string  `json:"id"`
	NombreCompleto string  `json:"nombre_completo"`
	Documento      *string `json:"documento"`
	RUC            *string `json:"ruc"`
}
