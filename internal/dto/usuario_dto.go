package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearUsuarioRequest creates a staff account. The password is generated by
// the server and sent by email.
type CrearUsuarioRequest struct {
	Username   string   `json:"username"    validate:"required,min=3,max=50,alphanum"`
	Email      string   `json:"email"       validate:"required,email"`
	EsStaff    bool     `json:"es_staff"`
	EmpleadoID *string  `json:"empleado_id" validate:"omitempty,uuid"`
	RolIDs     []string `json:"rol_ids"     validate:"omitempty,dive,uuid"`
}

type ActualizarUsuarioRequest struct {
	Email      *string `json:"email"       validate:"omitempty,email"`
	EsStaff    *bool   `json:"es_staff"`
	EmpleadoID *string `json:"empleado_id" validate:"omitempty,uuid"`
}

type AsignarRolesRequest struct {
	RolIDs []string `json:"rol_ids" validate:"dive,uuid"`
}

type UsuarioFilter struct {
	Q      string `form:"q"`
	Activo string `form:"activo" validate:"omitempty,oneof=true false all"`
	Paginacion
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RolResumen struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

type UsuarioResponse struct {
	ID                  string       `json:"id"`
	Username            string       `json:"username"`
	Email               string       `json:"email"`
	EsSuperusuario      bool         `json:"es_superusuario"`
	EsStaff             bool         `json:"es_staff"`
	Activo              bool         `json:"activo"`
	DebeCambiarPassword bool         `json:"debe_cambiar_password"`
	UltimoLogin         *string      `json:"ultimo_login"`
	EmpleadoID          *string      `json:"empleado_id"`
	Roles               []RolResumen `json:"roles"`
}
