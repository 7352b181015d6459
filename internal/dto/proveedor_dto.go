package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ProveedorRequest struct {
	RazonSocial string  `json:"razon_social" validate:"required,min=2,max=200"`
	RUC         string  `json:"ruc"          validate:"required,min=3,max=20"`
	Telefono    *string `json:"telefono"     validate:"omitempty,max=30"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	Direccion   *string `json:"direccion"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProveedorResponse struct {
	ID          string  `json:"id"`
	RazonSocial string  `json:"razon_social"`
	RUC         string  `json:"ruc"`
	Telefono    *string `json:"telefono"`
	Email       *string `json:"email"`
	Direccion   *string `json:"direccion"`
	Activo      bool    `json:"activo"`
}
