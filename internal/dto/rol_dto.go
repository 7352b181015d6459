package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RolRequest struct {
	Nombre      string   `json:"nombre"      validate:"required,min=2,max=100"`
	Descripcion *string  `json:"descripcion"`
	PermisoIDs  []string `json:"permiso_ids" validate:"omitempty,dive,uuid"`
}

type AsignarPermisosRequest struct {
	PermisoIDs []string `json:"permiso_ids" validate:"dive,uuid"`
}

type PermisoRequest struct {
	Codigo      string `json:"codigo"      validate:"required,max=100,permiso"`
	Descripcion string `json:"descripcion" validate:"required,max=255"`
}

type RolFilter struct {
	Q      string `form:"q"`
	Activo string `form:"activo" validate:"omitempty,oneof=true false all"`
	Paginacion
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PermisoResponse struct {
	ID          string `json:"id"`
	Codigo      string `json:"codigo"`
	Descripcion string `json:"descripcion"`
	Activo      bool   `json:"activo"`
}

type RolResponse struct {
	ID          string            `json:"id"`
	Nombre      string            `json:"nombre"`
	Descripcion *string           `json:"descripcion"`
	Activo      bool              `json:"activo"`
	Permisos    []PermisoResponse `json:"permisos"`
}
