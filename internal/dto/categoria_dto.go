package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CategoriaRequest struct {
	Nombre      string  `json:"nombre"      validate:"required,min=2,max=100"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=500"`
}

type MarcaRequest struct {
	Nombre      string  `json:"nombre"      validate:"required,min=1,max=100"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=500"`
}

// CatalogoFilter is shared by categorias, marcas, proveedores and almacenes.
type CatalogoFilter struct {
	Q      string `form:"q"`
	Activo string `form:"activo" validate:"omitempty,oneof=true false all"`
	Paginacion
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CategoriaResponse struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion"`
	Activo      bool    `json:"activo"`
}

type MarcaResponse struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion"`
	Activo      bool    `json:"activo"`
}
