package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AlmacenRequest struct {
	Nombre      string  `json:"nombre"      validate:"required,min=2,max=100"`
	Direccion   *string `json:"direccion"`
	Descripcion *string `json:"descripcion"`
}

// MovimientoRequest registers a manual stock adjustment. Cantidad is always
// positive; Tipo gives the direction.
type MovimientoRequest struct {
	ProductoID  string  `json:"producto_id" validate:"required,uuid"`
	AlmacenID   string  `json:"almacen_id"  validate:"required,uuid"`
	Tipo        string  `json:"tipo"        validate:"required,oneof=entrada salida"`
	Cantidad    int     `json:"cantidad"    validate:"required,gt=0"`
	Observacion *string `json:"observacion" validate:"omitempty,max=500"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type MovimientoFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	AlmacenID  string `form:"almacen_id"  validate:"omitempty,uuid"`
	Tipo       string `form:"tipo"        validate:"omitempty,oneof=entrada salida"`
	RangoFechas
	Paginacion
}

type InventarioFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	AlmacenID  string `form:"almacen_id"  validate:"omitempty,uuid"`
	Paginacion
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AlmacenResponse struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Direccion   *string `json:"direccion"`
	Descripcion *string `json:"descripcion"`
	Activo      bool    `json:"activo"`
}

type MovimientoResponse struct {
	ID            string  `json:"id"`
	ProductoID    string  `json:"producto_id"`
	Producto      string  `json:"producto"`
	AlmacenID     string  `json:"almacen_id"`
	Almacen       string  `json:"almacen"`
	Tipo          string  `json:"tipo"`
	Cantidad      int     `json:"cantidad"`
	StockAnterior int     `json:"stock_anterior"`
	StockNuevo    int     `json:"stock_nuevo"`
	Observacion   *string `json:"observacion"`
	UsuarioID     *string `json:"usuario_id"`
	OrdenCompraID *string `json:"orden_compra_id"`
	CreatedAt     string  `json:"created_at"`
}

type InventarioResponse struct {
	ID         string `json:"id"`
	ProductoID string `json:"producto_id"`
	Codigo     string `json:"codigo"`
	Producto   string `json:"producto"`
	AlmacenID  string `json:"almacen_id"`
	Almacen    string `json:"almacen"`
	Cantidad   int    `json:"cantidad"`
}

type AlertaStockResponse struct {
	ProductoID  string `json:"producto_id"`
	Codigo      string `json:"codigo"`
	Nombre      string `json:"nombre"`
	Stock       int    `json:"stock"`
	StockMinimo int    `json:"stock_minimo"`
	Faltante    int    `json:"faltante"`
}
