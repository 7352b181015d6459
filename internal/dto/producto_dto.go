package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearProductoRequest carries the pricing inputs. precio_venta is always
// derived and never accepted.
type CrearProductoRequest struct {
	Codigo           string          `json:"codigo"            validate:"required,min=1,max=50"`
	Nombre           string          `json:"nombre"            validate:"required,min=2,max=200"`
	Descripcion      *string         `json:"descripcion"`
	CategoriaID      *string         `json:"categoria_id"      validate:"omitempty,uuid"`
	MarcaID          *string         `json:"marca_id"          validate:"omitempty,uuid"`
	ProveedorID      *string         `json:"proveedor_id"      validate:"omitempty,uuid"`
	UnidadMedida     string          `json:"unidad_medida"     validate:"required,oneof=unidad litros kilos cajas"`
	PrecioCompra     decimal.Decimal `json:"precio_compra"     validate:"min=0"`
	Margen           decimal.Decimal `json:"margen"            validate:"min=0,max=1000"`
	IVA              int             `json:"iva"               validate:"oneof=0 5 10"`
	StockMinimo      int             `json:"stock_minimo"      validate:"min=0"`
	FechaVencimiento *string         `json:"fecha_vencimiento" validate:"omitempty,datetime=2006-01-02"`
}

type ActualizarProductoRequest struct {
	Nombre           *string          `json:"nombre"            validate:"omitempty,min=2,max=200"`
	Descripcion      *string          `json:"descripcion"`
	CategoriaID      *string          `json:"categoria_id"      validate:"omitempty,uuid"`
	MarcaID          *string          `json:"marca_id"          validate:"omitempty,uuid"`
	ProveedorID      *string          `json:"proveedor_id"      validate:"omitempty,uuid"`
	UnidadMedida     *string          `json:"unidad_medida"     validate:"omitempty,oneof=unidad litros kilos cajas"`
	PrecioCompra     *decimal.Decimal `json:"precio_compra"     validate:"omitempty,min=0"`
	Margen           *decimal.Decimal `json:"margen"            validate:"omitempty,min=0,max=1000"`
	IVA              *int             `json:"iva"               validate:"omitempty,oneof=0 5 10"`
	StockMinimo      *int             `json:"stock_minimo"      validate:"omitempty,min=0"`
	FechaVencimiento *string          `json:"fecha_vencimiento" validate:"omitempty,datetime=2006-01-02"`
}

// CrearPrecioRequest registers a manual price history entry.
type CrearPrecioRequest struct {
	Precio        decimal.Decimal `json:"precio"         validate:"gt=0"`
	FechaInicio   time.Time       `json:"fecha_inicio"   validate:"required"`
	FechaFin      *time.Time      `json:"fecha_fin"`
	CerrarVigente bool            `json:"cerrar_vigente"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Q           string `form:"q"`
	CategoriaID string `form:"categoria_id" validate:"omitempty,uuid"`
	MarcaID     string `form:"marca_id"     validate:"omitempty,uuid"`
	ProveedorID string `form:"proveedor_id" validate:"omitempty,uuid"`
	Activo      string `form:"activo"       validate:"omitempty,oneof=true false all"`
	BajoMinimo  bool   `form:"bajo_minimo"`
	Paginacion
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID               string          `json:"id"`
	Codigo           string          `json:"codigo"`
	Nombre           string          `json:"nombre"`
	Descripcion      *string         `json:"descripcion"`
	CategoriaID      *string         `json:"categoria_id"`
	Categoria        *string         `json:"categoria"`
	MarcaID          *string         `json:"marca_id"`
	Marca            *string         `json:"marca"`
	ProveedorID      *string         `json:"proveedor_id"`
	Proveedor        *string         `json:"proveedor"`
	UnidadMedida     string          `json:"unidad_medida"`
	PrecioCompra     decimal.Decimal `json:"precio_compra"`
	Margen           decimal.Decimal `json:"margen"`
	IVA              int             `json:"iva"`
	PrecioVenta      decimal.Decimal `json:"precio_venta"`
	StockMinimo      int             `json:"stock_minimo"`
	Stock            int             `json:"stock"`
	BajoMinimo       bool            `json:"bajo_minimo"`
	FechaVencimiento *string         `json:"fecha_vencimiento"`
	Activo           bool            `json:"activo"`
}

// ConsultaPrecioResponse is returned by the price lookup by code.
type ConsultaPrecioResponse struct {
	Codigo      string          `json:"codigo"`
	Nombre      string          `json:"nombre"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	IVA         int             `json:"iva"`
	Stock       int             `json:"stock"`
}

type PrecioResponse struct {
	ID          string          `json:"id"`
	ProductoID  string          `json:"producto_id"`
	Precio      decimal.Decimal `json:"precio"`
	FechaInicio string          `json:"fecha_inicio"`
	FechaFin    *string         `json:"fecha_fin"`
	Vigente     bool            `json:"vigente"`
}
