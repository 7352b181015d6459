package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type DetalleOrdenRequest struct {
	ProductoID     string          `json:"producto_id"     validate:"required,uuid"`
	Cantidad       int             `json:"cantidad"        validate:"required,gt=0"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
}

type CrearOrdenCompraRequest struct {
	ProveedorID  string                `json:"proveedor_id"  validate:"required,uuid"`
	AlmacenID    string                `json:"almacen_id"    validate:"required,uuid"`
	NroFactura   *string               `json:"nro_factura"   validate:"omitempty,max=30"`
	FechaEntrega *string               `json:"fecha_entrega" validate:"omitempty,datetime=2006-01-02"`
	Observacion  *string               `json:"observacion"`
	Detalles     []DetalleOrdenRequest `json:"detalles"      validate:"required,min=1,dive"`
}

type OrdenCompraFilter struct {
	ProveedorID string `form:"proveedor_id" validate:"omitempty,uuid"`
	Estado      string `form:"estado"       validate:"omitempty,oneof=pendiente recibido cancelado"`
	RangoFechas
	Paginacion
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleOrdenResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type OrdenCompraResponse struct {
	ID            string                 `json:"id"`
	ProveedorID   string                 `json:"proveedor_id"`
	Proveedor     string                 `json:"proveedor"`
	AlmacenID     string                 `json:"almacen_id"`
	Almacen       string                 `json:"almacen"`
	Estado        string                 `json:"estado"`
	NroFactura    *string                `json:"nro_factura"`
	FechaEntrega  *string                `json:"fecha_entrega"`
	Observacion   *string                `json:"observacion"`
	Total         decimal.Decimal        `json:"total"`
	RecibidoPorID *string                `json:"recibido_por_id"`
	RecibidoAt    *string                `json:"recibido_at"`
	CreatedAt     string                 `json:"created_at"`
	Detalles      []DetalleOrdenResponse `json:"detalles"`
}

// RecibirOrdenResponse reports SinCambios=true when the order had already
// been received and nothing was applied.
type RecibirOrdenResponse struct {
	Orden       OrdenCompraResponse `json:"orden"`
	SinCambios  bool                `json:"sin_cambios"`
	Movimientos int                 `json:"movimientos"`
}
