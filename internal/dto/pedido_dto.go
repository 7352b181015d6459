package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// DetallePedidoRequest defaults PrecioUnitario to the product's precio_venta.
type DetallePedidoRequest struct {
	ProductoID     string           `json:"producto_id"     validate:"required,uuid"`
	Cantidad       int              `json:"cantidad"        validate:"required,gt=0"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario" validate:"omitempty,min=0"`
}

type CrearPedidoRequest struct {
	ClienteID   string                 `json:"cliente_id"  validate:"required,uuid"`
	Observacion *string                `json:"observacion"`
	Detalles    []DetallePedidoRequest `json:"detalles"    validate:"required,min=1,dive"`
}

// ActualizarPedidoRequest replaces the lines when Detalles is present.
type ActualizarPedidoRequest struct {
	Observacion *string                `json:"observacion"`
	Detalles    []DetallePedidoRequest `json:"detalles"    validate:"omitempty,min=1,dive"`
}

type CambiarEstadoPedidoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=enviado entregado cancelado"`
}

type PedidoFilter struct {
	ClienteID string `form:"cliente_id" validate:"omitempty,uuid"`
	Estado    string `form:"estado"     validate:"omitempty,oneof=pendiente enviado entregado cancelado"`
	Paginacion
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetallePedidoResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type PedidoResponse struct {
	ID          string                  `json:"id"`
	Cliente     PersonaResumen          `json:"cliente"`
	Estado      string                  `json:"estado"`
	Observacion *string                 `json:"observacion"`
	Total       decimal.Decimal         `json:"total"`
	FacturaID   *string                 `json:"factura_id"`
	EnviadoAt   *string                 `json:"enviado_at"`
	EntregadoAt *string                 `json:"entregado_at"`
	CreatedAt   string                  `json:"created_at"`
	Detalles    []DetallePedidoResponse `json:"detalles"`
}
