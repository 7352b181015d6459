package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type DetalleFacturaRequest struct {
	ProductoID     string           `json:"producto_id"     validate:"required,uuid"`
	Cantidad       int              `json:"cantidad"        validate:"required,gt=0"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario" validate:"omitempty,min=0"`
}

type CrearFacturaRequest struct {
	ClienteID      string                  `json:"cliente_id"      validate:"required,uuid"`
	CondicionVenta string                  `json:"condicion_venta" validate:"required,oneof=contado credito"`
	Observacion    *string                 `json:"observacion"`
	Detalles       []DetalleFacturaRequest `json:"detalles"        validate:"required,min=1,dive"`
}

type GenerarFacturaRequest struct {
	PedidoID       string `json:"pedido_id"       validate:"required,uuid"`
	CondicionVenta string `json:"condicion_venta" validate:"omitempty,oneof=contado credito"`
}

// CobrarFacturaRequest marks the invoice paid. RegistrarEnCaja books the
// amount into the open cash session.
type CobrarFacturaRequest struct {
	RegistrarEnCaja bool `json:"registrar_en_caja"`
}

type FacturaFilter struct {
	ClienteID string `form:"cliente_id" validate:"omitempty,uuid"`
	Estado    string `form:"estado"     validate:"omitempty,oneof=pendiente pagada anulada"`
	RangoFechas
	Paginacion
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleFacturaResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	Descripcion    string          `json:"descripcion"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	IVAAplicado    int             `json:"iva_aplicado"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type FacturaResponse struct {
	ID               string                   `json:"id"`
	Numero           string                   `json:"numero"`
	Timbrado         string                   `json:"timbrado"`
	Cliente          PersonaResumen           `json:"cliente"`
	PedidoID         *string                  `json:"pedido_id"`
	Fecha            string                   `json:"fecha"`
	CondicionVenta   string                   `json:"condicion_venta"`
	Estado           string                   `json:"estado"`
	Observacion      *string                  `json:"observacion"`
	Total            decimal.Decimal          `json:"total"`
	TotalExenta      decimal.Decimal          `json:"total_exenta"`
	TotalIVA5        decimal.Decimal          `json:"total_iva5"`
	TotalIVA10       decimal.Decimal          `json:"total_iva10"`
	LiquidacionIVA5  decimal.Decimal          `json:"liquidacion_iva5"`
	LiquidacionIVA10 decimal.Decimal          `json:"liquidacion_iva10"`
	Detalles         []DetalleFacturaResponse `json:"detalles"`
}

type EnviarFacturaResponse struct {
	Encolado     bool   `json:"encolado"`
	Destinatario string `json:"destinatario"`
}
