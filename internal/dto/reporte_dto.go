package dto

import "github.com/shopspring/decimal"

// Export formats accepted by ?formato=.
const (
	FormatoJSON = "json"
	FormatoXLSX = "xlsx"
	FormatoCSV  = "csv"
)

type ReporteFilter struct {
	AlmacenID string `form:"almacen_id" validate:"omitempty,uuid"`
	Formato   string `form:"formato"    validate:"omitempty,oneof=json xlsx csv"`
	RangoFechas
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InventarioValorizadoItem struct {
	AlmacenID    string          `json:"almacen_id"`
	Almacen      string          `json:"almacen"`
	ProductoID   string          `json:"producto_id"`
	Codigo       string          `json:"codigo"`
	Producto     string          `json:"producto"`
	Cantidad     int             `json:"cantidad"`
	PrecioCompra decimal.Decimal `json:"precio_compra"`
	Valor        decimal.Decimal `json:"valor"`
}

type InventarioValorizadoResponse struct {
	Items      []InventarioValorizadoItem `json:"items"`
	TotalValor decimal.Decimal            `json:"total_valor"`
}

type CompraProveedorItem struct {
	ProveedorID string          `json:"proveedor_id"`
	Proveedor   string          `json:"proveedor"`
	Ordenes     int64           `json:"ordenes"`
	Total       decimal.Decimal `json:"total"`
}

type ComprasResponse struct {
	Desde string                `json:"desde"`
	Hasta string                `json:"hasta"`
	Items []CompraProveedorItem `json:"items"`
	Total decimal.Decimal       `json:"total"`
}

type VentaDiaItem struct {
	Fecha    string          `json:"fecha"`
	Facturas int64           `json:"facturas"`
	Total    decimal.Decimal `json:"total"`
}

type VentasResponse struct {
	Desde string          `json:"desde"`
	Hasta string          `json:"hasta"`
	Items []VentaDiaItem  `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type DashboardResponse struct {
	ProductosActivos   int64           `json:"productos_activos"`
	BajoMinimo         int64           `json:"bajo_minimo"`
	PedidosPendientes  int64           `json:"pedidos_pendientes"`
	FacturasPendientes int64           `json:"facturas_pendientes"`
	VentasHoy          decimal.Decimal `json:"ventas_hoy"`
	CajaAbierta        bool            `json:"caja_abierta"`
}
