package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	MontoInicial decimal.Decimal `json:"monto_inicial" validate:"min=0"`
}

type MovimientoCajaRequest struct {
	Tipo        string          `json:"tipo"        validate:"required,oneof=ingreso egreso"`
	Monto       decimal.Decimal `json:"monto"       validate:"gt=0"`
	Descripcion string          `json:"descripcion" validate:"required,min=3,max=255"`
}

// CerrarCajaRequest declares the counted amount. Observaciones is mandatory
// when the difference is classified as critico.
type CerrarCajaRequest struct {
	MontoDeclarado decimal.Decimal `json:"monto_declarado" validate:"min=0"`
	Observaciones  *string         `json:"observaciones"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimientoCajaResponse struct {
	ID          string          `json:"id"`
	Tipo        string          `json:"tipo"`
	Monto       decimal.Decimal `json:"monto"`
	Descripcion string          `json:"descripcion"`
	FacturaID   *string         `json:"factura_id"`
	UsuarioID   *string         `json:"usuario_id"`
	CreatedAt   string          `json:"created_at"`
}

type SesionCajaResponse struct {
	ID                string                   `json:"id"`
	UsuarioAperturaID string                   `json:"usuario_apertura_id"`
	UsuarioCierreID   *string                  `json:"usuario_cierre_id"`
	Estado            string                   `json:"estado"`
	MontoInicial      decimal.Decimal          `json:"monto_inicial"`
	SaldoActual       decimal.Decimal          `json:"saldo_actual"`
	MontoEsperado     *decimal.Decimal         `json:"monto_esperado"`
	MontoDeclarado    *decimal.Decimal         `json:"monto_declarado"`
	Diferencia        *decimal.Decimal         `json:"diferencia"`
	Clasificacion     *string                  `json:"clasificacion"` // normal | advertencia | critico
	Observaciones     *string                  `json:"observaciones"`
	AbiertaAt         string                   `json:"abierta_at"`
	CerradaAt         *string                  `json:"cerrada_at"`
	Movimientos       []MovimientoCajaResponse `json:"movimientos,omitempty"`
}
