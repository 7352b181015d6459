package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalcularPrecioVenta(t *testing.T) {
	cases := []struct {
		name   string
		compra string
		margen string
		iva    int
		want   string
	}{
		{"iva 10", "10000", "30", 10, "14300"},
		{"iva 5", "1000", "20", 5, "1260"},
		{"exento", "2500", "0", 0, "2500"},
		{"redondeo a dos decimales", "10.55", "33.33", 10, "15.47"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalcularPrecioVenta(decimal.RequireFromString(tc.compra), decimal.RequireFromString(tc.margen), tc.iva)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s", got)
		})
	}
}

func TestProducto_BeforeSaveRecomputesFromStoredInputs(t *testing.T) {
	p := &Producto{
		PrecioCompra: decimal.NewFromInt(1000),
		Margen:       decimal.NewFromInt(10),
		IVA:          10,
		PrecioVenta:  decimal.NewFromInt(1),
	}

	assert.NoError(t, p.BeforeSave(nil))
	assert.Equal(t, "1210", p.PrecioVenta.String())
}

func TestFactura_RecalcularTotales(t *testing.T) {
	f := &Factura{Detalles: []DetalleFactura{
		{Cantidad: 2, PrecioUnitario: decimal.NewFromInt(1000), IVAAplicado: 10},
		{Cantidad: 1, PrecioUnitario: decimal.NewFromInt(500), IVAAplicado: 5},
	}}

	f.RecalcularTotales()

	assert.Equal(t, "2500", f.Total.String())
	assert.Equal(t, "2000", f.Detalles[0].Subtotal.String())
	assert.Equal(t, "2000", f.TotalIVA10.String())
	assert.Equal(t, "500", f.TotalIVA5.String())
	assert.Equal(t, "181.82", f.LiquidacionIVA10.String())
	assert.Equal(t, "23.81", f.LiquidacionIVA5.String())
	assert.True(t, f.TotalExenta.IsZero())
}

func TestPuedeTransicionar(t *testing.T) {
	assert.True(t, PuedeTransicionar(PedidoPendiente, PedidoEnviado))
	assert.True(t, PuedeTransicionar(PedidoEnviado, PedidoEntregado))
	assert.True(t, PuedeTransicionar(PedidoEnviado, PedidoCancelado))
	assert.False(t, PuedeTransicionar(PedidoPendiente, PedidoEntregado))
	assert.False(t, PuedeTransicionar(PedidoEntregado, PedidoCancelado))
	assert.False(t, PuedeTransicionar(PedidoCancelado, PedidoPendiente))
}

func TestPersona_BeforeSaveNormaliza(t *testing.T) {
	doc := "  1234567 "
	email := " Juan.Perez@Mail.COM "
	vacio := "   "
	p := &Persona{Nombre: "  juan   carlos ", Apellido: "PÉREZ", Documento: &doc, Email: &email, RUC: &vacio}

	assert.NoError(t, p.BeforeSave(nil))
	assert.Equal(t, "Juan Carlos", p.Nombre)
	assert.Equal(t, "Pérez", p.Apellido)
	assert.Equal(t, "1234567", *p.Documento)
	assert.Equal(t, "juan.perez@mail.com", *p.Email)
	assert.Nil(t, p.RUC)
}
