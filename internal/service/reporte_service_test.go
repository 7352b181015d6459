package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/infra"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporteService_InventarioValorizado(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	central := e.almacen(t, "Central")
	sucursal := e.almacen(t, "Sucursal")
	cafe := e.producto(t, "CAFE", "7000", "20", 10)
	te := e.producto(t, "TE", "2500", "20", 10)
	e.entrada(t, uuid.MustParse(cafe.ID), central, 10)
	e.entrada(t, uuid.MustParse(te.ID), sucursal, 4)

	todo, err := e.reporteSvc.InventarioValorizado(ctx, dto.ReporteFilter{})
	require.NoError(t, err)
	require.Len(t, todo.Items, 2)
	assert.Equal(t, "80000", todo.TotalValor.String())

	solo, err := e.reporteSvc.InventarioValorizado(ctx, dto.ReporteFilter{AlmacenID: sucursal.String()})
	require.NoError(t, err)
	require.Len(t, solo.Items, 1)
	assert.Equal(t, "TE", solo.Items[0].Codigo)
	assert.Equal(t, "10000", solo.Items[0].Valor.String())

	tabla := TablaInventario(solo)
	assert.Equal(t, "Inventario", tabla.Hoja)
	assert.Len(t, tabla.Filas, 1)
}

func TestReporteService_Dashboard(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	sc := nuevaVenta(t, e)
	sc.pedido(t, e)
	f := sc.factura(t, e)

	d, err := e.reporteSvc.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, d.ProductosActivos)
	assert.EqualValues(t, 2, d.BajoMinimo)
	assert.EqualValues(t, 1, d.PedidosPendientes)
	assert.EqualValues(t, 1, d.FacturasPendientes)
	assert.True(t, d.VentasHoy.Equal(f.Total))
	assert.False(t, d.CajaAbierta)

	abrirCaja(t, e, uuid.New(), "0")
	d, err = e.reporteSvc.Dashboard(ctx)
	require.NoError(t, err)
	assert.True(t, d.CajaAbierta)
}

func TestReporteService_VentasExcluyeAnuladas(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	sc := nuevaVenta(t, e)
	sc.factura(t, e)
	anulada := sc.factura(t, e)
	_, err := e.facturaSvc.AlternarAnulacion(ctx, uuid.MustParse(anulada.ID))
	require.NoError(t, err)

	v, err := e.reporteSvc.Ventas(ctx, dto.ReporteFilter{})
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.EqualValues(t, 1, v.Items[0].Facturas)
	assert.Equal(t, "13100", v.Total.String())

	_, err = e.reporteSvc.Ventas(ctx, dto.ReporteFilter{RangoFechas: dto.RangoFechas{Desde: "ayer"}})
	requireCampo(t, err, "desde")
}

func TestReporteService_ExportarProductos(t *testing.T) {
	e := nuevoEntorno(t)
	e.producto(t, "MIEL", "20000", "10", 10)

	tabla, err := e.reporteSvc.ExportarProductos(context.Background(), dto.ProductoFilter{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Código", "Nombre", "Categoría", "Marca", "Precio vigente", "IVA %", "Stock mínimo"}, tabla.Columnas)
	require.Len(t, tabla.Filas, 1)
	assert.Equal(t, "MIEL", tabla.Filas[0][0])

	var buf bytes.Buffer
	require.NoError(t, infra.EscribirCSV(&buf, tabla))
	assert.Contains(t, buf.String(), "MIEL,Producto MIEL,,,24200,10,5")
}

func TestReporteService_ExportarPersonas(t *testing.T) {
	e := nuevoEntorno(t)
	e.cliente(t, "7777777")

	tabla, err := e.reporteSvc.ExportarPersonas(context.Background(), dto.PersonaFilter{Tipo: "cliente"})
	require.NoError(t, err)
	require.Len(t, tabla.Filas, 1)
	assert.Equal(t, "Personas", tabla.Hoja)
}
