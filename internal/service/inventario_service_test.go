package service

import (
	"context"
	"testing"

	"github.com/DerliscrDev/bodega-eirete/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventarioService_EntradaYSalida(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	almacen := e.almacen(t, "Deposito central")
	p := e.producto(t, "AZUCAR-1K", "6000", "25", 10)
	id := uuid.MustParse(p.ID)

	e.entrada(t, id, almacen, 10)
	mov, err := e.inventSvc.RegistrarMovimiento(ctx, nil, dto.MovimientoRequest{
		ProductoID: p.ID, AlmacenID: almacen.String(), Tipo: "salida", Cantidad: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, mov.StockAnterior)
	assert.Equal(t, 6, mov.StockNuevo)
	assert.Equal(t, 6, e.stock(t, id))
}

func TestInventarioService_SalidaNuncaDejaStockNegativo(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	almacen := e.almacen(t, "Deposito central")
	p := e.producto(t, "FIDEO-500", "4000", "25", 10)
	id := uuid.MustParse(p.ID)
	e.entrada(t, id, almacen, 6)

	_, err := e.inventSvc.RegistrarMovimiento(ctx, nil, dto.MovimientoRequest{
		ProductoID: p.ID, AlmacenID: almacen.String(), Tipo: "salida", Cantidad: 7,
	})
	requireCampo(t, err, "cantidad")

	assert.Equal(t, 6, e.stock(t, id))
	movs, err := e.inventSvc.ListarMovimientos(ctx, dto.MovimientoFilter{ProductoID: p.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, movs.Total)
}

func TestInventarioService_StockEsPorAlmacen(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	central := e.almacen(t, "Central")
	sucursal := e.almacen(t, "Sucursal")
	p := e.producto(t, "ACEITE-1L", "12000", "20", 10)
	id := uuid.MustParse(p.ID)

	e.entrada(t, id, central, 5)
	e.entrada(t, id, sucursal, 6)
	assert.Equal(t, 11, e.stock(t, id))

	_, err := e.inventSvc.RegistrarMovimiento(ctx, nil, dto.MovimientoRequest{
		ProductoID: p.ID, AlmacenID: central.String(), Tipo: "salida", Cantidad: 6,
	})
	requireCampo(t, err, "cantidad")

	inv, err := e.inventSvc.ListarInventario(ctx, dto.InventarioFilter{ProductoID: p.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, inv.Total)
}

func TestInventarioService_ProductoInactivo(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	almacen := e.almacen(t, "Central")
	p := e.producto(t, "GALLETA", "2000", "30", 10)
	_, err := e.productoSvc.AlternarActivo(ctx, uuid.MustParse(p.ID))
	require.NoError(t, err)

	_, err = e.inventSvc.RegistrarMovimiento(ctx, nil, dto.MovimientoRequest{
		ProductoID: p.ID, AlmacenID: almacen.String(), Tipo: "entrada", Cantidad: 1,
	})
	requireCampo(t, err, "producto_id")
}

func TestInventarioService_Alertas(t *testing.T) {
	e := nuevoEntorno(t)
	almacen := e.almacen(t, "Central")
	bajo := e.producto(t, "JABON", "3000", "30", 10)
	ok := e.producto(t, "DETERGENTE", "9000", "30", 10)
	e.entrada(t, uuid.MustParse(bajo.ID), almacen, 3)
	e.entrada(t, uuid.MustParse(ok.ID), almacen, 20)

	alertas, err := e.inventSvc.Alertas(context.Background())
	require.NoError(t, err)

	require.Len(t, alertas, 1)
	assert.Equal(t, "JABON", alertas[0].Codigo)
	assert.Equal(t, 2, alertas[0].Faltante)
}
