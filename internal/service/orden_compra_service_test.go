package service

import (
	"context"
	"testing"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"
	"github.com/DerliscrDev/bodega-eirete/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type escenarioCompra struct {
	almacen uuid.UUID
	arroz   uuid.UUID
	poroto  uuid.UUID
	orden   *dto.OrdenCompraResponse
}

func nuevaOrden(t *testing.T, e *entorno) escenarioCompra {
	t.Helper()
	ctx := context.Background()
	prov := &model.Proveedor{RazonSocial: "Distribuidora Sur", RUC: "80012345-6", Activo: true}
	require.NoError(t, repository.NewProveedorRepository(e.db).Create(ctx, prov))

	sc := escenarioCompra{
		almacen: e.almacen(t, "Central"),
		arroz:   uuid.MustParse(e.producto(t, "ARROZ", "7000", "20", 5).ID),
		poroto:  uuid.MustParse(e.producto(t, "POROTO", "9000", "20", 5).ID),
	}
	orden, err := e.ordenSvc.Crear(ctx, nil, dto.CrearOrdenCompraRequest{
		ProveedorID: prov.ID.String(),
		AlmacenID:   sc.almacen.String(),
		Detalles: []dto.DetalleOrdenRequest{
			{ProductoID: sc.arroz.String(), Cantidad: 10, PrecioUnitario: dec("7000")},
			{ProductoID: sc.poroto.String(), Cantidad: 4, PrecioUnitario: dec("9000")},
		},
	})
	require.NoError(t, err)
	sc.orden = orden
	return sc
}

func TestOrdenCompraService_CrearCalculaTotal(t *testing.T) {
	e := nuevoEntorno(t)
	sc := nuevaOrden(t, e)

	assert.Equal(t, model.OrdenPendiente, sc.orden.Estado)
	assert.Equal(t, "106000", sc.orden.Total.String())
	assert.Len(t, sc.orden.Detalles, 2)
}

func TestOrdenCompraService_RecibirEsIdempotente(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	sc := nuevaOrden(t, e)
	id := uuid.MustParse(sc.orden.ID)

	res, err := e.ordenSvc.Recibir(ctx, id, nil)
	require.NoError(t, err)
	assert.False(t, res.SinCambios)
	assert.Equal(t, 2, res.Movimientos)
	assert.Equal(t, model.OrdenRecibido, res.Orden.Estado)
	require.NotNil(t, res.Orden.RecibidoAt)

	res, err = e.ordenSvc.Recibir(ctx, id, nil)
	require.NoError(t, err)
	assert.True(t, res.SinCambios)
	assert.Zero(t, res.Movimientos)

	assert.Equal(t, 10, e.stock(t, sc.arroz))
	assert.Equal(t, 4, e.stock(t, sc.poroto))

	movs, err := e.inventSvc.ListarMovimientos(ctx, dto.MovimientoFilter{AlmacenID: sc.almacen.String()})
	require.NoError(t, err)
	require.EqualValues(t, 2, movs.Total)
	for _, m := range movs.Data {
		require.NotNil(t, m.OrdenCompraID)
		assert.Equal(t, sc.orden.ID, *m.OrdenCompraID)
	}
}

func TestOrdenCompraService_Cancelar(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	sc := nuevaOrden(t, e)
	id := uuid.MustParse(sc.orden.ID)

	o, err := e.ordenSvc.Cancelar(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.OrdenCancelado, o.Estado)

	_, err = e.ordenSvc.Recibir(ctx, id, nil)
	requireCodigo(t, err, apierror.CodeStateConflict)
	assert.Zero(t, e.stock(t, sc.arroz))

	_, err = e.ordenSvc.Cancelar(ctx, id)
	requireCodigo(t, err, apierror.CodeStateConflict)
}

func TestOrdenCompraService_NoSeCancelaRecibida(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	sc := nuevaOrden(t, e)
	id := uuid.MustParse(sc.orden.ID)

	_, err := e.ordenSvc.Recibir(ctx, id, nil)
	require.NoError(t, err)

	_, err = e.ordenSvc.Cancelar(ctx, id)
	requireCodigo(t, err, apierror.CodeStateConflict)
}
