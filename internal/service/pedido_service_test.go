package service

import (
	"context"
	"testing"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func avanzar(t *testing.T, e *entorno, pedidoID string, estados ...string) {
	t.Helper()
	for _, est := range estados {
		_, err := e.pedidoSvc.CambiarEstado(context.Background(), uuid.MustParse(pedidoID), dto.CambiarEstadoPedidoRequest{Estado: est})
		require.NoError(t, err)
	}
}

func TestPedidoService_TotalDeLineas(t *testing.T) {
	e := nuevoEntorno(t)
	p := nuevaVenta(t, e).pedido(t, e)

	assert.Equal(t, model.PedidoPendiente, p.Estado)
	assert.Equal(t, "2500", p.Total.String())
	assert.Len(t, p.Detalles, 2)
}

func TestPedidoService_ClienteDebeSerCliente(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	contacto, err := e.personaSvc.CrearContacto(ctx, dto.PersonaRequest{Nombre: "ana", Apellido: "gomez"})
	require.NoError(t, err)
	prod := e.producto(t, "PAN", "1000", "10", 10)

	_, err = e.pedidoSvc.Crear(ctx, nil, dto.CrearPedidoRequest{
		ClienteID: contacto.ID,
		Detalles:  []dto.DetallePedidoRequest{{ProductoID: prod.ID, Cantidad: 1}},
	})
	requireCampo(t, err, "cliente_id")
}

func TestPedidoService_Transiciones(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	p := nuevaVenta(t, e).pedido(t, e)
	id := uuid.MustParse(p.ID)

	_, err := e.pedidoSvc.CambiarEstado(ctx, id, dto.CambiarEstadoPedidoRequest{Estado: model.PedidoEntregado})
	requireCodigo(t, err, apierror.CodeStateConflict)

	avanzar(t, e, p.ID, model.PedidoEnviado)
	_, err = e.pedidoSvc.Actualizar(ctx, id, dto.ActualizarPedidoRequest{Observacion: ptr("tarde")})
	requireCodigo(t, err, apierror.CodeStateConflict)

	avanzar(t, e, p.ID, model.PedidoEntregado)
	got, err := e.pedidoSvc.ObtenerPorID(ctx, id)
	require.NoError(t, err)
	assert.NotNil(t, got.EnviadoAt)
	assert.NotNil(t, got.EntregadoAt)

	_, err = e.pedidoSvc.CambiarEstado(ctx, id, dto.CambiarEstadoPedidoRequest{Estado: model.PedidoCancelado})
	requireCodigo(t, err, apierror.CodeStateConflict)
}
