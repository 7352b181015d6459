package service

import (
	"context"
	"os"
	"testing"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type escenarioVenta struct {
	cliente uuid.UUID
	gaseosa *dto.ProductoResponse // iva 10
	harina  *dto.ProductoResponse // iva 5
}

func nuevaVenta(t *testing.T, e *entorno) escenarioVenta {
	t.Helper()
	return escenarioVenta{
		cliente: e.cliente(t, "1234567"),
		gaseosa: e.producto(t, "GASEOSA", "10000", "0", 10),
		harina:  e.producto(t, "HARINA", "1000", "0", 5),
	}
}

func (sc escenarioVenta) pedido(t *testing.T, e *entorno) *dto.PedidoResponse {
	t.Helper()
	p, err := e.pedidoSvc.Crear(context.Background(), nil, dto.CrearPedidoRequest{
		ClienteID: sc.cliente.String(),
		Detalles: []dto.DetallePedidoRequest{
			{ProductoID: sc.gaseosa.ID, Cantidad: 2, PrecioUnitario: ptr(dec("1000"))},
			{ProductoID: sc.harina.ID, Cantidad: 1, PrecioUnitario: ptr(dec("500"))},
		},
	})
	require.NoError(t, err)
	return p
}

func (sc escenarioVenta) factura(t *testing.T, e *entorno) *dto.FacturaResponse {
	t.Helper()
	f, err := e.facturaSvc.Crear(context.Background(), nil, dto.CrearFacturaRequest{
		ClienteID:      sc.cliente.String(),
		CondicionVenta: "contado",
		Detalles: []dto.DetalleFacturaRequest{
			{ProductoID: sc.gaseosa.ID, Cantidad: 1},
			{ProductoID: sc.harina.ID, Cantidad: 2},
		},
	})
	require.NoError(t, err)
	return f
}

// ── Facturas ─────────────────────────────────────────────────────────────────

func TestFacturaService_CrearNumeraYTotaliza(t *testing.T) {
	e := nuevoEntorno(t)
	sc := nuevaVenta(t, e)

	f1 := sc.factura(t, e)
	f2 := sc.factura(t, e)

	assert.Equal(t, "001-001-0000001", f1.Numero)
	assert.Equal(t, "001-001-0000002", f2.Numero)
	assert.Equal(t, "12345678", f1.Timbrado)
	assert.Equal(t, model.FacturaPendiente, f1.Estado)

	assert.Equal(t, "13100", f1.Total.String())
	assert.Equal(t, "11000", f1.TotalIVA10.String())
	assert.Equal(t, "2100", f1.TotalIVA5.String())
	assert.Equal(t, "1000", f1.LiquidacionIVA10.String())
	assert.Equal(t, "100", f1.LiquidacionIVA5.String())
}

func TestFacturaService_GenerarDesdePedidoNoEntregado(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	p := nuevaVenta(t, e).pedido(t, e)

	_, err := e.facturaSvc.GenerarDesdePedido(ctx, nil, dto.GenerarFacturaRequest{PedidoID: p.ID})
	requireCodigo(t, err, apierror.CodeStateConflict)

	list, err := e.facturaSvc.Listar(ctx, dto.FacturaFilter{})
	require.NoError(t, err)
	assert.Zero(t, list.Total)
}

func TestFacturaService_GenerarDesdePedidoEntregado(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	p := nuevaVenta(t, e).pedido(t, e)
	avanzar(t, e, p.ID, model.PedidoEnviado, model.PedidoEntregado)

	f, err := e.facturaSvc.GenerarDesdePedido(ctx, nil, dto.GenerarFacturaRequest{PedidoID: p.ID})
	require.NoError(t, err)

	assert.Equal(t, "2500", f.Total.String())
	assert.Equal(t, model.CondicionContado, f.CondicionVenta)
	require.NotNil(t, f.PedidoID)
	assert.Equal(t, p.ID, *f.PedidoID)

	pedido, err := e.pedidoSvc.ObtenerPorID(ctx, uuid.MustParse(p.ID))
	require.NoError(t, err)
	require.NotNil(t, pedido.FacturaID)
	assert.Equal(t, f.ID, *pedido.FacturaID)

	_, err = e.facturaSvc.GenerarDesdePedido(ctx, nil, dto.GenerarFacturaRequest{PedidoID: p.ID})
	requireCodigo(t, err, apierror.CodeConflict)
}

func TestFacturaService_DetallesSoloEnPendiente(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	sc := nuevaVenta(t, e)
	f := sc.factura(t, e)
	id := uuid.MustParse(f.ID)

	f, err := e.facturaSvc.AgregarDetalle(ctx, id, dto.DetalleFacturaRequest{ProductoID: sc.gaseosa.ID, Cantidad: 1})
	require.NoError(t, err)
	assert.Equal(t, "24100", f.Total.String())
	require.Len(t, f.Detalles, 3)

	f, err = e.facturaSvc.EliminarDetalle(ctx, id, uuid.MustParse(f.Detalles[0].ID))
	require.NoError(t, err)
	assert.Len(t, f.Detalles, 2)

	_, err = e.facturaSvc.AlternarAnulacion(ctx, id)
	require.NoError(t, err)
	_, err = e.facturaSvc.AgregarDetalle(ctx, id, dto.DetalleFacturaRequest{ProductoID: sc.gaseosa.ID, Cantidad: 1})
	requireCodigo(t, err, apierror.CodeStateConflict)
}

func TestFacturaService_AnularYRestaurar(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	f := nuevaVenta(t, e).factura(t, e)
	id := uuid.MustParse(f.ID)

	f, err := e.facturaSvc.AlternarAnulacion(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.FacturaAnulada, f.Estado)

	f, err = e.facturaSvc.AlternarAnulacion(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.FacturaPendiente, f.Estado)
}

func TestFacturaService_AnularLiberaElPedido(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	p := nuevaVenta(t, e).pedido(t, e)
	pedidoID := uuid.MustParse(p.ID)
	avanzar(t, e, p.ID, model.PedidoEnviado, model.PedidoEntregado)

	primera, err := e.facturaSvc.GenerarDesdePedido(ctx, nil, dto.GenerarFacturaRequest{PedidoID: p.ID})
	require.NoError(t, err)
	_, err = e.facturaSvc.AlternarAnulacion(ctx, uuid.MustParse(primera.ID))
	require.NoError(t, err)

	pedido, err := e.pedidoSvc.ObtenerPorID(ctx, pedidoID)
	require.NoError(t, err)
	assert.Nil(t, pedido.FacturaID)

	segunda, err := e.facturaSvc.GenerarDesdePedido(ctx, nil, dto.GenerarFacturaRequest{PedidoID: p.ID})
	require.NoError(t, err)
	assert.NotEqual(t, primera.Numero, segunda.Numero)

	pedido, err = e.pedidoSvc.ObtenerPorID(ctx, pedidoID)
	require.NoError(t, err)
	require.NotNil(t, pedido.FacturaID)
	assert.Equal(t, segunda.ID, *pedido.FacturaID)

	// the pedido now belongs to the second invoice
	_, err = e.facturaSvc.AlternarAnulacion(ctx, uuid.MustParse(primera.ID))
	requireCodigo(t, err, apierror.CodeConflict)
	f, err := e.facturaSvc.ObtenerPorID(ctx, uuid.MustParse(primera.ID))
	require.NoError(t, err)
	assert.Equal(t, model.FacturaAnulada, f.Estado)
}

func TestFacturaService_RestaurarRecuperaElPedido(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	p := nuevaVenta(t, e).pedido(t, e)
	avanzar(t, e, p.ID, model.PedidoEnviado, model.PedidoEntregado)

	f, err := e.facturaSvc.GenerarDesdePedido(ctx, nil, dto.GenerarFacturaRequest{PedidoID: p.ID})
	require.NoError(t, err)
	id := uuid.MustParse(f.ID)
	_, err = e.facturaSvc.AlternarAnulacion(ctx, id)
	require.NoError(t, err)
	_, err = e.facturaSvc.AlternarAnulacion(ctx, id)
	require.NoError(t, err)

	pedido, err := e.pedidoSvc.ObtenerPorID(ctx, uuid.MustParse(p.ID))
	require.NoError(t, err)
	require.NotNil(t, pedido.FacturaID)
	assert.Equal(t, f.ID, *pedido.FacturaID)
}

func TestFacturaService_CobrarConCaja(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	cajero := uuid.New()
	f := nuevaVenta(t, e).factura(t, e)
	id := uuid.MustParse(f.ID)

	_, err := e.facturaSvc.Cobrar(ctx, cajero, id, dto.CobrarFacturaRequest{RegistrarEnCaja: true})
	requireCodigo(t, err, apierror.CodeStateConflict)
	sigue, err := e.facturaSvc.ObtenerPorID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.FacturaPendiente, sigue.Estado)

	_, err = e.cajaSvc.Abrir(ctx, cajero, dto.AbrirCajaRequest{MontoInicial: dec("50000")})
	require.NoError(t, err)

	pagada, err := e.facturaSvc.Cobrar(ctx, cajero, id, dto.CobrarFacturaRequest{RegistrarEnCaja: true})
	require.NoError(t, err)
	assert.Equal(t, model.FacturaPagada, pagada.Estado)

	activa, err := e.cajaSvc.Activa(ctx)
	require.NoError(t, err)
	assert.Equal(t, "63100", activa.SaldoActual.String())

	_, err = e.facturaSvc.AlternarAnulacion(ctx, id)
	requireCodigo(t, err, apierror.CodeStateConflict)
	_, err = e.facturaSvc.Cobrar(ctx, cajero, id, dto.CobrarFacturaRequest{})
	requireCodigo(t, err, apierror.CodeStateConflict)
}

func TestFacturaService_PDFYEnvio(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	f := nuevaVenta(t, e).factura(t, e)
	id := uuid.MustParse(f.ID)

	data, nombre, err := e.facturaSvc.PDF(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "factura_001-001-0000001.pdf", nombre)
	assert.Equal(t, "%PDF", string(data[:4]))

	res, err := e.facturaSvc.Enviar(ctx, id)
	require.NoError(t, err)
	assert.True(t, res.Encolado)
	assert.Equal(t, "juan.1234567@example.com", res.Destinatario)

	job := e.cola.ultimo(t)
	assert.Equal(t, res.Destinatario, job.ToEmail)
	assert.Contains(t, job.Subject, "001-001-0000001")
	_, err = os.Stat(job.PDFPath)
	assert.NoError(t, err)
}
