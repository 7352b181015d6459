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

func TestClasificarDiferencia(t *testing.T) {
	cases := []struct {
		dif, esperado, want string
	}{
		{"0", "0", ArqueoNormal},
		{"0", "100000", ArqueoNormal},
		{"-1000", "100000", ArqueoNormal},
		{"1001", "100000", ArqueoAdvertencia},
		{"-5000", "100000", ArqueoAdvertencia},
		{"5001", "100000", ArqueoCritico},
		{"1", "0", ArqueoCritico},
	}
	for _, tc := range cases {
		got := clasificarDiferencia(dec(tc.dif), dec(tc.esperado))
		assert.Equal(t, tc.want, got, "dif=%s esperado=%s", tc.dif, tc.esperado)
	}
}

func abrirCaja(t *testing.T, e *entorno, cajero uuid.UUID, monto string) {
	t.Helper()
	_, err := e.cajaSvc.Abrir(context.Background(), cajero, dto.AbrirCajaRequest{MontoInicial: dec(monto)})
	require.NoError(t, err)
}

func TestCajaService_UnaSolaSesionAbierta(t *testing.T) {
	e := nuevoEntorno(t)
	cajero := uuid.New()
	abrirCaja(t, e, cajero, "100000")

	_, err := e.cajaSvc.Abrir(context.Background(), cajero, dto.AbrirCajaRequest{MontoInicial: dec("1")})
	requireCodigo(t, err, apierror.CodeConflict)
}

func TestCajaService_MovimientoSinCaja(t *testing.T) {
	e := nuevoEntorno(t)
	_, err := e.cajaSvc.RegistrarMovimiento(context.Background(), uuid.New(), dto.MovimientoCajaRequest{
		Tipo: model.CajaIngreso, Monto: dec("100"), Descripcion: "vuelto",
	})
	requireCodigo(t, err, apierror.CodeStateConflict)
}

func TestCajaService_ArqueoNormal(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	cajero := uuid.New()
	abrirCaja(t, e, cajero, "100000")

	_, err := e.cajaSvc.RegistrarMovimiento(ctx, cajero, dto.MovimientoCajaRequest{
		Tipo: model.CajaIngreso, Monto: dec("20000"), Descripcion: "venta mostrador",
	})
	require.NoError(t, err)
	egreso, err := e.cajaSvc.RegistrarMovimiento(ctx, cajero, dto.MovimientoCajaRequest{
		Tipo: model.CajaEgreso, Monto: dec("20000"), Descripcion: "pago de flete",
	})
	require.NoError(t, err)
	assert.Equal(t, "-20000", egreso.Monto.String())

	cerrada, err := e.cajaSvc.Cerrar(ctx, cajero, dto.CerrarCajaRequest{MontoDeclarado: dec("99500")})
	require.NoError(t, err)

	assert.Equal(t, model.CajaCerrada, cerrada.Estado)
	assert.Equal(t, "100000", cerrada.MontoEsperado.String())
	assert.Equal(t, "-500", cerrada.Diferencia.String())
	assert.Equal(t, ArqueoNormal, *cerrada.Clasificacion)
	assert.Len(t, cerrada.Movimientos, 2)

	_, err = e.cajaSvc.Activa(ctx)
	requireCodigo(t, err, apierror.CodeNotFound)
}

func TestCajaService_ArqueoCriticoExigeObservaciones(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	cajero := uuid.New()
	abrirCaja(t, e, cajero, "100000")

	_, err := e.cajaSvc.Cerrar(ctx, cajero, dto.CerrarCajaRequest{MontoDeclarado: dec("90000")})
	requireCampo(t, err, "observaciones")

	activa, err := e.cajaSvc.Activa(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.CajaAbierta, activa.Estado)

	cerrada, err := e.cajaSvc.Cerrar(ctx, cajero, dto.CerrarCajaRequest{
		MontoDeclarado: dec("90000"),
		Observaciones:  ptr("faltante reportado al encargado"),
	})
	require.NoError(t, err)
	assert.Equal(t, ArqueoCritico, *cerrada.Clasificacion)

	hist, err := e.cajaSvc.Historial(ctx, dto.Paginacion{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, hist.Total)

	abrirCaja(t, e, cajero, "0")
}
