package infra

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func facturaDePrueba() *model.Factura {
	ruc := "80012345-6"
	f := &model.Factura{
		ID:             uuid.New(),
		Numero:         "001-001-0000001",
		Timbrado:       "12345678",
		Fecha:          time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		CondicionVenta: model.CondicionContado,
		Estado:         model.FacturaPendiente,
		Cliente:        &model.Persona{Nombre: "Juan", Apellido: "Pérez", RUC: &ruc},
		Detalles: []model.DetalleFactura{
			{Descripcion: "Gaseosa 2L", Cantidad: 1, PrecioUnitario: decimal.NewFromInt(11000), IVAAplicado: 10},
			{Descripcion: "Harina de trigo", Cantidad: 2, PrecioUnitario: decimal.NewFromInt(1050), IVAAplicado: 5},
			{Descripcion: "Huevos", Cantidad: 3, PrecioUnitario: decimal.NewFromInt(700), IVAAplicado: 0},
		},
	}
	f.RecalcularTotales()
	return f
}

var emisorDePrueba = Emisor{Nombre: "Bodega Eirete", RUC: "80099999-1", Timbrado: "12345678"}

func TestFacturaPDF_GeneraDocumento(t *testing.T) {
	data, err := FacturaPDF(facturaDePrueba(), emisorDePrueba)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestFacturaPDF_ClienteSinRUC(t *testing.T) {
	f := facturaDePrueba()
	f.Cliente.RUC = nil
	_, err := FacturaPDF(f, emisorDePrueba)
	assert.NoError(t, err)
}

func TestGuardarFacturaPDF_EscribeArchivo(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "facturas")

	path, err := GuardarFacturaPDF(facturaDePrueba(), emisorDePrueba, dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "factura_001-001-0000001.pdf"), path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestTotalEnLetras(t *testing.T) {
	assert.Equal(t, "SON GUARANIES: TRECE MIL CIEN", TotalEnLetras(decimal.NewFromInt(13100)))
}
