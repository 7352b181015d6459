package infra

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func tablaDePrueba() Tabla {
	ciudad := "Luque"
	return Tabla{
		Hoja:     "Productos",
		Columnas: []string{"Código", "Nombre", "Precio", "Activo", "Ciudad", "Alta"},
		Filas: [][]any{
			{"GAS", "Gaseosa, 2L", decimal.RequireFromString("11000.50"), true, &ciudad, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
			{"HAR", "Harina", decimal.NewFromInt(1050), false, (*string)(nil), nil},
		},
	}
}

func TestEscribirCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EscribirCSV(&buf, tablaDePrueba()))

	esperado := "Código,Nombre,Precio,Activo,Ciudad,Alta\n" +
		"GAS,\"Gaseosa, 2L\",11000.5,Si,Luque,2026-02-01\n" +
		"HAR,Harina,1050,No,,\n"
	assert.Equal(t, esperado, buf.String())
}

func TestEscribirXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EscribirXLSX(&buf, tablaDePrueba()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Productos"}, f.GetSheetList())
	filas, err := f.GetRows("Productos")
	require.NoError(t, err)
	require.Len(t, filas, 3)
	assert.Equal(t, "Código", filas[0][0])
	assert.Equal(t, "Gaseosa, 2L", filas[1][1])
	assert.Equal(t, "Si", filas[1][3])
	assert.Equal(t, "No", filas[2][3])

	tipo, err := f.GetCellType("Productos", "C3")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, tipo)
}

func TestEscribirXLSX_HojaPorDefecto(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EscribirXLSX(&buf, Tabla{Columnas: []string{"A"}}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Datos"}, f.GetSheetList())
}
