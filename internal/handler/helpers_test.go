package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pedidoDePrueba struct {
	Cliente  string          `json:"cliente_id" validate:"required,uuid"`
	Monto    decimal.Decimal `json:"monto"      validate:"gt=0"`
	Permiso  string          `json:"permiso"    validate:"omitempty,permiso"`
	Detalles []struct {
		Cantidad int `json:"cantidad" validate:"gt=0"`
	} `json:"detalles" validate:"required,min=1,dive"`
}

func ejecutar(t *testing.T, method, target, body string, h gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.Handle(method, "/recurso/:id", h)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func camposDe(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body apierror.ValidationError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Fields
}

func TestBindAndValidate_MensajesPorCampo(t *testing.T) {
	h := func(c *gin.Context) {
		var req pedidoDePrueba
		if bindAndValidate(c, &req) {
			c.Status(http.StatusNoContent)
		}
	}

	w := ejecutar(t, http.MethodPost, "/recurso/x",
		`{"cliente_id":"no-uuid","monto":"0","permiso":"Ventas","detalles":[{"cantidad":0}]}`, h)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	campos := camposDe(t, w)
	assert.Equal(t, "Identificador invalido", campos["cliente_id"])
	assert.Equal(t, "Debe ser mayor a 0", campos["monto"])
	assert.Equal(t, "El codigo debe tener la forma modulo.accion", campos["permiso"])
	assert.Equal(t, "Debe ser mayor a 0", campos["detalles[0].cantidad"])
}

func TestBindAndValidate_ListaVacia(t *testing.T) {
	h := func(c *gin.Context) {
		var req pedidoDePrueba
		if bindAndValidate(c, &req) {
			c.Status(http.StatusNoContent)
		}
	}

	w := ejecutar(t, http.MethodPost, "/recurso/x",
		`{"cliente_id":"6f1c1e8e-2b1a-4c55-9d7e-0c7a2b7f9a10","monto":"10","detalles":[]}`, h)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Debe tener al menos 1 elementos o caracteres", camposDe(t, w)["detalles"])
}

func TestBindAndValidate_JSONMalformado(t *testing.T) {
	h := func(c *gin.Context) {
		var req pedidoDePrueba
		bindAndValidate(c, &req)
	}

	w := ejecutar(t, http.MethodPost, "/recurso/x", `{"cliente_id":`, h)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "JSON invalido")
}

func TestParamID_Invalido(t *testing.T) {
	h := func(c *gin.Context) {
		if _, ok := paramID(c, "id"); ok {
			c.Status(http.StatusNoContent)
		}
	}

	assert.Equal(t, http.StatusBadRequest, ejecutar(t, http.MethodGet, "/recurso/123", "", h).Code)
	assert.Equal(t, http.StatusNoContent,
		ejecutar(t, http.MethodGet, "/recurso/6f1c1e8e-2b1a-4c55-9d7e-0c7a2b7f9a10", "", h).Code)
}

func TestRespondError_MapeaCodigos(t *testing.T) {
	h := func(c *gin.Context) {
		respondError(c, apierror.StateConflict("La factura ya fue anulada"))
	}

	w := ejecutar(t, http.MethodGet, "/recurso/x", "", h)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"detail":"La factura ya fue anulada"}`, w.Body.String())
}

func TestResponderTabla(t *testing.T) {
	tabla := infra.Tabla{Hoja: "Productos", Columnas: []string{"Codigo", "Nombre"}, Filas: [][]any{{"A1", "Arroz"}}}
	h := func(c *gin.Context) { responderTabla(c, "productos", tabla) }

	w := ejecutar(t, http.MethodGet, "/recurso/x?formato=csv", "", h)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, infra.ContentTypeCSV, w.Header().Get("Content-Type"))
	assert.Equal(t, "Codigo,Nombre\nA1,Arroz\n", w.Body.String())

	w = ejecutar(t, http.MethodGet, "/recurso/x", "", h)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, infra.ContentTypeXLSX, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	w = ejecutar(t, http.MethodGet, "/recurso/x?formato=ods", "", h)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, camposDe(t, w), "formato")
}
