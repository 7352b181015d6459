package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DerliscrDev/bodega-eirete/internal/config"
	"github.com/DerliscrDev/bodega-eirete/internal/metrics"
	"github.com/DerliscrDev/bodega-eirete/internal/model"
	"github.com/DerliscrDev/bodega-eirete/internal/repository"
	"github.com/DerliscrDev/bodega-eirete/internal/service"
	"github.com/DerliscrDev/bodega-eirete/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type api struct {
	t     *testing.T
	db    *gorm.DB
	r     *gin.Engine
	token string
}

// nuevaAPI builds the full engine over sqlite, seeds the system and logs in
// as the admin superuser.
func nuevaAPI(t *testing.T) *api {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret:             "secreto-de-prueba",
		JWTExpirationHours:    1,
		JWTRefreshHours:       24,
		PasswordTokenHours:    72,
		PermisosBootstrap:     true,
		PermisosCacheSegundos: 60,
		EmpresaNombre:         "Bodega Eirete",
		Establecimiento:       1,
		PuntoExpedicion:       1,
		PDFStoragePath:        t.TempDir(),
	}

	usuarios := repository.NewUsuarioRepository(db)
	permisos := repository.NewPermisoRepository(db)
	acceso := service.NewAccesoService(usuarios, permisos, nil, cfg, nil)
	_, err := service.NewSeedService(permisos, repository.NewRolRepository(db),
		repository.NewPersonaRepository(db), usuarios, acceso).InicializarSistema(context.Background())
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	a := &api{t: t, db: db, r: New(cfg, Deps{DB: db, Metrics: metrics.New(reg), Gatherer: reg})}
	a.token = a.login(service.AdminUsername, service.AdminPassword)
	return a
}

func (a *api) login(username, password string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/v1/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken
}

func (a *api) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

// crear posts as admin and returns the id of the created resource.
func (a *api) crear(path string, body interface{}) string {
	a.t.Helper()
	w := a.do(http.MethodPost, path, a.token, body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(a.t, resp.ID)
	return resp.ID
}

func TestHealth_SinRedis(t *testing.T) {
	a := nuevaAPI(t)

	w := a.do(http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"disabled"`)
	assert.Contains(t, w.Body.String(), `"db":"connected"`)
}

func TestRutasProtegidas_SinTokenDevuelve401(t *testing.T) {
	a := nuevaAPI(t)

	for _, path := range []string{"/v1/productos", "/v1/auth/me", "/v1/reportes/dashboard"} {
		w := a.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	a := nuevaAPI(t)

	w := a.do(http.MethodPost, "/v1/auth/login", "", map[string]string{"username": "admin", "password": "incorrecta"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Credenciales invalidas")
}

func TestMe_DevuelvePermisosDelAdmin(t *testing.T) {
	a := nuevaAPI(t)

	w := a.do(http.MethodGet, "/v1/auth/me", a.token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"productos.ver"`)
}

func TestFlujo_ProductoMovimientoYConsulta(t *testing.T) {
	a := nuevaAPI(t)

	almacenID := a.crear("/v1/almacenes", map[string]string{"nombre": "Deposito central"})
	productoID := a.crear("/v1/productos", map[string]interface{}{
		"codigo":        "CERV-01",
		"nombre":        "Cerveza lata",
		"unidad_medida": "unidad",
		"precio_compra": "5000",
		"margen":        "20",
		"iva":           10,
		"stock_minimo":  5,
	})
	a.crear("/v1/movimientos", map[string]interface{}{
		"producto_id": productoID,
		"almacen_id":  almacenID,
		"tipo":        "entrada",
		"cantidad":    10,
	})

	w := a.do(http.MethodGet, "/v1/productos/consulta/CERV-01", a.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var consulta struct {
		PrecioVenta string `json:"precio_venta"`
		Stock       int    `json:"stock"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &consulta))
	assert.Equal(t, "6600", consulta.PrecioVenta)
	assert.Equal(t, 10, consulta.Stock)

	// a salida larger than the stock is rejected and changes nothing
	w = a.do(http.MethodPost, "/v1/movimientos", a.token, map[string]interface{}{
		"producto_id": productoID,
		"almacen_id":  almacenID,
		"tipo":        "salida",
		"cantidad":    11,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	w = a.do(http.MethodGet, "/v1/productos/"+productoID, a.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"stock":10`)
}

func TestValidacion_DevuelveCamposEnEspanol(t *testing.T) {
	a := nuevaAPI(t)

	w := a.do(http.MethodPost, "/v1/productos", a.token, map[string]interface{}{
		"codigo":        "X",
		"nombre":        "Producto",
		"unidad_medida": "toneladas",
		"iva":           7,
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Fields, "unidad_medida")
	assert.Contains(t, body.Fields, "iva")
}

func TestExportarProductos_CSV(t *testing.T) {
	a := nuevaAPI(t)
	a.crear("/v1/productos", map[string]interface{}{
		"codigo":        "ARROZ-1",
		"nombre":        "Arroz 1kg",
		"unidad_medida": "kilos",
		"precio_compra": "8000",
		"margen":        "25",
		"iva":           5,
	})

	w := a.do(http.MethodGet, "/v1/productos/exportar?formato=csv", a.token, nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="productos_`)
	assert.Contains(t, w.Body.String(), "ARROZ-1")

	w = a.do(http.MethodGet, "/v1/productos/exportar?formato=pdf", a.token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUsuarioSinRol_RecibeForbidden(t *testing.T) {
	a := nuevaAPI(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("clave-segura"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, a.db.Create(&model.Usuario{
		Username:     "cajero",
		Email:        "cajero@example.com",
		PasswordHash: string(hash),
		Activo:       true,
	}).Error)

	token := a.login("cajero", "clave-segura")
	w := a.do(http.MethodGet, "/v1/productos", token, nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "productos.ver")

	// no permission is needed to read the own profile
	w = a.do(http.MethodGet, "/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetrics_ExponeContadoresHTTP(t *testing.T) {
	a := nuevaAPI(t)
	a.do(http.MethodGet, "/health", "", nil)

	w := a.do(http.MethodGet, "/metrics", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bodega_http_requests_total")
}

func TestRutaInexistente(t *testing.T) {
	a := nuevaAPI(t)

	w := a.do(http.MethodGet, "/v1/no-existe", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Recurso no encontrado")
}

func TestSwagger_SirveDocumento(t *testing.T) {
	a := nuevaAPI(t)

	w := a.do(http.MethodGet, "/swagger/doc.json", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var doc struct {
		Info  struct{ Title string }     `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "Bodega Eirete API", doc.Info.Title)
	assert.Contains(t, doc.Paths, "/v1/productos/consulta/{codigo}")
	assert.Contains(t, doc.Paths, "/v1/facturas/{id}/anular")
}
