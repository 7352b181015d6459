package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secreto = "secreto-de-prueba"

func init() {
	gin.SetMode(gin.TestMode)
}

func firmar(t *testing.T, userID, tipo string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": "ana",
		"tipo":     tipo,
		"exp":      exp.Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secreto))
	require.NoError(t, err)
	return s
}

func servir(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func detalle(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body apierror.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Detail
}

// ── JWT ──────────────────────────────────────────────────────────────────────

func TestJWTAuth(t *testing.T) {
	id := uuid.New()
	r := gin.New()
	r.GET("/yo", JWTAuth(secreto), func(c *gin.Context) {
		c.String(http.StatusOK, UsuarioID(c).String())
	})
	futuro := time.Now().Add(time.Hour)

	w := servir(r, http.MethodGet, "/yo", firmar(t, id.String(), "access", futuro))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), w.Body.String())

	casos := map[string]string{
		"sin token":     "",
		"refresh":       firmar(t, id.String(), "refresh", futuro),
		"primer cambio": firmar(t, id.String(), "primer_cambio", futuro),
		"expirado":      firmar(t, id.String(), "access", time.Now().Add(-time.Minute)),
		"id invalido":   firmar(t, "no-es-uuid", "access", futuro),
		"basura":        "abc.def.ghi",
	}
	for nombre, token := range casos {
		t.Run(nombre, func(t *testing.T) {
			w := servir(r, http.MethodGet, "/yo", token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

// ── Permisos ─────────────────────────────────────────────────────────────────

type checkerFalso struct {
	permitidos map[string]bool
	err        error
	consultas  []string
}

func (f *checkerFalso) Autorizar(_ context.Context, _ uuid.UUID, codigo string) (bool, error) {
	f.consultas = append(f.consultas, codigo)
	return f.permitidos[codigo], f.err
}

func TestRequirePermiso(t *testing.T) {
	checker := &checkerFalso{permitidos: map[string]bool{"productos.ver": true}}
	r := gin.New()
	r.Use(JWTAuth(secreto))
	r.GET("/productos", RequirePermiso(checker, "productos.ver"), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.DELETE("/productos", RequirePermiso(checker, "productos.eliminar"), func(c *gin.Context) { c.Status(http.StatusOK) })
	token := firmar(t, uuid.NewString(), "access", time.Now().Add(time.Hour))

	assert.Equal(t, http.StatusOK, servir(r, http.MethodGet, "/productos", token).Code)

	w := servir(r, http.MethodDelete, "/productos", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "No tiene permiso para realizar esta accion (productos.eliminar)", detalle(t, w))
	assert.Equal(t, []string{"productos.ver", "productos.eliminar"}, checker.consultas)
}

func TestRequirePermiso_ErrorDelChecker(t *testing.T) {
	checker := &checkerFalso{err: errors.New("db caida")}
	r := gin.New()
	r.GET("/x", JWTAuth(secreto), RequirePermiso(checker, "caja.ver"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := servir(r, http.MethodGet, "/x", firmar(t, uuid.NewString(), "access", time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error interno del servidor", detalle(t, w))
}

func TestRequirePermiso_SinJWT(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequirePermiso(&checkerFalso{}, "caja.ver"), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, servir(r, http.MethodGet, "/x", "").Code)
}

// ── Request id, errors, recovery ─────────────────────────────────────────────

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := servir(r, http.MethodGet, "/", "")
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/dominio", func(c *gin.Context) { _ = c.Error(apierror.NotFound("Producto no encontrado")) })
	r.GET("/interno", func(c *gin.Context) { _ = c.Error(errors.New("pq: relation does not exist")) })

	w := servir(r, http.MethodGet, "/dominio", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Producto no encontrado", detalle(t, w))

	w = servir(r, http.MethodGet, "/interno", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error interno del servidor", detalle(t, w))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := servir(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS("https://bodega.example.com", true))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := servir(r, http.MethodOptions, "/", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://bodega.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

// ── Rate limiting ────────────────────────────────────────────────────────────

func TestRateLimiter_MemoriaVentanaFija(t *testing.T) {
	ahora := time.Date(2026, 4, 1, 10, 0, 10, 0, time.UTC)
	rl := NewRateLimiter(nil, "test", 2, time.Minute, "Demasiadas solicitudes")
	rl.now = func() time.Time { return ahora }

	r := gin.New()
	r.GET("/", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, servir(r, http.MethodGet, "/", "").Code)
	assert.Equal(t, http.StatusOK, servir(r, http.MethodGet, "/", "").Code)
	w := servir(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "51", w.Header().Get("Retry-After"))
	assert.Equal(t, "Demasiadas solicitudes", detalle(t, w))

	ahora = ahora.Add(50 * time.Second)
	assert.Equal(t, http.StatusOK, servir(r, http.MethodGet, "/", "").Code)
}

func TestRateLimiter_RedisCaidoUsaMemoria(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	rl := NewRateLimiter(rdb, "test", 1, time.Minute, "Demasiadas solicitudes")
	r := gin.New()
	r.GET("/", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, servir(r, http.MethodGet, "/", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, servir(r, http.MethodGet, "/", "").Code)
	assert.Len(t, rl.memoria.entradas, 1)
}

func TestRateLimiter_PurgaVentanasVencidas(t *testing.T) {
	m := &ventanasMemoria{entradas: map[string]*ventana{}}
	t0 := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	m.incrementar("10.0.0.1", t0, t0.Add(time.Minute), t0)

	t1 := t0.Add(purgeInterval)
	m.incrementar("10.0.0.2", t1, t1.Add(time.Minute), t1)

	assert.Len(t, m.entradas, 1)
	assert.Contains(t, m.entradas, "10.0.0.2")
}

// ── Metrics ──────────────────────────────────────────────────────────────────

func TestMetrics_ObservaRuta(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := gin.New()
	r.Use(Metrics(metrics.New(reg)))
	r.GET("/productos/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	servir(r, http.MethodGet, "/productos/123", "")

	familias, err := reg.Gather()
	require.NoError(t, err)
	var encontrado bool
	for _, f := range familias {
		if f.GetName() != "bodega_http_requests_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "route" && l.GetValue() == "/productos/:id" {
					encontrado = true
					assert.Equal(t, 1.0, m.GetCounter().GetValue())
				}
			}
		}
	}
	assert.True(t, encontrado)
}
