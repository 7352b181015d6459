package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ── Rate limiter ──────────────────────────────────────────────────────────────
// Fixed window per client IP. Counters live in Redis (INCR + EXPIRE) so every
// instance shares them; without Redis, or when a Redis call fails, an
// in-process map takes over.

// RateLimiter counts requests per IP for one named limit.
type RateLimiter struct {
	nombre  string
	limit   int
	window  time.Duration
	mensaje string
	rdb     *redis.Client
	memoria *ventanasMemoria
	now     func() time.Time
}

// NewRateLimiter builds a limiter. rdb may be nil.
func NewRateLimiter(rdb *redis.Client, nombre string, limit int, window time.Duration, mensaje string) *RateLimiter {
	return &RateLimiter{
		nombre:  nombre,
		limit:   limit,
		window:  window,
		mensaje: mensaje,
		rdb:     rdb,
		memoria: &ventanasMemoria{entradas: map[string]*ventana{}},
		now:     time.Now,
	}
}

// LoginRateLimiter limits public auth endpoints to 20 requests per minute per IP.
func LoginRateLimiter(rdb *redis.Client) gin.HandlerFunc {
	return NewRateLimiter(rdb, "login", 20, time.Minute,
		"Demasiados intentos de login. Intente en 1 minuto.").Handler()
}

// APIRateLimiter is the general limit applied to every route.
func APIRateLimiter(rdb *redis.Client, limit int) gin.HandlerFunc {
	return NewRateLimiter(rdb, "api", limit, time.Minute,
		"Demasiadas solicitudes. Intente nuevamente en un momento.").Handler()
}

func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		count, reset := rl.contar(c.Request.Context(), c.ClientIP())
		if count > rl.limit {
			segundos := int(reset.Sub(rl.now()).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(segundos))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(rl.mensaje))
			return
		}
		c.Next()
	}
}

// contar increments the counter of ip in the current window and returns the
// new count and the window end.
func (rl *RateLimiter) contar(ctx context.Context, ip string) (int, time.Time) {
	now := rl.now()
	inicio := now.Truncate(rl.window)
	fin := inicio.Add(rl.window)

	if rl.rdb != nil {
		key := "ratelimit:" + rl.nombre + ":" + ip + ":" + strconv.FormatInt(inicio.Unix(), 10)
		// INCR and EXPIRE go in one MULTI so a counter never outlives its window.
		var incr *redis.IntCmd
		_, err := rl.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, key)
			pipe.Expire(ctx, key, rl.window)
			return nil
		})
		if err == nil {
			return int(incr.Val()), fin
		}
		log.Warn().Err(err).Str("limiter", rl.nombre).Msg("rate limiter: redis unavailable, using memory")
	}
	return rl.memoria.incrementar(ip, inicio, fin, now), fin
}

// ── In-memory fallback ────────────────────────────────────────────────────────

const purgeInterval = 5 * time.Minute

type ventana struct {
	inicio time.Time
	fin    time.Time
	count  int
}

type ventanasMemoria struct {
	mu          sync.Mutex
	entradas    map[string]*ventana
	ultimaPurga time.Time
}

func (m *ventanasMemoria) incrementar(ip string, inicio, fin, now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.ultimaPurga) >= purgeInterval {
		m.purgar(now)
	}

	v, ok := m.entradas[ip]
	if !ok || !v.inicio.Equal(inicio) {
		v = &ventana{inicio: inicio, fin: fin}
		m.entradas[ip] = v
	}
	v.count++
	return v.count
}

// purgar drops expired windows so IPs that never return do not accumulate.
func (m *ventanasMemoria) purgar(now time.Time) {
	purgadas := 0
	for ip, v := range m.entradas {
		if !now.Before(v.fin) {
			delete(m.entradas, ip)
			purgadas++
		}
	}
	m.ultimaPurga = now
	if purgadas > 0 {
		log.Debug().Int("purged", purgadas).Int("remaining", len(m.entradas)).Msg("rate limiter map purged")
	}
}
