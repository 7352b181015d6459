//go:build integration

package middleware

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRateLimiter_RedisFijaExpiracion(t *testing.T) {
	ctx := context.Background()
	c, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })
	url, err := c.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	ahora := time.Date(2026, 4, 1, 10, 0, 10, 0, time.UTC)
	rl := NewRateLimiter(rdb, "test", 2, time.Minute, "Demasiadas solicitudes")
	rl.now = func() time.Time { return ahora }

	r := gin.New()
	r.GET("/", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, servir(r, http.MethodGet, "/", "").Code)
	assert.Equal(t, http.StatusOK, servir(r, http.MethodGet, "/", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, servir(r, http.MethodGet, "/", "").Code)

	key := "ratelimit:test:" + "192.0.2.1" + ":" + strconv.FormatInt(ahora.Truncate(time.Minute).Unix(), 10)
	n, err := rdb.Get(ctx, key).Int()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	ttl, err := rdb.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
	assert.Empty(t, rl.memoria.entradas)
}
