//go:build integration

package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/infra"
	"github.com/DerliscrDev/bodega-eirete/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func redisDePrueba(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()
	c, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	url, err := c.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestPool_ReintentoYDLQ(t *testing.T) {
	ctx := context.Background()
	rdb := redisDePrueba(t)
	s := &senderFalso{err: errors.New("smtp caido")}
	pool := NewPool(rdb, metrics.New(prometheus.NewRegistry()))
	pool.Register(QueueEmail, JobEmail, NewEmailWorker(s, nil))

	require.NoError(t, NewDispatcher(rdb).EnqueueEmail(ctx, EmailJobPayload{ToEmail: "a@example.com"}))
	raw, err := rdb.RPop(ctx, QueueEmail).Result()
	require.NoError(t, err)

	pool.procesar(ctx, QueueEmail, raw)

	pendientes, err := rdb.ZCard(ctx, QueueReintentos).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, pendientes)

	// nothing is due yet
	n, err := MoverVencidos(ctx, rdb, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = MoverVencidos(ctx, rdb, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	raw, err = rdb.RPop(ctx, QueueEmail).Result()
	require.NoError(t, err)
	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, 1, job.Intento)

	job.Intento = MaxIntentos - 1
	data, _ := json.Marshal(job)
	pool.procesar(ctx, QueueEmail, string(data))

	largo, err := DLQLength(ctx, rdb, QueueEmail)
	require.NoError(t, err)
	assert.EqualValues(t, 1, largo)
}

func TestPool_ProcesaConExito(t *testing.T) {
	ctx := context.Background()
	rdb := redisDePrueba(t)
	s := &senderFalso{}
	pool := NewPool(rdb, nil)
	pool.Register(QueueEmail, JobEmail, NewEmailWorker(s, nil))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	pool.Start(runCtx, 2)

	require.NoError(t, NewDispatcher(rdb).EnqueueEmail(ctx, EmailJobPayload{ToEmail: "b@example.com", Subject: "Hola"}))

	assert.Eventually(t, func() bool {
		n, _ := rdb.LLen(ctx, QueueEmail).Result()
		return n == 0
	}, 10*time.Second, 100*time.Millisecond)
}
