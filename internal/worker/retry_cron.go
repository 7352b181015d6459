package worker

// retry_cron.go
// Failed jobs wait on the sorted set QueueReintentos scored by the unix time
// of their next attempt. A background goroutine moves due jobs back onto
// their original queue.

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 15 * time.Second
	retryBatchSize    = 50

	backoffBase   = 30 * time.Second
	backoffMaximo = 30 * time.Minute
)

// Backoff returns the wait before attempt number intento (1-based):
// 30s, 1m, 2m, 4m... capped at 30m.
func Backoff(intento int) time.Duration {
	if intento < 1 {
		intento = 1
	}
	d := backoffBase
	for i := 1; i < intento; i++ {
		d *= 2
		if d >= backoffMaximo {
			return backoffMaximo
		}
	}
	return d
}

func programarReintento(ctx context.Context, rdb *redis.Client, job Job, en time.Time) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.ZAdd(ctx, QueueReintentos, redis.Z{Score: float64(en.Unix()), Member: data}).Err()
}

// StartRetryCron launches a background goroutine that ticks every 15s and
// requeues jobs whose retry time has passed. It respects ctx for graceful
// shutdown.
func StartRetryCron(ctx context.Context, rdb *redis.Client) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				if n, err := MoverVencidos(ctx, rdb, time.Now()); err != nil {
					log.Error().Err(err).Msg("retry_cron: failed to requeue due jobs")
				} else if n > 0 {
					log.Info().Int("count", n).Msg("retry_cron: jobs requeued")
				}
			}
		}
	}()
}

// MoverVencidos pushes every job due at or before now back onto its queue
// and returns how many were moved. A job is requeued only by the caller
// that removed it from the set, so concurrent instances never duplicate it.
func MoverVencidos(ctx context.Context, rdb *redis.Client, now time.Time) (int, error) {
	miembros, err := rdb.ZRangeByScore(ctx, QueueReintentos, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.Unix(), 10),
		Count: retryBatchSize,
	}).Result()
	if err != nil {
		return 0, err
	}

	movidos := 0
	for _, m := range miembros {
		quitados, err := rdb.ZRem(ctx, QueueReintentos, m).Result()
		if err != nil {
			return movidos, err
		}
		if quitados == 0 {
			continue
		}
		var job Job
		if err := json.Unmarshal([]byte(m), &job); err != nil || job.Queue == "" {
			log.Error().Str("member", m).Msg("retry_cron: discarding malformed job")
			continue
		}
		if err := rdb.LPush(ctx, job.Queue, m).Err(); err != nil {
			return movidos, err
		}
		movidos++
	}
	return movidos, nil
}
