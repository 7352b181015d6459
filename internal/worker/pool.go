package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail      = "jobs:email"
	QueueReintentos = "jobs:reintentos"

	JobEmail = "email"

	// MaxIntentos is the number of failed attempts after which a job is
	// moved to its dead letter queue.
	MaxIntentos = 5
)

// Job is the generic envelope for all async tasks. Intento counts the
// failed attempts so far.
type Job struct {
	Type    string          `json:"type"`
	Queue   string          `json:"queue"`
	Payload json.RawMessage `json:"payload"`
	Intento int             `json:"intento"`
}

// Processor handles the payload of one job type. Returning an error
// wrapped with Permanente skips the retry schedule.
type Processor interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// ErrPermanente marks failures that retrying cannot fix (bad payload,
// missing recipient).
var ErrPermanente = errors.New("fallo permanente")

// Permanente wraps err so the pool sends the job straight to the DLQ.
func Permanente(err error) error {
	return fmt.Errorf("%w: %w", ErrPermanente, err)
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Queue: queue, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb        *redis.Client
	metrics    *metrics.Metrics
	processors map[string]Processor
	queues     []string
}

func NewPool(rdb *redis.Client, m *metrics.Metrics) *Pool {
	return &Pool{rdb: rdb, metrics: m, processors: map[string]Processor{}}
}

// Register binds a job type to its processor and starts listening on queue.
func (p *Pool) Register(queue, jobType string, proc Processor) {
	p.processors[jobType] = proc
	for _, q := range p.queues {
		if q == queue {
			return
		}
	}
	p.queues = append(p.queues, queue)
}

// Start launches numWorkers goroutines consuming every registered queue.
// Each goroutine blocks on BRPOP, zero CPU when idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Int("workers", numWorkers).Strs("queues", p.queues).Msg("worker pool started")
}

func (p *Pool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
			if err != nil {
				continue
			}
			if len(result) < 2 {
				continue
			}
			p.procesar(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) procesar(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.rdb, queue, "", json.RawMessage(raw), "envelope invalido: "+err.Error(), 0)
		p.metrics.IncJob(queue, "dlq")
		return
	}
	if job.Queue == "" {
		job.Queue = queue
	}

	proc, ok := p.processors[job.Type]
	if !ok {
		log.Error().Str("type", job.Type).Str("queue", queue).Msg("no processor for job type")
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, "tipo de job desconocido", job.Intento)
		p.metrics.IncJob(queue, "dlq")
		return
	}

	err := proc.Process(ctx, job.Payload)
	switch accion, espera := resolverFallo(job, err); accion {
	case accionOK:
		p.metrics.IncJob(queue, "ok")
	case accionReintento:
		job.Intento++
		if rerr := programarReintento(ctx, p.rdb, job, time.Now().Add(espera)); rerr != nil {
			log.Error().Err(rerr).Str("type", job.Type).Msg("no se pudo programar el reintento")
		}
		log.Warn().Err(err).Str("type", job.Type).Int("intento", job.Intento).
			Dur("espera", espera).Msg("job fallido, reintento programado")
		p.metrics.IncJob(queue, "reintento")
	case accionDLQ:
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), job.Intento+1)
		p.metrics.IncJob(queue, "dlq")
	}
}

type accion int

const (
	accionOK accion = iota
	accionReintento
	accionDLQ
)

// resolverFallo decides what happens to a job after one attempt.
func resolverFallo(job Job, err error) (accion, time.Duration) {
	if err == nil {
		return accionOK, 0
	}
	if errors.Is(err, ErrPermanente) || job.Intento+1 >= MaxIntentos {
		return accionDLQ, 0
	}
	return accionReintento, Backoff(job.Intento + 1)
}
