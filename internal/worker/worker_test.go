package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type senderFalso struct {
	err      error
	llamadas []EmailJobPayload
}

func (s *senderFalso) Send(to, subject, body, adjunto string) error {
	s.llamadas = append(s.llamadas, EmailJobPayload{ToEmail: to, Subject: subject, Body: body, PDFPath: adjunto})
	return s.err
}

func payloadEmail(t *testing.T, p EmailJobPayload) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	return raw
}

func TestEmailWorker_Envia(t *testing.T) {
	s := &senderFalso{}
	w := NewEmailWorker(s, nil)

	err := w.Process(context.Background(), payloadEmail(t, EmailJobPayload{
		ToEmail: "cliente@example.com", Subject: "Factura", Body: "cuerpo", PDFPath: "/tmp/factura.pdf",
	}))

	require.NoError(t, err)
	require.Len(t, s.llamadas, 1)
	assert.Equal(t, "/tmp/factura.pdf", s.llamadas[0].PDFPath)
}

func TestEmailWorker_PayloadInvalidoEsPermanente(t *testing.T) {
	w := NewEmailWorker(&senderFalso{}, nil)

	err := w.Process(context.Background(), json.RawMessage(`{"to_email":`))
	assert.ErrorIs(t, err, ErrPermanente)

	err = w.Process(context.Background(), payloadEmail(t, EmailJobPayload{Subject: "sin destinatario"}))
	assert.ErrorIs(t, err, ErrPermanente)
}

func TestEmailWorker_BreakerAbiertoNoLlamaAlSMTP(t *testing.T) {
	s := &senderFalso{err: errors.New("connection refused")}
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{FailureThreshold: 2, OpenTimeout: time.Hour})
	w := NewEmailWorker(s, cb)
	raw := payloadEmail(t, EmailJobPayload{ToEmail: "a@example.com"})

	assert.Error(t, w.Process(context.Background(), raw))
	assert.Error(t, w.Process(context.Background(), raw))
	err := w.Process(context.Background(), raw)

	assert.ErrorIs(t, err, infra.ErrCircuitOpen)
	assert.NotErrorIs(t, err, ErrPermanente)
	assert.Len(t, s.llamadas, 2)
}

func TestBackoff(t *testing.T) {
	cases := map[int]time.Duration{
		0:  30 * time.Second,
		1:  30 * time.Second,
		2:  time.Minute,
		3:  2 * time.Minute,
		4:  4 * time.Minute,
		7:  30 * time.Minute,
		20: 30 * time.Minute,
	}
	for intento, esperado := range cases {
		assert.Equal(t, esperado, Backoff(intento), "intento %d", intento)
	}
}

func TestResolverFallo(t *testing.T) {
	fallo := errors.New("smtp caido")

	a, d := resolverFallo(Job{}, nil)
	assert.Equal(t, accionOK, a)
	assert.Zero(t, d)

	a, d = resolverFallo(Job{Intento: 0}, fallo)
	assert.Equal(t, accionReintento, a)
	assert.Equal(t, 30*time.Second, d)

	a, d = resolverFallo(Job{Intento: 3}, fallo)
	assert.Equal(t, accionReintento, a)
	assert.Equal(t, 4*time.Minute, d)

	a, _ = resolverFallo(Job{Intento: MaxIntentos - 1}, fallo)
	assert.Equal(t, accionDLQ, a)

	a, _ = resolverFallo(Job{}, Permanente(fallo))
	assert.Equal(t, accionDLQ, a)
}

func TestNuevaEntradaDLQ(t *testing.T) {
	at := time.Date(2026, 5, 2, 13, 0, 0, 0, time.FixedZone("PYT", -3*3600))

	e := nuevaEntradaDLQ(QueueEmail, JobEmail, json.RawMessage(`{"to_email":"x"}`), "max intentos", 5, at)
	assert.Equal(t, "2026-05-02T16:00:00Z", e.FailedAt)
	assert.JSONEq(t, `{"to_email":"x"}`, string(e.Payload))

	e = nuevaEntradaDLQ(QueueEmail, "", json.RawMessage("no es json"), "envelope invalido", 0, at)
	assert.JSONEq(t, `"no es json"`, string(e.Payload))
}

func TestPool_RegisterNoDuplicaColas(t *testing.T) {
	p := NewPool(nil, nil)
	w := NewEmailWorker(&senderFalso{}, nil)

	p.Register(QueueEmail, JobEmail, w)
	p.Register(QueueEmail, "otro", w)

	assert.Equal(t, []string{QueueEmail}, p.queues)
	assert.Len(t, p.processors, 2)
}
