package worker

// email_worker.go
// Sends invoice PDFs and account activation emails queued on QueueEmail.
// Every delivery goes through the SMTP circuit breaker.

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/DerliscrDev/bodega-eirete/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail. PDFPath is
// attached when set.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path,omitempty"`
}

// Sender delivers one email. *infra.Mailer satisfies it.
type Sender interface {
	Send(to, subject, body, adjunto string) error
}

type EmailWorker struct {
	sender Sender
	cb     *infra.CircuitBreaker
}

// NewEmailWorker creates an EmailWorker. A nil cb gets the default breaker.
func NewEmailWorker(sender Sender, cb *infra.CircuitBreaker) *EmailWorker {
	if cb == nil {
		cb = infra.NewCircuitBreaker(infra.DefaultCBConfig())
	}
	return &EmailWorker{sender: sender, cb: cb}
}

// Process sends one email. Malformed payloads fail permanently; SMTP errors
// and an open breaker are retried.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Permanente(err)
	}
	if strings.TrimSpace(payload.ToEmail) == "" {
		return Permanente(errors.New("to_email vacio"))
	}

	err := w.cb.Execute(func() error {
		return w.sender.Send(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
	})
	if err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Str("cb", w.cb.State().String()).
			Msg("email_worker: failed to send email")
		return err
	}
	log.Info().Str("to", payload.ToEmail).Str("subject", payload.Subject).Msg("email_worker: email sent")
	return nil
}
