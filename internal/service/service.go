// Package service implements the business rules of the bodega. Services
// validate input, run every mutation in one transaction and return
// *apierror.Error values for failures the client can act on.
package service

import (
	"context"
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/apierror"
	"github.com/DerliscrDev/bodega-eirete/internal/dto"
	"github.com/DerliscrDev/bodega-eirete/internal/repository"
	"github.com/DerliscrDev/bodega-eirete/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmailQueue enqueues outbound emails for the worker pool.
// *worker.Dispatcher satisfies it.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, payload worker.EmailJobPayload) error
}

// runTx executes fn inside a GORM transaction bound to ctx.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

// noEncontrado maps a missing row to a 404 with msg and passes other errors through.
func noEncontrado(err error, msg string) error {
	if repository.EsNoEncontrado(err) {
		return apierror.NotFound(msg)
	}
	return err
}

// duplicado maps a unique violation to a field error.
func duplicado(err error, campo, msg string) error {
	if repository.EsDuplicado(err) {
		return apierror.Validation(campo, msg)
	}
	return err
}

func parseID(campo, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apierror.Validation(campo, "Identificador invalido")
	}
	return id, nil
}

func parseIDOpcional(campo string, s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := parseID(campo, *s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseFecha(campo, s string) (time.Time, error) {
	t, err := time.ParseInLocation(dto.FormatoFecha, s, time.UTC)
	if err != nil {
		return time.Time{}, apierror.Validation(campo, "Fecha invalida, use AAAA-MM-DD")
	}
	return t, nil
}

func parseFechaOpcional(campo string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseFecha(campo, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func limitesRango(r dto.RangoFechas) (desde, hasta *time.Time, err error) {
	desde, hasta, err = r.Limites()
	if err != nil {
		return nil, nil, apierror.Validation("desde", err.Error())
	}
	return desde, hasta, nil
}

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// ahora is replaced in tests that need a fixed clock.
var ahora = func() time.Time { return time.Now().UTC() }

func fechaHora(t time.Time) string { return t.Format(time.RFC3339) }
