// Package dto holds the request and response shapes of the HTTP API.
package dto

import (
	"errors"
	"time"
)

// FormatoFecha is the date layout accepted in query strings.
const FormatoFecha = "2006-01-02"

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type Paginacion struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=20" validate:"min=1,max=100"`
}

// RangoFechas filters by an inclusive [desde, hasta] day range.
type RangoFechas struct {
	Desde string `form:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta string `form:"hasta" validate:"omitempty,datetime=2006-01-02"`
}

// Limites parses the range. Hasta is returned as the start of the following
// day so callers can filter with "< hasta".
func (r RangoFechas) Limites() (desde, hasta *time.Time, err error) {
	if r.Desde != "" {
		d, err := time.ParseInLocation(FormatoFecha, r.Desde, time.UTC)
		if err != nil {
			return nil, nil, err
		}
		desde = &d
	}
	if r.Hasta != "" {
		h, err := time.ParseInLocation(FormatoFecha, r.Hasta, time.UTC)
		if err != nil {
			return nil, nil, err
		}
		h = h.AddDate(0, 0, 1)
		hasta = &h
	}
	if desde != nil && hasta != nil && !desde.Before(*hasta) {
		return nil, nil, errors.New("desde debe ser anterior o igual a hasta")
	}
	return desde, hasta, nil
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ListResponse[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

func NewListResponse[T any](data []T, total int64, p Paginacion) *ListResponse[T] {
	if data == nil {
		data = []T{}
	}
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return &ListResponse[T]{Data: data, Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}
}

type ToggleResponse struct {
	ID     string `json:"id"`
	Activo bool   `json:"activo"`
}

// FormatearFecha renders an optional timestamp as RFC3339.
func FormatearFecha(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// FormatearDia renders an optional date as YYYY-MM-DD.
func FormatearDia(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(FormatoFecha)
	return &s
}
