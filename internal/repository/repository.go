// Package repository holds the GORM data access layer. Every repository is an
// interface backed by a private struct so services can be tested against an
// in-memory database or a stub.
package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned by Find* methods when no row matches.
var ErrNotFound = gorm.ErrRecordNotFound

// forUpdate emits SELECT ... FOR UPDATE. The sqlite dialect ignores it.
var forUpdate = clause.Locking{Strength: "UPDATE"}

// conn returns tx when the caller is inside a transaction, otherwise the
// base handle bound to ctx.
func conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

// EsDuplicado reports whether err is a unique constraint violation.
func EsDuplicado(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// EsNoEncontrado reports whether err means the row does not exist.
func EsNoEncontrado(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// like builds a case-insensitive LIKE pattern usable on postgres and sqlite.
func like(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

// filtrarActivo applies the shared activo query convention:
// "true" = activos, "false" = inactivos, anything else = todos.
func filtrarActivo(q *gorm.DB, activo string) *gorm.DB {
	switch activo {
	case "true":
		return q.Where("activo = ?", true)
	case "false":
		return q.Where("activo = ?", false)
	}
	return q
}

func paginar(q *gorm.DB, page, limit int) *gorm.DB {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return q.Limit(limit).Offset((page - 1) * limit)
}
