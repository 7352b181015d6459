package infra

import (
	"context"
	"fmt"

	"github.com/DerliscrDev/bodega-eirete/migrations"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

// Migrar runs a goose command ("up", "down", "status", "version", "redo",
// "reset") against the embedded SQL migrations.
func Migrar(ctx context.Context, db *gorm.DB, comando string, args ...string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, comando, sqlDB, ".", args...); err != nil {
		return fmt.Errorf("goose %s: %w", comando, err)
	}
	return nil
}
