package infra

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// NewDatabase opens the Postgres connection pool. Schema is managed by the
// goose migrations in migrations/, never by AutoMigrate.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := RegistrarCallbacks(db); err != nil {
		return nil, fmt.Errorf("callbacks: %w", err)
	}
	return db, nil
}

var uuidType = reflect.TypeOf(uuid.UUID{})

// RegistrarCallbacks installs the create callback that assigns a random UUID
// to empty uuid primary keys, so ids are known before INSERT on every dialect.
func RegistrarCallbacks(db *gorm.DB) error {
	return db.Callback().Create().Before("gorm:create").Register("bodega:asignar_uuid", asignarUUID)
}

func asignarUUID(db *gorm.DB) {
	if db.Statement.Schema == nil {
		return
	}
	field := db.Statement.Schema.PrioritizedPrimaryField
	if field == nil || field.FieldType != uuidType {
		return
	}

	rv := db.Statement.ReflectValue
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			asignarSiVacio(db, field, reflect.Indirect(rv.Index(i)))
		}
	case reflect.Struct:
		asignarSiVacio(db, field, rv)
	}
}

func asignarSiVacio(db *gorm.DB, field *schema.Field, rv reflect.Value) {
	if _, vacio := field.ValueOf(db.Statement.Context, rv); vacio {
		if err := field.Set(db.Statement.Context, rv, uuid.New()); err != nil {
			_ = db.AddError(err)
		}
	}
}
