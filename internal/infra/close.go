package infra

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// Close releases the database pool and the redis client, reporting every
// failure rather than only the first.
func Close(db *gorm.DB, rdb *redis.Client) error {
	var err error
	if db != nil {
		if sqlDB, e := db.DB(); e != nil {
			err = multierr.Append(err, e)
		} else {
			err = multierr.Append(err, sqlDB.Close())
		}
	}
	if rdb != nil {
		err = multierr.Append(err, rdb.Close())
	}
	return err
}
