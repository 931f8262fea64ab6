package db

import (
	"context"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cryptidwatch/pkg/utils"
)

type DBOptions func(*gorm.DB) error

// NewDB opens the Postgres connection and migrates the given models.
func NewDB(ctx context.Context, dsn string, models []interface{}, opts ...DBOptions) (*gorm.DB, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "DB initialization canceled")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, utils.NewError(utils.ErrInternalServerError.Code, "Failed to connect to Database", err.Error())
	}

	for _, opt := range opts {
		if err := opt(db); err != nil {
			return nil, utils.NewError(utils.ErrInternalServerError.Code, "Failed to apply DB options", err.Error())
		}
	}

	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return nil, utils.NewError(utils.ErrInternalServerError.Code, "Failed to migrate models", err.Error())
	}

	return db, nil
}

// CloseDB releases the underlying connection pool.
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return utils.NewError(utils.ErrInternalServerError.Code, "Failed to close database", err.Error())
	}
	if err := sqlDB.Close(); err != nil {
		return utils.NewError(utils.ErrInternalServerError.Code, "Failed to close database", err.Error())
	}
	return nil
}
