package db

import (
	"time"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"cryptidwatch/pkg/logger"
)

// WithLogger routes GORM's SQL log through the app logger's file writer.
func WithLogger(log *logger.Logger) DBOptions {
	return func(db *gorm.DB) error {
		db.Config.Logger = gormLogger.New(
			log.Log,
			gormLogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormLogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		)
		return nil
	}
}
