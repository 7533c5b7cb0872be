// Package database provides GORM connection helpers shared by the
// PostgreSQL-backed storage code.
package database

import (
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/edwenger/larval-habitat/internal/log"
	"go.uber.org/zap"
)

// CreateConnection creates a database connection with standard GORM
// configuration, routing GORM's logging through our zap logger
func CreateConnection(connectionString string) (*gorm.DB, error) {
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  logger.Warn, // Log level
			IgnoreRecordNotFoundError: true,        // Ignore ErrRecordNotFound error for logger
			Colorful:                  false,
		},
	)

	return gorm.Open(postgres.Open(connectionString), &gorm.Config{
		Logger: dbLogger,
	})
}
