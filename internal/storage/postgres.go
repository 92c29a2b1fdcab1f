package storage

import (
	"fmt"

	"go.uber.org/zap"
	postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OpenPostgres establishes a connection to a Postgres-compatible service and
// performs schema migrations.
func OpenPostgres(dsn string, logger *zap.Logger) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database dsn is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := migrateSchema(db, logger); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("postgres database initialized")
	}

	return db, nil
}
