package storage

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type migrationRecord struct {
	Name      string    `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAt time.Time `gorm:"column:applied_at;not null"`
}

// TableName provides the explicit table binding for GORM.
func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

const migrationBackfillNoteVersions = "2026-07-12_backfill_note_versions"

// migrateSchema runs AutoMigrate for every record type and then applies named
// data migrations exactly once each.
func migrateSchema(db *gorm.DB, logger *zap.Logger) error {
	if err := db.AutoMigrate(
		&boardRecord{},
		&noteRecord{},
		&commentRecord{},
		&userRecord{},
		&roleRecord{},
		&migrationRecord{},
	); err != nil {
		return err
	}
	return applyMigrations(db, logger)
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationBackfillNoteVersions, apply: backfillNoteVersions},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := migration.apply(db); err != nil {
			return err
		}
		applied := migrationRecord{Name: migration.name, AppliedAt: time.Now().UTC()}
		if err := db.Create(&applied).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// Rows written before versioning carried NULL versions on some deployments;
// normalize them to zero so version arithmetic stays defined.
func backfillNoteVersions(db *gorm.DB) error {
	return db.Model(&noteRecord{}).
		Where("version IS NULL").
		Update("version", 0).Error
}
