package migrations

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/CoderHarshaVardhan/playX/internal/models"
	"github.com/CoderHarshaVardhan/playX/pkg/logger"
)

// RegisterModels returns all models that need migration, parents first.
func RegisterModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Venue{},
		&models.Slot{},
		&models.SlotPlayer{},
	}
}

// Run executes all database migrations.
func Run(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(RegisterModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return runCustomMigrations(db)
}

type customMigration struct {
	name string
	fn   func(*gorm.DB) error
	// optional steps log and continue on failure
	optional bool
}

// runCustomMigrations handles schema changes AutoMigrate can't handle
func runCustomMigrations(db *gorm.DB) error {
	return applyMigrations(db, []customMigration{
		{name: "open_slots_index", fn: addOpenSlotsIndex},
		// pg_trgm needs CREATE on the database; without it sport search
		// falls back to a sequential scan.
		{name: "slot_sport_trgm", fn: addSportSearchIndex, optional: true},
	})
}

func applyMigrations(db *gorm.DB, steps []customMigration) error {
	for _, m := range steps {
		err := m.fn(db)
		if err == nil {
			continue
		}
		if !m.optional {
			return fmt.Errorf("migration %s: %w", m.name, err)
		}
		logger.L().Warn("optional migration skipped", zap.String("migration", m.name), zap.Error(err))
	}
	return nil
}

// addOpenSlotsIndex serves the newest-first browse of open slots.
func addOpenSlotsIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_slots_open_created
		ON slots (created_at DESC)
		WHERE status = 'Open'
	`).Error
}

func addSportSearchIndex(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`).Error; err != nil {
		return err
	}
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_slots_sport_trgm
		ON slots USING gin (LOWER(sport) gin_trgm_ops)
	`).Error
}
