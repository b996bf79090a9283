package db

import (
	"fmt"

	types "github.com/yungbote/carbonmatch-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.All()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

// EnsureMatchIndexes adds indexes gorm tags cannot express portably.
func EnsureMatchIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	// Pending queue scan: processed/approved/error_code filter ordered by id.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_line_item_pending
		ON app_deliverynote_data (id)
		WHERE error_code = 0 AND (processed = false OR approved = true);
	`).Error; err != nil {
		return fmt.Errorf("create idx_line_item_pending: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_product_mapping_desc_lower
		ON product_mapping (lower(product_description));
	`).Error; err != nil {
		return fmt.Errorf("create idx_product_mapping_desc_lower: %w", err)
	}
	return nil
}

func (s *DatabaseService) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureMatchIndexes(s.db); err != nil {
		s.log.Error("Index migration failed", "error", err)
		return err
	}
	return nil
}
