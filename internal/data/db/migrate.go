package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/mealpersona-backend/internal/domain"
)

// Constraints GORM tags cannot express. Both postgres and sqlite accept
// partial indexes.
var constraintStatements = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_challenge_one_active ON challenge (user_id) WHERE status = 'ACTIVE'`,
	`CREATE INDEX IF NOT EXISTS idx_meal_challenge_time ON meal (challenge_id, meal_time DESC)`,
}

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	for _, stmt := range constraintStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply constraint: %w", err)
		}
	}
	return nil
}
