package db

import (
	"github.com/atlastours/atlas-backend/internal/app/model"
	"github.com/atlastours/atlas-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Tour{},
		&model.TourStartDate{},
		&model.Review{},
		&model.Booking{},
	}

	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
