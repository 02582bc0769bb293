package database

import (
	"log"

	"eventmate-backend/config"
	"eventmate-backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the Postgres pool and runs migrations. The handle is
// returned to the caller (and passed into handlers explicitly) instead of
// living in a package-level variable, so its lifecycle belongs to main.
func Connect() (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(config.AppConfig.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	log.Println("✅ Database connected successfully")

	// Auto-migrate owned tables plus the collaborator read models
	// (users/events/attendees are written by the events service; migrating
	// them here only matters for local development and tests).
	err = db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.EventAttendee{},
		&models.Expense{},
		&models.Settlement{},
		&models.Activity{},
	)
	if err != nil {
		return nil, err
	}

	log.Println("✅ Database migrated successfully")
	return db, nil
}
