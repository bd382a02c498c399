package database

import (
	"fmt"
	"log"

	"github.com/rosedale/studio-api/internal/config"
	"github.com/rosedale/studio-api/internal/domain/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Unique violations surface as gorm.ErrDuplicatedKey so the
		// reconciliation layer can treat them as recoverable
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Load is webhook-driven and low-volume; a modest pool is plenty
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(25)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Reference entities
		&entity.Agent{},
		&entity.Location{},
		&entity.Item{},

		// Canonical person record
		&entity.Customer{},

		// Purchase entities
		&entity.Order{},
		&entity.OrderLineItem{},
		&entity.Transaction{},
		&entity.Appointment{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}
