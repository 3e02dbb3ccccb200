package database

import (
	"fmt"
	"time"

	"parcel-payment/config"
	"parcel-payment/logger"
	"parcel-payment/models/log"
	"parcel-payment/models/parcel"
	"parcel-payment/models/payment"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to PostgreSQL and sizes the connection pool.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxOpenConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// InitDB opens the pooled connection and brings the schema up to date.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		logger.Error("Failed to run migrations", err)
		_ = Close(db)
		return nil, err
	}

	return db, nil
}

// Migrate runs auto migration for every model and creates the extra indexes.
func Migrate(db *gorm.DB) error {
	// Stage 1: domain tables
	stage1Models := []interface{}{
		&parcel.Parcel{},
		&payment.Record{},
		&parcel.ParcelPaymentEvent{},
	}

	for _, model := range stage1Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: request logging
	if err := db.AutoMigrate(&log.Log{}); err != nil {
		return fmt.Errorf("failed to migrate %T: %w", &log.Log{}, err)
	}
	logger.Success("All migrations completed successfully")

	if err := createIndexes(db); err != nil {
		return err
	}
	logger.Success("All indexes created successfully")

	return nil
}

// createIndexes creates indexes that struct tags cannot express.
func createIndexes(db *gorm.DB) error {
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_parcels_email_created_at ON parcels(email, created_at DESC)").Error; err != nil {
		return fmt.Errorf("failed to create parcel email/created_at index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_payment_email_paid_at ON payment(email, paid_at DESC)").Error; err != nil {
		return fmt.Errorf("failed to create payment email/paid_at index: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
