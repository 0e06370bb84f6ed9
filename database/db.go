package database

import (
	"fmt"
	"log/slog"
	"time"

	"libraryhub/internal/config"
	"libraryhub/internal/microservices/http-api/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the Postgres connection pool and verifies it
func Connect(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	gormLogLevel := logger.Warn
	if cfg.LogLevel == "debug" {
		gormLogLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:  logger.Default.LogMode(gormLogLevel),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	// Verify the connection
	if err := sqlDB.Ping(); err != nil {
		// close the pool if ping fails to avoid resource leak
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Connected to the database successfully")
	return db, nil
}

// Migrate creates or updates the books, users and loans tables
func Migrate(db *gorm.DB, log *slog.Logger) error {
	// order matters, loans reference books and users
	if err := db.AutoMigrate(&models.Book{}, &models.User{}, &models.Loan{}); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	log.Info("Database migrations applied successfully")
	return nil
}

// Close releases the connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
