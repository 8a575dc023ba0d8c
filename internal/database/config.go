package database

import (
	"context"
	"fmt"
	"time"

	"selfcare/internal/config"
	"selfcare/internal/models"
	"selfcare/internal/utils"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// ReminderPollPattern matches the reminder worker's due-reminder query so
// the SQL logger can skip it.
const ReminderPollPattern = `"reminder" WHERE status =`

// GormConfig returns the gorm settings shared by every dialect.
func GormConfig(log *zap.Logger, level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger: utils.NewGormLogger(log.Named("sql"), level, time.Second, ReminderPollPattern),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true, // Use singular table names
		},
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: false,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Open connects to PostgreSQL, retrying while the database comes up.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	gormConfig := GormConfig(log, logger.Warn)
	gormConfig.PrepareStmt = true

	attempts := cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var (
		db  *gorm.DB
		err error
	)
	for i := 0; i < attempts; i++ {
		db, err = gorm.Open(postgres.Open(cfg.ConnectionString()), gormConfig)
		if err == nil {
			break
		}
		log.Warn("database connection attempt failed",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", attempts),
			zap.Error(err))
		if i < attempts-1 {
			time.Sleep(cfg.RetryDelay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	log.Info("database connection established")
	return db, nil
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Medication{},
		&models.Doctor{},
		&models.Reminder{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Ping checks the connection is alive.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
