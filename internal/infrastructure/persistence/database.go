// Package persistence stores normalized marketplace order snapshots with GORM.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/siparisbot/backend/internal/infrastructure/config"
	"github.com/siparisbot/backend/internal/infrastructure/logger"
	"github.com/siparisbot/backend/internal/infrastructure/persistence/models"
)

// Database holds the database connection
type Database struct {
	DB *gorm.DB
}

// NewDatabase connects to PostgreSQL, applies the pool settings and checks the connection
func NewDatabase(cfg *config.DatabaseConfig, zapLogger *zap.Logger) (*Database, error) {
	db, err := Open(postgres.Open(cfg.DSN()), zapLogger, cfg.LogLevel, cfg.SlowQueryThresh, cfg.DBName)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Open opens a GORM connection on any dialector with the zap query logger and
// OpenTelemetry tracing installed
func Open(dialector gorm.Dialector, zapLogger *zap.Logger, logLevel string, slowThreshold time.Duration, dbName string) (*Database, error) {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.NewGormLogger(zapLogger, logger.MapGormLogLevel(logLevel), slowThreshold),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Use(otelgorm.NewPlugin(otelgorm.WithDBName(dbName))); err != nil {
		return nil, fmt.Errorf("failed to install tracing plugin: %w", err)
	}

	return &Database{DB: db}, nil
}

// AutoMigrate creates or updates the order snapshot table
func (d *Database) AutoMigrate() error {
	if err := d.DB.AutoMigrate(&models.OrderRecord{}); err != nil {
		return fmt.Errorf("failed to migrate order records: %w", err)
	}
	return nil
}

// DropSchema drops the order snapshot table
func (d *Database) DropSchema() error {
	if err := d.DB.Migrator().DropTable(&models.OrderRecord{}); err != nil {
		return fmt.Errorf("failed to drop order records: %w", err)
	}
	return nil
}

// SchemaStatus describes the migrated state of the order snapshot table
type SchemaStatus struct {
	Table    string
	Exists   bool
	Rows     int64
	HasIndex bool
}

// Status reports whether the order table exists and how many rows it holds
func (d *Database) Status(ctx context.Context) (SchemaStatus, error) {
	table := models.OrderRecord{}.TableName()
	status := SchemaStatus{Table: table}

	m := d.DB.WithContext(ctx).Migrator()
	if !m.HasTable(&models.OrderRecord{}) {
		return status, nil
	}
	status.Exists = true
	status.HasIndex = m.HasIndex(&models.OrderRecord{}, "idx_marketplace_orders_key")

	if err := d.DB.WithContext(ctx).Model(&models.OrderRecord{}).Count(&status.Rows).Error; err != nil {
		return status, fmt.Errorf("failed to count order records: %w", err)
	}
	return status, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Ping()
}

// Stats returns database connection pool statistics
func (d *Database) Stats() (ConnectionStats, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return ConnectionStats{}, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	stats := sqlDB.Stats()
	return ConnectionStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration,
	}, nil
}

// ConnectionStats holds database connection pool statistics
type ConnectionStats struct {
	MaxOpenConnections int
	OpenConnections    int
	InUse              int
	Idle               int
	WaitCount          int64
	WaitDuration       time.Duration
}
