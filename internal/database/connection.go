package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"contactform/internal/config"
	"contactform/internal/domain"
	"contactform/internal/metrics"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	connMaxIdleTime = 10 * time.Minute
	pingTimeout     = 5 * time.Second
)

// Open connects to the configured database, tunes the pool and migrates
// the schema. The caller owns the returned handle and closes it with Close.
func Open(cfg config.DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	log = log.With("component", "database")

	var dialector gorm.Dialector
	var sqlDB *sql.DB

	if cfg.IsPostgres() {
		log.Info("connecting to PostgreSQL database")
		dialector = postgres.Open(cfg.GetPostgresDSN())
	} else {
		log.Info("connecting to SQLite database")
		dbPath := cfg.GetSQLitePath()
		var err error
		sqlDB, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database: %w", err)
		}
		// SQLite has a single writer, and every ":memory:" connection is its
		// own database.
		sqlDB.SetMaxOpenConns(1)
		dialector = sqlite.Dialector{
			DriverName: "sqlite",
			DSN:        dbPath,
			Conn:       sqlDB,
		}
	}

	// SQL is never logged; errors are returned to callers instead.
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.IsPostgres() {
		pool, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}

		pool.SetMaxOpenConns(maxOpenConns)
		pool.SetMaxIdleConns(maxIdleConns)
		pool.SetConnMaxLifetime(connMaxLifetime)
		pool.SetConnMaxIdleTime(connMaxIdleTime)

		log.Info("connection pool configured", "max_open", maxOpenConns, "max_idle", maxIdleConns)
	}

	if err := HealthCheck(context.Background(), db); err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("database connection test failed: %w", err)
	}

	log.Info("running database migrations")
	if err := Migrate(db); err != nil {
		_ = Close(db)
		return nil, err
	}

	log.Info("database connected and migrated")
	return db, nil
}

// Migrate creates or updates the contacts table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.Contact{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// HealthCheck pings the database and refreshes the pool gauges.
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	stats := sqlDB.Stats()
	metrics.UpdateDBConnections(stats.InUse, stats.Idle)
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
