package db

import (
	"fmt"
	"time"

	"github.com/atlastours/atlas-backend/config"
	"github.com/atlastours/atlas-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	maxIdleConns    = 10
	maxOpenConns    = 100
	connMaxLifetime = time.Hour
)

// conn is the process-wide connection, set once by Initialize.
var conn *gorm.DB

// Initialize opens the PostgreSQL connection pool for the process.
func Initialize(cfg *config.DatabaseConfig) error {
	logger.Info("Connecting to database", map[string]interface{}{
		"host":     cfg.Host,
		"port":     cfg.Port,
		"database": cfg.DBName,
		"user":     cfg.User,
	})

	gormDB, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		// gorm's own query logging stays silent; anything worth surfacing
		// is logged at the repository layer.
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("open postgres connection: %w", err)
	}

	pool, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("access connection pool: %w", err)
	}
	pool.SetMaxIdleConns(maxIdleConns)
	pool.SetMaxOpenConns(maxOpenConns)
	pool.SetConnMaxLifetime(connMaxLifetime)

	conn = gormDB

	logger.Info("Database ready", map[string]interface{}{
		"max_idle_conns": maxIdleConns,
		"max_open_conns": maxOpenConns,
	})
	return nil
}

// Close releases the connection pool.
func Close() error {
	pool, err := conn.DB()
	if err != nil {
		return err
	}
	return pool.Close()
}

// GetDB returns the process-wide connection.
func GetDB() *gorm.DB {
	return conn
}
