package storage

import (
	"fmt"
	"time"

	"github.com/AxelMcKenna/Liquorfy-sub000/config"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	maxIdleConns    = 5
	maxOpenConns    = 20
	connMaxLifetime = time.Hour
)

// DB wraps the GORM handle with the pipeline's persistence operations
type DB struct {
	gorm *gorm.DB
}

// Open connects to Postgres with the configured DSN, applies pool
// settings, and runs migrations
func Open(cfg *config.Config) (*DB, error) {
	logLevel := gormlogger.Error
	if cfg.Environment == "development" {
		logLevel = gormlogger.Info
	}

	pgConfig := postgres.Config{
		DSN:                  cfg.GetDSN(),
		PreferSimpleProtocol: true, // Disables implicit prepared statement usage
	}

	db, err := gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	store := &DB{gorm: db}
	if err := store.AutoMigrate(); err != nil {
		return nil, err
	}
	return store, nil
}

// OpenSQLite opens a file-backed database for tests and local
// development. The file allows one writer at a time, so the pool is
// capped at a single connection and concurrent writers queue there.
func OpenSQLite(path string) (*DB, error) {
	dsn := path + "?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	store := &DB{gorm: db}
	if err := store.AutoMigrate(); err != nil {
		return nil, err
	}
	return store, nil
}

// AutoMigrate creates or updates the schema for all pipeline tables
func (d *DB) AutoMigrate() error {
	if err := d.gorm.AutoMigrate(&Product{}, &Store{}, &Price{}, &IngestionRun{}); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	return nil
}
