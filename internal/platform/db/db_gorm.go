// Package db opens the GORM connection used for analysis history.
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"resume_optimizer/internal/feature/resumeanalysis/adapters"
)

const (
	// DriverSQLite stores history in a local SQLite file.
	DriverSQLite = "sqlite"
	// DriverPostgres stores history in PostgreSQL through pgx.
	DriverPostgres = "postgres"

	// DefaultSQLiteDSN is used when DB_DRIVER=sqlite and DB_DSN is empty.
	DefaultSQLiteDSN = "resume_optimizer.db"

	connectTimeout = 60 * time.Second
	retryInterval  = 3 * time.Second
)

// ErrUnknownDriver is returned for a DB_DRIVER value other than sqlite or postgres.
var ErrUnknownDriver = errors.New("unknown database driver")

// Config holds the database settings read from the environment.
// An empty Driver disables history.
type Config struct {
	Driver string
	DSN    string
}

// Opener opens a GORM connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// LoadConfigFromEnv reads DB_DRIVER and DB_DSN.
func LoadConfigFromEnv() Config {
	cfg := Config{
		Driver: strings.ToLower(strings.TrimSpace(os.Getenv("DB_DRIVER"))),
		DSN:    os.Getenv("DB_DSN"),
	}
	if cfg.Driver == DriverSQLite && cfg.DSN == "" {
		cfg.DSN = DefaultSQLiteDSN
	}
	return cfg
}

// Enabled reports whether a history database is configured.
func (c Config) Enabled() bool {
	return c.Driver != ""
}

// OpenerFor returns the Opener for a driver name.
func OpenerFor(driver string) (Opener, error) {
	switch driver {
	case DriverSQLite:
		return openSQLite, nil
	case DriverPostgres:
		return openPostgres, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func openSQLite(dsn string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
}

// openPostgres connects through pgx's database/sql adapter so the pgx config parser handles the DSN.
func openPostgres(dsn string) (*gorm.DB, error) {
	pgxCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	sqlDB := stdlib.OpenDB(*pgxCfg)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// ConnectWithRetry calls opener until it succeeds or the next attempt would pass timeout.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %v: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

// OpenDB connects to the configured database and migrates the history table.
func OpenDB(cfg Config) (*gorm.DB, error) {
	opener, err := OpenerFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := ConnectWithRetry(cfg.DSN, connectTimeout, opener)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&adapters.AnalysisModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	slog.Info("history database ready", "driver", cfg.Driver)
	return db, nil
}
