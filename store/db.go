package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

const pingTimeout = 10 * time.Second

// DB wraps sqlx.DB with the driver it was opened with; queries are written
// with `?` placeholders and rebound per driver.
type DB struct {
	*sqlx.DB
	Driver string
}

// OpenFromConfig picks a driver from the configuration: an explicit driver
// wins, otherwise a db_url means postgres and anything else is sqlite.
func OpenFromConfig(dbURL, sqlitePath, driverOverride string) (*DB, error) {
	driver, dsn, err := resolveDriver(dbURL, sqlitePath, driverOverride)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// sqlite serialises writers; one connection avoids SQLITE_BUSY under load.
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{DB: db, Driver: driver}, nil
}

func resolveDriver(dbURL, sqlitePath, driverOverride string) (driver, dsn string, err error) {
	if sqlitePath == "" {
		sqlitePath = "hrportal.db"
	}
	switch strings.ToLower(strings.TrimSpace(driverOverride)) {
	case "", "default":
		if dbURL != "" {
			return DriverPostgres, dbURL, nil
		}
		return DriverSQLite, sqlitePath, nil
	case "postgres", "pgx":
		if dbURL == "" {
			return "", "", fmt.Errorf("db_url required for %s driver", driverOverride)
		}
		return DriverPostgres, dbURL, nil
	case "sqlite", "sqlite3":
		return DriverSQLite, sqlitePath, nil
	default:
		return "", "", fmt.Errorf("unsupported db driver %q", driverOverride)
	}
}

func (db *DB) Close() error {
	if db == nil || db.DB == nil {
		return nil
	}
	return db.DB.Close()
}
