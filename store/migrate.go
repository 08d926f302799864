package store

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql
var sqliteMigrations embed.FS

//go:embed migrations/postgres/*.sql
var postgresMigrations embed.FS

// goose keeps dialect and base FS in package globals.
var migrateMu sync.Mutex

// Migrate applies the embedded goose migrations for the database's driver.
func Migrate(ctx context.Context, db *DB) error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("db is nil")
	}

	migrateMu.Lock()
	defer migrateMu.Unlock()

	dialect, fsys, dir := "sqlite3", sqliteMigrations, "migrations/sqlite"
	if db.Driver == DriverPostgres {
		dialect, fsys, dir = "postgres", postgresMigrations, "migrations/postgres"
	}

	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)
	return goose.UpContext(ctx, db.DB.DB, dir)
}
