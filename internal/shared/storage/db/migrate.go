package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"

	"cv-matcher/internal/shared/telemetry"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

var errNoDatabase = errors.New("no database connection")

// RunMigrations brings the users schema up to date. A nil database is a no-op
// so the in-memory profile store can run without Postgres.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	return migrate(ctx, database, "up", goose.UpContext)
}

// RollbackMigration reverts the most recent migration.
func RollbackMigration(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return errNoDatabase
	}
	return migrate(ctx, database, "down", goose.DownContext)
}

// MigrationStatus logs the applied state of every migration.
func MigrationStatus(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return errNoDatabase
	}
	return migrate(ctx, database, "status", goose.StatusContext)
}

type gooseCommand func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error

func migrate(ctx context.Context, database *sql.DB, name string, run gooseCommand) error {
	goose.SetBaseFS(migrationFiles)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := run(ctx, database, migrationsDir); err != nil {
		return fmt.Errorf("migrate %s: %w", name, err)
	}
	return nil
}

// gooseLogger forwards goose progress lines as db.migrate log events.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	telemetry.Info("db.migrate", map[string]any{
		"detail": strings.TrimSpace(fmt.Sprintf(format, v...)),
	})
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	telemetry.Error("db.migrate_fatal", map[string]any{
		"detail": strings.TrimSpace(fmt.Sprintf(format, v...)),
	})
}
