package db

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

func withGoose(run func(dir string) error) error {
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return run(migrationsDir)
}

// RunMigrations applies every pending migration. A nil database (memory mode) is a no-op.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	return withGoose(func(dir string) error { return goose.UpContext(ctx, database, dir) })
}

// RollbackLast reverts the most recent migration.
func RollbackLast(ctx context.Context, database *sql.DB) error {
	return withGoose(func(dir string) error { return goose.DownContext(ctx, database, dir) })
}

// Status prints the applied state of each migration.
func Status(ctx context.Context, database *sql.DB) error {
	return withGoose(func(dir string) error { return goose.StatusContext(ctx, database, dir) })
}
