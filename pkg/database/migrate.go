package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/mentorlink/mentorlink-api/db"
)

// Migrate applies all pending schema migrations, including the NOTIFY triggers
// the stream layer depends on.
func Migrate(ctx context.Context, conn *sqlx.DB) error {
	goose.SetBaseFS(db.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, conn.DB, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// MigrationVersion reports the current schema version.
func MigrationVersion(ctx context.Context, conn *sqlx.DB) (int64, error) {
	version, err := goose.GetDBVersionContext(ctx, conn.DB)
	if err != nil {
		return 0, fmt.Errorf("get migration version: %w", err)
	}
	return version, nil
}
