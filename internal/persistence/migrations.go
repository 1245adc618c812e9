package persistence

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const migrationsDir = "migrations"

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	if db == nil {
		logger.Warn("no database handle available; skipping migrations")
		return nil
	}

	goose.SetBaseFS(migrationFS)
	goose.SetLogger(zapGooseLogger{logger: logger.Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("read migration version: %w", err)
	}
	logger.Info("migrations applied", zap.Int64("version", version))
	return nil
}

type zapGooseLogger struct {
	logger *zap.SugaredLogger
}

func (l zapGooseLogger) Fatalf(format string, v ...interface{}) { l.logger.Fatalf(format, v...) }
func (l zapGooseLogger) Printf(format string, v ...interface{}) { l.logger.Infof(format, v...) }
