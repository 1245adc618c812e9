package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/visage-campus/visage-backend/internal/domain"
)

// DBTX is the subset of database/sql used by repositories. Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// mapStoreError folds driver errors into the domain taxonomy.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return domain.ErrDuplicateIdentity
		case foreignKeyViolation:
			return fmt.Errorf("%w: unknown role", domain.ErrNotFound)
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
