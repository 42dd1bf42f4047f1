package postgres

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shelterhub/backend/internal/apperr"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translate converts store-level signals into the shared error taxonomy at
// the repository boundary so Postgres codes never leak upward.
func translate(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("%s not found", entity)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.Conflict("%s violates a unique constraint", entity)
		case pgForeignKeyViolation:
			return apperr.BadRequest("%s references a row that does not exist", entity)
		}
	}
	return err
}
