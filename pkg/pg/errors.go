package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrInvalidConfig        = errors.New("pg: invalid connection config")
	ErrConnectFailed        = errors.New("pg: could not connect to database")
	ErrHealthcheck          = errors.New("pg: healthcheck failed")
	ErrMigrationFailed      = errors.New("pg: migrations failed")
	ErrMigrationsDirMissing = errors.New("pg: migrations directory not found")
)

// IsNotFound reports whether err is pgx's empty-result error, letting the
// storage layers translate it into their own ErrNotFound sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKey reports a unique-constraint violation (SQLSTATE 23505),
// e.g. registering the same push endpoint or device token twice.
func IsDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsForeignKeyViolation reports a referential-integrity violation
// (SQLSTATE 23503).
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
