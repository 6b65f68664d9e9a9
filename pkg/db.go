package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repos react to
// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgCodeUniqueViolation     = "23505"
	pgCodeForeignKeyViolation = "23503"
	pgCodeCheckViolation      = "23514"
)

// PgErrorCode returns the SQLSTATE of a wrapped postgres error, or "" when err is not one.
func PgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// PgConstraintName returns the violated constraint, if postgres reported one.
func PgConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// IsUniqueViolationError is true for duplicate slugs, usernames and the like.
func IsUniqueViolationError(err error) bool {
	return PgErrorCode(err) == pgCodeUniqueViolation
}

// IsForeignKeyViolationError is true when a row references a trainee or plan that does not exist.
func IsForeignKeyViolationError(err error) bool {
	return PgErrorCode(err) == pgCodeForeignKeyViolation
}

func IsCheckViolationError(err error) bool {
	return PgErrorCode(err) == pgCodeCheckViolation
}
