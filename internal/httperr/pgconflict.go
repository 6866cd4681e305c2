package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes we map to 409-style conflicts.
const (
	pgUniqueViolation      = "23505"
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
)

// IsUniqueViolation reports whether err is a unique-constraint violation,
// e.g. a duplicate (barber, date, type) closure insert.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

// IsExclusionConflict reports whether err is a storage-level conflict raised
// while claiming a slot: a unique or exclusion constraint violation, or a
// serialization failure. The checked booking transactions run at serializable
// isolation, so when two writers race for the same free slot postgres aborts
// the loser with SQLSTATE 40001 instead of letting both inserts through.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgExclusionViolation, pgSerializationFailure:
			return true
		}
	}
	return false
}
