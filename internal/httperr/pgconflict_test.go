package httperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23P01"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsExclusionConflict(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"23505", true}, // unique_violation
		{"23P01", true}, // exclusion_violation
		{"40001", true}, // serialization_failure, serializable tx aborted
		{"23503", false},
		{"42P01", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want,
			IsExclusionConflict(&pgconn.PgError{Code: tc.code}), tc.code)
	}
}

func TestIsExclusionConflictUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("create booking: %w", &pgconn.PgError{Code: "40001"})
	assert.True(t, IsExclusionConflict(wrapped))
	assert.False(t, IsExclusionConflict(errors.New("plain failure")))
}
