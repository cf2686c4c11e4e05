package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "pq unique", err: &pq.Error{Code: "23505"}, expected: true},
		{name: "pq other", err: &pq.Error{Code: "23503"}, expected: false},
		{name: "pgx unique", err: &pgconn.PgError{Code: "23505"}, expected: true},
		{name: "wrapped pgx unique", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), expected: true},
		{name: "mysql duplicate", err: &mysql.MySQLError{Number: 1062}, expected: true},
		{name: "mysql other", err: &mysql.MySQLError{Number: 1452}, expected: false},
		{
			name:     "message only",
			err:      errors.New(`duplicate key value violates unique constraint "users_email_key"`),
			expected: true,
		},
		{name: "unrelated", err: errors.New("connection refused"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsUniqueViolation(tt.err))
		})
	}
}
