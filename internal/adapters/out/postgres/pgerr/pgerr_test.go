package pgerr_test

import (
	"errors"
	"fmt"
	"testing"

	"restaurant/internal/adapters/out/postgres/pgerr"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "orders_number_key"}

	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"any_constraint", dup, "", true},
		{"matching_constraint", dup, "orders_number_key", true},
		{"other_constraint", dup, "products_code_key", false},
		{"wrapped", fmt.Errorf("insert: %w", dup), "", true},
		{"other_code", &pgconn.PgError{Code: "23503"}, "", false},
		{"plain_error", errors.New("boom"), "", false},
		{"nil", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pgerr.IsUniqueViolation(tt.err, tt.constraint))
		})
	}
}
