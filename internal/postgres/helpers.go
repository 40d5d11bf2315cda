package postgres

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const orderNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateOrderNumber produces a human-readable order number,
// e.g. "ORD-20250129-A3K9".
func generateOrderNumber() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	for i := range b {
		b[i] = orderNumberAlphabet[int(b[i])%len(orderNumberAlphabet)]
	}
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), string(b)), nil
}

// isUniqueViolation reports whether err is a unique-constraint violation on
// the named constraint. An empty name matches any unique violation.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
