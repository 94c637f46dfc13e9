package querier

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestErrorClassifiers(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	badUUID := &pgconn.PgError{Code: "22P02"}

	if !IsUniqueViolation(unique) || IsForeignKeyViolation(unique) {
		t.Fatal("expected wrapped unique violation to classify")
	}
	if !IsMissing(pgx.ErrNoRows) || !IsMissing(badUUID) {
		t.Fatal("expected no rows and malformed keys to count as missing")
	}
	if IsNoRows(badUUID) {
		t.Fatal("malformed key is not a no-rows result")
	}
	if IsMissing(errors.New("connection refused")) {
		t.Fatal("unrelated errors are not missing rows")
	}
}
