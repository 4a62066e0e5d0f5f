package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapError(t *testing.T) {
	if mapError(nil) != nil {
		t.Fatalf("expected nil to pass through")
	}
	if !errors.Is(mapError(pgx.ErrNoRows), ErrNotFound) {
		t.Fatalf("expected no-rows to map to not-found")
	}
	if !errors.Is(mapError(&pgconn.PgError{Code: "23505"}), ErrDuplicate) {
		t.Fatalf("expected unique violation to map to duplicate")
	}
	// A malformed uuid in a lookup means the record cannot exist.
	if !errors.Is(mapError(&pgconn.PgError{Code: "22P02"}), ErrNotFound) {
		t.Fatalf("expected invalid text representation to map to not-found")
	}
	wrapped := fmt.Errorf("query: %w", &pgconn.PgError{Code: "22P02"})
	if !errors.Is(mapError(wrapped), ErrNotFound) {
		t.Fatalf("expected wrapped pg error to map to not-found")
	}
	other := &pgconn.PgError{Code: "42703"}
	if mapped := mapError(other); !errors.As(mapped, new(*pgconn.PgError)) {
		t.Fatalf("expected unrelated pg error to pass through, got %v", mapped)
	}
}
