package crypto

import (
	"strings"
	"testing"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Bus@123")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if err := CheckPassword(hash, "Bus@123"); err != nil {
		t.Fatalf("expected password to match")
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatalf("expected password mismatch")
	}
}

func TestNewSessionToken(t *testing.T) {
	first, err := NewSessionToken()
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	second, err := NewSessionToken()
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if first == second {
		t.Fatalf("expected tokens to differ")
	}
	if len(first) < 40 {
		t.Fatalf("expected at least 40 chars, got %d", len(first))
	}
	if strings.ContainsAny(first, "+/=") {
		t.Fatalf("expected URL-safe token, got %s", first)
	}
}
