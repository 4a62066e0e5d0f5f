package model

import "testing"

func TestDisplayName(t *testing.T) {
	if got := DisplayName("Jane Doe", false); got != "Jane Doe" {
		t.Fatalf("expected real name, got %s", got)
	}
	if got := DisplayName("Jane Doe", true); got != AnonymousStudentName {
		t.Fatalf("expected anonymous name, got %s", got)
	}
}
