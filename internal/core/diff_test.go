package core

import (
	"strings"
	"testing"
)

func TestBodyDiff(t *testing.T) {
	if d := BodyDiff("2024-01-01", "same\n", "same\n"); d != "" {
		t.Errorf("Expected empty diff, got %q", d)
	}

	d := BodyDiff("2024-01-01", "line one\nline two\n", "line one\nline 2\n")
	if !strings.HasPrefix(d, "--- 2024-01-01 (saved)\n+++ 2024-01-01 (new)\n") {
		t.Errorf("Missing headers: %q", d)
	}
	if !strings.Contains(d, "@@") {
		t.Errorf("Expected a hunk marker: %q", d)
	}
}
