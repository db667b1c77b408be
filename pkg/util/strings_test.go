package util

import "testing"

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("expected default, got %d", got)
	}
	if got := ParseIntDefault("abc", 7); got != 7 {
		t.Fatalf("expected default for invalid, got %d", got)
	}
	if got := ParseIntDefault("42", 7); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestDedupStrings(t *testing.T) {
	got := DedupStrings([]string{"a", "b", "a", "c", "b"})
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected dedup result %v", got)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(120, 0, 100) != 100 {
		t.Fatalf("expected upper clamp")
	}
	if Clamp(-3, 0, 100) != 0 {
		t.Fatalf("expected lower clamp")
	}
	if Clamp(55, 0, 100) != 55 {
		t.Fatalf("expected pass-through")
	}
}
