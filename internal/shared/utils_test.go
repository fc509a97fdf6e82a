package shared

import (
	"regexp"
	"testing"
)

func TestMakeRandHexString(t *testing.T) {
	s, err := MakeRandHexString(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != 16 {
		t.Fatalf("want length 16, got %d", len(s))
	}
	if !regexp.MustCompile(`^[0-9a-f]+$`).MatchString(s) {
		t.Fatalf("not a hex string: %q", s)
	}

	s2, err := MakeRandHexString(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s == s2 {
		t.Fatalf("two generated strings are identical: %q", s)
	}
}
