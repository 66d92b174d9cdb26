package booking

import (
	"errors"
	"testing"
)

func TestFormatReference(t *testing.T) {
	cases := []struct {
		year, seq int
		want      string
	}{
		{2025, 1, "BOOK-2025-00001"},
		{2025, 42, "BOOK-2025-00042"},
		{2026, 99999, "BOOK-2026-99999"},
	}
	for _, tc := range cases {
		if got := FormatReference(tc.year, tc.seq); got != tc.want {
			t.Errorf("FormatReference(%d, %d) = %q, want %q", tc.year, tc.seq, got, tc.want)
		}
	}
}

func TestParseReference(t *testing.T) {
	year, seq, err := ParseReference("BOOK-2025-00042")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if year != 2025 || seq != 42 {
		t.Errorf("got year=%d seq=%d, want 2025/42", year, seq)
	}

	bad := []string{
		"",
		"BOOK-2025",
		"TRIP-2025-00042",
		"BOOK-2025-42",     // wrong width
		"BOOK-2025-000042", // wrong width
		"BOOK-abcd-00042",
		"BOOK-2025-00000", // zero sequence
		"BOOK-0-00042",
	}
	for _, ref := range bad {
		if _, _, err := ParseReference(ref); !errors.Is(err, ErrBadReference) {
			t.Errorf("ParseReference(%q) = %v, want ErrBadReference", ref, err)
		}
	}
}

func TestNextReference(t *testing.T) {
	cases := []struct {
		name string
		last string
		year int
		want string
	}{
		{"first of year", "", 2025, "BOOK-2025-00001"},
		{"increments", "BOOK-2025-00042", 2025, "BOOK-2025-00043"},
		{"year rollover restarts", "BOOK-2024-01337", 2025, "BOOK-2025-00001"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextReference(tc.last, tc.year)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("NextReference(%q, %d) = %q, want %q", tc.last, tc.year, got, tc.want)
			}
		})
	}
}

func TestNextReferenceExhausted(t *testing.T) {
	if _, err := NextReference("BOOK-2025-99999", 2025); !errors.Is(err, ErrSequenceExhausted) {
		t.Fatalf("got %v, want ErrSequenceExhausted", err)
	}
}

func TestNextReferenceBadLast(t *testing.T) {
	if _, err := NextReference("garbage", 2025); !errors.Is(err, ErrBadReference) {
		t.Fatalf("got %v, want ErrBadReference", err)
	}
}

func TestNextReferenceStrictlyIncreasing(t *testing.T) {
	last := ""
	prev := ""
	for i := 0; i < 200; i++ {
		ref, err := NextReference(last, 2025)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if prev != "" && !(ref > prev) {
			t.Fatalf("step %d: %q not lexicographically after %q", i, ref, prev)
		}
		prev, last = ref, ref
	}
}
