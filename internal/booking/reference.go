package booking

import (
	"fmt"
	"strconv"
	"strings"
)

// Booking references look like BOOK-2025-00042: a fixed prefix, the year the
// booking was created in, and a zero-padded sequence that restarts every
// year. The fixed width keeps lexicographic order equal to numeric order,
// which is what lets the allocator find the latest reference with a simple
// ORDER BY ... DESC scan.
const (
	refPrefix   = "BOOK"
	refSeqWidth = 5
	maxSequence = 99999
)

// FormatReference renders a reference for the given year and sequence.
func FormatReference(year, seq int) string {
	return fmt.Sprintf("%s-%d-%0*d", refPrefix, year, refSeqWidth, seq)
}

// YearPrefix returns the "BOOK-<year>-" prefix used to scope repository scans
// to a single year.
func YearPrefix(year int) string {
	return fmt.Sprintf("%s-%d-", refPrefix, year)
}

// ParseReference splits a reference into its year and sequence. It returns
// ErrBadReference for anything that does not match the expected shape.
func ParseReference(ref string) (year, seq int, err error) {
	parts := strings.Split(ref, "-")
	if len(parts) != 3 || parts[0] != refPrefix {
		return 0, 0, ErrBadReference
	}
	year, err = strconv.Atoi(parts[1])
	if err != nil || year <= 0 {
		return 0, 0, ErrBadReference
	}
	if len(parts[2]) != refSeqWidth {
		return 0, 0, ErrBadReference
	}
	seq, err = strconv.Atoi(parts[2])
	if err != nil || seq <= 0 {
		return 0, 0, ErrBadReference
	}
	return year, seq, nil
}

// NextReference computes the reference that follows last within the given
// year. An empty last means no booking exists for the year yet and the
// sequence starts at 1. A last reference from a different year also restarts
// the sequence. When the sequence would pass the five-digit limit,
// ErrSequenceExhausted is returned instead of emitting an unsortable value.
func NextReference(last string, year int) (string, error) {
	next := 1
	if last != "" {
		lastYear, lastSeq, err := ParseReference(last)
		if err != nil {
			return "", err
		}
		if lastYear == year {
			next = lastSeq + 1
		}
	}
	if next > maxSequence {
		return "", ErrSequenceExhausted
	}
	return FormatReference(year, next), nil
}
