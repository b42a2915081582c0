package outline

import (
	"fmt"
	"strconv"
)

// PositionOf strips the first prefixLength bytes of generatedID and returns the
// zero-based sibling position encoded by the rest. A numeric suffix n maps to
// n-1; an alphabetic suffix maps through Decode.
func PositionOf(generatedID string, prefixLength int) (int, error) {
	if prefixLength < 0 || prefixLength >= len(generatedID) {
		return 0, fmt.Errorf("position of %q after %d: %w", generatedID, prefixLength, ErrMalformedID)
	}
	suffix := generatedID[prefixLength:]
	switch {
	case allDigits(suffix):
		n, err := strconv.Atoi(suffix)
		if err != nil || n < 1 {
			return 0, fmt.Errorf("position of %q: numeric suffix %q: %w", generatedID, suffix, ErrMalformedID)
		}
		return n - 1, nil
	case allLetters(suffix):
		p, err := Decode(suffix)
		if err != nil {
			return 0, fmt.Errorf("position of %q: %w: %w", generatedID, ErrMalformedID, err)
		}
		return p, nil
	default:
		return 0, fmt.Errorf("position of %q: mixed suffix %q: %w", generatedID, suffix, ErrMalformedID)
	}
}

// PositionInSet returns the position encoded by the trailing run of
// generatedID: "B" -> 1, "B5" -> 4, "B5C" -> 2, "B5C2" -> 1.
func PositionInSet(generatedID string) (int, error) {
	if generatedID == "" {
		return 0, fmt.Errorf("position of empty id: %w", ErrMalformedID)
	}
	return PositionOf(generatedID, trailingRunStart(generatedID))
}

// trailingRunStart returns the index where the last digit or non-digit run begins.
func trailingRunStart(s string) int {
	digit := isDigit(s[len(s)-1])
	for i := len(s) - 1; i >= 0; i-- {
		if isDigit(s[i]) != digit {
			return i + 1
		}
	}
	return 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool { return c >= 'A' && c <= 'Z' }

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return s != ""
}

func allLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isLetter(s[i]) {
			return false
		}
	}
	return s != ""
}
