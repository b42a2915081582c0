// Package outline implements the depth-alternating outline labels used to
// number decision, uncertainty and requirement trees: letters at even depths,
// counting numbers at odd depths ("A", "A1", "A1A", "B2", ...).
package outline

import (
	"fmt"
	"math"
	"strconv"
)

const alphabetSize = 26

// Encode maps a zero-based position to its spreadsheet-column label:
// 0 -> "A", 25 -> "Z", 26 -> "AA", 701 -> "ZZ", 702 -> "AAA".
// Negative positions encode as "A".
func Encode(position int) string {
	if position < 0 {
		position = 0
	}
	var buf [16]byte
	i := len(buf)
	for n := position + 1; n > 0; n = (n - 1) / alphabetSize {
		i--
		buf[i] = byte('A' + (n-1)%alphabetSize)
	}
	return string(buf[i:])
}

// Decode is the exact inverse of Encode.
func Decode(label string) (int, error) {
	if label == "" {
		return 0, fmt.Errorf("decoding %q: %w", label, ErrInvalidLabel)
	}
	v := 0
	for i := 0; i < len(label); i++ {
		c := label[i]
		if c < 'A' || c > 'Z' {
			return 0, fmt.Errorf("decoding %q: unexpected %q: %w", label, c, ErrInvalidLabel)
		}
		if v > (math.MaxInt-alphabetSize)/alphabetSize {
			return 0, fmt.Errorf("decoding %q: overflow: %w", label, ErrInvalidLabel)
		}
		v = v*alphabetSize + int(c-'A') + 1
	}
	return v - 1, nil
}

// StartPosition is the position of the first label, Decode("A").
func StartPosition() int {
	p, _ := Decode("A")
	return p
}

// SiblingLabel builds the label of the sibling at zero-based index i.
// Roots always use letters; below the root, even levels append letters to
// the parent's label and odd levels append the counting number i+1.
func SiblingLabel(parentLabel string, root bool, level, i int) string {
	switch {
	case root:
		return Encode(i)
	case level%2 == 0:
		return parentLabel + Encode(i)
	default:
		return parentLabel + strconv.Itoa(i+1)
	}
}
