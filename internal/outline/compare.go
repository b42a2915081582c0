package outline

import (
	"strings"
)

// Compare orders two optional generated IDs. A nil ID sorts after every
// non-nil one; two nil IDs are equal.
func Compare(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return CompareLabels(*a, *b)
}

// CompareLabels orders generated IDs run by run. Each ID is split into
// alternating digit and non-digit runs. Digit runs compare by integer value,
// letter runs by their Encode order, and a digit run sorts before a letter
// run at the same position. When one ID is a run-wise prefix of the other,
// the shorter sorts first. "A9" < "A10" < "B".
func CompareLabels(a, b string) int {
	for a != "" && b != "" {
		ra, restA := nextRun(a)
		rb, restB := nextRun(b)
		if c := compareRuns(ra, rb); c != 0 {
			return c
		}
		a, b = restA, restB
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

func nextRun(s string) (run, rest string) {
	digit := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digit {
		i++
	}
	return s[:i], s[i:]
}

func compareRuns(a, b string) int {
	da, db := isDigit(a[0]), isDigit(b[0])
	switch {
	case da && db:
		return compareNumeric(a, b)
	case da:
		return -1
	case db:
		return 1
	}
	return compareAlpha(a, b)
}

// compareNumeric compares decimal runs by value without parsing, so runs of
// any length are ordered correctly. Leading zeros break ties.
func compareNumeric(a, b string) int {
	ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
	if c := compareLenThenText(ta, tb); c != 0 {
		return c
	}
	return compareLenThenText(a, b)
}

// compareAlpha follows bijective base-26 order: shorter runs first, then
// letter by letter. Case is ignored except as a final tie-break.
func compareAlpha(a, b string) int {
	if c := compareLenThenText(strings.ToUpper(a), strings.ToUpper(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func compareLenThenText(a, b string) int {
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return strings.Compare(a, b)
}
