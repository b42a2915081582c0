package outline

import "errors"

var (
	// ErrInvalidLabel is returned when a label cannot be decoded as a
	// bijective base-26 letter sequence.
	ErrInvalidLabel = errors.New("invalid outline label")

	// ErrMalformedID is returned when a generated ID does not end in a
	// well-formed alphabetic or numeric position suffix.
	ErrMalformedID = errors.New("malformed generated id")
)
