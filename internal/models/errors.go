package models

import "errors"

// Conversion errors. Every fatal condition wraps one of these.
var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInconsistentSchema = errors.New("inconsistent schema")
	ErrMalformedNotes     = errors.New("malformed notes")
)
