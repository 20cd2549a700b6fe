package param

import "errors"

var (
	// ErrInvalidRange is returned when a range is constructed with min > max
	// or with a span the plain type cannot represent.
	ErrInvalidRange = errors.New("invalid parameter range")

	// ErrOutOfRange is returned when a plain value lies outside its range.
	ErrOutOfRange = errors.New("value out of range")

	// ErrParse is returned when display text cannot be parsed.
	ErrParse = errors.New("cannot parse parameter text")

	// ErrNotANumber is returned when a persisted value is NaN.
	ErrNotANumber = errors.New("persisted value is NaN")

	// ErrDuplicateID is returned when a registry already holds a parameter with the same ID.
	ErrDuplicateID = errors.New("duplicate parameter ID")

	// ErrUnknownParameter is returned when an ID is not registered.
	ErrUnknownParameter = errors.New("unknown parameter")
)
