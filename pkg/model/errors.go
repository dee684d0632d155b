package model

import "errors"

// Validation errors. Functions in this package wrap these with details, so
// callers should test with errors.Is.
var (
	// ErrInvalidEnumValue indicates a numeric code outside an enum's closed set.
	ErrInvalidEnumValue = errors.New("invalid enum value")

	// ErrOffsetOutOfRange indicates an equalizer band offset outside the device range.
	ErrOffsetOutOfRange = errors.New("equalizer offset out of range")

	// ErrBandCountMismatch indicates the wrong number of equalizer bands.
	ErrBandCountMismatch = errors.New("equalizer band count mismatch")

	// ErrStrengthOutOfRange indicates a custom noise canceling strength outside the device range.
	ErrStrengthOutOfRange = errors.New("noise canceling strength out of range")
)
