package formdata

import "errors"

// Parsing errors
var (
	ErrTooManyParts = errors.New("too many form parts")
	ErrFormTooLarge = errors.New("form data too large")
)
