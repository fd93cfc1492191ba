package multipart

import "errors"

// Decoding errors
var (
	ErrEmptyBoundary = errors.New("boundary must not be empty")
	ErrMalformed     = errors.New("malformed multipart data")
)
