package tags

import "errors"

var (
	// ErrInvalidTag is returned for malformed verify tags: unknown options,
	// bad numbers, repeated bounds.
	ErrInvalidTag = errors.New("invalid verify tag")

	// ErrNotStruct is returned when rules are requested for a non-struct type.
	ErrNotStruct = errors.New("type is not a struct")
)
