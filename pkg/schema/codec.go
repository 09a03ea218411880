package schema

import (
	"errors"

	"github.com/oarkflow/json"
)

// Decode parses a JSON document into the generic representation the
// synthesized rules expect: map[string]any, []any, float64, string, bool
// and nil.
func Decode(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	return v, nil
}

// Normalize converts a Go value into the generic representation by
// round-tripping it through JSON, so struct tags decide member names.
func Normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	return Decode(data)
}
