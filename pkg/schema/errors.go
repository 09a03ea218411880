package schema

import (
	"errors"
	"fmt"
)

var (
	ErrNilSchema      = errors.New("schema: nil schema")
	ErrCompile        = errors.New("schema: failed to compile")
	ErrDecode         = errors.New("schema: failed to decode document")
	ErrUnknownType    = errors.New("schema: unknown JSON type")
	ErrUnknownPointer = errors.New("schema: rules attached to a path the schema does not describe")
	ErrUnresolvedRef  = errors.New("schema: unresolved $ref")
	ErrEmptyEnum      = errors.New("schema: enum without values")
)

// ErrNoTransition is returned when a field lifecycle receives an event its
// current state does not accept.
type ErrNoTransition struct {
	State FieldState
	Event string
}

func (e *ErrNoTransition) Error() string {
	return fmt.Sprintf("schema: no transition from state %q for event %q", e.State, e.Event)
}
