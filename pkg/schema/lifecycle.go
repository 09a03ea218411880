package schema

import (
	"slices"

	"github.com/dmitrymomot/verify/pkg/verify"
)

// FieldState is a step in the life of a schema property while rules are
// synthesized for it.
type FieldState string

const (
	StateUnvisited   FieldState = "unvisited"
	StateResolved    FieldState = "resolved"
	StateSynthesized FieldState = "synthesized"
	StateIncluded    FieldState = "included"
)

type fieldEvent string

const (
	eventResolve     fieldEvent = "resolve"
	eventSynthesize  fieldEvent = "synthesize"
	eventPassThrough fieldEvent = "pass-through"
	eventInclude     fieldEvent = "include"
)

// transitions is keyed [from][event] -> to. A resolved field without any
// rules goes straight to included.
var transitions = map[FieldState]map[fieldEvent]FieldState{
	StateUnvisited:   {eventResolve: StateResolved},
	StateResolved:    {eventSynthesize: StateSynthesized, eventPassThrough: StateIncluded},
	StateSynthesized: {eventInclude: StateIncluded},
}

type lifecycle struct {
	state   FieldState
	history []FieldState
}

func newLifecycle() *lifecycle {
	return &lifecycle{state: StateUnvisited, history: []FieldState{StateUnvisited}}
}

func (l *lifecycle) fire(e fieldEvent) error {
	next, ok := transitions[l.state][e]
	if !ok {
		return &ErrNoTransition{State: l.state, Event: string(e)}
	}
	l.state = next
	l.history = append(l.history, next)
	return nil
}

// FieldReport describes how one property of the schema was handled.
type FieldReport struct {
	Path     verify.Path
	Shape    string
	Required bool
	// Rules is the number of rules attached to the field. Zero means the
	// field is passed through without validation.
	Rules   int
	State   FieldState
	History []FieldState
}

// Validated reports whether any rule is attached to the field.
func (r FieldReport) Validated() bool {
	return r.Rules > 0
}

func cloneReports(rs []FieldReport) []FieldReport {
	out := slices.Clone(rs)
	for i := range out {
		out[i].History = slices.Clone(out[i].History)
	}
	return out
}
