package verify

import "slices"

// Outcome is the result of a validation attempt: either valid, or invalid
// with at least one violation. The zero value is valid.
type Outcome struct {
	violations Violations
}

// Valid returns a passing outcome.
func Valid() Outcome {
	return Outcome{}
}

// Invalid returns a failing outcome. The signature guarantees it is never
// empty.
func Invalid(first Violation, rest ...Violation) Outcome {
	vs := make(Violations, 0, 1+len(rest))
	vs = append(vs, first)
	vs = append(vs, rest...)
	return Outcome{violations: vs}
}

func (o Outcome) IsValid() bool {
	return len(o.violations) == 0
}

func (o Outcome) Len() int {
	return len(o.violations)
}

// Violations returns a copy of the collected violations in order.
func (o Outcome) Violations() Violations {
	return slices.Clone(o.violations)
}

// Merge returns the union of both outcomes, receiver's violations first.
// Neither operand is modified.
func (o Outcome) Merge(other Outcome) Outcome {
	switch {
	case other.IsValid():
		return o
	case o.IsValid():
		return other
	}
	merged := make(Violations, 0, len(o.violations)+len(other.violations))
	merged = append(merged, o.violations...)
	merged = append(merged, other.violations...)
	return Outcome{violations: merged}
}

// Under re-roots every violation beneath prefix.
func (o Outcome) Under(prefix Path) Outcome {
	if o.IsValid() || len(prefix) == 0 {
		return o
	}
	vs := make(Violations, len(o.violations))
	for i, v := range o.violations {
		v.Path = prefix.Append(v.Path...)
		vs[i] = v
	}
	return Outcome{violations: vs}
}

// Err returns nil for a valid outcome and the Violations otherwise.
func (o Outcome) Err() error {
	if o.IsValid() {
		return nil
	}
	return o.Violations()
}
