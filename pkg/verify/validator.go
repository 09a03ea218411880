package verify

import "fmt"

// Validator evaluates rules of one kind. Implementations are stateless and
// shared by every caller; they must not modify the value.
//
// The returned error is reserved for configuration errors. Data that fails
// the rule is reported through the Outcome.
type Validator interface {
	Kind() Kind
	Validate(s *Scope, value any, rule Rule) (Outcome, error)
}

// Verifier is implemented by values that know their own shape and can
// validate themselves. Verify must be deterministic and free of side effects.
type Verifier interface {
	Verify() Outcome
}

// ScopedVerifier is a Verifier that continues the check it is called from.
// Self prefers it over Verifier: violations are placed under the caller's
// path directly, and nesting counts against the caller's depth limit.
//
//	func (n *Node) VerifyIn(s *verify.Scope) (verify.Outcome, error) {
//		return nodePlan.CheckIn(s, n)
//	}
type ScopedVerifier interface {
	VerifyIn(s *Scope) (Outcome, error)
}

// Verify runs the value's own validation if it implements Verifier.
func Verify(v any) (Outcome, bool) {
	if vf, ok := as[Verifier](v); ok {
		return vf.Verify(), true
	}
	return Valid(), false
}

type validatorFunc[R Rule] struct {
	kind Kind
	fn   func(s *Scope, value any, rule R) (Outcome, error)
}

// NewValidator adapts a typed function into a Validator for kind. Rules of
// any other type are rejected with ErrRuleMismatch.
func NewValidator[R Rule](kind Kind, fn func(s *Scope, value any, rule R) (Outcome, error)) Validator {
	return validatorFunc[R]{kind: kind, fn: fn}
}

func (v validatorFunc[R]) Kind() Kind { return v.kind }

func (v validatorFunc[R]) Validate(s *Scope, value any, rule Rule) (Outcome, error) {
	r, ok := rule.(R)
	if !ok {
		return Valid(), fmt.Errorf("%w: %T", ErrRuleMismatch, rule)
	}
	return v.fn(s, value, r)
}
