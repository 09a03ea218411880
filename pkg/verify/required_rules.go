package verify

// RequiredRule fails when a value is absent. It is the only rule that sees
// absent values; all others skip them, which makes every field optional
// unless marked required.
type RequiredRule struct{}

func Required() RequiredRule {
	return RequiredRule{}
}

func (RequiredRule) Kind() Kind { return KindRequired }

type requiredValidator struct{}

func (requiredValidator) Kind() Kind { return KindRequired }

func (requiredValidator) Validate(s *Scope, value any, _ Rule) (Outcome, error) {
	if !IsAbsent(value) {
		return Valid(), nil
	}
	return s.Fail(KindRequired, CodeRequired, "is required", "verify.required", nil), nil
}
