// Package verify provides capability contracts for validating structured
// data together with a small set of built-in validators.
//
// A Rule is inert data describing a predicate. A Validator knows how to
// evaluate rules of one Kind. A Registry maps kinds to validators and walks
// nested values, and a type implementing Verifier can validate itself by
// delegating to a Plan built from rules.
//
// # Outcomes
//
// Every check produces an Outcome. An outcome is either valid or carries at
// least one Violation; it is never empty and invalid at the same time.
// Violations accumulate instead of short-circuiting: every field of an
// object and every element of a sequence is checked regardless of earlier
// failures. Merging outcomes is a union that preserves order.
//
// Each Violation holds the Path to the offending value, the Kind of the
// failed rule, a finer Code, an English message, and a translation key with
// values for message catalogs.
//
// # Built-in rules
//
//   - Range, Min, Max, GreaterThan, LessThan: bounds on ordered scalars
//   - Length, MinLength, MaxLength, ExactLength: text and collection size
//   - Pattern, MustPattern, PatternOf: regular expressions on text
//   - Required: the value must be present
//   - Fields, Each, Keys, All, Self, Lazy: recursion into composite values
//
// Text length counts Unicode code points after NFC normalization.
//
// # Absent values
//
// A nil value, nil pointer, nil map or nil slice, or a missing map key, is
// absent. Only Required looks at absent values, so every field is optional
// unless marked required. Rules implementing NullChecker also see values
// that are present but nil; a missing member (see IsMissing) stays hidden
// from them.
//
// # Configuration errors
//
// A broken rule set, such as a range with min greater than max or a length
// rule applied to a number, is a programming error. It is returned as a
// *ConfigError, never as a Violation, and is detected by Lint and Build
// before any data is seen where possible. A composite that hits a
// configuration error in one of its children stops and returns the error
// along with the violations collected so far.
//
// # Depth limit
//
// Every nested step increases the depth of the Scope. Exceeding the limit
// (DefaultMaxDepth unless set with WithMaxDepth or WithConfig) fails with
// ErrDepthExceeded, which protects against cyclic data. The same limit
// bounds lazy rules that resolve to one another without descending, and
// the number of times one value may re-enter its own Verify through Self.
// A ScopedVerifier carries the running scope into its plan with
// Plan.CheckIn, so its nesting counts against the depth directly.
//
// # Usage
//
//	plan := verify.MustBuild(
//		verify.Fields(
//			verify.Field("name", verify.Required(), verify.MinLength(1)),
//			verify.Field("age", verify.Max(120)),
//			verify.Field("items", verify.Each(verify.Fields(
//				verify.Field("sku", verify.MustPattern(`^[A-Z]{3}-\d+$`)),
//			))),
//		),
//	)
//
//	out, err := plan.Check(order)
//	if err != nil {
//		// the rule set does not fit the data
//	}
//	for _, v := range out.Violations() {
//		fmt.Println(v.Path, v.Rule, v.Message)
//	}
//
// # Custom rules
//
// New kinds are added by registering a Validator:
//
//	reg := verify.NewRegistry()
//	reg.MustRegister(verify.NewValidator("even", func(s *verify.Scope, v any, _ evenRule) (verify.Outcome, error) {
//		...
//	}))
package verify
