package verify

import "slices"

// Plan is a linted rule set bound to a registry. It is immutable and safe
// to share between goroutines.
//
// Types implementing Verifier usually keep a package-level plan:
//
//	var userPlan = verify.MustBuild(
//		verify.Fields(
//			verify.Field("name", verify.MinLength(1)),
//			verify.Field("age", verify.Max(120)),
//		),
//	)
//
//	func (u User) Verify() verify.Outcome {
//		return userPlan.MustCheck(u)
//	}
type Plan struct {
	registry *Registry
	rules    []Rule
}

func (p *Plan) Check(value any) (Outcome, error) {
	return p.registry.Check(value, p.rules...)
}

// MustCheck is like Check but panics on configuration errors, which at
// this point can only come from data of an unexpected shape.
func (p *Plan) MustCheck(value any) Outcome {
	out, err := p.Check(value)
	if err != nil {
		panic(err)
	}
	return out
}

// CheckIn validates value as part of the check that s belongs to, which is
// how a ScopedVerifier delegates to its plan. Violations are located below
// the path of s and nesting continues from its depth. The depth limit is
// the one of the plan's registry. A nil scope starts at the root.
func (p *Plan) CheckIn(s *Scope, value any) (Outcome, error) {
	if s == nil {
		return p.Check(value)
	}
	if s.registry != p.registry {
		s = &Scope{registry: p.registry, path: s.path, depth: s.depth, hops: s.hops}
	}
	return s.Apply(value, p.rules...)
}

// MustCheckIn is like CheckIn but panics on configuration errors.
func (p *Plan) MustCheckIn(s *Scope, value any) Outcome {
	out, err := p.CheckIn(s, value)
	if err != nil {
		panic(err)
	}
	return out
}

func (p *Plan) Rules() []Rule {
	return slices.Clone(p.rules)
}

func (p *Plan) Registry() *Registry {
	return p.registry
}
