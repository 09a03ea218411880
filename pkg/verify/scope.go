package verify

import (
	"fmt"
	"log/slog"
)

// Scope is the position of a validator inside the value being checked.
// A child scope is derived for every nested step; the parent stays untouched.
type Scope struct {
	registry *Registry
	path     Path
	depth    int
	// hops counts lazy rules resolved since the last descent.
	hops int
}

func (s *Scope) Path() Path { return s.path }

func (s *Scope) Depth() int { return s.depth }

func (s *Scope) Registry() *Registry { return s.registry }

func (s *Scope) Logger() *slog.Logger { return s.registry.logger }

// Descend returns the scope for a nested value.
func (s *Scope) Descend(seg Segment) (*Scope, error) {
	path := s.path.Append(seg)
	if s.depth+1 > s.registry.maxDepth {
		return nil, &ConfigError{
			Path: path,
			Kind: KindNested,
			Err:  fmt.Errorf("%w: limit is %d", ErrDepthExceeded, s.registry.maxDepth),
		}
	}
	return &Scope{registry: s.registry, path: path, depth: s.depth + 1}, nil
}

// resolve returns the scope a lazy rule's target runs in. It keeps the
// path and depth, but a run of resolutions without any descent in between
// is bounded by the depth limit.
func (s *Scope) resolve() (*Scope, error) {
	if s.hops+1 > s.registry.maxDepth {
		return nil, &ConfigError{
			Path: s.path,
			Kind: KindNested,
			Err:  fmt.Errorf("%w: %d lazy rules resolved without descending", ErrDepthExceeded, s.registry.maxDepth),
		}
	}
	return &Scope{registry: s.registry, path: s.path, depth: s.depth, hops: s.hops + 1}, nil
}

// Apply evaluates every rule against value and returns the union of their
// outcomes.
//
// An absent value (see IsAbsent) is only seen by required rules, and by
// rules implementing NullChecker when the value is nil rather than missing.
// On a configuration error evaluation stops, and the outcome collected so
// far is returned with it.
func (s *Scope) Apply(value any, rules ...Rule) (Outcome, error) {
	absent := IsAbsent(value)
	nullable := absent && !IsMissing(value)
	out := Valid()
	for _, rule := range rules {
		if rule == nil {
			return out, configError(s.path, "", ErrNilRule)
		}
		kind := rule.Kind()
		if absent && kind != KindRequired && !(nullable && checksNull(rule)) {
			continue
		}

		v, ok := s.registry.Lookup(kind)
		if !ok {
			return out, configError(s.path, kind, ErrUnknownRule)
		}
		if c, ok := rule.(Configurable); ok {
			if err := c.CheckConfig(); err != nil {
				return out, configError(s.path, kind, err)
			}
		}

		res, err := v.Validate(s, value, rule)
		out = out.Merge(res)
		if err != nil {
			return out, configError(s.path, kind, err)
		}
	}
	return out, nil
}

// ApplyAt descends into seg and applies rules to the nested value.
func (s *Scope) ApplyAt(seg Segment, value any, rules ...Rule) (Outcome, error) {
	child, err := s.Descend(seg)
	if err != nil {
		return Valid(), err
	}
	return child.Apply(value, rules...)
}

// Violation builds a violation located at the scope's path.
func (s *Scope) Violation(kind Kind, code, message, key string, values map[string]any) Violation {
	return Violation{
		Path:              s.path,
		Rule:              kind,
		Code:              code,
		Message:           message,
		TranslationKey:    key,
		TranslationValues: values,
	}
}

// Fail is shorthand for an invalid outcome holding a single violation.
func (s *Scope) Fail(kind Kind, code, message, key string, values map[string]any) Outcome {
	return Invalid(s.Violation(kind, code, message, key, values))
}

func checksNull(rule Rule) bool {
	nc, ok := rule.(NullChecker)
	return ok && nc.ChecksNull()
}
