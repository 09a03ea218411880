package verify

import (
	"fmt"
	"reflect"
	"regexp"
)

// PatternRule requires text to match a regular expression. Use Pattern,
// MustPattern or PatternOf to build one; the zero value is a configuration
// error.
type PatternRule struct {
	re *regexp.Regexp
}

// Pattern compiles expr. A bad expression is reported as a configuration
// error right away, before any data is seen.
func Pattern(expr string) (PatternRule, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return PatternRule{}, &ConfigError{
			Kind: KindPattern,
			Err:  fmt.Errorf("%w: %w", ErrInvalidPattern, err),
		}
	}
	return PatternRule{re: re}, nil
}

func MustPattern(expr string) PatternRule {
	r, err := Pattern(expr)
	if err != nil {
		panic(err)
	}
	return r
}

func PatternOf(re *regexp.Regexp) PatternRule {
	return PatternRule{re: re}
}

func (PatternRule) Kind() Kind { return KindPattern }

func (r PatternRule) Expr() string {
	if r.re == nil {
		return ""
	}
	return r.re.String()
}

func (r PatternRule) CheckConfig() error {
	if r.re == nil {
		return fmt.Errorf("%w: no expression", ErrInvalidPattern)
	}
	return nil
}

type patternValidator struct{}

func (patternValidator) Kind() Kind { return KindPattern }

func (patternValidator) Validate(s *Scope, value any, rule Rule) (Outcome, error) {
	r, ok := rule.(PatternRule)
	if !ok {
		return Valid(), fmt.Errorf("%w: %T", ErrRuleMismatch, rule)
	}

	rv := indirect(value)
	if rv.Kind() != reflect.String {
		return Valid(), fmt.Errorf("%w: pattern on %s", ErrIncompatibleKind, describe(rv))
	}
	if r.re.MatchString(rv.String()) {
		return Valid(), nil
	}
	return s.Fail(KindPattern, CodePatternMismatch,
		fmt.Sprintf("must match pattern %s", r.re.String()),
		"verify.pattern", map[string]any{"pattern": r.re.String()}), nil
}
