package verify

import (
	"fmt"
	"reflect"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// LengthRule bounds the size of text or a collection. Either bound may be nil.
//
// Text is measured in Unicode code points after NFC normalization, so a
// precomposed "é" and "e" followed by a combining accent both count as one.
// Byte slices are measured in bytes, other slices, arrays and maps in
// elements.
type LengthRule struct {
	Min *int
	Max *int
}

func Length(min, max int) LengthRule {
	return LengthRule{Min: &min, Max: &max}
}

func MinLength(min int) LengthRule {
	return LengthRule{Min: &min}
}

func MaxLength(max int) LengthRule {
	return LengthRule{Max: &max}
}

func ExactLength(n int) LengthRule {
	return LengthRule{Min: &n, Max: &n}
}

func (LengthRule) Kind() Kind { return KindLength }

func (r LengthRule) CheckConfig() error {
	if r.Min != nil && *r.Min < 0 {
		return fmt.Errorf("%w: min %d", ErrInvalidLength, *r.Min)
	}
	if r.Max != nil && *r.Max < 0 {
		return fmt.Errorf("%w: max %d", ErrInvalidLength, *r.Max)
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return fmt.Errorf("%w: min %d, max %d", ErrInvalidRange, *r.Min, *r.Max)
	}
	return nil
}

// TextLength returns the length of s as measured by LengthRule.
func TextLength(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}

type lengthTexts struct {
	exact, min, max string
}

var (
	charTexts = lengthTexts{
		exact: "must be exactly %d characters long",
		min:   "must be at least %d characters long",
		max:   "must be at most %d characters long",
	}
	itemTexts = lengthTexts{
		exact: "must contain exactly %d items",
		min:   "must contain at least %d items",
		max:   "must contain at most %d items",
	}
)

type lengthValidator struct{}

func (lengthValidator) Kind() Kind { return KindLength }

func (lengthValidator) Validate(s *Scope, value any, rule Rule) (Outcome, error) {
	r, ok := rule.(LengthRule)
	if !ok {
		return Valid(), fmt.Errorf("%w: %T", ErrRuleMismatch, rule)
	}

	rv := indirect(value)
	var n int
	texts, suffix := itemTexts, "_items"
	switch rv.Kind() {
	case reflect.String:
		n = TextLength(rv.String())
		texts, suffix = charTexts, ""
	case reflect.Slice, reflect.Array, reflect.Map:
		n = rv.Len()
	default:
		return Valid(), fmt.Errorf("%w: length of %s", ErrIncompatibleKind, describe(rv))
	}

	exact := r.Min != nil && r.Max != nil && *r.Min == *r.Max
	switch {
	case exact && n != *r.Min:
		code := CodeTooShort
		if n > *r.Min {
			code = CodeTooLong
		}
		return s.Fail(KindLength, code,
			fmt.Sprintf(texts.exact, *r.Min),
			"verify.length.exact"+suffix, map[string]any{"length": *r.Min, "actual": n}), nil
	case r.Min != nil && n < *r.Min:
		return s.Fail(KindLength, CodeTooShort,
			fmt.Sprintf(texts.min, *r.Min),
			"verify.length.min"+suffix, map[string]any{"min": *r.Min, "actual": n}), nil
	case r.Max != nil && n > *r.Max:
		return s.Fail(KindLength, CodeTooLong,
			fmt.Sprintf(texts.max, *r.Max),
			"verify.length.max"+suffix, map[string]any{"max": *r.Max, "actual": n}), nil
	}
	return Valid(), nil
}
