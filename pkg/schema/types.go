package schema

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/dmitrymomot/verify/pkg/verify"
)

// KindType is the rule kind of TypeRule.
const KindType verify.Kind = "type"

// JSON type names.
const (
	TypeNull    = "null"
	TypeBoolean = "boolean"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeString  = "string"
	TypeArray   = "array"
	TypeObject  = "object"
)

var knownTypes = []string{TypeNull, TypeBoolean, TypeInteger, TypeNumber, TypeString, TypeArray, TypeObject}

// TypeRule checks the JSON type of a value and applies Rules when it
// matches. A strict rule reports a mismatch as a violation; a non-strict
// one skips the value, which scopes type-specific keywords such as
// minLength to values of that type.
type TypeRule struct {
	Types  []string
	Strict bool
	Rules  []verify.Rule
}

func (TypeRule) Kind() verify.Kind { return KindType }

func (r TypeRule) CheckConfig() error {
	if len(r.Types) == 0 {
		return fmt.Errorf("%w: no types", ErrUnknownType)
	}
	for _, t := range r.Types {
		if !slices.Contains(knownTypes, t) {
			return fmt.Errorf("%w: %q", ErrUnknownType, t)
		}
	}
	return nil
}

// ChecksNull makes a strict rule see JSON null, so null is rejected unless
// "null" is among the declared types.
func (r TypeRule) ChecksNull() bool { return r.Strict }

func (r TypeRule) Children() []verify.Child {
	return []verify.Child{{Rules: r.Rules}}
}

// TypeValidator evaluates TypeRule.
func TypeValidator() verify.Validator {
	return verify.NewValidator(KindType, func(s *verify.Scope, value any, r TypeRule) (verify.Outcome, error) {
		actual := TypeOf(value)
		if matchesAny(r.Types, actual) {
			return s.Apply(value, r.Rules...)
		}
		if !r.Strict {
			return verify.Valid(), nil
		}
		expected := strings.Join(r.Types, " or ")
		return s.Fail(KindType, verify.CodeTypeMismatch,
			fmt.Sprintf("must be of type %s", expected),
			"verify.type", map[string]any{"expected": expected, "got": actual}), nil
	})
}

func matchesAny(declared []string, actual string) bool {
	for _, t := range declared {
		if t == actual || (t == TypeNumber && actual == TypeInteger) {
			return true
		}
	}
	return false
}

// TypeOf returns the JSON type of a Go value. Floats with an integral value
// are integers, as JSON does not tell 1 from 1.0.
func TypeOf(v any) string {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return TypeNull
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Invalid:
		return TypeNull
	case reflect.Bool:
		return TypeBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return TypeInteger
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if !math.IsInf(f, 0) && f == math.Trunc(f) {
			return TypeInteger
		}
		return TypeNumber
	case reflect.String:
		return TypeString
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return TypeNull
		}
		return TypeArray
	case reflect.Map:
		if rv.IsNil() {
			return TypeNull
		}
		return TypeObject
	case reflect.Struct:
		return TypeObject
	}
	return rv.Kind().String()
}
