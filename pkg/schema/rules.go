package schema

import (
	"cmp"
	"fmt"
	"reflect"
	"regexp"
	"slices"

	"github.com/oarkflow/json"

	"github.com/dmitrymomot/verify/pkg/verify"
)

// Rule kinds of the keywords that have no counterpart in package verify.
const (
	KindEnum       verify.Kind = "enum"
	KindAdditional verify.Kind = "additional"
)

// Violation codes.
const (
	CodeInvalidEnum     = "invalid-enum-value"
	CodeUnknownProperty = "unknown-property"
)

// EnumRule accepts only values equal to one of Values. Numbers compare by
// value, so 1 and 1.0 are the same member.
type EnumRule struct {
	Values []any
}

func (EnumRule) Kind() verify.Kind { return KindEnum }

func (r EnumRule) CheckConfig() error {
	if len(r.Values) == 0 {
		return ErrEmptyEnum
	}
	return nil
}

// ChecksNull lets the rule reject null unless null is one of the values.
func (EnumRule) ChecksNull() bool { return true }

// EnumValidator evaluates EnumRule.
func EnumValidator() verify.Validator {
	return verify.NewValidator(KindEnum, func(s *verify.Scope, value any, r EnumRule) (verify.Outcome, error) {
		for _, allowed := range r.Values {
			if jsonEqual(value, allowed) {
				return verify.Valid(), nil
			}
		}
		values := describeValues(r.Values)
		return s.Fail(KindEnum, CodeInvalidEnum, "must be one of "+values,
			"verify.enum", map[string]any{"values": values}), nil
	})
}

// AdditionalRule governs the members of an object that are not Declared
// and match none of Patterns. A closed rule reports each of them, an open
// one applies Rules to their values. Only maps are inspected: the members
// of a struct are fixed by its type.
type AdditionalRule struct {
	Declared []string
	Patterns []*regexp.Regexp
	Closed   bool
	Rules    []verify.Rule
}

func (AdditionalRule) Kind() verify.Kind { return KindAdditional }

func (r AdditionalRule) Children() []verify.Child {
	return []verify.Child{{Path: verify.Path{verify.AnySegment()}, Rules: r.Rules}}
}

func (r AdditionalRule) declares(name string) bool {
	if slices.Contains(r.Declared, name) {
		return true
	}
	for _, re := range r.Patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// AdditionalValidator evaluates AdditionalRule.
func AdditionalValidator() verify.Validator {
	return verify.NewValidator(KindAdditional, func(s *verify.Scope, value any, r AdditionalRule) (verify.Outcome, error) {
		rv := deref(reflect.ValueOf(value))
		if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
			return verify.Valid(), nil
		}

		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.String(), b.String()) })

		out := verify.Valid()
		for _, k := range keys {
			name := k.String()
			if r.declares(name) {
				continue
			}
			seg := verify.KeySegment(name)
			if r.Closed {
				child, err := s.Descend(seg)
				if err != nil {
					return out, err
				}
				out = out.Merge(child.Fail(KindAdditional, CodeUnknownProperty, "is not allowed",
					"verify.additional", map[string]any{"name": name}))
				continue
			}
			res, err := s.ApplyAt(seg, rv.MapIndex(k).Interface(), r.Rules...)
			out = out.Merge(res)
			if err != nil {
				return out, err
			}
		}
		return out, nil
	})
}

// jsonEqual compares two values the way JSON does: numbers by value,
// arrays element by element and objects member by member.
func jsonEqual(a, b any) bool {
	ta, tb := TypeOf(a), TypeOf(b)
	if isNumber(ta) && isNumber(tb) {
		fa, okA := toFloat(a)
		fb, okB := toFloat(b)
		return okA && okB && fa == fb
	}
	if ta != tb {
		return false
	}

	va, vb := deref(reflect.ValueOf(a)), deref(reflect.ValueOf(b))
	switch ta {
	case TypeNull:
		return true
	case TypeBoolean:
		return va.Bool() == vb.Bool()
	case TypeString:
		return va.String() == vb.String()
	case TypeArray:
		if va.Len() != vb.Len() {
			return false
		}
		for i := range va.Len() {
			if !jsonEqual(va.Index(i).Interface(), vb.Index(i).Interface()) {
				return false
			}
		}
		return true
	case TypeObject:
		if va.Kind() != reflect.Map || vb.Kind() != reflect.Map {
			return reflect.DeepEqual(va.Interface(), vb.Interface())
		}
		if va.Len() != vb.Len() {
			return false
		}
		for _, k := range va.MapKeys() {
			other := vb.MapIndex(k)
			if !other.IsValid() || !jsonEqual(va.MapIndex(k).Interface(), other.Interface()) {
				return false
			}
		}
		return true
	}
	return false
}

func isNumber(t string) bool {
	return t == TypeInteger || t == TypeNumber
}

func toFloat(v any) (float64, bool) {
	rv := deref(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func deref(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

// describeValues renders values as a JSON array for messages.
func describeValues(values []any) string {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Sprint(values)
	}
	return string(data)
}
