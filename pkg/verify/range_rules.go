package verify

import (
	"cmp"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"
)

// RangeRule bounds an ordered scalar. Either bound may be nil.
// Numeric bounds accept a value of any Go numeric kind; string bounds
// accept strings.
type RangeRule[T cmp.Ordered] struct {
	Min          *T
	Max          *T
	ExclusiveMin bool
	ExclusiveMax bool
}

// Range returns an inclusive [min, max] rule.
func Range[T cmp.Ordered](min, max T) RangeRule[T] {
	return RangeRule[T]{Min: &min, Max: &max}
}

// Between is an alias of Range.
func Between[T cmp.Ordered](min, max T) RangeRule[T] {
	return Range(min, max)
}

func Min[T cmp.Ordered](min T) RangeRule[T] {
	return RangeRule[T]{Min: &min}
}

func Max[T cmp.Ordered](max T) RangeRule[T] {
	return RangeRule[T]{Max: &max}
}

func GreaterThan[T cmp.Ordered](v T) RangeRule[T] {
	return RangeRule[T]{Min: &v, ExclusiveMin: true}
}

func LessThan[T cmp.Ordered](v T) RangeRule[T] {
	return RangeRule[T]{Max: &v, ExclusiveMax: true}
}

func (RangeRule[T]) Kind() Kind { return KindRange }

func (r RangeRule[T]) CheckConfig() error {
	if r.Min != nil && *r.Min != *r.Min {
		return fmt.Errorf("%w: min is NaN", ErrInvalidRange)
	}
	if r.Max != nil && *r.Max != *r.Max {
		return fmt.Errorf("%w: max is NaN", ErrInvalidRange)
	}
	if r.Min == nil || r.Max == nil {
		return nil
	}
	switch c := cmp.Compare(*r.Min, *r.Max); {
	case c > 0:
		return fmt.Errorf("%w: min %v, max %v", ErrInvalidRange, *r.Min, *r.Max)
	case c == 0 && (r.ExclusiveMin || r.ExclusiveMax):
		return fmt.Errorf("%w: empty interval at %v", ErrInvalidRange, *r.Min)
	}
	return nil
}

func (r RangeRule[T]) String() string {
	var b strings.Builder
	if r.ExclusiveMin {
		b.WriteByte('(')
	} else {
		b.WriteByte('[')
	}
	if r.Min != nil {
		fmt.Fprint(&b, *r.Min)
	}
	b.WriteString(", ")
	if r.Max != nil {
		fmt.Fprint(&b, *r.Max)
	}
	if r.ExclusiveMax {
		b.WriteByte(')')
	} else {
		b.WriteByte(']')
	}
	return b.String()
}

// bounds erases the type parameter so a single validator serves every
// instantiation.
func (r RangeRule[T]) bounds() rangeBounds {
	b := rangeBounds{exclusiveMin: r.ExclusiveMin, exclusiveMax: r.ExclusiveMax}
	if r.Min != nil {
		b.min = reflect.ValueOf(*r.Min)
	}
	if r.Max != nil {
		b.max = reflect.ValueOf(*r.Max)
	}
	return b
}

type rangeBounds struct {
	min, max                   reflect.Value
	exclusiveMin, exclusiveMax bool
}

type bounded interface {
	Rule
	bounds() rangeBounds
}

type rangeValidator struct{}

func (rangeValidator) Kind() Kind { return KindRange }

func (rangeValidator) Validate(s *Scope, value any, rule Rule) (Outcome, error) {
	br, ok := rule.(bounded)
	if !ok {
		return Valid(), fmt.Errorf("%w: %T", ErrRuleMismatch, rule)
	}
	b := br.bounds()
	rv := indirect(value)

	if b.min.IsValid() {
		c, err := compareOrdered(rv, b.min)
		if err != nil {
			return Valid(), err
		}
		switch {
		case c == cmpNaN:
			return s.Fail(KindRange, CodeNotANumber, "must be a number", "verify.range.nan", nil), nil
		case b.exclusiveMin && c <= 0:
			return s.Fail(KindRange, CodeBelowMinimum,
				fmt.Sprintf("must be greater than %v", b.min.Interface()),
				"verify.range.gt", map[string]any{"min": b.min.Interface()}), nil
		case !b.exclusiveMin && c < 0:
			return s.Fail(KindRange, CodeBelowMinimum,
				fmt.Sprintf("must be at least %v", b.min.Interface()),
				"verify.range.min", map[string]any{"min": b.min.Interface()}), nil
		}
	}

	if b.max.IsValid() {
		c, err := compareOrdered(rv, b.max)
		if err != nil {
			return Valid(), err
		}
		switch {
		case c == cmpNaN:
			return s.Fail(KindRange, CodeNotANumber, "must be a number", "verify.range.nan", nil), nil
		case b.exclusiveMax && c >= 0:
			return s.Fail(KindRange, CodeAboveMaximum,
				fmt.Sprintf("must be less than %v", b.max.Interface()),
				"verify.range.lt", map[string]any{"max": b.max.Interface()}), nil
		case !b.exclusiveMax && c > 0:
			return s.Fail(KindRange, CodeAboveMaximum,
				fmt.Sprintf("must be at most %v", b.max.Interface()),
				"verify.range.max", map[string]any{"max": b.max.Interface()}), nil
		}
	}

	return Valid(), nil
}

// cmpNaN is returned by compareOrdered when the value is NaN and has no
// place in the order.
const cmpNaN = 2

type numClass uint8

const (
	numNone numClass = iota
	numSigned
	numUnsigned
	numFloat
)

func classify(rv reflect.Value) numClass {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return numSigned
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return numUnsigned
	case reflect.Float32, reflect.Float64:
		return numFloat
	}
	return numNone
}

// compareOrdered compares value with bound without losing precision across
// numeric kinds.
func compareOrdered(value, bound reflect.Value) (int, error) {
	if !value.IsValid() {
		return 0, fmt.Errorf("%w: range on nil", ErrIncompatibleKind)
	}

	if bound.Kind() == reflect.String {
		if value.Kind() != reflect.String {
			return 0, fmt.Errorf("%w: string range on %s", ErrIncompatibleKind, describe(value))
		}
		return strings.Compare(value.String(), bound.String()), nil
	}

	vc, bc := classify(value), classify(bound)
	if vc == numNone {
		return 0, fmt.Errorf("%w: numeric range on %s", ErrIncompatibleKind, describe(value))
	}

	switch {
	case vc == numSigned && bc == numSigned:
		return cmp.Compare(value.Int(), bound.Int()), nil
	case vc == numUnsigned && bc == numUnsigned:
		return cmp.Compare(value.Uint(), bound.Uint()), nil
	case vc == numSigned && bc == numUnsigned:
		if value.Int() < 0 {
			return -1, nil
		}
		return cmp.Compare(uint64(value.Int()), bound.Uint()), nil
	case vc == numUnsigned && bc == numSigned:
		if bound.Int() < 0 {
			return 1, nil
		}
		return cmp.Compare(value.Uint(), uint64(bound.Int())), nil
	}

	if vc == numFloat && math.IsNaN(value.Float()) {
		return cmpNaN, nil
	}
	if vc == numFloat && bc == numFloat {
		return cmp.Compare(value.Float(), bound.Float()), nil
	}
	return toBigFloat(value).Cmp(toBigFloat(bound)), nil
}

func toBigFloat(rv reflect.Value) *big.Float {
	f := new(big.Float)
	switch classify(rv) {
	case numSigned:
		f.SetInt64(rv.Int())
	case numUnsigned:
		f.SetUint64(rv.Uint())
	default:
		f.SetFloat64(rv.Float())
	}
	return f
}
