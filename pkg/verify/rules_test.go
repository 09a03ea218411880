package verify_test

import (
	"math"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/verify/pkg/verify"
)

func TestRangeRule(t *testing.T) {
	tests := []struct {
		name  string
		rule  verify.Rule
		value any
		code  string
	}{
		{"inside bounds", verify.Range(1, 10), 5, ""},
		{"on lower bound", verify.Range(1, 10), 1, ""},
		{"on upper bound", verify.Range(1, 10), 10, ""},
		{"between is inclusive", verify.Between(1.5, 2.5), 2.5, ""},
		{"between rejects above", verify.Between(1.5, 2.5), 3, verify.CodeAboveMaximum},
		{"below minimum", verify.Range(1, 10), 0, verify.CodeBelowMinimum},
		{"above maximum", verify.Range(1, 10), 11, verify.CodeAboveMaximum},
		{"exclusive minimum rejects bound", verify.GreaterThan(0), 0, verify.CodeBelowMinimum},
		{"exclusive maximum rejects bound", verify.LessThan(1.5), 1.5, verify.CodeAboveMaximum},
		{"float bound with int value", verify.Max(120.5), 121, verify.CodeAboveMaximum},
		{"int bound with float value", verify.Max(120), 120.25, verify.CodeAboveMaximum},
		{"int bound with uint value", verify.Min(-1), uint8(0), ""},
		{"uint bound with negative value", verify.Min(uint(3)), -5, verify.CodeBelowMinimum},
		{"large uint above int bound", verify.Max(int64(math.MaxInt64)), uint64(math.MaxUint64), verify.CodeAboveMaximum},
		{"pointer is dereferenced", verify.Max(3), ptr(4), verify.CodeAboveMaximum},
		{"string bounds", verify.Range("b", "d"), "c", ""},
		{"string below", verify.Min("b"), "a", verify.CodeBelowMinimum},
		{"nan value", verify.Max(1.0), math.NaN(), verify.CodeNotANumber},
		{"named numeric type", verify.Max(10), celsius(12), verify.CodeAboveMaximum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := verify.Check(tt.value, tt.rule)
			require.NoError(t, err)
			if tt.code == "" {
				assert.True(t, out.IsValid(), out.Err())
				return
			}
			require.Equal(t, 1, out.Len())
			v := out.Violations()[0]
			assert.Equal(t, verify.KindRange, v.Rule)
			assert.Equal(t, tt.code, v.Code)
			assert.True(t, v.Path.IsRoot())
		})
	}

	t.Run("min greater than max is a config error", func(t *testing.T) {
		out, err := verify.Check(5, verify.Range(10, 1))
		require.Error(t, err)
		assert.ErrorIs(t, err, verify.ErrInvalidRange)
		assert.True(t, verify.IsConfigError(err))
		assert.False(t, verify.IsViolations(err))
		assert.True(t, out.IsValid())

		assert.ErrorIs(t, verify.Lint(verify.Range(10, 1)), verify.ErrInvalidRange)
	})

	t.Run("empty exclusive interval is a config error", func(t *testing.T) {
		rule := verify.RangeRule[int]{Min: ptr(3), Max: ptr(3), ExclusiveMax: true}
		assert.ErrorIs(t, rule.CheckConfig(), verify.ErrInvalidRange)
		assert.NoError(t, verify.Range(3, 3).CheckConfig())
	})

	t.Run("nan bound is a config error", func(t *testing.T) {
		assert.ErrorIs(t, verify.Max(math.NaN()).CheckConfig(), verify.ErrInvalidRange)
	})

	t.Run("incompatible kind fails loudly", func(t *testing.T) {
		_, err := verify.Check("ten", verify.Max(10))
		assert.ErrorIs(t, err, verify.ErrIncompatibleKind)

		_, err = verify.Check(10, verify.Max("z"))
		assert.ErrorIs(t, err, verify.ErrIncompatibleKind)
	})

	t.Run("message and translation values", func(t *testing.T) {
		out, err := verify.Check(130, verify.Max(120))
		require.NoError(t, err)
		v := out.Violations()[0]
		assert.Equal(t, "must be at most 120", v.Message)
		assert.Equal(t, "verify.range.max", v.TranslationKey)
		assert.Equal(t, 120, v.TranslationValues["max"])
	})

	t.Run("renders interval", func(t *testing.T) {
		assert.Equal(t, "[1, 10]", verify.Range(1, 10).String())
		assert.Equal(t, "(0, ]", verify.GreaterThan(0).String())
	})
}

func TestLengthRule(t *testing.T) {
	tests := []struct {
		name  string
		rule  verify.Rule
		value any
		code  string
	}{
		{"empty string below minimum", verify.MinLength(1), "", verify.CodeTooShort},
		{"within bounds", verify.Length(1, 3), "Ann", ""},
		{"too long", verify.MaxLength(2), "Ann", verify.CodeTooLong},
		{"counts code points not bytes", verify.MaxLength(4), "日本語だ", ""},
		{"counts composed characters once", verify.ExactLength(4), "cafe\u0301", ""},
		{"slice counts elements", verify.MinLength(2), []int{1}, verify.CodeTooShort},
		{"byte slice counts bytes", verify.MaxLength(2), []byte("abc"), verify.CodeTooLong},
		{"map counts entries", verify.MaxLength(1), map[string]int{"a": 1, "b": 2}, verify.CodeTooLong},
		{"array counts elements", verify.ExactLength(3), [3]int{}, ""},
		{"exact too long", verify.ExactLength(2), "abc", verify.CodeTooLong},
		{"exact too short", verify.ExactLength(2), "a", verify.CodeTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := verify.Check(tt.value, tt.rule)
			require.NoError(t, err)
			if tt.code == "" {
				assert.True(t, out.IsValid(), out.Err())
				return
			}
			require.Equal(t, 1, out.Len())
			assert.Equal(t, verify.KindLength, out.Violations()[0].Rule)
			assert.Equal(t, tt.code, out.Violations()[0].Code)
		})
	}

	t.Run("text length normalizes", func(t *testing.T) {
		assert.Equal(t, 1, verify.TextLength("e\u0301"))
		assert.Equal(t, 3, verify.TextLength("日本語"))
	})

	t.Run("number is incompatible", func(t *testing.T) {
		_, err := verify.Check(42, verify.MinLength(1))
		assert.ErrorIs(t, err, verify.ErrIncompatibleKind)
		assert.True(t, verify.IsConfigError(err))
	})

	t.Run("bad bounds are config errors", func(t *testing.T) {
		assert.ErrorIs(t, verify.MinLength(-1).CheckConfig(), verify.ErrInvalidLength)
		assert.ErrorIs(t, verify.Length(5, 1).CheckConfig(), verify.ErrInvalidRange)
	})
}

func TestPatternRule(t *testing.T) {
	sku := verify.MustPattern(`^[A-Z]{3}-\d+$`)

	t.Run("matching text is valid", func(t *testing.T) {
		out, err := verify.Check("ABC-12", sku)
		require.NoError(t, err)
		assert.True(t, out.IsValid())
	})

	t.Run("mismatch is a violation", func(t *testing.T) {
		out, err := verify.Check("abc", sku)
		require.NoError(t, err)
		require.Equal(t, 1, out.Len())
		v := out.Violations()[0]
		assert.Equal(t, verify.KindPattern, v.Rule)
		assert.Equal(t, verify.CodePatternMismatch, v.Code)
		assert.Equal(t, sku.Expr(), v.TranslationValues["pattern"])
	})

	t.Run("invalid expression fails at construction", func(t *testing.T) {
		_, err := verify.Pattern(`([`)
		assert.ErrorIs(t, err, verify.ErrInvalidPattern)
		assert.True(t, verify.IsConfigError(err))
		assert.Panics(t, func() { verify.MustPattern(`([`) })
	})

	t.Run("zero rule is a config error", func(t *testing.T) {
		assert.ErrorIs(t, verify.Lint(verify.PatternRule{}), verify.ErrInvalidPattern)
	})

	t.Run("precompiled expression", func(t *testing.T) {
		out, err := verify.Check("42", verify.PatternOf(regexp.MustCompile(`^\d+$`)))
		require.NoError(t, err)
		assert.True(t, out.IsValid())
	})

	t.Run("non-text is incompatible", func(t *testing.T) {
		_, err := verify.Check(12, sku)
		assert.ErrorIs(t, err, verify.ErrIncompatibleKind)
	})
}

func TestRequiredRule(t *testing.T) {
	var nilMap map[string]int
	var nilPtr *int

	for name, v := range map[string]any{"untyped nil": nil, "nil map": nilMap, "nil pointer": nilPtr} {
		t.Run(name+" is absent", func(t *testing.T) {
			out, err := verify.Check(v, verify.Required())
			require.NoError(t, err)
			require.Equal(t, 1, out.Len())
			assert.Equal(t, verify.KindRequired, out.Violations()[0].Rule)
			assert.Equal(t, verify.CodeRequired, out.Violations()[0].Code)
		})
	}

	t.Run("empty values are present", func(t *testing.T) {
		for _, v := range []any{"", 0, []int{}, false} {
			out, err := verify.Check(v, verify.Required())
			require.NoError(t, err)
			assert.True(t, out.IsValid())
		}
	})

	t.Run("absent value skips other rules", func(t *testing.T) {
		out, err := verify.Check(nil, verify.MinLength(3), verify.Max(2))
		require.NoError(t, err)
		assert.True(t, out.IsValid())
	})
}

type celsius float64

func ptr[T any](v T) *T { return &v }
