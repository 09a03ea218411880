package verify_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/verify/pkg/verify"
)

func violation(path verify.Path, kind verify.Kind, msg string) verify.Violation {
	return verify.Violation{Path: path, Rule: kind, Message: msg}
}

func TestOutcome(t *testing.T) {
	t.Run("zero value is valid", func(t *testing.T) {
		var out verify.Outcome
		assert.True(t, out.IsValid())
		assert.Equal(t, 0, out.Len())
		assert.NoError(t, out.Err())
	})

	t.Run("invalid always carries violations", func(t *testing.T) {
		out := verify.Invalid(violation(verify.Path{}.Field("a"), verify.KindLength, "too short"))
		assert.False(t, out.IsValid())
		assert.Equal(t, 1, out.Len())
	})

	t.Run("merge is an ordered union", func(t *testing.T) {
		a := verify.Invalid(violation(verify.Path{}.Field("a"), verify.KindLength, "a"))
		b := verify.Invalid(violation(verify.Path{}.Field("b"), verify.KindRange, "b"))

		merged := a.Merge(b)
		require.Equal(t, 2, merged.Len())
		assert.Equal(t, []string{"a", "b"}, merged.Violations().Paths())

		assert.True(t, verify.Valid().Merge(verify.Valid()).IsValid())
		assert.Equal(t, 1, verify.Valid().Merge(a).Len())
		assert.Equal(t, 1, a.Merge(verify.Valid()).Len())
	})

	t.Run("merge does not modify operands", func(t *testing.T) {
		a := verify.Invalid(violation(nil, verify.KindLength, "a"))
		b := verify.Invalid(violation(nil, verify.KindLength, "b"))
		c := verify.Invalid(violation(nil, verify.KindLength, "c"))

		ab := a.Merge(b)
		ac := a.Merge(c)
		assert.Equal(t, 1, a.Len())
		assert.Equal(t, "b", ab.Violations()[1].Message)
		assert.Equal(t, "c", ac.Violations()[1].Message)
	})

	t.Run("violations returns a copy", func(t *testing.T) {
		out := verify.Invalid(violation(nil, verify.KindLength, "a"))
		vs := out.Violations()
		vs[0].Message = "changed"
		assert.Equal(t, "a", out.Violations()[0].Message)
	})

	t.Run("under re-roots paths", func(t *testing.T) {
		out := verify.Invalid(violation(verify.Path{}.Field("name"), verify.KindLength, "x"))
		moved := out.Under(verify.Path{}.Field("users").Index(1))
		assert.Equal(t, "users[1].name", moved.Violations()[0].Path.String())
		assert.Equal(t, "name", out.Violations()[0].Path.String())
	})

	t.Run("err exposes violations", func(t *testing.T) {
		out := verify.Invalid(violation(verify.Path{}.Field("name"), verify.KindLength, "must be at least 1 characters long"))
		err := out.Err()
		require.Error(t, err)
		assert.True(t, verify.IsViolations(err))
		assert.False(t, verify.IsConfigError(err))
		assert.Equal(t, "validation failed: name: must be at least 1 characters long", err.Error())

		wrapped := errors.Join(errors.New("context"), err)
		assert.Len(t, verify.ExtractViolations(wrapped), 1)
	})
}

func TestViolations(t *testing.T) {
	vs := verify.Violations{
		violation(verify.Path{}.Field("name"), verify.KindLength, "too short"),
		violation(verify.Path{}.Field("name"), verify.KindPattern, "bad format"),
		violation(verify.Path{}.Field("age"), verify.KindRange, "too old"),
	}

	assert.True(t, vs.Has("name"))
	assert.False(t, vs.Has("email"))
	assert.Equal(t, []string{"too short", "bad format"}, vs.Get("name"))
	assert.Len(t, vs.At("age"), 1)
	assert.Len(t, vs.ByRule(verify.KindPattern), 1)
	assert.Equal(t, []string{"name", "age"}, vs.Paths())
	assert.False(t, vs.IsEmpty())
	assert.Nil(t, verify.ExtractViolations(nil))
	assert.Nil(t, verify.ExtractViolations(errors.New("other")))
	assert.Equal(t, "too old", verify.Violation{Message: "too old"}.String())
}
