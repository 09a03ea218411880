package verify_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/verify/pkg/verify"
)

type person struct {
	Name     string  `json:"name"`
	Age      int     `json:"age"`
	Nickname *string `json:"nickname,omitempty"`
	Email    string
}

var personRules = verify.Fields(
	verify.Field("name", verify.MinLength(1)),
	verify.Field("age", verify.Max(120)),
)

func TestFields(t *testing.T) {
	t.Run("valid record has no violations", func(t *testing.T) {
		out, err := verify.Check(person{Name: "Ann", Age: 30}, personRules)
		require.NoError(t, err)
		assert.True(t, out.IsValid())
		assert.Equal(t, 0, out.Len())
	})

	t.Run("every invalid field is reported in declaration order", func(t *testing.T) {
		out, err := verify.Check(person{Name: "", Age: 130}, personRules)
		require.NoError(t, err)
		vs := out.Violations()
		require.Len(t, vs, 2)
		assert.True(t, vs[0].Path.Equal(verify.Path{verify.FieldSegment("name")}))
		assert.Equal(t, verify.KindLength, vs[0].Rule)
		assert.True(t, vs[1].Path.Equal(verify.Path{verify.FieldSegment("age")}))
		assert.Equal(t, verify.KindRange, vs[1].Rule)
	})

	t.Run("single violated rule yields single violation", func(t *testing.T) {
		out, err := verify.Check(person{Name: "Ann", Age: 130}, personRules)
		require.NoError(t, err)
		require.Equal(t, 1, out.Len())
		assert.Equal(t, "age", out.Violations()[0].Field())
		assert.Equal(t, verify.KindRange, out.Violations()[0].Rule)
	})

	t.Run("works on generic maps", func(t *testing.T) {
		out, err := verify.Check(map[string]any{"name": "", "age": 130.0}, personRules)
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "age"}, out.Violations().Paths())
	})

	t.Run("pointer to struct is followed", func(t *testing.T) {
		out, err := verify.Check(&person{Name: "", Age: 1}, personRules)
		require.NoError(t, err)
		assert.Equal(t, 1, out.Len())
	})

	t.Run("absent optional field is skipped", func(t *testing.T) {
		rules := verify.Fields(verify.Field("nickname", verify.MinLength(2)))
		out, err := verify.Check(person{}, rules)
		require.NoError(t, err)
		assert.True(t, out.IsValid())

		out, err = verify.Check(map[string]any{}, rules)
		require.NoError(t, err)
		assert.True(t, out.IsValid())
	})

	t.Run("absent required field yields one required violation", func(t *testing.T) {
		rules := verify.Fields(verify.Field("nickname", verify.Required(), verify.MinLength(2)))
		out, err := verify.Check(person{}, rules)
		require.NoError(t, err)
		require.Equal(t, 1, out.Len())
		assert.Equal(t, verify.KindRequired, out.Violations()[0].Rule)
		assert.Equal(t, "nickname", out.Violations()[0].Field())
	})

	t.Run("present optional field is validated", func(t *testing.T) {
		rules := verify.Fields(verify.Field("nickname", verify.MinLength(2)))
		out, err := verify.Check(person{Nickname: ptr("a")}, rules)
		require.NoError(t, err)
		assert.Equal(t, 1, out.Len())
	})

	t.Run("go field name is accepted", func(t *testing.T) {
		out, err := verify.Check(person{Email: ""}, verify.Fields(verify.Field("Email", verify.MinLength(3))))
		require.NoError(t, err)
		assert.Equal(t, "Email", out.Violations()[0].Field())
	})

	t.Run("unknown field is a config error", func(t *testing.T) {
		_, err := verify.Check(person{}, verify.Fields(verify.Field("phone", verify.MinLength(1))))
		require.Error(t, err)
		assert.ErrorIs(t, err, verify.ErrUnknownField)
		var ce *verify.ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "phone", ce.Path.String())
	})

	t.Run("duplicate field names are rejected", func(t *testing.T) {
		err := verify.Lint(verify.Fields(verify.Field("a"), verify.Field("a")))
		assert.ErrorIs(t, err, verify.ErrInvalidField)
	})

	t.Run("child config error keeps sibling violations", func(t *testing.T) {
		rules := verify.Fields(
			verify.Field("name", verify.MinLength(1)),
			verify.Field("age", verify.MinLength(1)),
		)
		out, err := verify.Check(person{Name: "", Age: 3}, rules)
		require.Error(t, err)
		assert.ErrorIs(t, err, verify.ErrIncompatibleKind)
		require.Equal(t, 1, out.Len())
		assert.Equal(t, "name", out.Violations()[0].Field())

		var ce *verify.ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "age", ce.Path.String())
	})

	t.Run("fields on a scalar is incompatible", func(t *testing.T) {
		_, err := verify.Check(42, personRules)
		assert.ErrorIs(t, err, verify.ErrIncompatibleKind)
	})
}

type order struct {
	Items []item `json:"items"`
}

type item struct {
	SKU string `json:"sku"`
	Qty int    `json:"qty"`
}

func TestEach(t *testing.T) {
	rules := verify.Fields(
		verify.Field("items", verify.MinLength(1), verify.Each(verify.Fields(
			verify.Field("sku", verify.MustPattern(`^[A-Z]+-\d+$`)),
			verify.Field("qty", verify.Min(1)),
		))),
	)

	t.Run("element violation carries its index", func(t *testing.T) {
		o := order{Items: []item{{"A-1", 1}, {"B-2", 2}, {"bad", 1}}}
		out, err := verify.Check(o, rules)
		require.NoError(t, err)
		require.Equal(t, 1, out.Len())
		v := out.Violations()[0]
		assert.True(t, v.Path.Equal(verify.Path{
			verify.FieldSegment("items"), verify.IndexSegment(2), verify.FieldSegment("sku"),
		}))
		assert.Equal(t, "items[2].sku", v.Field())
	})

	t.Run("direct element rules", func(t *testing.T) {
		out, err := verify.Check(map[string]any{"items": []any{"a", "", "c"}},
			verify.Fields(verify.Field("items", verify.Each(verify.MinLength(1)))))
		require.NoError(t, err)
		require.Equal(t, 1, out.Len())
		assert.True(t, out.Violations()[0].Path.Equal(verify.Path{}.Field("items").Index(1)))
	})

	t.Run("every element is checked", func(t *testing.T) {
		o := order{Items: []item{{"x", 0}, {"y", 0}}}
		out, err := verify.Check(o, rules)
		require.NoError(t, err)
		assert.Equal(t, []string{"items[0].sku", "items[0].qty", "items[1].sku", "items[1].qty"}, out.Violations().Paths())
	})

	t.Run("maps are visited in key order", func(t *testing.T) {
		m := map[string]int{"zeta": 0, "alpha": 0, "mid": 5}
		out, err := verify.Check(m, verify.Each(verify.Min(1)))
		require.NoError(t, err)
		assert.Equal(t, []string{`["alpha"]`, `["zeta"]`}, out.Violations().Paths())
	})

	t.Run("integer keys sort numerically", func(t *testing.T) {
		m := map[int]string{10: "", 2: "", 1: "ok"}
		out, err := verify.Check(m, verify.Each(verify.MinLength(1)))
		require.NoError(t, err)
		assert.Equal(t, []string{`["2"]`, `["10"]`}, out.Violations().Paths())
	})

	t.Run("validating twice gives identical outcomes", func(t *testing.T) {
		o := order{Items: []item{{"x", 0}, {"A-1", 1}, {"y", 5}}}
		first, err := verify.Check(o, rules)
		require.NoError(t, err)
		second, err := verify.Check(o, rules)
		require.NoError(t, err)
		assert.Equal(t, first.Violations(), second.Violations())
	})

	t.Run("concurrent callers see consistent results", func(t *testing.T) {
		o := order{Items: []item{{"x", 0}}}
		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				out, err := verify.Check(o, rules)
				assert.NoError(t, err)
				assert.Equal(t, 2, out.Len())
			}()
		}
		wg.Wait()
	})
}

type notNullRule struct{}

func (notNullRule) Kind() verify.Kind { return "not-null" }

func (notNullRule) ChecksNull() bool { return true }

func TestFields_NullAndMissing(t *testing.T) {
	reg := verify.NewRegistry()
	reg.MustRegister(verify.NewValidator("not-null", func(s *verify.Scope, value any, _ notNullRule) (verify.Outcome, error) {
		if value == nil {
			return s.Fail("not-null", "null", "must not be null", "", nil), nil
		}
		return verify.Valid(), nil
	}))
	rules := verify.Fields(verify.Field("a", notNullRule{}, verify.MinLength(1)))

	t.Run("present null reaches rules that ask for it", func(t *testing.T) {
		out, err := reg.Check(map[string]any{"a": nil}, rules)
		require.NoError(t, err)
		require.Equal(t, 1, out.Len())
		assert.Equal(t, "null", out.Violations()[0].Code)
		assert.Equal(t, "a", out.Violations()[0].Field())
	})

	t.Run("missing member is skipped", func(t *testing.T) {
		out, err := reg.Check(map[string]any{}, rules)
		require.NoError(t, err)
		assert.True(t, out.IsValid())
	})

	t.Run("missing and nil are both absent for required", func(t *testing.T) {
		required := verify.Fields(verify.Field("a", verify.Required()))
		for _, doc := range []map[string]any{{}, {"a": nil}} {
			out, err := reg.Check(doc, required)
			require.NoError(t, err)
			assert.Equal(t, 1, out.Len())
		}
	})
}

func TestAll(t *testing.T) {
	t.Run("groups rules on the same value", func(t *testing.T) {
		out, err := verify.Check("x", verify.All(verify.MinLength(2), verify.MustPattern(`^[0-9]+$`)))
		require.NoError(t, err)
		assert.Equal(t, 2, out.Len())
		assert.True(t, out.Violations()[0].Path.IsRoot())
	})

	t.Run("lint sees grouped rules", func(t *testing.T) {
		assert.ErrorIs(t, verify.Lint(verify.All(verify.Length(3, 1))), verify.ErrInvalidRange)
	})

	t.Run("absent value only reaches required", func(t *testing.T) {
		out, err := verify.Check(nil, verify.All(verify.MinLength(2), verify.Required()))
		require.NoError(t, err)
		require.Equal(t, 1, out.Len())
		assert.Equal(t, verify.KindRequired, out.Violations()[0].Rule)
	})
}

func TestKeys(t *testing.T) {
	out, err := verify.Check(map[string]int{"ok": 1, "x": 2}, verify.Keys(verify.MinLength(2)))
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, `["x"]`, out.Violations()[0].Field())

	_, err = verify.Check([]int{1}, verify.Keys(verify.MinLength(1)))
	assert.ErrorIs(t, err, verify.ErrIncompatibleKind)
}

type account struct {
	Owner person `json:"owner"`
}

var accountPlan = verify.MustBuild(verify.Fields(verify.Field("owner", verify.Self())))

func (a account) Verify() verify.Outcome {
	return accountPlan.MustCheck(a)
}

var ownerPlan = verify.MustBuild(personRules)

func (p person) Verify() verify.Outcome {
	return ownerPlan.MustCheck(p)
}

func TestSelf(t *testing.T) {
	t.Run("delegates and re-roots", func(t *testing.T) {
		out := account{Owner: person{Name: "", Age: 10}}.Verify()
		require.Equal(t, 1, out.Len())
		assert.Equal(t, "owner.name", out.Violations()[0].Field())
	})

	t.Run("verify helper", func(t *testing.T) {
		out, ok := verify.Verify(&account{Owner: person{Name: "Ann", Age: 30}})
		assert.True(t, ok)
		assert.True(t, out.IsValid())

		_, ok = verify.Verify(42)
		assert.False(t, ok)
	})

	t.Run("non verifier is incompatible", func(t *testing.T) {
		_, err := verify.Check(item{}, verify.Self())
		assert.ErrorIs(t, err, verify.ErrIncompatibleKind)
	})
}

type node struct {
	Name     string  `json:"name"`
	Children []*node `json:"children"`
}

func nodeRules() verify.Rule {
	var rule verify.Rule
	rule = verify.Fields(
		verify.Field("name", verify.MinLength(1)),
		verify.Field("children", verify.Each(verify.Lazy(func() verify.Rule { return rule }))),
	)
	return rule
}

func TestLazy(t *testing.T) {
	t.Run("validates recursive data", func(t *testing.T) {
		tree := &node{Name: "root", Children: []*node{
			{Name: "a"},
			{Name: "b", Children: []*node{{Name: ""}}},
		}}
		out, err := verify.Check(tree, nodeRules())
		require.NoError(t, err)
		require.Equal(t, 1, out.Len())
		assert.Equal(t, "children[1].children[0].name", out.Violations()[0].Field())
	})

	t.Run("lint does not loop on recursive rules", func(t *testing.T) {
		assert.NoError(t, verify.Lint(nodeRules()))
	})

	t.Run("nil resolver is a config error", func(t *testing.T) {
		assert.ErrorIs(t, verify.Lint(verify.Lazy(nil)), verify.ErrNilRule)
	})

	t.Run("rule resolving to itself fails instead of overflowing", func(t *testing.T) {
		var loop verify.Rule
		loop = verify.Lazy(func() verify.Rule { return loop })
		require.NoError(t, verify.Lint(loop))

		_, err := verify.Check("x", loop)
		require.Error(t, err)
		assert.ErrorIs(t, err, verify.ErrDepthExceeded)
		assert.True(t, verify.IsConfigError(err))
	})

	t.Run("chain of lazy rules reaches its target", func(t *testing.T) {
		inner := verify.Lazy(func() verify.Rule { return verify.MinLength(2) })
		outer := verify.Lazy(func() verify.Rule { return inner })
		out, err := verify.Check("x", outer)
		require.NoError(t, err)
		assert.Equal(t, 1, out.Len())
	})
}

func TestDepthLimit(t *testing.T) {
	reg := verify.NewRegistry(verify.WithMaxDepth(4))

	t.Run("cyclic data fails instead of overflowing", func(t *testing.T) {
		cyclic := &node{Name: "loop"}
		cyclic.Children = []*node{cyclic}

		_, err := reg.Check(cyclic, nodeRules())
		require.Error(t, err)
		assert.ErrorIs(t, err, verify.ErrDepthExceeded)
		assert.True(t, verify.IsConfigError(err))
	})

	t.Run("shallow data passes", func(t *testing.T) {
		out, err := reg.Check(&node{Name: "a", Children: []*node{{Name: "b"}}}, nodeRules())
		require.NoError(t, err)
		assert.True(t, out.IsValid())
	})
}

type ring struct {
	Name string `json:"name"`
	Next *ring  `json:"next"`
}

var ringPlan = verify.MustBuild(verify.Fields(
	verify.Field("name", verify.MinLength(1)),
	verify.Field("next", verify.Self()),
))

func (r *ring) Verify() verify.Outcome {
	return ringPlan.MustCheck(r)
}

type link struct {
	Name string `json:"name"`
	Next *link  `json:"next"`
}

var linkPlan = verify.MustBuild(verify.Fields(
	verify.Field("name", verify.MinLength(1)),
	verify.Field("next", verify.Self()),
))

func (l *link) VerifyIn(s *verify.Scope) (verify.Outcome, error) {
	return linkPlan.CheckIn(s, l)
}

func TestSelfCycles(t *testing.T) {
	selfRules := verify.Fields(verify.Field("next", verify.Self()))

	t.Run("verifier cycle fails instead of overflowing", func(t *testing.T) {
		r := &ring{Name: "a"}
		r.Next = r

		_, err := verify.Check(r, selfRules)
		require.Error(t, err)
		assert.ErrorIs(t, err, verify.ErrDepthExceeded)
		assert.True(t, verify.IsConfigError(err))
	})

	t.Run("direct Verify on a cycle panics with the config error", func(t *testing.T) {
		r := &ring{Name: "a"}
		r.Next = r

		assert.Panics(t, func() { r.Verify() })
	})

	t.Run("acyclic verifier chain still validates", func(t *testing.T) {
		r := &ring{Name: "a", Next: &ring{Name: "b", Next: &ring{Name: ""}}}

		out, err := verify.Check(r, selfRules)
		require.NoError(t, err)
		assert.Equal(t, []string{"next.next.name"}, out.Violations().Paths())

		// The same value is accepted again once a cycle was rejected.
		cyclic := &ring{Name: "a"}
		cyclic.Next = cyclic
		_, err = verify.Check(cyclic, selfRules)
		require.Error(t, err)
		out, err = verify.Check(r, selfRules)
		require.NoError(t, err)
		assert.Equal(t, 1, out.Len())
	})

	t.Run("scoped verifier continues the running check", func(t *testing.T) {
		l := &link{Name: "a", Next: &link{Name: ""}}

		out, err := verify.Check(l, verify.Self())
		require.NoError(t, err)
		assert.Equal(t, []string{"next.name"}, out.Violations().Paths())
	})

	t.Run("scoped verifier cycle hits the depth limit", func(t *testing.T) {
		l := &link{Name: "a"}
		l.Next = l

		_, err := verify.Check(l, verify.Self())
		require.Error(t, err)
		assert.ErrorIs(t, err, verify.ErrDepthExceeded)

		var ce *verify.ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, verify.DefaultMaxDepth+1, ce.Path.Len())
	})

	t.Run("check in a nil scope starts at the root", func(t *testing.T) {
		out, err := linkPlan.CheckIn(nil, &link{Name: ""})
		require.NoError(t, err)
		assert.Equal(t, []string{"name"}, out.Violations().Paths())
	})
}
