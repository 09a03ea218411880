package tags

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrymomot/verify/pkg/verify"
)

// TagName is the struct tag read by this package.
const TagName = "verify"

var (
	verifierType       = reflect.TypeFor[verify.Verifier]()
	scopedVerifierType = reflect.TypeFor[verify.ScopedVerifier]()
)

type result struct {
	rules []verify.Rule
	err   error
}

var cache sync.Map // reflect.Type -> result

// For derives the rules for struct type t, or for the struct t points to.
// A struct without any verify tags and no nested structs yields no rules.
// Results, errors included, are cached per type.
func For(t reflect.Type) ([]verify.Rule, error) {
	if t == nil {
		return nil, &verify.ConfigError{Err: fmt.Errorf("%w: nil type", ErrNotStruct)}
	}
	if cached, ok := cache.Load(t); ok {
		r := cached.(result)
		return slices.Clone(r.rules), r.err
	}

	rules, err := derive(t)
	actual, _ := cache.LoadOrStore(t, result{rules: rules, err: err})
	r := actual.(result)
	return slices.Clone(r.rules), r.err
}

// Build derives the rules for T and binds them to the default registry.
func Build[T any]() (*verify.Plan, error) {
	return BuildWith[T](verify.Default())
}

// BuildWith derives the rules for T and binds them to reg.
func BuildWith[T any](reg *verify.Registry) (*verify.Plan, error) {
	rules, err := For(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return reg.Build(rules...)
}

func MustBuild[T any]() *verify.Plan {
	p, err := Build[T]()
	if err != nil {
		panic(err)
	}
	return p
}

// Verify checks v against the rules derived from its type.
func Verify(v any) (verify.Outcome, error) {
	if v == nil {
		return verify.Valid(), &verify.ConfigError{Err: fmt.Errorf("%w: nil", ErrNotStruct)}
	}
	rules, err := For(reflect.TypeOf(v))
	if err != nil {
		return verify.Valid(), err
	}
	return verify.Check(v, rules...)
}

func derive(t reflect.Type) ([]verify.Rule, error) {
	st := t
	for st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return nil, &verify.ConfigError{Err: fmt.Errorf("%w: %s", ErrNotStruct, t)}
	}

	b := &builder{refs: make(map[reflect.Type]*structRef)}
	rule, err := b.structRule(st, nil)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, nil
	}
	rules := []verify.Rule{rule}
	if err := verify.Lint(rules...); err != nil {
		return nil, err
	}
	return rules, nil
}

// structRef holds the rule of a struct type while it is being derived, so
// self-referential types can point back to it through verify.Lazy.
type structRef struct {
	rule verify.Rule
	done bool
}

func (r *structRef) resolve() verify.Rule {
	if r.rule == nil {
		return verify.Fields()
	}
	return r.rule
}

type builder struct {
	refs map[reflect.Type]*structRef
}

func (b *builder) structRule(t reflect.Type, path verify.Path) (verify.Rule, error) {
	if ref, ok := b.refs[t]; ok {
		if ref.done {
			return ref.rule, nil
		}
		return verify.Lazy(ref.resolve), nil
	}
	ref := &structRef{}
	b.refs[t] = ref

	var fields []verify.FieldRule
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		tag := sf.Tag.Get(TagName)
		if strings.TrimSpace(tag) == "-" {
			continue
		}
		name := verify.JSONName(sf)
		if name == "" {
			name = sf.Name
		}
		fieldPath := path.Field(name)

		opts, err := parseTag(tag)
		if err != nil {
			return nil, tagError(fieldPath, "", err)
		}
		rules, err := b.rulesFor(sf.Type, opts, fieldPath)
		if err != nil {
			return nil, err
		}
		if len(rules) > 0 {
			fields = append(fields, verify.Field(name, rules...))
		}
	}

	if len(fields) > 0 {
		ref.rule = verify.Fields(fields...)
	}
	ref.done = true
	return ref.rule, nil
}

// rulesFor turns opts into rules for a value of type t. Rules come out in a
// fixed order: required, range, length, pattern, self, then nested rules.
func (b *builder) rulesFor(t reflect.Type, opts []option, path verify.Path) ([]verify.Rule, error) {
	own, items := splitItems(opts)
	base := t
	for base.Kind() == reflect.Pointer {
		base = base.Elem()
	}

	var (
		required bool
		self     bool
		pattern  *option
		rng      rangeOpts
		ln       lengthOpts
	)
	for i, o := range own {
		switch o.key {
		case optRequired, optSelf:
			if !o.flag {
				return nil, tagError(path, "", fmt.Errorf("%w: %s takes no value", ErrInvalidTag, o.key))
			}
			if o.key == optRequired {
				required = true
			} else {
				self = true
			}
			continue
		}
		if o.flag {
			return nil, tagError(path, "", fmt.Errorf("%w: %s needs a value", ErrInvalidTag, o.key))
		}
		switch o.key {
		case optMin, optMax, optGT, optLT:
			if err := rng.set(o); err != nil {
				return nil, tagError(path, verify.KindRange, err)
			}
		case optMinLen, optMaxLen, optLen:
			if err := ln.set(o); err != nil {
				return nil, tagError(path, verify.KindLength, err)
			}
		case optPattern:
			pattern = &own[i]
		default:
			return nil, tagError(path, "", fmt.Errorf("%w: unknown option %q", ErrInvalidTag, o.key))
		}
	}

	var rules []verify.Rule
	if required {
		rules = append(rules, verify.Required())
	}
	if rng.isSet() {
		rule, err := rng.rule(base)
		if err != nil {
			return nil, tagError(path, verify.KindRange, err)
		}
		rules = append(rules, rule)
	}
	if ln.isSet() {
		rule, err := ln.rule(base)
		if err != nil {
			return nil, tagError(path, verify.KindLength, err)
		}
		rules = append(rules, rule)
	}
	if pattern != nil {
		if base.Kind() != reflect.String {
			return nil, tagError(path, verify.KindPattern, fmt.Errorf("%w: pattern on %s", verify.ErrIncompatibleKind, t))
		}
		rule, err := verify.Pattern(pattern.value)
		if err != nil {
			return nil, tagError(path, verify.KindPattern, err)
		}
		rules = append(rules, rule)
	}
	if self {
		if !implements(t, base, verifierType) && !implements(t, base, scopedVerifierType) {
			return nil, tagError(path, verify.KindNested, fmt.Errorf("%w: %s does not implement Verifier", verify.ErrIncompatibleKind, t))
		}
		rules = append(rules, verify.Self())
	}

	switch base.Kind() {
	case reflect.Struct:
		if len(items) > 0 {
			return nil, tagError(path, "", fmt.Errorf("%w: items on %s", ErrInvalidTag, t))
		}
		nested, err := b.structRule(base, path)
		if err != nil {
			return nil, err
		}
		if nested != nil {
			rules = append(rules, nested)
		}
	case reflect.Slice, reflect.Array, reflect.Map:
		elemRules, err := b.rulesFor(base.Elem(), items, path.Append(verify.AnySegment()))
		if err != nil {
			return nil, err
		}
		if len(elemRules) > 0 {
			rules = append(rules, verify.Each(elemRules...))
		}
	default:
		if len(items) > 0 {
			return nil, tagError(path, "", fmt.Errorf("%w: items on %s", ErrInvalidTag, t))
		}
	}
	return rules, nil
}

func implements(t, base, iface reflect.Type) bool {
	return t.Implements(iface) || reflect.PointerTo(base).Implements(iface)
}

// tagError attaches path to err. Errors that already are configuration
// errors keep their kind.
func tagError(path verify.Path, kind verify.Kind, err error) error {
	var ce *verify.ConfigError
	if errors.As(err, &ce) {
		ce.Path = path
		return ce
	}
	return &verify.ConfigError{Path: path, Kind: kind, Err: err}
}

type rangeOpts struct {
	min, max         string
	hasMin, hasMax   bool
	exclMin, exclMax bool
}

func (r *rangeOpts) set(o option) error {
	switch o.key {
	case optMin, optGT:
		if r.hasMin {
			return fmt.Errorf("%w: lower bound set twice", ErrInvalidTag)
		}
		r.min, r.hasMin, r.exclMin = o.value, true, o.key == optGT
	case optMax, optLT:
		if r.hasMax {
			return fmt.Errorf("%w: upper bound set twice", ErrInvalidTag)
		}
		r.max, r.hasMax, r.exclMax = o.value, true, o.key == optLT
	}
	return nil
}

func (r rangeOpts) isSet() bool {
	return r.hasMin || r.hasMax
}

// rule picks the bound type from the kind of t, so bounds compare without
// conversion loss against any integer, float or string field.
func (r rangeOpts) rule(t reflect.Type) (verify.Rule, error) {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return boundRule(r, func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) })
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return boundRule(r, func(s string) (uint64, error) { return strconv.ParseUint(s, 10, 64) })
	case reflect.Float32, reflect.Float64:
		return boundRule(r, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
	case reflect.String:
		return boundRule(r, func(s string) (string, error) { return s, nil })
	}
	return nil, fmt.Errorf("%w: range on %s", verify.ErrIncompatibleKind, t)
}

func boundRule[T cmp.Ordered](r rangeOpts, parse func(string) (T, error)) (verify.Rule, error) {
	rule := verify.RangeRule[T]{ExclusiveMin: r.exclMin, ExclusiveMax: r.exclMax}
	if r.hasMin {
		v, err := parse(r.min)
		if err != nil {
			return nil, fmt.Errorf("%w: bound %q: %w", ErrInvalidTag, r.min, err)
		}
		rule.Min = &v
	}
	if r.hasMax {
		v, err := parse(r.max)
		if err != nil {
			return nil, fmt.Errorf("%w: bound %q: %w", ErrInvalidTag, r.max, err)
		}
		rule.Max = &v
	}
	return rule, nil
}

type lengthOpts struct {
	min, max *int
}

func (l *lengthOpts) set(o option) error {
	n, err := strconv.Atoi(o.value)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidTag, o.key, o.value)
	}
	switch o.key {
	case optMinLen:
		if l.min != nil {
			return fmt.Errorf("%w: minimum length set twice", ErrInvalidTag)
		}
		l.min = &n
	case optMaxLen:
		if l.max != nil {
			return fmt.Errorf("%w: maximum length set twice", ErrInvalidTag)
		}
		l.max = &n
	case optLen:
		if l.min != nil || l.max != nil {
			return fmt.Errorf("%w: len combined with another length bound", ErrInvalidTag)
		}
		l.min, l.max = &n, &n
	}
	return nil
}

func (l lengthOpts) isSet() bool {
	return l.min != nil || l.max != nil
}

func (l lengthOpts) rule(t reflect.Type) (verify.Rule, error) {
	switch t.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return verify.LengthRule{Min: l.min, Max: l.max}, nil
	}
	return nil, fmt.Errorf("%w: length on %s", verify.ErrIncompatibleKind, t)
}
