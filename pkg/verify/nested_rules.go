package verify

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// Composite is implemented by rules of kind nested. The nested validator
// hands the value to Walk, which descends into its parts.
type Composite interface {
	Rule
	Walk(s *Scope, value any) (Outcome, error)
}

type nestedValidator struct{}

func (nestedValidator) Kind() Kind { return KindNested }

func (nestedValidator) Validate(s *Scope, value any, rule Rule) (Outcome, error) {
	c, ok := rule.(Composite)
	if !ok {
		return Valid(), fmt.Errorf("%w: %T", ErrRuleMismatch, rule)
	}
	return c.Walk(s, value)
}

// FieldRule applies rules to one named member of an object.
type FieldRule struct {
	Name  string
	Rules []Rule
}

func Field(name string, rules ...Rule) FieldRule {
	return FieldRule{Name: name, Rules: rules}
}

// FieldsRule validates objects field by field, in declaration order.
// Structs are matched by json tag name, then by Go field name. Maps must
// have string keys; a missing key is an absent value (see IsMissing).
type FieldsRule struct {
	fields []FieldRule
}

func Fields(fields ...FieldRule) FieldsRule {
	return FieldsRule{fields: fields}
}

func (FieldsRule) Kind() Kind { return KindNested }

func (r FieldsRule) CheckConfig() error {
	seen := make(map[string]bool, len(r.fields))
	for _, f := range r.fields {
		if f.Name == "" {
			return fmt.Errorf("%w: empty name", ErrInvalidField)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate %q", ErrInvalidField, f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

func (r FieldsRule) Children() []Child {
	children := make([]Child, 0, len(r.fields))
	for _, f := range r.fields {
		children = append(children, Child{Path: Path{FieldSegment(f.Name)}, Rules: f.Rules})
	}
	return children
}

// Names returns the declared field names in order.
func (r FieldsRule) Names() []string {
	names := make([]string, 0, len(r.fields))
	for _, f := range r.fields {
		names = append(names, f.Name)
	}
	return names
}

func (r FieldsRule) Walk(s *Scope, value any) (Outcome, error) {
	rv := indirect(value)
	lookup, err := memberLookup(rv)
	if err != nil {
		return Valid(), err
	}

	out := Valid()
	for _, f := range r.fields {
		member, err := lookup(f.Name)
		if err != nil {
			return out, configError(s.path.Field(f.Name), KindNested, err)
		}
		res, err := s.ApplyAt(FieldSegment(f.Name), member, f.Rules...)
		out = out.Merge(res)
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

func memberLookup(rv reflect.Value) (func(name string) (any, error), error) {
	switch rv.Kind() {
	case reflect.Struct:
		index := structFields(rv.Type())
		return func(name string) (any, error) {
			idx, ok := index[name]
			if !ok {
				return nil, fmt.Errorf("%w: %s has no field %q", ErrUnknownField, rv.Type(), name)
			}
			fv, err := rv.FieldByIndexErr(idx)
			if err != nil {
				// Promoted through a nil embedded pointer.
				return missing{}, nil
			}
			return fv.Interface(), nil
		}, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: fields of %s", ErrIncompatibleKind, rv.Type())
		}
		keyType := rv.Type().Key()
		return func(name string) (any, error) {
			mv := rv.MapIndex(reflect.ValueOf(name).Convert(keyType))
			if !mv.IsValid() {
				return missing{}, nil
			}
			return mv.Interface(), nil
		}, nil
	}
	return nil, fmt.Errorf("%w: fields of %s", ErrIncompatibleKind, describe(rv))
}

var fieldIndexCache sync.Map // reflect.Type -> map[string][]int

// structFields indexes exported fields, promoted ones included, by json
// name and by Go name. A json name wins over a Go name on collision.
func structFields(t reflect.Type) map[string][]int {
	if cached, ok := fieldIndexCache.Load(t); ok {
		return cached.(map[string][]int)
	}

	byGoName := make(map[string][]int)
	byJSON := make(map[string][]int)
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		byGoName[sf.Name] = sf.Index
		if name := JSONName(sf); name != "" && name != sf.Name {
			byJSON[name] = sf.Index
		}
	}
	for name, idx := range byJSON {
		byGoName[name] = idx
	}

	actual, _ := fieldIndexCache.LoadOrStore(t, byGoName)
	return actual.(map[string][]int)
}

// JSONName returns the name a struct field is known by in JSON, or "" when
// the field has no json tag or is excluded with "-".
func JSONName(sf reflect.StructField) string {
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}

// EachRule applies the same rules to every element of a sequence or every
// value of a map. Sequences are visited in index order, maps in key order.
type EachRule struct {
	rules []Rule
}

func Each(rules ...Rule) EachRule {
	return EachRule{rules: rules}
}

func (EachRule) Kind() Kind { return KindNested }

func (r EachRule) Children() []Child {
	return []Child{{Path: Path{AnySegment()}, Rules: r.rules}}
}

func (r EachRule) Walk(s *Scope, value any) (Outcome, error) {
	rv := indirect(value)
	out := Valid()
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			res, err := s.ApplyAt(IndexSegment(i), rv.Index(i).Interface(), r.rules...)
			out = out.Merge(res)
			if err != nil {
				return out, err
			}
		}
	case reflect.Map:
		for _, k := range sortedKeys(rv) {
			res, err := s.ApplyAt(KeySegment(keyString(k)), rv.MapIndex(k).Interface(), r.rules...)
			out = out.Merge(res)
			if err != nil {
				return out, err
			}
		}
	default:
		return out, fmt.Errorf("%w: each over %s", ErrIncompatibleKind, describe(rv))
	}
	return out, nil
}

// KeysRule applies rules to every key of a map, in key order.
type KeysRule struct {
	rules []Rule
}

func Keys(rules ...Rule) KeysRule {
	return KeysRule{rules: rules}
}

func (KeysRule) Kind() Kind { return KindNested }

func (r KeysRule) Children() []Child {
	return []Child{{Path: Path{AnySegment()}, Rules: r.rules}}
}

func (r KeysRule) Walk(s *Scope, value any) (Outcome, error) {
	rv := indirect(value)
	if rv.Kind() != reflect.Map {
		return Valid(), fmt.Errorf("%w: keys of %s", ErrIncompatibleKind, describe(rv))
	}
	out := Valid()
	for _, k := range sortedKeys(rv) {
		res, err := s.ApplyAt(KeySegment(keyString(k)), k.Interface(), r.rules...)
		out = out.Merge(res)
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

func keyString(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}

func sortedKeys(rv reflect.Value) []reflect.Value {
	keys := rv.MapKeys()
	slices.SortFunc(keys, compareKeys)
	return keys
}

func compareKeys(a, b reflect.Value) int {
	if a.Kind() == reflect.Interface {
		a = a.Elem()
	}
	if b.Kind() == reflect.Interface {
		b = b.Elem()
	}
	if a.IsValid() && b.IsValid() {
		switch {
		case a.Kind() == reflect.String && b.Kind() == reflect.String:
			return strings.Compare(a.String(), b.String())
		case classify(a) != numNone && classify(b) != numNone:
			if c, err := compareOrdered(a, b); err == nil && c != cmpNaN {
				return c
			}
		}
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// AllRule applies a group of rules to the same value, so the group can
// stand where a single rule is expected, such as the target of Lazy.
type AllRule struct {
	rules []Rule
}

func All(rules ...Rule) AllRule {
	return AllRule{rules: rules}
}

func (AllRule) Kind() Kind { return KindNested }

// ChecksNull passes present nil values on to the grouped rules, which skip
// them unless they ask for null themselves.
func (AllRule) ChecksNull() bool { return true }

func (r AllRule) Children() []Child {
	return []Child{{Rules: r.rules}}
}

func (r AllRule) Walk(s *Scope, value any) (Outcome, error) {
	return s.Apply(value, r.rules...)
}

// SelfRule hands the value to its own validation and locates the result at
// the current path. A ScopedVerifier continues the running check. A plain
// Verifier starts a check of its own, so the depth limit cannot see through
// it; instead a value that re-enters its own Verify more often than the
// depth limit allows is reported as ErrDepthExceeded.
type SelfRule struct{}

func Self() SelfRule {
	return SelfRule{}
}

func (SelfRule) Kind() Kind { return KindNested }

func (SelfRule) Walk(s *Scope, value any) (Outcome, error) {
	if sv, ok := as[ScopedVerifier](value); ok {
		return sv.VerifyIn(s)
	}
	vf, ok := as[Verifier](value)
	if !ok {
		return Valid(), fmt.Errorf("%w: %T does not implement Verifier", ErrIncompatibleKind, value)
	}

	leave, err := s.registry.enter(s.path, value)
	if err != nil {
		return Valid(), err
	}
	defer leave()
	return verifyUnder(s.path, vf)
}

// verifyUnder runs vf.Verify. A configuration error raised through
// Plan.MustCheck inside it is returned instead of unwinding further.
func verifyUnder(path Path, vf Verifier) (out Outcome, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		var ce *ConfigError
		rerr, ok := r.(error)
		if !ok || !errors.As(rerr, &ce) {
			panic(r)
		}
		out, err = Valid(), &ConfigError{Path: path.Append(ce.Path...), Kind: ce.Kind, Err: ce.Err}
	}()
	return vf.Verify().Under(path), nil
}

// receiver identifies a value by the memory it refers to. Only values that
// refer to memory can lead back to themselves.
type receiver struct {
	typ reflect.Type
	ptr uintptr
}

func receiverOf(v any) (receiver, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return receiver{}, false
		}
		return receiver{typ: rv.Type(), ptr: rv.Pointer()}, true
	}
	return receiver{}, false
}

// enter records that v is being verified by its own Verify method and
// returns the function that undoes it.
func (r *Registry) enter(path Path, v any) (func(), error) {
	key, ok := receiverOf(v)
	if !ok {
		return func() {}, nil
	}

	r.activeMu.Lock()
	defer r.activeMu.Unlock()
	if r.active[key] >= r.maxDepth {
		return nil, &ConfigError{
			Path: path,
			Kind: KindNested,
			Err:  fmt.Errorf("%w: %s entered its own Verify %d times", ErrDepthExceeded, key.typ, r.maxDepth),
		}
	}
	if r.active == nil {
		r.active = make(map[receiver]int)
	}
	r.active[key]++

	return func() {
		r.activeMu.Lock()
		defer r.activeMu.Unlock()
		r.active[key]--
		if r.active[key] <= 0 {
			delete(r.active, key)
		}
	}, nil
}

// LazyRule defers building a rule until it is evaluated, so rule sets can
// refer to themselves when describing recursive data.
//
//	var node verify.Rule
//	node = verify.Fields(
//		verify.Field("name", verify.MinLength(1)),
//		verify.Field("children", verify.Each(verify.Lazy(func() verify.Rule { return node }))),
//	)
type LazyRule struct {
	resolve func() Rule
}

func Lazy(fn func() Rule) LazyRule {
	return LazyRule{resolve: fn}
}

func (LazyRule) Kind() Kind { return KindNested }

// ChecksNull hands present nil values to the resolved rule, which decides
// for itself whether it sees them.
func (LazyRule) ChecksNull() bool { return true }

func (r LazyRule) CheckConfig() error {
	if r.resolve == nil {
		return ErrNilRule
	}
	return nil
}

func (r LazyRule) Walk(s *Scope, value any) (Outcome, error) {
	if r.resolve == nil {
		return Valid(), ErrNilRule
	}
	rule := r.resolve()
	if rule == nil {
		return Valid(), ErrNilRule
	}
	target, err := s.resolve()
	if err != nil {
		return Valid(), err
	}
	return target.Apply(value, rule)
}
