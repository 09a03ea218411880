package schema

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/oarkflow/jsonschema"

	"github.com/dmitrymomot/verify/pkg/logger"
	"github.com/dmitrymomot/verify/pkg/verify"
)

// Adapter turns JSON Schema documents into verify rule sets.
type Adapter struct {
	registry    *verify.Registry
	logger      *slog.Logger
	annotations map[string][]verify.Rule

	mu       sync.Mutex
	compiler *jsonschema.Compiler
	cache    *compileCache
}

type Option func(*Adapter)

// WithRegistry evaluates synthesized rules with reg. The validators for
// KindType, KindEnum and KindAdditional are added to it unless validators
// for those kinds are already registered.
func WithRegistry(reg *verify.Registry) Option {
	return func(a *Adapter) {
		if reg != nil {
			a.registry = reg
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithRules attaches extra rules to the value at pointer, an RFC 6901 JSON
// pointer into the document. Use "*" for every element of an array or
// every value of a map, e.g. "/items/*/sku".
func WithRules(pointer string, rules ...verify.Rule) Option {
	return func(a *Adapter) {
		key := verify.ParsePointer(pointer).Pointer()
		a.annotations[key] = append(a.annotations[key], rules...)
	}
}

// WithCacheSize sets how many compiled schemas are kept for reuse by
// Compile. Zero or less disables the cache.
func WithCacheSize(n int) Option {
	return func(a *Adapter) {
		if n <= 0 {
			a.cache = nil
			return
		}
		a.cache = newCompileCache(n)
	}
}

func New(opts ...Option) *Adapter {
	a := &Adapter{
		logger:      logger.Discard(),
		annotations: make(map[string][]verify.Rule),
		compiler:    jsonschema.NewCompiler(),
		cache:       newCompileCache(DefaultCacheSize),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.registry == nil {
		a.registry = verify.NewRegistry(verify.WithLogger(a.logger))
	}
	for _, v := range []verify.Validator{TypeValidator(), EnumValidator(), AdditionalValidator()} {
		if _, ok := a.registry.Lookup(v.Kind()); !ok {
			// Lost races against a concurrent registration are harmless.
			_ = a.registry.Register(v)
		}
	}
	return a
}

func (a *Adapter) Registry() *verify.Registry {
	return a.registry
}

// Compile parses a JSON Schema document and synthesizes its rules.
// Identical documents are compiled once while they stay in the cache.
func (a *Adapter) Compile(data []byte) (*Compiled, error) {
	key := digest(sha256.Sum256(data))
	if a.cache != nil {
		if c, ok := a.cache.get(key); ok {
			return c, nil
		}
	}

	a.mu.Lock()
	s, err := a.compiler.Compile(data)
	a.mu.Unlock()
	if err != nil {
		return nil, errors.Join(ErrCompile, err)
	}
	c, err := a.Build(s)
	if err != nil {
		return nil, err
	}

	if a.cache != nil && a.cache.put(key, c) {
		a.logger.Debug("compiled schema evicted", logger.Component("schema"), slog.Int("cached", a.cache.len()))
	}
	return c, nil
}

// Build synthesizes rules for an already compiled schema and lints them.
func (a *Adapter) Build(s *jsonschema.Schema) (*Compiled, error) {
	rules, fields, err := a.Synthesize(s)
	if err != nil {
		return nil, err
	}
	plan, err := a.registry.Build(rules...)
	if err != nil {
		return nil, err
	}
	return &Compiled{source: s, plan: plan, fields: fields}, nil
}

// Synthesize walks the declared shape of s and returns the equivalent
// rules along with a report of every property visited. All problems found
// in the schema are returned together.
func (a *Adapter) Synthesize(s *jsonschema.Schema) ([]verify.Rule, []FieldReport, error) {
	if s == nil {
		return nil, nil, ErrNilSchema
	}

	x := &synthesizer{
		annotations: a.annotations,
		used:        make(map[string]bool),
		active:      make(map[*jsonschema.Schema]*target),
	}
	rules := x.schema(s, nil)

	for _, key := range slices.Sorted(maps.Keys(a.annotations)) {
		if !x.used[key] {
			x.errs = append(x.errs, &verify.ConfigError{
				Path: verify.ParsePointer(key),
				Err:  ErrUnknownPointer,
			})
		}
	}
	if err := errors.Join(x.errs...); err != nil {
		return nil, nil, err
	}

	validated := 0
	for _, f := range x.fields {
		if f.Validated() {
			validated++
		}
	}
	a.logger.Debug("schema synthesized",
		logger.Component("schema"),
		slog.Int("fields", len(x.fields)),
		slog.Int("validated", validated),
		slog.Int("passed_through", len(x.fields)-validated),
	)
	return rules, x.fields, nil
}

type synthesizer struct {
	annotations map[string][]verify.Rule
	used        map[string]bool
	fields      []FieldReport
	errs        []error
	// Schemas being synthesized. Reaching one of them again through $ref
	// yields a lazy rule instead of recursing.
	active map[*jsonschema.Schema]*target
}

// target collects the rules of a schema that is referred to while it is
// still being synthesized.
type target struct {
	rules []verify.Rule
}

func (t *target) resolve() verify.Rule {
	return verify.All(t.rules...)
}

func (x *synthesizer) schema(s *jsonschema.Schema, path verify.Path) []verify.Rule {
	return x.walk(s, path, true)
}

// walk synthesizes s at path. Schemas applied to the same value as their
// parent, through $ref or allOf, leave the annotations to the parent.
func (x *synthesizer) walk(s *jsonschema.Schema, path verify.Path, annotate bool) []verify.Rule {
	if s == nil {
		return nil
	}
	if t, ok := x.active[s]; ok {
		return []verify.Rule{verify.Lazy(t.resolve)}
	}
	t := &target{}
	x.active[s] = t
	defer delete(x.active, s)

	t.rules = x.keywords(s, path, annotate)
	return t.rules
}

func (x *synthesizer) keywords(s *jsonschema.Schema, path verify.Path, annotate bool) []verify.Rule {
	var rules []verify.Rule
	switch {
	case s.ResolvedRef != nil:
		rules = append(rules, x.walk(s.ResolvedRef, path, false)...)
	case s.Ref != "":
		x.errs = append(x.errs, &verify.ConfigError{Path: path, Err: fmt.Errorf("%w: %s", ErrUnresolvedRef, s.Ref)})
	}

	if len(s.Type) > 0 {
		rules = append(rules, TypeRule{Types: []string(s.Type), Strict: true})
	}
	if s.Enum != nil {
		rules = append(rules, EnumRule{Values: s.Enum})
	}
	if r := x.stringRules(s, path); len(r) > 0 {
		rules = append(rules, TypeRule{Types: []string{TypeString}, Rules: r})
	}
	if r := numberRules(s); len(r) > 0 {
		rules = append(rules, TypeRule{Types: []string{TypeNumber}, Rules: r})
	}
	if r := x.arrayRules(s, path); len(r) > 0 {
		rules = append(rules, TypeRule{Types: []string{TypeArray}, Rules: r})
	}
	if r := x.objectRules(s, path); len(r) > 0 {
		rules = append(rules, TypeRule{Types: []string{TypeObject}, Rules: r})
	}

	for _, sub := range s.AllOf {
		rules = append(rules, x.walk(sub, path, false)...)
	}

	if annotate {
		key := path.Pointer()
		if extra, ok := x.annotations[key]; ok {
			x.used[key] = true
			rules = append(rules, extra...)
		}
	}
	return rules
}

func (x *synthesizer) stringRules(s *jsonschema.Schema, path verify.Path) []verify.Rule {
	var rules []verify.Rule
	if l, ok := lengthRule(s.MinLength, s.MaxLength); ok {
		rules = append(rules, l)
	}
	if s.Pattern != nil {
		p, err := verify.Pattern(*s.Pattern)
		if err != nil {
			var ce *verify.ConfigError
			if errors.As(err, &ce) {
				ce.Path = path
			}
			x.errs = append(x.errs, err)
		} else {
			rules = append(rules, p)
		}
	}
	return rules
}

func numberRules(s *jsonschema.Schema) []verify.Rule {
	var rules []verify.Rule
	if s.Minimum != nil || s.Maximum != nil {
		rules = append(rules, verify.RangeRule[float64]{Min: ratFloat(s.Minimum), Max: ratFloat(s.Maximum)})
	}
	if s.ExclusiveMinimum != nil || s.ExclusiveMaximum != nil {
		rules = append(rules, verify.RangeRule[float64]{
			Min:          ratFloat(s.ExclusiveMinimum),
			Max:          ratFloat(s.ExclusiveMaximum),
			ExclusiveMin: s.ExclusiveMinimum != nil,
			ExclusiveMax: s.ExclusiveMaximum != nil,
		})
	}
	return rules
}

func (x *synthesizer) arrayRules(s *jsonschema.Schema, path verify.Path) []verify.Rule {
	var rules []verify.Rule
	if l, ok := lengthRule(s.MinItems, s.MaxItems); ok {
		rules = append(rules, l)
	}
	if s.Items != nil {
		if inner := x.schema(s.Items, path.Append(verify.AnySegment())); len(inner) > 0 {
			rules = append(rules, verify.Each(inner...))
		}
	}
	return rules
}

func (x *synthesizer) objectRules(s *jsonschema.Schema, path verify.Path) []verify.Rule {
	var rules []verify.Rule
	if l, ok := lengthRule(s.MinProperties, s.MaxProperties); ok {
		rules = append(rules, l)
	}

	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}

	var props map[string]*jsonschema.Schema
	if s.Properties != nil {
		props = *s.Properties
	}

	var fields []verify.FieldRule
	for _, name := range slices.Sorted(maps.Keys(props)) {
		if f, ok := x.property(name, props[name], required[name], path); ok {
			fields = append(fields, f)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(required)) {
		if _, declared := props[name]; declared {
			continue
		}
		if f, ok := x.property(name, nil, true, path); ok {
			fields = append(fields, f)
		}
	}
	if len(fields) > 0 {
		rules = append(rules, verify.Fields(fields...))
	}

	if r, ok := x.additional(s, props, path); ok {
		rules = append(rules, r)
	}
	return rules
}

// additional synthesizes additionalProperties: false closes the object,
// a schema applies to every member that properties and patternProperties
// do not cover.
func (x *synthesizer) additional(s *jsonschema.Schema, props map[string]*jsonschema.Schema, path verify.Path) (AdditionalRule, bool) {
	extra := s.AdditionalProperties
	if extra == nil {
		return AdditionalRule{}, false
	}
	r := AdditionalRule{Declared: slices.Sorted(maps.Keys(props))}
	if s.PatternProperties != nil {
		for _, expr := range slices.Sorted(maps.Keys(*s.PatternProperties)) {
			re, err := regexp.Compile(expr)
			if err != nil {
				x.errs = append(x.errs, &verify.ConfigError{
					Path: path,
					Kind: KindAdditional,
					Err:  fmt.Errorf("%w: %q: %w", verify.ErrInvalidPattern, expr, err),
				})
				continue
			}
			r.Patterns = append(r.Patterns, re)
		}
	}

	switch {
	case extra.Boolean != nil && !*extra.Boolean:
		r.Closed = true
	case extra.Boolean != nil:
		return AdditionalRule{}, false
	default:
		r.Rules = x.schema(extra, path.Append(verify.AnySegment()))
		if len(r.Rules) == 0 {
			return AdditionalRule{}, false
		}
	}
	return r, true
}

// property runs one field through its lifecycle. The bool result is false
// for fields passed through without rules.
func (x *synthesizer) property(name string, s *jsonschema.Schema, required bool, parent verify.Path) (verify.FieldRule, bool) {
	path := parent.Field(name)
	idx := len(x.fields)
	x.fields = append(x.fields, FieldReport{Path: path, Shape: shapeOf(s), Required: required})

	lc := newLifecycle()
	x.fire(lc, eventResolve, path)

	rules := x.schema(s, path)
	if required {
		rules = append([]verify.Rule{verify.Required()}, rules...)
	}

	included := len(rules) > 0
	if included {
		x.fire(lc, eventSynthesize, path)
		x.fire(lc, eventInclude, path)
	} else {
		x.fire(lc, eventPassThrough, path)
	}

	report := &x.fields[idx]
	report.Rules = len(rules)
	report.State = lc.state
	report.History = lc.history
	return verify.Field(name, rules...), included
}

func (x *synthesizer) fire(lc *lifecycle, e fieldEvent, path verify.Path) {
	if err := lc.fire(e); err != nil {
		x.errs = append(x.errs, &verify.ConfigError{Path: path, Err: err})
	}
}

func shapeOf(s *jsonschema.Schema) string {
	// Follow references, stopping on a cycle of them.
	seen := make(map[*jsonschema.Schema]bool)
	for s != nil && len(s.Type) == 0 && s.ResolvedRef != nil && !seen[s] {
		seen[s] = true
		s = s.ResolvedRef
	}

	switch {
	case s == nil:
		return "any"
	case len(s.Type) > 0:
		return strings.Join(s.Type, "|")
	case s.Properties != nil:
		return TypeObject
	case s.Items != nil:
		return TypeArray
	}
	return "any"
}

func lengthRule(min, max *float64) (verify.LengthRule, bool) {
	if min == nil && max == nil {
		return verify.LengthRule{}, false
	}
	var r verify.LengthRule
	if min != nil {
		n := clampInt(*min)
		r.Min = &n
	}
	if max != nil {
		n := clampInt(*max)
		r.Max = &n
	}
	return r, true
}

// clampInt converts a schema count to int. Counts beyond the int range
// are as good as unbounded; negative ones are left for CheckConfig.
func clampInt(f float64) int {
	switch {
	case math.IsNaN(f):
		return -1
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

func ratFloat(r *jsonschema.Rat) *float64 {
	if r == nil {
		return nil
	}
	f, _ := r.Float64()
	return &f
}
