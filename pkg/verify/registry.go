package verify

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/dmitrymomot/verify/pkg/logger"
)

// Registry maps rule kinds to validators. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	validators map[Kind]Validator
	maxDepth   int
	logger     *slog.Logger

	// Receivers currently inside their own Verify, see SelfRule.
	activeMu sync.Mutex
	active   map[receiver]int
}

// NewRegistry creates a registry with the built-in validators installed.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		validators: make(map[Kind]Validator),
		maxDepth:   DefaultMaxDepth,
		logger:     logger.Discard(),
	}
	for _, v := range builtins() {
		r.validators[v.Kind()] = v
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func builtins() []Validator {
	return []Validator{
		rangeValidator{},
		lengthValidator{},
		patternValidator{},
		requiredValidator{},
		nestedValidator{},
	}
}

// Register adds a validator for a new rule kind.
func (r *Registry) Register(v Validator) error {
	if v == nil {
		return ErrNilValidator
	}
	kind := v.Kind()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.validators[kind]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateValidator, kind)
	}
	r.validators[kind] = v
	r.logger.Debug("validator registered", logger.RuleKind(string(kind)))
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(v Validator) {
	if err := r.Register(v); err != nil {
		panic(err)
	}
}

func (r *Registry) Lookup(kind Kind) (Validator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.validators[kind]
	return v, ok
}

// Kinds returns the registered rule kinds in sorted order.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	kinds := make([]Kind, 0, len(r.validators))
	for k := range r.validators {
		kinds = append(kinds, k)
	}
	r.mu.RUnlock()
	slices.Sort(kinds)
	return kinds
}

func (r *Registry) MaxDepth() int {
	return r.maxDepth
}

// Scope returns a root scope bound to the registry.
func (r *Registry) Scope() *Scope {
	return &Scope{registry: r}
}

// Check validates value against rules, starting at the root path.
func (r *Registry) Check(value any, rules ...Rule) (Outcome, error) {
	out, err := r.Scope().Apply(value, rules...)
	if err != nil {
		r.logger.Debug("validation aborted", logger.Error(err), logger.Violations(out.Len()))
		return out, err
	}
	r.logger.Debug("validation completed", logger.Violations(out.Len()))
	return out, nil
}

// Lint checks a rule tree for configuration errors without looking at data.
// All problems found are joined into a single error.
func (r *Registry) Lint(rules ...Rule) error {
	var errs []error
	r.lint(nil, rules, &errs)
	return errors.Join(errs...)
}

func (r *Registry) lint(path Path, rules []Rule, errs *[]error) {
	for _, rule := range rules {
		if rule == nil {
			*errs = append(*errs, configError(path, "", ErrNilRule))
			continue
		}
		kind := rule.Kind()
		if _, ok := r.Lookup(kind); !ok {
			*errs = append(*errs, configError(path, kind, ErrUnknownRule))
			continue
		}
		if c, ok := rule.(Configurable); ok {
			if err := c.CheckConfig(); err != nil {
				*errs = append(*errs, configError(path, kind, err))
			}
		}
		if p, ok := rule.(Parent); ok {
			for _, child := range p.Children() {
				r.lint(path.Append(child.Path...), child.Rules, errs)
			}
		}
	}
}

// Build lints rules and binds them to the registry.
func (r *Registry) Build(rules ...Rule) (*Plan, error) {
	if err := r.Lint(rules...); err != nil {
		return nil, err
	}
	return &Plan{registry: r, rules: slices.Clone(rules)}, nil
}

// MustBuild is like Build but panics on configuration errors.
func (r *Registry) MustBuild(rules ...Rule) *Plan {
	p, err := r.Build(rules...)
	if err != nil {
		panic(err)
	}
	return p
}

var defaultRegistry = sync.OnceValue(func() *Registry { return NewRegistry() })

// Default returns the shared registry used by the package-level helpers.
func Default() *Registry {
	return defaultRegistry()
}

func Build(rules ...Rule) (*Plan, error) {
	return Default().Build(rules...)
}

func MustBuild(rules ...Rule) *Plan {
	return Default().MustBuild(rules...)
}

func Check(value any, rules ...Rule) (Outcome, error) {
	return Default().Check(value, rules...)
}

func Lint(rules ...Rule) error {
	return Default().Lint(rules...)
}
