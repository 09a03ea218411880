package verify

// Kind identifies a family of rules and the validator that evaluates them.
type Kind string

// Built-in rule kinds.
const (
	KindRange    Kind = "range"
	KindLength   Kind = "length"
	KindPattern  Kind = "pattern"
	KindRequired Kind = "required"
	KindNested   Kind = "nested"
)

// Rule is a named, parameterized predicate. Rules are inert data until a
// Validator registered for their Kind evaluates them.
type Rule interface {
	Kind() Kind
}

// Configurable is implemented by rules whose parameters can be inconsistent,
// such as a range with min greater than max.
type Configurable interface {
	CheckConfig() error
}

// NullChecker is implemented by rules that want to see values which are
// present but nil, such as a JSON null. Values of missing members are still
// skipped. Other rules never see absent values.
type NullChecker interface {
	ChecksNull() bool
}

// Child is a rule set applied to a part of a composite value.
type Child struct {
	Path  Path
	Rules []Rule
}

// Parent is implemented by rules that carry nested rule sets, so the whole
// tree can be checked before any data is seen.
type Parent interface {
	Children() []Child
}
