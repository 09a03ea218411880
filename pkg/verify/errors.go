package verify

import (
	"errors"
	"strings"
)

// Configuration errors. They describe a broken rule set, never bad data,
// and are always returned wrapped in a *ConfigError.
var (
	// ErrInvalidRange is returned when a lower bound is greater than the upper bound.
	ErrInvalidRange = errors.New("invalid range: lower bound is greater than upper bound")

	// ErrInvalidLength is returned when a length bound is negative.
	ErrInvalidLength = errors.New("invalid length bound")

	// ErrInvalidPattern is returned when a pattern cannot be compiled.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrIncompatibleKind is returned when a rule is evaluated against a value it cannot apply to.
	ErrIncompatibleKind = errors.New("rule is not applicable to the value kind")

	// ErrUnknownRule is returned when no validator is registered for a rule kind.
	ErrUnknownRule = errors.New("no validator registered for rule kind")

	// ErrRuleMismatch is returned when a validator receives a rule of a type it does not handle.
	ErrRuleMismatch = errors.New("validator received a rule of unexpected type")

	// ErrUnknownField is returned when a field rule names a field the value does not declare.
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidField is returned for empty or duplicated field names.
	ErrInvalidField = errors.New("invalid field definition")

	// ErrDepthExceeded is returned when validation recurses deeper than the configured limit.
	ErrDepthExceeded = errors.New("maximum validation depth exceeded")

	// ErrNilRule is returned when a rule set contains a nil rule.
	ErrNilRule = errors.New("nil rule")

	// ErrNilValidator is returned when registering a nil validator.
	ErrNilValidator = errors.New("nil validator")

	// ErrDuplicateValidator is returned when a rule kind already has a validator.
	ErrDuplicateValidator = errors.New("validator already registered for rule kind")
)

// ConfigError reports a programming error in a rule set. It is kept apart
// from Violations so callers can tell broken rules from invalid data.
type ConfigError struct {
	Path Path
	Kind Kind
	Err  error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("verify: ")
	if e.Kind != "" {
		b.WriteString(string(e.Kind))
		b.WriteString(" rule")
	} else {
		b.WriteString("rule set")
	}
	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(e.Path.String())
	}
	b.WriteString(": ")
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString("configuration error")
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err carries a *ConfigError.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var ce *ConfigError
	return errors.As(err, &ce)
}

// configError wraps err unless it already is a configuration error,
// so the innermost path wins.
func configError(path Path, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		return err
	}
	return &ConfigError{Path: path, Kind: kind, Err: err}
}
