package verify

import (
	"errors"
	"strings"
)

// Machine-readable violation codes produced by the built-in validators.
const (
	CodeRequired        = "required"
	CodeTooShort        = "too-short"
	CodeTooLong         = "too-long"
	CodeBelowMinimum    = "below-minimum"
	CodeAboveMaximum    = "above-maximum"
	CodeNotANumber      = "not-a-number"
	CodePatternMismatch = "pattern-mismatch"
	CodeTypeMismatch    = "type-mismatch"
)

// Violation describes a single failed rule.
type Violation struct {
	// Path locates the offending value. Empty for the root value.
	Path Path
	// Rule is the kind of the rule that failed.
	Rule Kind
	// Code narrows the failure down, e.g. "too-short" for a length rule.
	Code string
	// Message is a human-readable English description.
	Message string
	// TranslationKey and TranslationValues feed message catalogs.
	TranslationKey    string
	TranslationValues map[string]any
}

// Field returns the rendered path of the violation.
func (v Violation) Field() string {
	return v.Path.String()
}

func (v Violation) String() string {
	if v.Path.IsRoot() {
		return v.Message
	}
	return v.Path.String() + ": " + v.Message
}

// Violations is an ordered list of violations that satisfies the error interface.
type Violations []Violation

func (vs Violations) Error() string {
	if len(vs) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		parts = append(parts, v.String())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether any violation is located at the given rendered path.
func (vs Violations) Has(path string) bool {
	for _, v := range vs {
		if v.Path.String() == path {
			return true
		}
	}
	return false
}

// Get returns the messages of all violations at the given rendered path.
func (vs Violations) Get(path string) []string {
	var messages []string
	for _, v := range vs {
		if v.Path.String() == path {
			messages = append(messages, v.Message)
		}
	}
	return messages
}

// At returns all violations at the given rendered path.
func (vs Violations) At(path string) Violations {
	var out Violations
	for _, v := range vs {
		if v.Path.String() == path {
			out = append(out, v)
		}
	}
	return out
}

// ByRule returns all violations produced by rules of the given kind.
func (vs Violations) ByRule(kind Kind) Violations {
	var out Violations
	for _, v := range vs {
		if v.Rule == kind {
			out = append(out, v)
		}
	}
	return out
}

// Paths returns the distinct rendered paths in first-seen order.
func (vs Violations) Paths() []string {
	var paths []string
	seen := make(map[string]bool)
	for _, v := range vs {
		p := v.Path.String()
		if !seen[p] {
			paths = append(paths, p)
			seen[p] = true
		}
	}
	return paths
}

func (vs Violations) IsEmpty() bool {
	return len(vs) == 0
}

// ExtractViolations extracts Violations from an error chain.
func ExtractViolations(err error) Violations {
	if err == nil {
		return nil
	}

	var vs Violations
	if errors.As(err, &vs) {
		return vs
	}

	return nil
}

func IsViolations(err error) bool {
	if err == nil {
		return false
	}

	var vs Violations
	return errors.As(err, &vs)
}
