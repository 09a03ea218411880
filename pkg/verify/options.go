package verify

import "log/slog"

// DefaultMaxDepth bounds recursion when no limit is configured.
const DefaultMaxDepth = 32

// Option configures a Registry.
type Option func(*Registry)

// WithMaxDepth sets how many nested steps a validation may take before
// failing with ErrDepthExceeded. Non-positive values are ignored.
func WithMaxDepth(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxDepth = n
		}
	}
}

// WithLogger sets the logger used for debug output. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithConfig applies settings loaded from the environment.
func WithConfig(cfg Config) Option {
	return func(r *Registry) {
		WithMaxDepth(cfg.MaxDepth)(r)
	}
}

// WithValidators registers additional validators. It panics on duplicates,
// like MustRegister.
func WithValidators(vs ...Validator) Option {
	return func(r *Registry) {
		for _, v := range vs {
			r.MustRegister(v)
		}
	}
}
