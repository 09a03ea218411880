package messages

import "log/slog"

// DefaultLanguage is used when no other language is configured.
const DefaultLanguage = "en"

type Option func(*Catalog)

// WithDefaultLanguage sets the language used when the requested one has no
// message for a key.
func WithDefaultLanguage(lang string) Option {
	return func(c *Catalog) {
		if lang != "" {
			c.defaultLang = lang
		}
	}
}

// WithLogger enables logging of missing messages at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}
