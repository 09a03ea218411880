package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Path records a rendered value path under the key "path".
// The root path is recorded as "$".
func Path(p string) slog.Attr {
	if p == "" {
		p = "$"
	}
	return slog.String("path", p)
}

// RuleKind records a rule kind under the key "rule".
func RuleKind(kind string) slog.Attr {
	return slog.String("rule", kind)
}

// Violations records the number of violations under the key "violations".
func Violations(n int) slog.Attr {
	return slog.Int("violations", n)
}

// Field records a field name under the key "field".
func Field(name string) slog.Attr {
	return slog.String("field", name)
}

// File records a file name under the key "file".
func File(name string) slog.Attr {
	return slog.String("file", name)
}

// Lang records a language tag under the key "lang".
func Lang(lang string) slog.Attr {
	return slog.String("lang", lang)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
