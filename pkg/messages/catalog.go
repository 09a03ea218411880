package messages

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/dmitrymomot/verify/pkg/logger"
	"github.com/dmitrymomot/verify/pkg/verify"
)

// Catalog renders violations in a given language. Templates use named
// placeholders in the form %{name}, filled from the violation's
// translation values. It is read-only after creation and safe for
// concurrent use.
type Catalog struct {
	messages    map[string]map[string]string
	defaultLang string
	logger      *slog.Logger
}

// NewCatalog loads all languages from src.
func NewCatalog(ctx context.Context, src Source, opts ...Option) (*Catalog, error) {
	if src == nil {
		return nil, ErrNilSource
	}

	c := &Catalog{
		defaultLang: DefaultLanguage,
		logger:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}

	data, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}

	c.messages = make(map[string]map[string]string, len(data))
	for lang, tree := range data {
		if lang == "" {
			return nil, ErrEmptyLanguage
		}
		flat := make(map[string]string)
		flatten("", tree, flat)
		c.messages[lang] = flat
	}

	c.logger.DebugContext(ctx, "message catalog loaded",
		logger.Component("messages"),
		slog.Any("languages", c.Languages()),
	)
	return c, nil
}

// Default loads the built-in catalogs.
func Default(ctx context.Context, opts ...Option) (*Catalog, error) {
	return NewCatalog(ctx, DefaultSource(), opts...)
}

// Languages returns the loaded language codes in sorted order.
func (c *Catalog) Languages() []string {
	langs := make([]string, 0, len(c.messages))
	for lang := range c.messages {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// Translate renders key in lang, falling back to the default language and
// then to the base language of a regional tag ("de" for "de-AT").
func (c *Catalog) Translate(lang, key string, values map[string]any) (string, bool) {
	for _, candidate := range c.candidates(lang) {
		if tmpl, ok := c.messages[candidate][key]; ok {
			return substitute(tmpl, values), true
		}
	}
	c.logger.Debug("message not found", logger.Lang(lang), slog.String("key", key))
	return "", false
}

func (c *Catalog) candidates(lang string) []string {
	out := make([]string, 0, 3)
	if lang != "" {
		out = append(out, lang)
		if base, _, ok := strings.Cut(lang, "-"); ok {
			out = append(out, base)
		}
	}
	return append(out, c.defaultLang)
}

// Message renders a single violation. Without a matching template the
// violation's own message is returned.
func (c *Catalog) Message(lang string, v verify.Violation) string {
	if v.TranslationKey != "" {
		if msg, ok := c.Translate(lang, v.TranslationKey, v.TranslationValues); ok {
			return msg
		}
	}
	return v.Message
}

// Localize returns a copy of vs with every message rendered in lang.
func (c *Catalog) Localize(lang string, vs verify.Violations) verify.Violations {
	out := make(verify.Violations, len(vs))
	for i, v := range vs {
		v.Message = c.Message(lang, v)
		out[i] = v
	}
	return out
}

// Lines renders violations as "path: message", one per entry.
func (c *Catalog) Lines(lang string, vs verify.Violations) []string {
	lines := make([]string, 0, len(vs))
	for _, v := range c.Localize(lang, vs) {
		lines = append(lines, v.String())
	}
	return lines
}

var paramRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// substitute fills %{name} placeholders. Unknown placeholders are kept.
func substitute(tmpl string, values map[string]any) string {
	if len(values) == 0 {
		return tmpl
	}
	return paramRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		if val, ok := values[match[2:len(match)-1]]; ok {
			return fmt.Sprint(val)
		}
		return match
	})
}
