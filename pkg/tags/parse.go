package tags

import (
	"fmt"
	"strings"
)

const (
	optRequired = "required"
	optSelf     = "self"
	optMin      = "min"
	optMax      = "max"
	optGT       = "gt"
	optLT       = "lt"
	optMinLen   = "minlen"
	optMaxLen   = "maxlen"
	optLen      = "len"
	optPattern  = "pattern"

	itemsPrefix = "items:"
)

// option is a single tag entry. Flags carry an empty value.
type option struct {
	key   string
	value string
	flag  bool
}

// parseTag splits a verify tag into options.
//
//	verify:"required,min=1,max=10,items:minlen=2,pattern=^[a-z,]+$"
//
// A pattern swallows the rest of the tag, commas included, so it must come
// last. The same holds for items:pattern.
func parseTag(tag string) ([]option, error) {
	var opts []option
	rest := tag
	for rest != "" {
		var part string
		trimmed := strings.TrimLeft(rest, " ")
		if isPattern(trimmed) {
			part, rest = trimmed, ""
		} else {
			part, rest, _ = strings.Cut(rest, ",")
		}
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, hasValue := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("%w: empty option name in %q", ErrInvalidTag, tag)
		}
		if !hasValue {
			opts = append(opts, option{key: key, flag: true})
			continue
		}
		if !isPattern(part) {
			value = strings.TrimSpace(value)
		}
		opts = append(opts, option{key: key, value: value})
	}
	return opts, nil
}

func isPattern(part string) bool {
	for strings.HasPrefix(part, itemsPrefix) {
		part = part[len(itemsPrefix):]
	}
	return strings.HasPrefix(part, optPattern+"=")
}

// splitItems separates element options (items:...) from the options that
// apply to the field itself. One level of the prefix is stripped.
func splitItems(opts []option) (own, items []option) {
	for _, o := range opts {
		if k, ok := strings.CutPrefix(o.key, itemsPrefix); ok {
			o.key = k
			items = append(items, o)
			continue
		}
		own = append(own, o)
	}
	return own, items
}
