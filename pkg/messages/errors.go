package messages

import "errors"

var (
	ErrNilSource        = errors.New("messages: source is nil")
	ErrEmptyLanguage    = errors.New("messages: empty language code")
	ErrInvalidStructure = errors.New("messages: invalid catalog structure")
	ErrUnsupportedFile  = errors.New("messages: unsupported file extension")
	ErrReadFile         = errors.New("messages: failed to read catalog file")
	ErrParseYAML        = errors.New("messages: failed to parse YAML catalog")
	ErrParseJSON        = errors.New("messages: failed to parse JSON catalog")
	ErrLoadCancelled    = errors.New("messages: loading cancelled")
)
