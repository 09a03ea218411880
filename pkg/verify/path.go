package verify

import (
	"strconv"
	"strings"
)

// SegmentKind distinguishes the ways a path can step into a value.
type SegmentKind uint8

const (
	// SegmentField names a struct field or object member.
	SegmentField SegmentKind = iota
	// SegmentIndex is a position in a sequence.
	SegmentIndex
	// SegmentKey is a map key.
	SegmentKey
	// SegmentAny stands for every element of a collection. It only appears
	// in rule-set paths, never in violations.
	SegmentAny
)

// Segment is a single step of a Path.
type Segment struct {
	kind  SegmentKind
	name  string
	index int
}

func FieldSegment(name string) Segment {
	return Segment{kind: SegmentField, name: name}
}

func IndexSegment(i int) Segment {
	return Segment{kind: SegmentIndex, index: i}
}

func KeySegment(key string) Segment {
	return Segment{kind: SegmentKey, name: key}
}

func AnySegment() Segment {
	return Segment{kind: SegmentAny}
}

func (s Segment) Kind() SegmentKind { return s.kind }

// Name returns the field name or map key. It is empty for index segments.
func (s Segment) Name() string { return s.name }

// Index returns the sequence position. It is zero for other segments.
func (s Segment) Index() int { return s.index }

func (s Segment) String() string {
	switch s.kind {
	case SegmentIndex:
		return "[" + strconv.Itoa(s.index) + "]"
	case SegmentKey:
		return "[" + strconv.Quote(s.name) + "]"
	case SegmentAny:
		return "[*]"
	default:
		if !plainField(s.name) {
			return "[" + strconv.Quote(s.name) + "]"
		}
		return s.name
	}
}

// plainField reports whether a field name reads unambiguously without
// brackets in accessor form.
func plainField(name string) bool {
	return name != "" && !strings.ContainsAny(name, `.[]"`)
}

// Path locates a value inside a nested structure. The root is the empty path.
//
// Paths are treated as values: every method that extends a path returns a
// fresh copy, so a parent path is never affected by what its children append.
type Path []Segment

// ParsePointer builds a path from an RFC 6901 JSON pointer. Numeric tokens
// become index segments, everything else a field segment.
func ParsePointer(pointer string) Path {
	if pointer == "" || pointer == "/" {
		return nil
	}
	tokens := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	p := make(Path, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
		if tok == "*" {
			p = append(p, AnySegment())
			continue
		}
		if i, err := strconv.Atoi(tok); err == nil && i >= 0 {
			p = append(p, IndexSegment(i))
			continue
		}
		p = append(p, FieldSegment(tok))
	}
	return p
}

func (p Path) Append(segs ...Segment) Path {
	out := make(Path, len(p), len(p)+len(segs))
	copy(out, p)
	return append(out, segs...)
}

func (p Path) Field(name string) Path { return p.Append(FieldSegment(name)) }

func (p Path) Index(i int) Path { return p.Append(IndexSegment(i)) }

func (p Path) Key(key string) Path { return p.Append(KeySegment(key)) }

func (p Path) Len() int { return len(p) }

func (p Path) IsRoot() bool { return len(p) == 0 }

// Last returns the final segment, if any.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// Parent returns the path without its final segment.
func (p Path) Parent() Path {
	if len(p) <= 1 {
		return nil
	}
	return p[: len(p)-1 : len(p)-1]
}

func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders the path in accessor form, e.g. items[2].name or labels["env"].
// Field names that contain ".", "[", "]" or a quote are written in the
// quoted form of keys, e.g. meta["app.kubernetes.io/name"].
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if seg.kind == SegmentField && i > 0 && plainField(seg.name) {
			b.WriteByte('.')
		}
		b.WriteString(seg.String())
	}
	return b.String()
}

// Pointer renders the path as an RFC 6901 JSON pointer.
func (p Path) Pointer() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for _, seg := range p {
		b.WriteByte('/')
		switch seg.kind {
		case SegmentIndex:
			b.WriteString(strconv.Itoa(seg.index))
		case SegmentAny:
			b.WriteByte('*')
		default:
			b.WriteString(strings.ReplaceAll(strings.ReplaceAll(seg.name, "~", "~0"), "/", "~1"))
		}
	}
	return b.String()
}
