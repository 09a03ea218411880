package verify

import "reflect"

// missing is what FieldsRule hands to rules for a member that does not
// exist at all, as opposed to one that is present but nil.
type missing struct{}

// IsMissing reports whether v stands for an object member that does not
// exist. Only rules of kind required ever receive such a value.
func IsMissing(v any) bool {
	_, ok := v.(missing)
	return ok
}

// IsAbsent reports whether v carries no value: a missing member, untyped
// nil, or a nil pointer, interface, map, slice, func or channel.
func IsAbsent(v any) bool {
	if v == nil || IsMissing(v) {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// indirect follows pointers and interfaces down to the concrete value.
// The result is invalid when a nil is hit on the way.
func indirect(v any) reflect.Value {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

func describe(rv reflect.Value) string {
	if !rv.IsValid() {
		return "nil"
	}
	return rv.Type().String()
}

// as finds T on v, on the value v points to, or on a pointer to a copy of
// it when T needs a pointer receiver.
func as[T any](v any) (T, bool) {
	var zero T
	if t, ok := v.(T); ok {
		return t, true
	}
	rv := indirect(v)
	if !rv.IsValid() {
		return zero, false
	}
	if rv.CanInterface() {
		if t, ok := rv.Interface().(T); ok {
			return t, true
		}
	}
	ptr := reflect.New(rv.Type())
	ptr.Elem().Set(rv)
	if t, ok := ptr.Interface().(T); ok {
		return t, true
	}
	return zero, false
}
