// Package binding resolves dotted data paths against arbitrary data objects
// and substitutes {{path}} placeholders in author-provided text.
//
// Resolution never fails: a missing key, a nil intermediate value or a
// non-object intermediate value all resolve to nil, which renders as the
// empty string.
package binding

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// ArrayMarker is the optional segment suffix that marks a segment as
// addressing an array. It is stripped before lookup; iteration only happens
// at table level through rowsBinding.
const ArrayMarker = "[]"

var placeholderPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// ResolvePath walks data along the dot-separated path and returns the value
// found, or nil.
func ResolvePath(data any, path string) any {
	if path == "" {
		return nil
	}

	current := data
	for _, segment := range strings.Split(path, ".") {
		if current == nil {
			return nil
		}
		key := strings.TrimSuffix(segment, ArrayMarker)
		next, ok := lookup(current, key)
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

// ApplyBindings replaces every {{ path }} in text with the stringified value
// resolved against data. Unresolved paths become the empty string.
func ApplyBindings(text string, data any) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-2])
		return Stringify(ResolvePath(data, path))
	})
}

// Placeholders returns the trimmed paths of every {{ path }} in text, in
// order of appearance.
func Placeholders(text string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(text, -1)
	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		if p := strings.TrimSpace(m[1]); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func lookup(current any, key string) (any, bool) {
	switch v := current.(type) {
	case map[string]any:
		next, ok := v[key]
		return next, ok
	case map[string]string:
		next, ok := v[key]
		return next, ok
	case []any:
		return index(len(v), key, func(i int) any { return v[i] })
	case []map[string]any:
		return index(len(v), key, func(i int) any { return v[i] })
	}
	return lookupReflect(reflect.ValueOf(current), key)
}

func index(n int, key string, at func(int) any) (any, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= n {
		return nil, false
	}
	return at(i), true
}

// lookupReflect handles typed Go values: maps with string keys, slices and
// structs (matched by json tag, then by field name).
func lookupReflect(rv reflect.Value, key string) (any, bool) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Slice, reflect.Array:
		return index(rv.Len(), key, func(i int) any { return rv.Index(i).Interface() })
	case reflect.Struct:
		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if !f.IsExported() {
				continue
			}
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == key || (name == "" && f.Name == key) {
				return rv.Field(i).Interface(), true
			}
		}
		if f := rv.FieldByName(key); f.IsValid() && f.CanInterface() {
			return f.Interface(), true
		}
	}
	return nil, false
}
