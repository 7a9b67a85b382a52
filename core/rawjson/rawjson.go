// Package rawjson wraps fastjson with the lookups provider normalizers need:
// alternative key names, lenient scalar coercion and JSONP unwrapping.
package rawjson

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/valyala/fastjson"
)

var (
	// ErrMissingKey is returned when none of the alternative keys is present.
	ErrMissingKey = errors.New("rawjson: missing key")
	// ErrNoJSON is returned when a body holds no JSON object.
	ErrNoJSON = errors.New("rawjson: no json object found")
	// ErrType is returned when a required key holds the wrong type.
	ErrType = errors.New("rawjson: unexpected type")
)

// Parse parses data into a fresh value tree.
func Parse(data []byte) (*fastjson.Value, error) {
	v, err := fastjson.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("rawjson: parse: %w", err)
	}
	return v, nil
}

// Alt returns the value of the first key present on v. A key that is
// present with a null or zero value still wins over later keys.
func Alt(v *fastjson.Value, keys ...string) (*fastjson.Value, bool) {
	if v == nil || v.Type() != fastjson.TypeObject {
		return nil, false
	}
	for _, key := range keys {
		if field := v.Get(key); field != nil {
			return field, true
		}
	}
	return nil, false
}

// RequireAlt is Alt returning ErrMissingKey when no key is present.
func RequireAlt(v *fastjson.Value, keys ...string) (*fastjson.Value, error) {
	field, ok := Alt(v, keys...)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingKey, strings.Join(keys, "|"))
	}
	return field, nil
}

// Path walks nested object keys and array indexes given as decimal strings.
func Path(v *fastjson.Value, keys ...string) (*fastjson.Value, error) {
	field := v.Get(keys...)
	if field == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingKey, strings.Join(keys, "."))
	}
	return field, nil
}

// IsNull reports whether v is absent or JSON null.
func IsNull(v *fastjson.Value) bool {
	return v == nil || v.Type() == fastjson.TypeNull
}

// String returns v as text. Numbers are rendered verbatim; null is empty.
func String(v *fastjson.Value) string {
	if v == nil {
		return ""
	}
	switch v.Type() {
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		return v.String()
	case fastjson.TypeTrue:
		return "true"
	case fastjson.TypeFalse:
		return "false"
	default:
		return ""
	}
}

// Int64 returns v as an integer. Numeric strings and floats are accepted.
func Int64(v *fastjson.Value) (int64, bool) {
	if v == nil {
		return 0, false
	}
	switch v.Type() {
	case fastjson.TypeNumber:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return int64(f), true
	case fastjson.TypeString:
		s := strings.TrimSpace(string(v.GetStringBytes()))
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// Array returns the elements of v, or nil when v is not an array.
func Array(v *fastjson.Value) []*fastjson.Value {
	if v == nil || v.Type() != fastjson.TypeArray {
		return nil
	}
	items, _ := v.Array()
	return items
}

// First returns v itself, or its first element when v is an array.
func First(v *fastjson.Value) *fastjson.Value {
	if v == nil || v.Type() != fastjson.TypeArray {
		return v
	}
	items := Array(v)
	if len(items) == 0 {
		return nil
	}
	return items[0]
}

// AltString is Alt followed by String.
func AltString(v *fastjson.Value, keys ...string) (string, bool) {
	field, ok := Alt(v, keys...)
	if !ok {
		return "", false
	}
	return String(field), true
}

// AltInt64 is Alt followed by Int64.
func AltInt64(v *fastjson.Value, keys ...string) (int64, bool) {
	field, ok := Alt(v, keys...)
	if !ok {
		return 0, false
	}
	return Int64(field)
}

// RequireString returns the first present key as text. Null is rejected.
func RequireString(v *fastjson.Value, keys ...string) (string, error) {
	field, err := RequireAlt(v, keys...)
	if err != nil {
		return "", err
	}
	switch field.Type() {
	case fastjson.TypeString, fastjson.TypeNumber:
		return String(field), nil
	default:
		return "", fmt.Errorf("%w: %s is %s", ErrType, strings.Join(keys, "|"), field.Type())
	}
}

// RequireInt64 returns the first present key as an integer.
func RequireInt64(v *fastjson.Value, keys ...string) (int64, error) {
	field, err := RequireAlt(v, keys...)
	if err != nil {
		return 0, err
	}
	n, ok := Int64(field)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrType, strings.Join(keys, "|"))
	}
	return n, nil
}

// RequireObject returns the first present key, which must be an object.
func RequireObject(v *fastjson.Value, keys ...string) (*fastjson.Value, error) {
	field, err := RequireAlt(v, keys...)
	if err != nil {
		return nil, err
	}
	if field.Type() != fastjson.TypeObject {
		return nil, fmt.Errorf("%w: %s is %s", ErrType, strings.Join(keys, "|"), field.Type())
	}
	return field, nil
}

// OptString is AltString that also reports false for null.
func OptString(v *fastjson.Value, keys ...string) (string, bool) {
	field, ok := Alt(v, keys...)
	if !ok || IsNull(field) {
		return "", false
	}
	return String(field), true
}

// OptInt64 is AltInt64 that also reports false for null or non-numeric values.
func OptInt64(v *fastjson.Value, keys ...string) (int64, bool) {
	field, ok := Alt(v, keys...)
	if !ok || IsNull(field) {
		return 0, false
	}
	return Int64(field)
}
