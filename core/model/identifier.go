package model

import (
	"fmt"
	"strconv"
)

// Identifier names an entity within one provider. Identifiers from different
// providers never compare equal because Source differs.
type Identifier struct {
	Source string
	Field  string
	Value  string
}

func (i Identifier) String() string {
	return i.Source + ":" + i.Field + ":" + i.Value
}

// IsZero reports whether the identifier is empty.
func (i Identifier) IsZero() bool {
	return i.Value == ""
}

// IdentifierOf builds the identifier of e from attribute field.
func IdentifierOf(e Entity, field string) (Identifier, error) {
	if e == nil {
		return Identifier{}, fmt.Errorf("%w: nil entity", ErrMissingIdentity)
	}
	source := ""
	if src := e.Source(); src != nil {
		source = src.Name()
	}
	v, ok := e.Get(field)
	if !ok {
		return Identifier{}, fmt.Errorf("%w: %s.%s", ErrMissingIdentity, e.Kind(), field)
	}
	var value string
	switch x := v.(type) {
	case string:
		value = x
	case int64:
		value = strconv.FormatInt(x, 10)
	case int:
		value = strconv.Itoa(x)
	default:
		value = fmt.Sprint(x)
	}
	if value == "" {
		return Identifier{}, fmt.Errorf("%w: %s.%s", ErrMissingIdentity, e.Kind(), field)
	}
	return Identifier{Source: source, Field: field, Value: value}, nil
}
