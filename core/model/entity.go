// Package model defines the provider-agnostic music entities and the lazy
// field machinery behind them.
package model

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"sync"
	"sync/atomic"
	"time"
)

// Fields carries attribute values keyed by canonical attribute name.
type Fields map[string]any

// Resolver is the back-reference an entity keeps to the provider that
// produced it. Resolve fetches the entity's detail record and rebinds it
// onto e.
type Resolver interface {
	Name() string
	Resolve(ctx context.Context, e Entity) error
}

// Named is satisfied by anything with a display name, including every entity.
type Named interface {
	Name() string
}

// Entity is the common behavior of Song, Album, Artist, Playlist and User.
type Entity interface {
	Named
	Kind() Kind
	Source() Resolver
	// Get returns the stored value without triggering resolution.
	Get(name string) (any, bool)
	// Set stores value and marks a lazy slot resolved. Nil values are ignored.
	Set(name string, value any)
	Fields() Fields
	MatchFields(criteria map[string]string) (bool, error)
	LazyState(name string) (LazyState, bool)

	core() *base
}

type base struct {
	kind   Kind
	source Resolver
	self   Entity

	mu     sync.RWMutex
	fields Fields
	lazy   map[string]*LazyField

	detailMu     sync.Mutex
	detailLoaded atomic.Bool
}

func (b *base) init(kind Kind, source Resolver, self Entity, f Fields) {
	b.kind = kind
	b.source = source
	b.self = self
	b.fields = make(Fields, len(f))
	b.lazy = make(map[string]*LazyField)
	for name, lazy := range schemas[kind] {
		if lazy {
			b.lazy[name] = &LazyField{name: name}
		}
	}
	for name, v := range f {
		b.Set(name, v)
	}
}

func (b *base) core() *base { return b }

// Kind returns the entity kind.
func (b *base) Kind() Kind { return b.kind }

// Source returns the provider the entity is bound to, or nil.
func (b *base) Source() Resolver { return b.source }

// Name returns the display name.
func (b *base) Name() string {
	s, _ := b.value(FieldName).(string)
	return s
}

func (b *base) Get(name string) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.fields[name]
	return v, ok
}

func (b *base) Set(name string, value any) {
	if isNil(value) {
		return
	}
	b.mu.Lock()
	b.fields[name] = value
	b.mu.Unlock()
	if slot := b.lazy[name]; slot != nil {
		slot.state.Store(int32(Resolved))
	}
}

// Fields returns a shallow copy of the stored values.
func (b *base) Fields() Fields {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return maps.Clone(b.fields)
}

// LazyState reports the slot state of a lazy attribute.
func (b *base) LazyState(name string) (LazyState, bool) {
	slot := b.lazy[name]
	if slot == nil {
		return 0, false
	}
	return slot.State(), true
}

// ValidateCriteria rejects criteria naming attributes kind does not have.
func ValidateCriteria(kind Kind, criteria map[string]string) error {
	schema := schemas[kind]
	for key := range criteria {
		if _, ok := schema[key]; !ok {
			return fmt.Errorf("%w: %s has no attribute %q", ErrUnknownField, kind, key)
		}
	}
	return nil
}

// MatchFields reports whether every criterion equals the entity's stored
// value. Entity values compare by name. Unset attributes never match and are
// not resolved.
func (b *base) MatchFields(criteria map[string]string) (bool, error) {
	if err := ValidateCriteria(b.kind, criteria); err != nil {
		return false, err
	}
	for key, want := range criteria {
		v, ok := b.Get(key)
		if !ok {
			return false, nil
		}
		switch x := v.(type) {
		case Named:
			if x.Name() != want {
				return false, nil
			}
		case string:
			if x != want {
				return false, nil
			}
		default:
			return false, nil
		}
	}
	return true, nil
}

// MarshalJSON renders the stored fields along with the kind and source.
// Durations are written in milliseconds.
func (b *base) MarshalJSON() ([]byte, error) {
	out := b.Fields()
	for name, v := range out {
		if d, ok := v.(time.Duration); ok {
			out[name] = d.Milliseconds()
		}
	}
	out["_kind"] = b.kind.String()
	if b.source != nil {
		out["_source"] = b.source.Name()
	}
	return json.Marshal(out)
}

func (b *base) value(name string) any {
	v, _ := b.Get(name)
	return v
}

// loadDetail runs the source's detail fetch at most once per entity.
func (b *base) loadDetail(ctx context.Context) error {
	if b.detailLoaded.Load() {
		return nil
	}
	b.detailMu.Lock()
	defer b.detailMu.Unlock()
	if b.detailLoaded.Load() {
		return nil
	}
	if b.source == nil {
		return fmt.Errorf("%w: %s %q", ErrNoSource, b.kind, b.Name())
	}
	if err := b.source.Resolve(ctx, b.self); err != nil {
		return err
	}
	b.detailLoaded.Store(true)
	return nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func lazyValue[T any](ctx context.Context, b *base, name string) (T, error) {
	var zero T
	slot := b.lazy[name]
	if slot == nil {
		return zero, fmt.Errorf("%w: %s.%s is not lazy", ErrUnknownField, b.kind, name)
	}
	if err := slot.resolve(ctx, b); err != nil {
		return zero, err
	}
	v, _ := b.value(name).(T)
	return v, nil
}

func eagerValue[T any](b *base, name string) T {
	v, _ := b.value(name).(T)
	return v
}

// New builds an entity of kind k.
func New(k Kind, source Resolver, f Fields) (Entity, error) {
	switch k {
	case KindSong:
		return NewSong(source, f), nil
	case KindAlbum:
		return NewAlbum(source, f), nil
	case KindArtist:
		return NewArtist(source, f), nil
	case KindPlaylist:
		return NewPlaylist(source, f), nil
	case KindUser:
		return NewUser(source, f), nil
	default:
		return nil, fmt.Errorf("model: unknown kind %d", int(k))
	}
}
