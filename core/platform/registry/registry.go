// Package registry keeps an ordered set of URL matchers so a share link can
// be routed to the provider that understands it.
package registry

import (
	"errors"
	"sync"

	"github.com/liuran001/hymusic/core/model"
)

// Matcher recognizes a provider's share links.
type Matcher interface {
	// Name returns the provider's unique identifier.
	Name() string

	// MatchURL extracts the entity kind and id from url.
	MatchURL(url string) (model.Kind, string, bool)
}

// Match is the result of a successful lookup.
type Match struct {
	Provider string
	Kind     model.Kind
	ID       string
}

// Registry manages matchers in registration order.
type Registry struct {
	mu       sync.RWMutex
	matchers map[string]Matcher
	ordered  []Matcher
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{matchers: make(map[string]Matcher)}
}

// Register adds a matcher. Names must be unique.
func (r *Registry) Register(m Matcher) error {
	if m == nil {
		return errors.New("matcher cannot be nil")
	}
	name := m.Name()
	if name == "" {
		return errors.New("matcher name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.matchers[name]; exists {
		return errors.New("matcher already registered: " + name)
	}
	r.matchers[name] = m
	r.ordered = append(r.ordered, m)
	return nil
}

// Get retrieves a matcher by name.
func (r *Registry) Get(name string) (Matcher, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matchers[name]
	return m, ok
}

// Names returns matcher names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ordered))
	for _, m := range r.ordered {
		names = append(names, m.Name())
	}
	return names
}

// MatchURL asks each matcher in registration order and returns the first hit.
func (r *Registry) MatchURL(url string) (Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.ordered {
		if kind, id, ok := m.MatchURL(url); ok {
			return Match{Provider: m.Name(), Kind: kind, ID: id}, true
		}
	}
	return Match{}, false
}

// Reset clears all matchers.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matchers = make(map[string]Matcher)
	r.ordered = r.ordered[:0]
}
