package platform

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/liuran001/hymusic/core/model"
	"github.com/liuran001/hymusic/core/platform/registry"
	"golang.org/x/sync/errgroup"
)

// Manager holds the registered providers and routes requests by name,
// alias or share link.
type Manager struct {
	registry *registry.Registry

	mu        sync.RWMutex
	providers map[string]Provider
	order     []string
	meta      map[string]Meta
	aliases   map[string]string
}

// NewManager creates an empty manager with its own URL registry.
func NewManager() *Manager {
	return NewManagerWithRegistry(registry.New())
}

// NewManagerWithRegistry creates a manager backed by reg.
func NewManagerWithRegistry(reg *registry.Registry) *Manager {
	return &Manager{
		registry:  reg,
		providers: make(map[string]Provider),
		meta:      make(map[string]Meta),
		aliases:   make(map[string]string),
	}
}

// Register adds p. Provider names must be unique.
func (m *Manager) Register(p Provider) error {
	if p == nil {
		return errors.New("provider cannot be nil")
	}
	name := p.Name()
	if name == "" {
		return errors.New("provider name cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.providers[name]; exists {
		return fmt.Errorf("provider already registered: %s", name)
	}
	m.providers[name] = p
	m.order = append(m.order, name)
	meta := buildMeta(p, name)
	m.meta[name] = meta
	m.indexAliases(meta)

	if matcher, ok := p.(URLMatcher); ok {
		if err := m.registry.Register(&matcherWrapper{name: name, matcher: matcher}); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the provider registered under name or one of its aliases.
func (m *Manager) Get(name string) Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.providers[name]; ok {
		return p
	}
	if canonical, ok := m.aliases[NormalizeAlias(name)]; ok {
		return m.providers[canonical]
	}
	return nil
}

// GetProvider is Get returning an error when nothing matches.
func (m *Manager) GetProvider(name string) (Provider, error) {
	p := m.Get(name)
	if p == nil {
		return nil, fmt.Errorf("provider not found: %s", name)
	}
	return p, nil
}

// List returns provider names in registration order.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}

// Meta returns the metadata for a provider name or alias.
func (m *Manager) Meta(name string) (Meta, bool) {
	p := m.Get(name)
	if p == nil {
		return Meta{Name: name, DisplayName: name}, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.meta[p.Name()], true
}

// ListMeta returns metadata for every provider in registration order.
func (m *Manager) ListMeta() []Meta {
	names := m.List()
	metas := make([]Meta, 0, len(names))
	for _, name := range names {
		meta, _ := m.Meta(name)
		metas = append(metas, meta)
	}
	return metas
}

// MatchURL routes a share link to its provider.
func (m *Manager) MatchURL(rawURL string) (Provider, model.Kind, string, bool) {
	match, ok := m.registry.MatchURL(rawURL)
	if !ok {
		return nil, 0, "", false
	}
	p := m.Get(match.Provider)
	if p == nil {
		return nil, 0, "", false
	}
	return p, match.Kind, match.ID, true
}

// SearchAll runs Search on every provider concurrently. Providers that
// cannot search kind are skipped; any other failure cancels the rest.
func (m *Manager) SearchAll(ctx context.Context, query string, kind model.Kind, limit int, criteria map[string]string) (map[string][]model.Entity, error) {
	names := m.List()
	results := make(map[string][]model.Entity, len(names))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range names {
		p := m.Get(name)
		g.Go(func() error {
			entities, err := p.Search(gctx, query, kind, limit, criteria)
			if errors.Is(err, ErrUnsupported) {
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			results[name] = entities
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (m *Manager) indexAliases(meta Meta) {
	keys := append([]string{meta.Name}, meta.Aliases...)
	for _, alias := range keys {
		key := NormalizeAlias(alias)
		if key == "" {
			continue
		}
		if _, exists := m.aliases[key]; exists {
			continue
		}
		m.aliases[key] = meta.Name
	}
}

func buildMeta(p Provider, name string) Meta {
	meta := Meta{}
	if provider, ok := p.(MetadataProvider); ok {
		meta = provider.Metadata()
	}
	meta.Name = name
	if meta.DisplayName == "" {
		meta.DisplayName = name
	}
	return meta
}

// matcherWrapper adapts a URLMatcher to registry.Matcher.
type matcherWrapper struct {
	name    string
	matcher URLMatcher
}

func (w *matcherWrapper) Name() string { return w.name }

func (w *matcherWrapper) MatchURL(url string) (model.Kind, string, bool) {
	return w.matcher.MatchURL(url)
}
