// Package plugins keeps the provider factories that register themselves
// from init functions.
package plugins

import (
	"fmt"
	"sort"
	"sync"

	"github.com/liuran001/hymusic/core"
	"github.com/liuran001/hymusic/core/config"
	"github.com/liuran001/hymusic/core/platform"
)

// Factory builds a provider from configuration.
type Factory func(cfg *config.Config, logger core.Logger) (platform.Provider, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register registers a provider factory by name.
func Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("plugin name required")
	}
	if factory == nil {
		return fmt.Errorf("plugin factory required")
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[name]; exists {
		return fmt.Errorf("plugin %s already registered", name)
	}
	factories[name] = factory
	return nil
}

// Get returns a registered factory by name.
func Get(name string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	factory, ok := factories[name]
	return factory, ok
}

// Names returns all registered plugin names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
