package sources

import (
	"fmt"
	"sync"
)

var (
	registry   = make(map[string]Factory)
	registryMu sync.RWMutex
)

// Register adds a source factory under "type.name", e.g. "cex.okx". Adapter
// packages call this from an init() so they self-register on import.
func Register(sourceType, name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[key(sourceType, name)] = factory
}

// Create instantiates a registered source by type and name.
func Create(sourceType, name string, cfg map[string]interface{}) (PriceSource, error) {
	registryMu.RLock()
	factory, ok := registry[key(sourceType, name)]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown source: %s.%s", sourceType, name)
	}
	return factory(name, cfg)
}

// List returns every registered "type.name" key.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

func key(sourceType, name string) string {
	return sourceType + "." + name
}
