// pkg/server/plugins.go
package server

import "sync"

// FilterFactory builds a filter instance for one manifest entry.
type FilterFactory func() Filter

var (
	factoryMu       sync.RWMutex
	filterFactories = map[string]FilterFactory{}
)

// RegisterFilterFactory makes a filter constructible under a name
// referenced in the manifest filter table.
func RegisterFilterFactory(name string, f FilterFactory) {
	factoryMu.Lock()
	filterFactories[name] = f
	factoryMu.Unlock()
}

// LookupFilterFactory retrieves a registered filter factory by name.
func LookupFilterFactory(name string) (FilterFactory, bool) {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	f, ok := filterFactories[name]
	return f, ok
}
