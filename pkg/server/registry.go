// pkg/server/registry.go
package server

import (
	"sort"
	"strings"
	"sync"
)

// ServiceRegistry holds the capability handlers (by name) and the
// protocol handlers (by service name and version). Registration is a
// configuration-time concern; lookups are read-only from the pipeline.
type ServiceRegistry struct {
	mu       sync.RWMutex
	apis     map[string]Api
	services map[string]map[string]Service
}

func NewServiceRegistry() *ServiceRegistry {
	return &ServiceRegistry{
		apis:     map[string]Api{},
		services: map[string]map[string]Service{},
	}
}

// RegisterApi makes a capability handler addressable by name.
func (r *ServiceRegistry) RegisterApi(name string, api Api) {
	r.mu.Lock()
	r.apis[name] = api
	r.mu.Unlock()
}

// RegisterService registers a protocol handler for (name, version).
// Service names are matched case-insensitively, as OGC requires.
func (r *ServiceRegistry) RegisterService(name, version string, svc Service) {
	key := strings.ToUpper(name)
	r.mu.Lock()
	versions := r.services[key]
	if versions == nil {
		versions = map[string]Service{}
		r.services[key] = versions
	}
	versions[version] = svc
	r.mu.Unlock()
}

// GetApi returns the capability handler for name, or nil.
func (r *ServiceRegistry) GetApi(name string) Api {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.apis[name]
}

// GetService resolves a protocol handler. An exact version match wins;
// otherwise the highest registered version of the named service is
// returned, so requests with a missing or unknown version still reach
// the service. An unknown service name returns nil.
func (r *ServiceRegistry) GetService(name, version string) Service {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions := r.services[strings.ToUpper(name)]
	if len(versions) == 0 {
		return nil
	}
	if svc, ok := versions[version]; ok {
		return svc
	}
	keys := make([]string, 0, len(versions))
	for v := range versions {
		keys = append(keys, v)
	}
	sort.Strings(keys)
	return versions[keys[len(keys)-1]]
}
