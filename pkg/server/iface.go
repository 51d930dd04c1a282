// pkg/server/iface.go
package server

import (
	"sort"
	"sync"
)

type filterEntry struct {
	name     string
	priority int
	seq      int
	filter   Filter
}

// ServerInterface is the long-lived state shared with filters and
// handlers: the ordered filter table, the handler registries, the
// access-control cache handle, and the per-dispatch slots (current
// request handler, config file path, active project).
//
// The active-project slot is confined to this instance; concurrent
// dispatch calls sharing one instance must be serialized by the host.
type ServerInterface struct {
	registry *ServiceRegistry

	mu       sync.RWMutex
	filters  []filterEntry
	seq      int
	access   AccessControl
	handler  *RequestHandler
	confPath string
	project  *Project
}

func NewServerInterface(registry *ServiceRegistry) *ServerInterface {
	if registry == nil {
		registry = NewServiceRegistry()
	}
	return &ServerInterface{registry: registry}
}

func (s *ServerInterface) Registry() *ServiceRegistry { return s.registry }

// RegisterFilter adds a filter at the given priority. Lower priorities
// run first; equal priorities keep registration order. The resulting
// order is stable for the lifetime of the process.
func (s *ServerInterface) RegisterFilter(name string, priority int, f Filter) {
	s.mu.Lock()
	s.seq++
	s.filters = append(s.filters, filterEntry{name: name, priority: priority, seq: s.seq, filter: f})
	sort.SliceStable(s.filters, func(i, j int) bool {
		if s.filters[i].priority != s.filters[j].priority {
			return s.filters[i].priority < s.filters[j].priority
		}
		return s.filters[i].seq < s.filters[j].seq
	})
	s.mu.Unlock()
}

// Filters returns the filter chain in execution order.
func (s *ServerInterface) Filters() []Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Filter, len(s.filters))
	for i, e := range s.filters {
		out[i] = e.filter
	}
	return out
}

func (s *ServerInterface) SetAccessControl(ac AccessControl) {
	s.mu.Lock()
	s.access = ac
	s.mu.Unlock()
}

func (s *ServerInterface) AccessControls() AccessControl {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *ServerInterface) SetRequestHandler(h *RequestHandler) {
	s.mu.Lock()
	s.handler = h
	s.mu.Unlock()
}

func (s *ServerInterface) ClearRequestHandler() {
	s.mu.Lock()
	s.handler = nil
	s.mu.Unlock()
}

// RequestHandler returns the handler of the dispatch in flight, or nil.
func (s *ServerInterface) RequestHandler() *RequestHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handler
}

func (s *ServerInterface) SetConfigFilePath(path string) {
	s.mu.Lock()
	s.confPath = path
	s.mu.Unlock()
}

func (s *ServerInterface) ConfigFilePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.confPath
}

// ActiveProject is the project of the dispatch in flight. It is bound
// after the pre-request filter stage and cleared on every exit path;
// outside a dispatch call it is always nil.
func (s *ServerInterface) ActiveProject() *Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project
}

func (s *ServerInterface) bindActiveProject(p *Project) {
	s.mu.Lock()
	s.project = p
	s.mu.Unlock()
}

func (s *ServerInterface) clearActiveProject() {
	s.mu.Lock()
	s.project = nil
	s.mu.Unlock()
}
