package router

import (
	"strings"
	"sync"

	"admin/access/internal/domain"
)

// Router is an in-memory route table. Nested routes are flattened on
// registration with their final path, the way the dashboard's client-side
// router resolves them.
type Router struct {
	mu      sync.RWMutex
	core    []domain.RouteNode
	records []record
}

type record struct {
	name   string
	path   string
	parent string // name of the top-level route this record was registered with
}

// New creates a router seeded with core routes. Core routes survive Reset.
func New(core ...domain.RouteNode) *Router {
	r := &Router{core: core}
	r.Reset()
	return r
}

// AddRoute registers route and all of its descendants. A route whose name is
// already registered replaces the previous registration.
func (r *Router) AddRoute(route domain.RouteNode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.addRoute(route)
}

func (r *Router) addRoute(route domain.RouteNode) {
	if route.Name != "" {
		r.removeRoute(route.Name)
	}
	r.register(route, "", route.Name)
}

func (r *Router) register(route domain.RouteNode, parentPath, owner string) {
	if route.Name != "" && route.Name != owner {
		r.removeRoute(route.Name)
	}

	path := JoinPath(parentPath, route.Path)
	r.records = append(r.records, record{
		name:   route.Name,
		path:   path,
		parent: owner,
	})

	for _, child := range route.Children {
		r.register(child, path, owner)
	}
}

// GetRoutes lists every registered route with its resolved path, in
// registration order.
func (r *Router) GetRoutes() []domain.RouteRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	routes := make([]domain.RouteRecord, 0, len(r.records))
	for _, rec := range r.records {
		routes = append(routes, domain.RouteRecord{Name: rec.name, Path: rec.path})
	}
	return routes
}

// HasRoute reports whether a route with name is registered.
func (r *Router) HasRoute(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if rec.name == name {
			return true
		}
	}
	return false
}

// removeRoute drops a named route. Removing a top-level route also drops
// the children registered with it. Callers hold mu.
func (r *Router) removeRoute(name string) bool {
	if name == "" {
		return false
	}

	removed := false
	kept := r.records[:0]
	for _, rec := range r.records {
		if rec.name == name || (rec.parent == name && rec.parent != "") {
			removed = true
			continue
		}
		kept = append(kept, rec)
	}
	r.records = kept
	return removed
}

// Reset drops every dynamically added route and re-registers the core routes.
func (r *Router) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = nil
	for _, route := range r.core {
		r.addRoute(route)
	}
}

// JoinPath resolves a route path against its parent's resolved path.
// Absolute paths are kept as they are.
func JoinPath(parent, path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	if parent == "" {
		return "/" + path
	}
	if path == "" {
		return parent
	}
	if strings.HasSuffix(parent, "/") {
		return parent + path
	}
	return parent + "/" + path
}
