// Package meshcache is a concurrency-safe ccb.MeshCache.
package meshcache

import (
	"sort"
	"sync"

	"coppercube-loader/internal/ccb"
)

// Cache stores animated meshes by name. Placeholders registered while a
// document is being decoded are filled in place, so callers holding a
// mesh pointer see the payload once it arrives.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*ccb.SkinnedMesh
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{items: make(map[string]*ccb.SkinnedMesh)}
}

// Mesh returns the mesh registered under name, or nil.
func (c *Cache) Mesh(name string) *ccb.SkinnedMesh {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items[name]
}

// AddMesh registers m under its name. An existing entry is kept so that
// nodes already linked to it stay linked.
func (c *Cache) AddMesh(m *ccb.SkinnedMesh) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[m.Name]; exists {
		return
	}
	c.items[m.Name] = m
}

// Len returns the number of registered meshes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Names returns the registered mesh names in sorted order.
func (c *Cache) Names() []string {
	c.mu.RLock()
	names := make([]string, 0, len(c.items))
	for name := range c.items {
		names = append(names, name)
	}
	c.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Meshes returns the registered meshes sorted by name.
func (c *Cache) Meshes() []*ccb.SkinnedMesh {
	c.mu.RLock()
	out := make([]*ccb.SkinnedMesh, 0, len(c.items))
	for _, m := range c.items {
		out = append(out, m)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Stats counts meshes by state.
type Stats struct {
	Total    int
	Loaded   int
	Animated int
	// Unresolved meshes were referenced but their payload never arrived.
	Unresolved int
}

func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var s Stats
	for _, m := range c.items {
		s.Total++
		switch {
		case !m.Loaded:
			s.Unresolved++
		case m.Animated:
			s.Loaded++
			s.Animated++
		default:
			s.Loaded++
		}
	}
	return s
}
