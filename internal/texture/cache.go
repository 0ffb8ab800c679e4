package texture

import (
	"errors"
	"image"
	"os"
	"sort"
	"strings"
	"sync"

	"coppercube-loader/internal/ccb"
)

// ErrNotFound is returned by Entry.Image when neither the referenced
// path nor the index has a file for the texture.
var ErrNotFound = errors.New("texture: not found")

// Entry is the handle the decoder stores in materials. Pixels are
// loaded on the first Image call.
type Entry struct {
	path string
	file string

	once sync.Once
	img  *image.NRGBA
	err  error
}

// Path returns the reference as resolved by the decoder.
func (e *Entry) Path() string { return e.path }

// File returns the file on disk backing the entry, or "" if none was found.
func (e *Entry) File() string { return e.file }

func (e *Entry) MarshalText() ([]byte, error) { return []byte(e.path), nil }

// Image loads and returns the texture. The result, including an error,
// is cached.
func (e *Entry) Image() (*image.NRGBA, error) {
	e.once.Do(func() {
		if e.file == "" {
			e.err = ErrNotFound
			return
		}
		e.img, e.err = LoadTexture(e.file)
	})
	return e.img, e.err
}

// Manager is a concurrency-safe ccb.TextureManager. One handle exists
// per distinct path.
type Manager struct {
	mu    sync.RWMutex
	items map[string]*Entry
	index *Index
}

var _ ccb.TextureManager = (*Manager)(nil)

// NewManager creates a manager. index may be nil, in which case only
// the referenced paths themselves are tried.
func NewManager(index *Index) *Manager {
	return &Manager{
		items: make(map[string]*Entry),
		index: index,
	}
}

// GetTexture returns the handle for path, creating it on first use.
func (m *Manager) GetTexture(path string) ccb.Texture {
	// Fast path: read lock
	m.mu.RLock()
	if e, exists := m.items[path]; exists {
		m.mu.RUnlock()
		return e
	}
	m.mu.RUnlock()

	e := &Entry{path: path, file: m.locate(path)}

	// Write lock with double-check
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, exists := m.items[path]; exists {
		return existing
	}
	m.items[path] = e
	return e
}

func (m *Manager) locate(path string) string {
	p := strings.ReplaceAll(path, "\\", "/")
	if info, err := os.Stat(p); err == nil && !info.IsDir() {
		return p
	}
	if file, ok := m.index.ResolvePath(path); ok {
		return file
	}
	return ""
}

// Entries returns every handle sorted by path.
func (m *Manager) Entries() []*Entry {
	m.mu.RLock()
	out := make([]*Entry, 0, len(m.items))
	for _, e := range m.items {
		out = append(out, e)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].path < out[j].path })
	return out
}

// Len returns the number of distinct texture paths handed out.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
