// Package assets resolves object-local files across data directories and
// .parkobj archives, with caching.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Faultbox/g1kit/pkg/parkobj"
)

// source is one place files are looked up in.
type source interface {
	ReadFile(name string) ([]byte, error)
	Close() error
}

type dirSource struct {
	root string
}

func (d dirSource) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(d.root, filepath.FromSlash(name)))
}

func (d dirSource) Close() error { return nil }

// Manager handles asset loading from directories and object archives.
type Manager struct {
	sources []source
	cache   *Cache
	mu      sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// Add adds a directory or a .parkobj archive.
// Sources are searched in reverse order (last added = highest priority).
func (m *Manager) Add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("adding %s: %w", path, err)
	}

	var src source
	switch {
	case info.IsDir():
		src = dirSource{root: path}
	case strings.EqualFold(filepath.Ext(path), ".parkobj"):
		archive, err := parkobj.Open(path)
		if err != nil {
			return fmt.Errorf("opening archive %s: %w", path, err)
		}
		src = archive
	default:
		return fmt.Errorf("adding %s: not a directory or .parkobj archive", path)
	}

	m.mu.Lock()
	m.sources = append(m.sources, src)
	m.mu.Unlock()

	return nil
}

// ReadFile loads a file from the sources.
func (m *Manager) ReadFile(name string) ([]byte, error) {
	// Check cache first
	if data, ok := m.cache.Get(name); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	// Search sources in reverse order
	for i := len(m.sources) - 1; i >= 0; i-- {
		data, err := m.sources[i].ReadFile(name)
		if err == nil {
			m.cache.Set(name, data)
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
}

// Stats returns cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// Close closes all archives.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, src := range m.sources {
		if err := src.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	m.sources = nil
	m.cache.Clear()
	return errors.Join(errs...)
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
