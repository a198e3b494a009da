package storage

import (
	"slices"
	"sync"
)

type cookieKey struct {
	name  string
	attrs Attributes
}

// Memory is an in-memory CookieStore. All methods are safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	cookies map[cookieKey]string
	// order tracks write recency so Get can resolve name collisions in favor
	// of the most recently written cookie.
	order []cookieKey
}

// NewMemory creates an empty in-memory cookie store.
func NewMemory() *Memory {
	return &Memory{
		cookies: make(map[cookieKey]string),
	}
}

func (m *Memory) Get(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.order) - 1; i >= 0; i-- {
		if m.order[i].name == name {
			if v, ok := m.cookies[m.order[i]]; ok {
				return v, true
			}
		}
	}
	return "", false
}

func (m *Memory) Set(name, value string, attrs Attributes) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := cookieKey{name: name, attrs: attrs}
	if _, exists := m.cookies[key]; exists {
		m.order = slices.DeleteFunc(m.order, func(k cookieKey) bool { return k == key })
	}
	m.cookies[key] = value
	m.order = append(m.order, key)
	return nil
}

func (m *Memory) Delete(name string, attrs Attributes) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := cookieKey{name: name, attrs: attrs}
	delete(m.cookies, key)
	m.order = slices.DeleteFunc(m.order, func(k cookieKey) bool { return k == key })
	return nil
}

func (m *Memory) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{}, len(m.cookies))
	names := make([]string, 0, len(m.cookies))
	for key := range m.cookies {
		if _, ok := seen[key.name]; ok {
			continue
		}
		seen[key.name] = struct{}{}
		names = append(names, key.name)
	}
	slices.Sort(names)
	return names
}

// Attributes returns every attribute combination the named cookie is
// currently set with. Useful for asserting cleanup totality in tests.
func (m *Memory) Attributes(name string) []Attributes {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var attrs []Attributes
	for key := range m.cookies {
		if key.name == name {
			attrs = append(attrs, key.attrs)
		}
	}
	return attrs
}

// MemoryKV is an in-memory KeyValueStore. All methods are safe for
// concurrent use.
type MemoryKV struct {
	mu sync.RWMutex
	kv map[string]string
}

// NewMemoryKV creates an empty in-memory key-value store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{kv: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.kv[key]
	return v, ok
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[key] = value
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.kv, key)
	return nil
}

func (m *MemoryKV) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.kv))
	for k := range m.kv {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
