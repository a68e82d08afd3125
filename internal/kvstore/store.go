// Package kvstore provides the flat string-keyed settings store that job
// profiles and global invoice settings are persisted in.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// ErrUnknownBackend is returned by Open for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown store backend")

// Store is a string-keyed map with an explicit flush. Get returns "" for an
// absent key. Set is visible to Get immediately but only persisted by Save.
type Store interface {
	Get(key string) string
	Set(key, value string)
	Save() error
}

// Backend is a Store that holds an external resource.
type Backend interface {
	Store
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend       string
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisKey      string
}

// Open returns the backend named by opts.Backend. An empty name selects the
// file backend.
func Open(ctx context.Context, opts Options) (Backend, error) {
	var (
		b   Backend
		err error
	)
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		b, err = asBackend(OpenFile(opts.Path))
	case BackendSQLite:
		b, err = asBackend(OpenSQLite(ctx, opts.Path))
	case BackendRedis:
		b, err = asBackend(OpenRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisKey))
	case BackendMemory:
		b = NewMemory()
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// asBackend keeps a failed open from returning a non-nil interface around a
// nil pointer.
func asBackend[T Backend](b T, err error) (Backend, error) {
	if err != nil {
		return nil, err
	}
	return b, nil
}

// cache is the in-memory view shared by every backend. Writes are tracked
// so persistent backends only flush what changed.
type cache struct {
	mu     sync.RWMutex
	values map[string]string
	dirty  map[string]struct{}
}

func newCache(initial map[string]string) *cache {
	if initial == nil {
		initial = make(map[string]string)
	}
	return &cache{values: initial, dirty: make(map[string]struct{})}
}

func (c *cache) Get(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key]
}

func (c *cache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.values[key]; ok && old == value {
		return
	}
	c.values[key] = value
	c.dirty[key] = struct{}{}
}

// Keys returns every stored key in sorted order.
func (c *cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// pending returns the changed entries without clearing them.
func (c *cache) pending() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.dirty))
	for k := range c.dirty {
		out[k] = c.values[k]
	}
	return out
}

// snapshot returns a copy of all entries.
func (c *cache) snapshot() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// markClean forgets the flushed entries unless they changed again meanwhile.
func (c *cache) markClean(flushed map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range flushed {
		if c.values[k] == v {
			delete(c.dirty, k)
		}
	}
}

// Memory is a Store that lives only in process memory.
type Memory struct {
	*cache
	saves int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{cache: newCache(nil)}
}

// Save marks all entries as flushed.
func (m *Memory) Save() error {
	m.markClean(m.pending())
	m.mu.Lock()
	m.saves++
	m.mu.Unlock()
	return nil
}

// Saves reports how many times Save has been called.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
