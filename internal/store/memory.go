package store

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/i474232898/airquality-figures/internal/timeseries"
)

var (
	// ErrNotFound is returned when nothing is stored under a key.
	ErrNotFound = errors.New("no data for key")
)

type entry struct {
	frame   timeseries.Frame
	savedAt time.Time
}

// MemoryStore is a concurrency-safe in-memory cache of fetched frames.
type MemoryStore struct {
	mu sync.RWMutex

	// key: query key, value: cached frame
	data  map[string]*entry
	order []string

	// retention configuration
	maxEntries int           // max number of cached frames
	maxAge     time.Duration // optional max age of a cached frame

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxEntries is <= 0, it is treated as unlimited.
func NewMemoryStore(maxEntries int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*entry),
		maxEntries: maxEntries,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Save stores a copy of frame under key and enforces retention.
func (s *MemoryStore) Save(key string, frame timeseries.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; ok {
		s.order = slices.DeleteFunc(s.order, func(k string) bool { return k == key })
	}
	s.data[key] = &entry{frame: frame.Clone(), savedAt: s.now()}
	s.order = append(s.order, key)

	s.expireLocked()

	// Enforce retention by count, oldest first.
	for s.maxEntries > 0 && len(s.order) > s.maxEntries {
		delete(s.data, s.order[0])
		s.order = s.order[1:]
	}
}

// Get returns the frame stored under key unless it has expired.
func (s *MemoryStore) Get(key string) (timeseries.Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok || s.expired(e) {
		return timeseries.Frame{}, ErrNotFound
	}
	return e.frame.Clone(), nil
}

// Len returns the number of cached frames, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Purge drops expired frames.
func (s *MemoryStore) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()
}

func (s *MemoryStore) expireLocked() {
	if s.maxAge <= 0 {
		return
	}
	kept := s.order[:0]
	for _, key := range s.order {
		if s.expired(s.data[key]) {
			delete(s.data, key)
			continue
		}
		kept = append(kept, key)
	}
	s.order = kept
}

func (s *MemoryStore) expired(e *entry) bool {
	return s.maxAge > 0 && s.now().Sub(e.savedAt) > s.maxAge
}
