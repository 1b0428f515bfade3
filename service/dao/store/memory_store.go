package store

import (
	"context"
	"sync"
	"time"

	"github.com/viant/cascade/service/dao"
)

// MemoryStore is a generic in-memory store keeping entities of type *T
// mapped by a comparable key K, with optional per-entry expiry. A zero TTL
// means an entry never expires; expired entries are reaped lazily on access.
//
// This helper lets concrete DAOs embed the store and avoid rewriting
// identical Save/Load/Delete/List logic for every entity type.
type MemoryStore[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]*entry[T]
	keySelector func(*T) K
	defaultTTL  time.Duration
	matcher     func(*T, []*dao.Parameter) bool
}

// Option customises a MemoryStore.
type Option[K comparable, T any] func(*MemoryStore[K, T])

// WithMatcher installs the predicate List applies to candidate records
// against the supplied parameters.
func WithMatcher[K comparable, T any](matcher func(*T, []*dao.Parameter) bool) Option[K, T] {
	return func(s *MemoryStore[K, T]) {
		s.matcher = matcher
	}
}

type entry[T any] struct {
	value     *T
	expiresAt time.Time
}

func (e *entry[T]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// NewMemoryStore creates a new MemoryStore.
// keySelector extracts the entity key (usually the ID field) from a value;
// defaultTTL applies to Save when no explicit TTL is given.
func NewMemoryStore[K comparable, T any](keySelector func(*T) K, defaultTTL time.Duration, options ...Option[K, T]) *MemoryStore[K, T] {
	ret := &MemoryStore[K, T]{
		records:     make(map[K]*entry[T]),
		keySelector: keySelector,
		defaultTTL:  defaultTTL,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Save stores or overwrites a record using the default TTL.
func (s *MemoryStore[K, T]) Save(ctx context.Context, v *T) error {
	return s.SaveWithTTL(ctx, v, s.defaultTTL)
}

// SaveWithTTL stores a record with an explicit time to live. A non-positive
// ttl keeps the record until deleted.
func (s *MemoryStore[K, T]) SaveWithTTL(_ context.Context, v *T, ttl time.Duration) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	var zero K
	if key == zero {
		return dao.ErrInvalidID
	}
	record := &entry[T]{value: v}
	if ttl > 0 {
		record.expiresAt = time.Now().Add(ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = record
	return nil
}

// Load returns a record by key, or dao.ErrNotFound when absent or expired.
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	record, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, dao.ErrNotFound
	}
	if record.expired(time.Now()) {
		s.mu.Lock()
		delete(s.records, key)
		s.mu.Unlock()
		return nil, dao.ErrNotFound
	}
	return record.value, nil
}

// Delete removes a record.
func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return dao.ErrNotFound
	}
	delete(s.records, key)
	return nil
}

// List returns all non-expired records; when a matcher is installed only
// those matching the given parameters are returned.
func (s *MemoryStore[K, T]) List(_ context.Context, parameters ...*dao.Parameter) ([]*T, error) {
	now := time.Now()
	s.mu.Lock()
	out := make([]*T, 0, len(s.records))
	for key, record := range s.records {
		if record.expired(now) {
			delete(s.records, key)
			continue
		}
		if s.matcher != nil && !s.matcher(record.value, parameters) {
			continue
		}
		out = append(out, record.value)
	}
	s.mu.Unlock()
	return out, nil
}
