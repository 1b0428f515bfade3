// Package memory provides the default in-memory session store.
package memory

import (
	"context"
	"time"

	"github.com/viant/cascade/runtime/execution"
	"github.com/viant/cascade/service/dao"
	"github.com/viant/cascade/service/dao/criteria"
	"github.com/viant/cascade/service/dao/session"
	"github.com/viant/cascade/service/dao/store"
)

// Service implements an in-memory, thread-safe session store with optional
// per-entry expiry.
type Service struct {
	sessions   *store.MemoryStore[string, execution.Session]
	defaultTTL time.Duration
}

var _ session.Store = (*Service)(nil)

// Option customises a memory session store.
type Option func(*Service)

// WithDefaultTTL sets the TTL applied when Put is called with a zero TTL.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.defaultTTL = ttl
	}
}

// New creates a new in-memory session store.
func New(options ...Option) *Service {
	ret := &Service{}
	for _, opt := range options {
		opt(ret)
	}
	ret.sessions = store.NewMemoryStore[string, execution.Session](func(s *execution.Session) string {
		return s.ID
	}, ret.defaultTTL, store.WithMatcher[string, execution.Session](func(candidate *execution.Session, parameters []*dao.Parameter) bool {
		return criteria.FilterByStatus(string(candidate.Status), parameters)
	}))
	return ret
}

// Put stores a session; a zero ttl falls back to the store default.
func (s *Service) Put(ctx context.Context, aSession *execution.Session, ttl time.Duration) error {
	if aSession == nil {
		return dao.ErrNilEntity
	}
	if aSession.ID == "" {
		return dao.ErrInvalidID
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	return s.sessions.SaveWithTTL(ctx, aSession, ttl)
}

// Get returns a session by id, or dao.ErrNotFound when absent or expired.
func (s *Service) Get(ctx context.Context, id string) (*execution.Session, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	return s.sessions.Load(ctx, id)
}

// Delete removes a session by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	return s.sessions.Delete(ctx, id)
}

// List returns stored sessions, optionally filtered by a Status parameter.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*execution.Session, error) {
	return s.sessions.List(ctx, parameters...)
}
