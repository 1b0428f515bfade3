// Package session defines the persistence contract for run sessions.
package session

import (
	"context"
	"time"

	"github.com/viant/cascade/runtime/execution"
	"github.com/viant/cascade/service/dao"
)

// Store persists run sessions keyed by session id. Implementations may
// discard entries after the supplied TTL elapses; a zero TTL keeps the
// session until deleted.
type Store interface {
	// Put stores a session with an optional time to live.
	Put(ctx context.Context, session *execution.Session, ttl time.Duration) error

	// Get returns a session by id, or dao.ErrNotFound when absent or expired.
	Get(ctx context.Context, id string) (*execution.Session, error)

	// Delete removes a session by id.
	Delete(ctx context.Context, id string) error

	// List returns stored sessions matching the supplied parameters.
	List(ctx context.Context, parameters ...*dao.Parameter) ([]*execution.Session, error)
}
