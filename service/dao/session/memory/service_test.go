package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/cascade/runtime/execution"
	"github.com/viant/cascade/service/dao"
)

func newTestSession(t *testing.T, id string) *execution.Session {
	t.Helper()
	return execution.NewSession("triage", map[string]interface{}{"status": "active"}, execution.WithID(id))
}

func TestService_PutGetDelete(t *testing.T) {
	srv := New()
	ctx := context.Background()

	aSession := newTestSession(t, "s-1")
	assert.NoError(t, srv.Put(ctx, aSession, 0))

	loaded, err := srv.Get(ctx, "s-1")
	assert.NoError(t, err)
	assert.Equal(t, "s-1", loaded.ID)

	assert.NoError(t, srv.Delete(ctx, "s-1"))
	_, err = srv.Get(ctx, "s-1")
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func TestService_TTLExpiry(t *testing.T) {
	srv := New()
	ctx := context.Background()

	assert.NoError(t, srv.Put(ctx, newTestSession(t, "s-ttl"), 10*time.Millisecond))
	_, err := srv.Get(ctx, "s-ttl")
	assert.NoError(t, err)

	time.Sleep(25 * time.Millisecond)
	_, err = srv.Get(ctx, "s-ttl")
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func TestService_DefaultTTL(t *testing.T) {
	srv := New(WithDefaultTTL(10 * time.Millisecond))
	ctx := context.Background()

	assert.NoError(t, srv.Put(ctx, newTestSession(t, "s-def"), 0))
	time.Sleep(25 * time.Millisecond)
	_, err := srv.Get(ctx, "s-def")
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func TestService_ListByStatus(t *testing.T) {
	srv := New()
	ctx := context.Background()

	running := newTestSession(t, "s-run")
	completed := newTestSession(t, "s-done")
	completed.Complete()

	assert.NoError(t, srv.Put(ctx, running, 0))
	assert.NoError(t, srv.Put(ctx, completed, 0))

	all, err := srv.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	done, err := srv.List(ctx, dao.NewParameter("Status", string(execution.SessionStatusCompleted)))
	assert.NoError(t, err)
	if assert.Len(t, done, 1) {
		assert.Equal(t, "s-done", done[0].ID)
	}
}

func TestService_InvalidInput(t *testing.T) {
	srv := New()
	ctx := context.Background()

	assert.ErrorIs(t, srv.Put(ctx, nil, 0), dao.ErrNilEntity)
	_, err := srv.Get(ctx, "")
	assert.ErrorIs(t, err, dao.ErrInvalidID)
	assert.ErrorIs(t, srv.Delete(ctx, ""), dao.ErrInvalidID)
}
