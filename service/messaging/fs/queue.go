// Package fs provides a filesystem backed queue: messages survive process
// restarts as JSON spool files moved between state directories.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/cascade/service/messaging"
)

// Spool state directories under the queue base path.
const (
	dirPending  = "pending"
	dirInflight = "inflight"
	dirRetry    = "retry"
	dirDone     = "done"
	dirDead     = "dead"
)

// Config locates the spool and bounds redelivery.
type Config struct {
	BasePath   string
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConfig returns a usable local spool configuration.
func DefaultConfig() Config {
	return Config{
		BasePath:   "/tmp/cascade/queue",
		MaxRetries: 3,
		RetryDelay: time.Second,
	}
}

// Queue is a messaging.Queue whose state lives on an afs filesystem. A
// message is a JSON file that moves pending -> inflight -> done on success;
// a nack moves it to retry (redelivered ahead of pending) or to dead once
// MaxRetries is exhausted.
type Queue[T any] struct {
	fs     afs.Service
	config Config
	mux    sync.Mutex
}

// NewQueue creates the spool directories and returns the queue.
func NewQueue[T any](fs afs.Service, config Config) (*Queue[T], error) {
	if config.BasePath == "" {
		return nil, fmt.Errorf("queue base path was empty")
	}
	q := &Queue[T]{fs: fs, config: config}
	ctx := context.Background()
	for _, state := range []string{dirPending, dirInflight, dirRetry, dirDone, dirDead} {
		dir := q.dir(state)
		if ok, _ := fs.Exists(ctx, dir); ok {
			continue
		}
		if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create spool directory %s: %w", dir, err)
		}
	}
	return q, nil
}

// Publish writes the payload as a pending spool file.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	msg := &message[T]{
		ID:        uuid.New().String(),
		Payload:   *t,
		CreatedAt: time.Now(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return q.write(ctx, q.spoolPath(dirPending, msg.ID), data)
}

// Consume claims the oldest spooled message, preferring retries over fresh
// arrivals. It returns a nil message when the spool is empty.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	q.mux.Lock()
	defer q.mux.Unlock()
	for _, state := range []string{dirRetry, dirPending} {
		msg, err := q.claim(ctx, state)
		if err != nil {
			return nil, err
		}
		if msg != nil {
			return msg, nil
		}
	}
	return nil, nil
}

func (q *Queue[T]) claim(ctx context.Context, state string) (*message[T], error) {
	candidates, err := q.listSpool(ctx, state)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	candidate := candidates[0]
	msg, err := q.read(ctx, candidate.URL())
	if err != nil {
		// Unreadable spool file, quarantine it.
		_ = q.fs.Move(ctx, candidate.URL(), path.Join(q.dir(dirDead), "corrupt-"+candidate.Name()))
		return nil, err
	}
	if state == dirRetry && msg.Attempts > q.config.MaxRetries {
		if err := q.fs.Move(ctx, candidate.URL(), path.Join(q.dir(dirDead), candidate.Name())); err != nil {
			return nil, fmt.Errorf("failed to park message: %w", err)
		}
		return nil, nil
	}
	msg.queue = q
	if err := q.move(ctx, msg, candidate.URL(), dirInflight); err != nil {
		return nil, err
	}
	return msg, nil
}

func (q *Queue[T]) listSpool(ctx context.Context, state string) ([]storage.Object, error) {
	objects, err := q.fs.List(ctx, q.dir(state))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s spool: %w", state, err)
	}
	var files []storage.Object
	for _, object := range objects {
		if !object.IsDir() && strings.HasSuffix(object.Name(), ".json") {
			files = append(files, object)
		}
	}
	return files, nil
}

func (q *Queue[T]) settle(ctx context.Context, msg *message[T], state string) error {
	q.mux.Lock()
	defer q.mux.Unlock()
	return q.move(ctx, msg, q.spoolPath(dirInflight, msg.ID), state)
}

// move re-serialises the message into the destination state and removes the
// source spool file; the write happens first so a crash never loses the
// message.
func (q *Queue[T]) move(ctx context.Context, msg *message[T], sourceURL, state string) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := q.write(ctx, q.spoolPath(state, msg.ID), data); err != nil {
		return err
	}
	if ok, _ := q.fs.Exists(ctx, sourceURL); ok {
		if err := q.fs.Delete(ctx, sourceURL); err != nil {
			return fmt.Errorf("failed to remove spool file %s: %w", sourceURL, err)
		}
	}
	return nil
}

func (q *Queue[T]) dir(state string) string {
	return path.Join(q.config.BasePath, state)
}

func (q *Queue[T]) spoolPath(state, id string) string {
	return path.Join(q.dir(state), id+".json")
}

func (q *Queue[T]) write(ctx context.Context, dest string, data []byte) error {
	return q.fs.Upload(ctx, dest, file.DefaultFileOsMode, bytes.NewReader(data))
}

func (q *Queue[T]) read(ctx context.Context, URL string) (*message[T], error) {
	data, err := q.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read spool file %s: %w", URL, err)
	}
	msg := &message[T]{}
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("failed to decode spool file %s: %w", URL, err)
	}
	return msg, nil
}

type message[T any] struct {
	ID        string    `json:"id"`
	Payload   T         `json:"payload"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"lastError,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	queue   *Queue[T]
	settled bool
	mux     sync.Mutex
}

func (m *message[T]) T() *T {
	return &m.Payload
}

func (m *message[T]) Ack() error {
	m.mux.Lock()
	defer m.mux.Unlock()
	if m.settled {
		return fmt.Errorf("message %v already settled", m.ID)
	}
	m.settled = true
	m.UpdatedAt = time.Now()
	return m.queue.settle(context.Background(), m, dirDone)
}

func (m *message[T]) Nack(err error) error {
	m.mux.Lock()
	defer m.mux.Unlock()
	if m.settled {
		return fmt.Errorf("message %v already settled", m.ID)
	}
	m.settled = true
	m.Attempts++
	if err != nil {
		m.LastError = err.Error()
	}
	m.UpdatedAt = time.Now()
	state := dirRetry
	if m.Attempts > m.queue.config.MaxRetries {
		state = dirDead
	}
	return m.queue.settle(context.Background(), m, state)
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
