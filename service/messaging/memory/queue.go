// Package memory provides a channel backed queue, the default vendor for
// in-process event delivery.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viant/cascade/service/messaging"
)

// Config controls retry behaviour and channel capacity.
type Config struct {
	MaxRetries int
	RetryDelay time.Duration
	DeadLetter bool
	Capacity   int
}

// DefaultConfig returns the configuration used when callers pass a zero
// capacity.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		RetryDelay: 100 * time.Millisecond,
		DeadLetter: true,
		Capacity:   100,
	}
}

// Queue is an in-memory messaging.Queue over a buffered channel. Nacked
// messages are requeued after the retry delay until MaxRetries is exhausted,
// then parked in the dead letter list when enabled.
type Queue[T any] struct {
	config   Config
	messages chan *message[T]
	dead     []*message[T]
	deadMux  sync.Mutex
}

// NewQueue creates an in-memory queue.
func NewQueue[T any](config Config) *Queue[T] {
	if config.Capacity <= 0 {
		config.Capacity = DefaultConfig().Capacity
	}
	return &Queue[T]{
		config:   config,
		messages: make(chan *message[T], config.Capacity),
	}
}

// Publish enqueues the payload, blocking when the channel is full.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	msg := &message[T]{
		id:      uuid.New().String(),
		payload: *t,
		queue:   q,
	}
	select {
	case q.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume blocks until a message arrives or the context is cancelled.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the number of queued messages.
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// DeadLetterSize returns the number of messages parked after retry
// exhaustion.
func (q *Queue[T]) DeadLetterSize() int {
	q.deadMux.Lock()
	defer q.deadMux.Unlock()
	return len(q.dead)
}

func (q *Queue[T]) requeue(msg *message[T]) {
	time.AfterFunc(q.config.RetryDelay, func() {
		retry := &message[T]{
			id:       msg.id,
			payload:  msg.payload,
			queue:    q,
			attempts: msg.attempts,
		}
		q.messages <- retry
	})
}

func (q *Queue[T]) park(msg *message[T]) {
	q.deadMux.Lock()
	q.dead = append(q.dead, msg)
	q.deadMux.Unlock()
}

type message[T any] struct {
	id       string
	payload  T
	queue    *Queue[T]
	attempts int
	settled  bool
	mux      sync.Mutex
}

func (m *message[T]) T() *T {
	return &m.payload
}

func (m *message[T]) Ack() error {
	m.mux.Lock()
	defer m.mux.Unlock()
	if m.settled {
		return fmt.Errorf("message %v already settled", m.id)
	}
	m.settled = true
	return nil
}

func (m *message[T]) Nack(err error) error {
	m.mux.Lock()
	defer m.mux.Unlock()
	if m.settled {
		return fmt.Errorf("message %v already settled", m.id)
	}
	m.settled = true
	m.attempts++
	if m.attempts <= m.queue.config.MaxRetries {
		m.queue.requeue(m)
	} else if m.queue.config.DeadLetter {
		m.queue.park(m)
	}
	return nil
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
