package event

import (
	"context"
	"time"

	"github.com/viant/cascade/service/messaging"
)

// Publisher writes typed events onto its queue and mirrors them onto the
// untyped catch-all queue when one is attached, so a single listener can
// observe every event regardless of payload type.
type Publisher[T any] struct {
	queue    messaging.Queue[Event[T]]
	anyQueue messaging.Queue[Event[any]]
}

// NewPublisher creates a publisher over the supplied queue.
func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{queue: queue}
}

// Publish stamps and enqueues the event.
func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	event.CreatedAt = time.Now()
	if p.anyQueue != nil {
		mirrored := &Event[any]{
			Context:   event.Context,
			CreatedAt: event.CreatedAt,
			Metadata:  event.Metadata,
			Data:      event.Data,
		}
		if err := p.anyQueue.Publish(ctx, mirrored); err != nil {
			return err
		}
	}
	return p.queue.Publish(ctx, event)
}

// Consume returns the next event, acknowledging it on receipt. A nil event
// with a nil error means the queue is currently empty.
func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	message, err := p.queue.Consume(ctx)
	if err != nil || message == nil {
		return nil, err
	}
	if err = message.Ack(); err != nil {
		return nil, err
	}
	return message.T(), nil
}
