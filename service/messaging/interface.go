// Package messaging defines the queue abstraction the event service rides
// on. Implementations live in sub-packages, selected by vendor name.
package messaging

import "context"

// Vendor names a queue implementation, "memory" or "fs".
type Vendor string

// Queue transports typed payloads between publishers and consumers.
type Queue[T any] interface {
	Publish(ctx context.Context, t *T) error

	// Consume returns the next message, blocking or returning a nil message
	// depending on the implementation.
	Consume(ctx context.Context) (Message[T], error)
}

// Message is a consumed payload with an acknowledgement contract: Ack marks
// it done, Nack requeues it until the implementation's retry limit moves it
// to a dead letter area.
type Message[T any] interface {
	T() *T
	Ack() error
	Nack(err error) error
}
