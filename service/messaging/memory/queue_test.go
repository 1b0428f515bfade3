package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type taskNotice struct {
	SessionID string
	TaskID    string
	Status    string
}

func TestQueue_PublishConsume(t *testing.T) {
	config := DefaultConfig()
	config.RetryDelay = 10 * time.Millisecond
	queue := NewQueue[taskNotice](config)
	ctx := context.Background()

	notice := taskNotice{SessionID: "s-1", TaskID: "intake", Status: "completed"}
	assert.NoError(t, queue.Publish(ctx, &notice))
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.EqualValues(t, &notice, message.T())
	assert.Equal(t, 0, queue.Size())

	assert.NoError(t, message.Ack())
	assert.Error(t, message.Ack(), "settled message rejects a second ack")
}

func TestQueue_NackRequeues(t *testing.T) {
	config := Config{MaxRetries: 2, RetryDelay: 5 * time.Millisecond, DeadLetter: true, Capacity: 10}
	queue := NewQueue[taskNotice](config)
	ctx := context.Background()

	notice := taskNotice{SessionID: "s-2", TaskID: "classify", Status: "failed"}
	assert.NoError(t, queue.Publish(ctx, &notice))

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		message, err := queue.Consume(ctx)
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, "classify", message.T().TaskID)
		assert.NoError(t, message.Nack(fmt.Errorf("handler failed")))
	}

	// The final nack exhausts retries and parks the message.
	assert.Eventually(t, func() bool { return queue.DeadLetterSize() == 1 },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, queue.Size())
}

func TestQueue_ConsumeHonoursContext(t *testing.T) {
	queue := NewQueue[taskNotice](DefaultConfig())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	message, err := queue.Consume(ctx)
	assert.Nil(t, message)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueue_OrderPreserved(t *testing.T) {
	queue := NewQueue[taskNotice](DefaultConfig())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		notice := taskNotice{TaskID: fmt.Sprintf("task-%d", i)}
		assert.NoError(t, queue.Publish(ctx, &notice))
	}
	for i := 0; i < 5; i++ {
		message, err := queue.Consume(ctx)
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, fmt.Sprintf("task-%d", i), message.T().TaskID)
		assert.NoError(t, message.Ack())
	}
}
