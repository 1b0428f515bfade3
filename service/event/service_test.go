package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type taskResultPayload struct {
	TaskID string
	Status string
}

func TestService_TypedPublishAndListen(t *testing.T) {
	service, err := New("memory")
	if !assert.NoError(t, err) {
		return
	}

	var mux sync.Mutex
	var received []*Event[*taskResultPayload]
	err = SetListenerOf(service, func(event *Event[*taskResultPayload]) {
		mux.Lock()
		received = append(received, event)
		mux.Unlock()
	})
	if !assert.NoError(t, err) {
		return
	}

	publisher, err := PublisherOf[*taskResultPayload](service)
	if !assert.NoError(t, err) {
		return
	}
	eventContext := &Context{SessionID: "s-1", TaskID: "intake", EventType: "task.result"}
	payload := &taskResultPayload{TaskID: "intake", Status: "completed"}
	assert.NoError(t, publisher.Publish(context.Background(), NewEvent(eventContext, payload)))

	assert.Eventually(t, func() bool {
		mux.Lock()
		defer mux.Unlock()
		return len(received) == 1
	}, time.Second, 5*time.Millisecond)

	mux.Lock()
	defer mux.Unlock()
	assert.Equal(t, "intake", received[0].Context.TaskID)
	assert.Equal(t, "completed", received[0].Data.Status)
}

func TestService_CatchAllListener(t *testing.T) {
	service, err := New("memory")
	if !assert.NoError(t, err) {
		return
	}

	var mux sync.Mutex
	var seen []string
	service.SetListener(func(event *Event[any]) {
		mux.Lock()
		seen = append(seen, event.Context.EventType)
		mux.Unlock()
	})

	publisher, err := PublisherOf[*taskResultPayload](service)
	if !assert.NoError(t, err) {
		return
	}
	payload := &taskResultPayload{TaskID: "classify", Status: "skipped"}
	eventContext := &Context{SessionID: "s-2", TaskID: "classify", EventType: "task.result"}
	assert.NoError(t, publisher.Publish(context.Background(), NewEvent(eventContext, payload)))

	assert.Eventually(t, func() bool {
		mux.Lock()
		defer mux.Unlock()
		return len(seen) == 1 && seen[0] == "task.result"
	}, time.Second, 5*time.Millisecond)
}

func TestService_RejectsUnknownVendor(t *testing.T) {
	_, err := New("kafka")
	assert.Error(t, err)
}
