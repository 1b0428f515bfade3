package event

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/cascade/service/messaging"
	"github.com/viant/cascade/service/messaging/fs"
	"github.com/viant/cascade/service/messaging/memory"
)

// Service keys one queue per payload type plus an untyped catch-all queue
// every typed publisher mirrors into.
type Service struct {
	vendor            messaging.Vendor
	publisher         *Publisher[any]
	listener          *Listener[any]
	typedPublishers   map[reflect.Type]any
	typedListeners    map[reflect.Type]any
	mux               sync.RWMutex
	fsQueueConfig     func(name string) fs.Config
	memoryQueueConfig func(name string) memory.Config
}

// New creates an event service over the named queue vendor. The "memory"
// vendor works without options; "fs" requires a spool configuration.
func New(vendor messaging.Vendor, options ...Option) (*Service, error) {
	ret := &Service{
		vendor:          vendor,
		typedPublishers: make(map[reflect.Type]any),
		typedListeners:  make(map[reflect.Type]any),
	}
	for _, option := range options {
		option(ret)
	}
	switch vendor {
	case "memory":
		if ret.memoryQueueConfig == nil {
			ret.memoryQueueConfig = func(string) memory.Config { return memory.DefaultConfig() }
		}
	case "fs":
		if ret.fsQueueConfig == nil {
			return nil, fmt.Errorf("fs queue vendor requires a spool configuration")
		}
	default:
		return nil, fmt.Errorf("unsupported queue vendor: %s", vendor)
	}
	queue, err := QueueOf[Event[any]](ret, "any")
	if err != nil {
		return nil, err
	}
	ret.publisher = NewPublisher[any](queue)
	return ret, nil
}

// SetListener replaces the catch-all listener observing every event.
func (s *Service) SetListener(handler func(*Event[any])) {
	if s.listener != nil {
		s.listener.Stop()
	}
	s.listener = NewListener[any](s.publisher, handler)
	s.listener.Start()
}

// QueueOf builds a vendor queue for the supplied payload type.
func QueueOf[T any](s *Service, name string) (messaging.Queue[T], error) {
	switch s.vendor {
	case "memory":
		return memory.NewQueue[T](s.memoryQueueConfig(name)), nil
	case "fs":
		return fs.NewQueue[T](afs.New(), s.fsQueueConfig(name))
	}
	return nil, fmt.Errorf("unsupported queue vendor: %s", s.vendor)
}

// PublisherOf returns the publisher keyed by the payload type, creating it
// on first use.
func PublisherOf[T any](s *Service) (*Publisher[T], error) {
	key := keyOf[T]()
	s.mux.RLock()
	existing, ok := s.typedPublishers[key]
	s.mux.RUnlock()
	if ok {
		return existing.(*Publisher[T]), nil
	}
	queue, err := QueueOf[Event[T]](s, key.String())
	if err != nil {
		return nil, err
	}
	publisher := NewPublisher[T](queue)
	publisher.anyQueue = s.publisher.queue
	s.mux.Lock()
	s.typedPublishers[key] = publisher
	s.mux.Unlock()
	return publisher, nil
}

// SetListenerOf replaces the listener for the supplied payload type.
func SetListenerOf[T any](s *Service, handler func(*Event[T])) error {
	key := keyOf[T]()
	s.mux.RLock()
	existing, ok := s.typedListeners[key]
	s.mux.RUnlock()
	if ok {
		existing.(*Listener[T]).Stop()
	}
	publisher, err := PublisherOf[T](s)
	if err != nil {
		return err
	}
	listener := NewListener[T](publisher, handler)
	s.mux.Lock()
	s.typedListeners[key] = listener
	s.mux.Unlock()
	listener.Start()
	return nil
}

func keyOf[T any]() reflect.Type {
	var t T
	rType := reflect.TypeOf(t)
	if rType != nil && rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	return rType
}
