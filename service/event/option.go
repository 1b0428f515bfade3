package event

import (
	"github.com/viant/cascade/service/messaging/fs"
	"github.com/viant/cascade/service/messaging/memory"
)

// Option customises the event service.
type Option func(s *Service)

// WithFsQueueConfig supplies per-queue filesystem spool configuration for
// the "fs" vendor.
func WithFsQueueConfig(newConfig func(name string) fs.Config) Option {
	return func(s *Service) {
		s.fsQueueConfig = newConfig
	}
}

// WithMemoryQueueConfig supplies per-queue configuration for the "memory"
// vendor.
func WithMemoryQueueConfig(newConfig func(name string) memory.Config) Option {
	return func(s *Service) {
		s.memoryQueueConfig = newConfig
	}
}
