package types

// Service exposes named methods that task declarations can bind to as
// bodies. Implementations return struct signatures so inputs can be built
// and coerced before invocation.
type Service interface {
	Name() string
	Methods() Signatures
	Method(name string) (Executable, error)
}

// Proxy wraps a base service, used to decorate bodies with cross-cutting
// behaviour such as tracing
type Proxy func(base Service) Service
