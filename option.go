package cascade

import (
	"time"

	"github.com/viant/afs/storage"
	"github.com/viant/cascade/model/types"
	"github.com/viant/cascade/runtime/planner"
	"github.com/viant/cascade/runtime/runner"
	"github.com/viant/cascade/service/dao/session"
	"github.com/viant/cascade/service/dao/taskset"
	"github.com/viant/cascade/service/event"
	"github.com/viant/cascade/service/meta"
	"github.com/viant/cascade/service/oracle"
	"github.com/viant/cascade/tracing"
	"github.com/viant/x"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the engine service
type Option func(s *Service)

// WithExtensionTypes sets the extension types
func WithExtensionTypes(types ...*x.Type) Option {
	return func(s *Service) {
		s.extensionTypes = types
	}
}

// WithExtensionServices sets the extension action services
func WithExtensionServices(services ...types.Service) Option {
	return func(s *Service) {
		s.extensionServices = services
	}
}

// WithEventService sets the event service; task results are published on it
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.eventService = service
	}
}

// WithMetaService sets the meta service
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) {
		s.metaService = service
	}
}

// WithTaskSetDAO sets the task set loader
func WithTaskSetDAO(dao *taskset.Service) Option {
	return func(s *Service) {
		s.runtime.taskSetDAO = dao
	}
}

// WithSessionStore sets the session store
func WithSessionStore(store session.Store) Option {
	return func(s *Service) {
		s.runtime.sessionStore = store
	}
}

// WithSessionTTL bounds how long finished sessions stay in the store
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.sessionTTL = ttl
	}
}

// WithOracle sets the planning oracle consulted before the static plan
func WithOracle(oracle planner.Oracle) Option {
	return func(s *Service) {
		s.oracle = oracle
	}
}

// WithOracleConfig configures the default LLM planning oracle
func WithOracleConfig(config *oracle.Config) Option {
	return func(s *Service) {
		s.oracleConfig = config
	}
}

// WithRunnerOptions lets the caller supply additional options passed to
// runner.New (e.g. bound task bodies or a result listener).
func WithRunnerOptions(opts ...runner.Option) Option {
	return func(s *Service) {
		s.runnerOptions = append(s.runnerOptions, opts...)
	}
}

// WithMaxConcurrency caps concurrent task bodies within a wave
func WithMaxConcurrency(limit int) Option {
	return func(s *Service) {
		s.maxConcurrency = limit
	}
}

// WithMetaBaseURL sets the meta base URL
func WithMetaBaseURL(url string) Option {
	return func(s *Service) {
		s.metaBaseURL = url
	}
}

// WithMetaFsOptions with meta file system options
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.metaFsOptions = options
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path. The function is
// safe to call multiple times, the first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter, for example
// OTLP, Jaeger or Zipkin. The function is safe to call multiple times, the first successful
// initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
