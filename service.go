package cascade

import (
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/cascade/extension"
	"github.com/viant/cascade/model/types"
	"github.com/viant/cascade/runtime/planner"
	"github.com/viant/cascade/runtime/runner"
	ainput "github.com/viant/cascade/service/action/input"
	"github.com/viant/cascade/service/action/nop"
	aplan "github.com/viant/cascade/service/action/plan"
	"github.com/viant/cascade/service/action/printer"
	aexec "github.com/viant/cascade/service/action/system/exec"
	asecret "github.com/viant/cascade/service/action/system/secret"
	astorage "github.com/viant/cascade/service/action/system/storage"
	"github.com/viant/cascade/service/dao/session"
	smemory "github.com/viant/cascade/service/dao/session/memory"
	"github.com/viant/cascade/service/dao/taskset"
	"github.com/viant/cascade/service/event"
	"github.com/viant/cascade/service/meta"
	"github.com/viant/cascade/service/oracle"
	"github.com/viant/x"
)

// Service is the engine facade: it owns the action registry, the task set
// loader, the session store and the planning oracle, and hands out a Runtime
// for starting runs.
type Service struct {
	runtime           *Runtime
	metaService       *meta.Service
	actions           *extension.Actions
	extensionTypes    []*x.Type
	extensionServices []types.Service
	eventService      *event.Service
	oracle            planner.Oracle
	oracleConfig      *oracle.Config
	runnerOptions     []runner.Option
	maxConcurrency    int
	sessionTTL        time.Duration
	metaBaseURL       string
	metaFsOptions     []storage.Option
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()
	s.actions = extension.NewActions(s.extensionTypes...)
	s.actions.Register(printer.New())
	s.actions.Register(nop.New())
	s.actions.Register(aexec.New())
	s.actions.Register(astorage.New())
	s.actions.Register(asecret.New())
	s.actions.Register(ainput.New())
	s.actions.Register(aplan.New(
		aplan.WithOracle(s.oracle),
		aplan.WithTaskSetDao(s.runtime.taskSetDAO)))
	for _, service := range s.extensionServices {
		s.actions.Register(service)
	}
	s.runtime.actions = s.actions
	s.runtime.oracle = s.oracle
	s.runtime.events = s.eventService
	s.runtime.runnerOptions = s.runnerOptions
	s.runtime.maxConcurrency = s.maxConcurrency
	s.runtime.sessionTTL = s.sessionTTL
}

func (s *Service) ensureBaseSetup() {
	if s.metaService == nil {
		s.metaService = meta.New(afs.New(), s.metaBaseURL, s.metaFsOptions...)
	}
	if s.runtime.taskSetDAO == nil {
		s.runtime.taskSetDAO = taskset.New(taskset.WithMetaService(s.metaService))
	}
	if s.runtime.sessionStore == nil {
		s.runtime.sessionStore = smemory.New(smemory.WithDefaultTTL(s.sessionTTL))
	}
	if s.oracle == nil && s.oracleConfig != nil {
		s.oracle = oracle.New(s.oracleConfig)
	}
}

// RegisterExtensionTypes registers additional input and output types
func (s *Service) RegisterExtensionTypes(types ...*x.Type) {
	for i := range types {
		s.actions.Types().Register(types[i])
	}
}

// RegisterExtensionServices registers additional action services
func (s *Service) RegisterExtensionServices(services ...types.Service) {
	for i := range services {
		s.actions.Register(services[i])
	}
}

// Runtime returns the engine runtime
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// SessionStore returns the configured session store
func (s *Service) SessionStore() session.Store {
	return s.runtime.sessionStore
}

// New creates the engine service
func New(options ...Option) *Service {
	ret := &Service{runtime: &Runtime{}}
	ret.init(options)
	return ret
}
