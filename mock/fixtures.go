package mock

// Shared fixture types for resolver tests: provided values, module
// types with provider methods, capability interfaces carrying component
// declarations, and the target types built from them.

import (
	"errors"
	"reflect"
	"sync/atomic"

	"github.com/okanite/rivet"
)

// Provided value types.

type Database struct {
	DSN string
}

type Cache struct {
	Addr string
}

type Logger struct {
	Level string
}

type Token struct {
	Value string
}

// Provider invocation counters, reset per test.

var (
	databaseCalls atomic.Int32
	replicaCalls  atomic.Int32
	cacheCalls    atomic.Int32
)

func ResetCounters() {
	databaseCalls.Store(0)
	replicaCalls.Store(0)
	cacheCalls.Store(0)
}

func DatabaseCalls() int32 { return databaseCalls.Load() }
func ReplicaCalls() int32  { return replicaCalls.Load() }
func CacheCalls() int32    { return cacheCalls.Load() }

// Capability interfaces. Each carries one component declaration in the
// registry built by NewRegistry.

type UsesInfra interface{ usesInfra() }

type UsesReplica interface{ usesReplica() }

type UsesBrokenInfra interface{ usesBrokenInfra() }

type UsesPanicInfra interface{ usesPanicInfra() }

type LoopsForever interface{ loopsForever() }

// Modules.

// InfraModule provides the primary database and the cache.
type InfraModule struct{}

func (m *InfraModule) ProvideDatabase() *Database {
	databaseCalls.Add(1)
	return &Database{DSN: "postgres://primary"}
}

func (m *InfraModule) ProvideCache() *Cache {
	cacheCalls.Add(1)
	return &Cache{Addr: "localhost:6379"}
}

// ReplicaModule provides the read replica under the "replica" qualifier.
type ReplicaModule struct{}

func (m *ReplicaModule) ProvideReplica() *Database {
	replicaCalls.Add(1)
	return &Database{DSN: "postgres://replica"}
}

// BrokenModule fails its own construction.
type BrokenModule struct{}

func NewBrokenModule() (*BrokenModule, error) {
	return nil, errors.New("infra offline")
}

func (m *BrokenModule) ProvideToken() *Token {
	return &Token{Value: "never"}
}

// PanicModule constructs fine but panics when its provider runs.
type PanicModule struct{}

func (m *PanicModule) ProvideToken() *Token {
	panic("token store offline")
}

// Targets.

// Plain has no injection metadata at all.
type Plain struct {
	Value int
}

// Service takes the primary database and the cache.
type Service struct {
	DB    *Database
	Cache *Cache
}

func NewService(db *Database, c *Cache) *Service {
	return &Service{DB: db, Cache: c}
}

func (*Service) usesInfra() {}

// ReportJob disambiguates two databases by qualifier.
type ReportJob struct {
	Primary *Database
	Replica *Database
}

func NewReportJob(primary, replica *Database) *ReportJob {
	return &ReportJob{Primary: primary, Replica: replica}
}

func (*ReportJob) usesInfra()   {}
func (*ReportJob) usesReplica() {}

// AuditLog has an optional logger dependency no module provides.
type AuditLog struct {
	DB     *Database
	Logger *Logger
}

func NewAuditLog(db *Database, logger *Logger) *AuditLog {
	return &AuditLog{DB: db, Logger: logger}
}

func (*AuditLog) usesInfra() {}

// Pair needs the same provider for two parameters.
type Pair struct {
	Primary   *Cache
	Secondary *Cache
}

func NewPair(a, b *Cache) *Pair {
	return &Pair{Primary: a, Secondary: b}
}

func (*Pair) usesInfra() {}

// Pick declares two satisfiable constructors; the first must win.
type Pick struct {
	Source string
}

func NewPickDatabase(db *Database) *Pick {
	return &Pick{Source: "database"}
}

func NewPickCache(c *Cache) *Pick {
	return &Pick{Source: "cache"}
}

func (*Pick) usesInfra() {}

// Wide's first constructor cannot be bound; the second can.
type Wide struct {
	Slim bool
}

func NewWideFull(db *Database, l *Logger) *Wide {
	return &Wide{Slim: false}
}

func NewWideSlim(db *Database) *Wide {
	return &Wide{Slim: true}
}

func (*Wide) usesInfra() {}

// Flaky's first constructor binds but fails; the fallback must not run.
type Flaky struct {
	Fallback bool
}

func NewFlaky(db *Database) (*Flaky, error) {
	return nil, errors.New("flaky init failed")
}

func NewFlakyFallback() *Flaky {
	return &Flaky{Fallback: true}
}

func (*Flaky) usesInfra() {}

// Gauge is populated through fields, including an unexported one.
type Gauge struct {
	DB      *Database `inject:""`
	Replica *Database `inject:"" name:"replica"`
	Trace   *Logger   `inject:"" optional:"true"`
	cache   *Cache    `inject:""`
}

func NewGauge() *Gauge {
	return &Gauge{}
}

func (g *Gauge) CacheAddr() string {
	if g.cache == nil {
		return ""
	}
	return g.cache.Addr
}

func (*Gauge) usesInfra()   {}
func (*Gauge) usesReplica() {}

// Snapshot is built by value; field population must still stick.
type Snapshot struct {
	DB *Database `inject:""`
}

func NewSnapshot() Snapshot {
	return Snapshot{}
}

func (Snapshot) usesInfra() {}

// Bare has an injectable field but no injectable constructor.
type Bare struct {
	DB *Database `inject:""`
}

// BrokenTokenHolder depends on a module that cannot be constructed.
type BrokenTokenHolder struct {
	Token *Token
}

func NewBrokenTokenHolder(t *Token) *BrokenTokenHolder {
	return &BrokenTokenHolder{Token: t}
}

func (*BrokenTokenHolder) usesBrokenInfra() {}

// PanicTokenHolder depends on a provider that panics.
type PanicTokenHolder struct {
	Token *Token
}

func NewPanicTokenHolder(t *Token) *PanicTokenHolder {
	return &PanicTokenHolder{Token: t}
}

func (*PanicTokenHolder) usesPanicInfra() {}

// ShoutingJob wants the replica database under the wrong casing;
// qualifier matching is case-sensitive, so it cannot be built.
type ShoutingJob struct{}

func NewShoutingJob(db *Database) *ShoutingJob {
	return &ShoutingJob{}
}

func (*ShoutingJob) usesInfra()   {}
func (*ShoutingJob) usesReplica() {}

// Idle declares a component over a broken module but nothing injectable:
// trivial construction must succeed without touching the module.
type Idle struct{}

func (*Idle) usesBrokenInfra() {}

// Loop names itself as one of its own component modules.
type Loop struct{}

func NewLoop() *Loop {
	return &Loop{}
}

func (*Loop) loopsForever() {}

// Referrers.

// AppRoot supplies a logger from the root instance itself.
type AppRoot struct{}

func (r *AppRoot) ProvideLogger() *Logger {
	return &Logger{Level: "debug"}
}

// OverrideRoot shadows the module-provided database; referrer providers
// register ahead of module providers.
type OverrideRoot struct{}

func (r *OverrideRoot) ProvideDatabase() *Database {
	return &Database{DSN: "postgres://override"}
}

// NewRegistry builds the registry shared by the resolver tests.
// Registration failures here are programming errors in the fixtures.
func NewRegistry() *rivet.Registry {
	reg := rivet.NewRegistry()

	mustRegister(reg, rivet.TypeSpec{
		Type: rivet.TypeOf[*InfraModule](),
		Providers: []rivet.ProviderSpec{
			{Method: "ProvideDatabase", Name: "primary"},
			{Method: "ProvideCache"},
		},
	})
	mustRegister(reg, rivet.TypeSpec{
		Type: rivet.TypeOf[*ReplicaModule](),
		Providers: []rivet.ProviderSpec{
			{Method: "ProvideReplica", Name: "replica"},
		},
	})
	mustRegister(reg, rivet.TypeSpec{
		Type:         rivet.TypeOf[*BrokenModule](),
		Constructors: []rivet.ConstructorSpec{{Func: NewBrokenModule}},
		Providers:    []rivet.ProviderSpec{{Method: "ProvideToken"}},
	})
	mustRegister(reg, rivet.TypeSpec{
		Type:      rivet.TypeOf[*PanicModule](),
		Providers: []rivet.ProviderSpec{{Method: "ProvideToken"}},
	})

	mustRegister(reg, rivet.TypeSpec{
		Type:         rivet.TypeOf[*Service](),
		Constructors: []rivet.ConstructorSpec{{Func: NewService}},
	})
	mustRegister(reg, rivet.TypeSpec{
		Type: rivet.TypeOf[*ReportJob](),
		Constructors: []rivet.ConstructorSpec{{
			Func:   NewReportJob,
			Params: []rivet.ParamSpec{{Name: "primary"}, {Name: "replica"}},
		}},
	})
	mustRegister(reg, rivet.TypeSpec{
		Type: rivet.TypeOf[*AuditLog](),
		Constructors: []rivet.ConstructorSpec{{
			Func:   NewAuditLog,
			Params: []rivet.ParamSpec{{}, {Optional: true}},
		}},
	})
	mustRegister(reg, rivet.TypeSpec{
		Type:         rivet.TypeOf[*Pair](),
		Constructors: []rivet.ConstructorSpec{{Func: NewPair}},
	})
	mustRegister(reg, rivet.TypeSpec{
		Type: rivet.TypeOf[*Pick](),
		Constructors: []rivet.ConstructorSpec{
			{Func: NewPickDatabase},
			{Func: NewPickCache},
		},
	})
	mustRegister(reg, rivet.TypeSpec{
		Type: rivet.TypeOf[*Wide](),
		Constructors: []rivet.ConstructorSpec{
			{Func: NewWideFull},
			{Func: NewWideSlim},
		},
	})
	mustRegister(reg, rivet.TypeSpec{
		Type: rivet.TypeOf[*Flaky](),
		Constructors: []rivet.ConstructorSpec{
			{Func: NewFlaky},
			{Func: NewFlakyFallback},
		},
	})
	mustRegister(reg, rivet.TypeSpec{
		Type:         rivet.TypeOf[*Gauge](),
		Constructors: []rivet.ConstructorSpec{{Func: NewGauge}},
	})
	mustRegister(reg, rivet.TypeSpec{
		Type:         rivet.TypeOf[Snapshot](),
		Constructors: []rivet.ConstructorSpec{{Func: NewSnapshot}},
	})
	mustRegister(reg, rivet.TypeSpec{
		Type:         rivet.TypeOf[*BrokenTokenHolder](),
		Constructors: []rivet.ConstructorSpec{{Func: NewBrokenTokenHolder}},
	})
	mustRegister(reg, rivet.TypeSpec{
		Type:         rivet.TypeOf[*PanicTokenHolder](),
		Constructors: []rivet.ConstructorSpec{{Func: NewPanicTokenHolder}},
	})
	mustRegister(reg, rivet.TypeSpec{
		Type: rivet.TypeOf[*ShoutingJob](),
		Constructors: []rivet.ConstructorSpec{{
			Func:   NewShoutingJob,
			Params: []rivet.ParamSpec{{Name: "REPLICA"}},
		}},
	})
	mustRegister(reg, rivet.TypeSpec{
		Type:         rivet.TypeOf[*Loop](),
		Constructors: []rivet.ConstructorSpec{{Func: NewLoop}},
	})

	mustRegister(reg, rivet.TypeSpec{
		Type:      rivet.TypeOf[*AppRoot](),
		Providers: []rivet.ProviderSpec{{Method: "ProvideLogger"}},
	})
	mustRegister(reg, rivet.TypeSpec{
		Type:      rivet.TypeOf[*OverrideRoot](),
		Providers: []rivet.ProviderSpec{{Method: "ProvideDatabase", Name: "primary"}},
	})

	mustComponent(reg, rivet.TypeOf[UsesInfra](), rivet.TypeOf[*InfraModule]())
	mustComponent(reg, rivet.TypeOf[UsesReplica](), rivet.TypeOf[*ReplicaModule]())
	mustComponent(reg, rivet.TypeOf[UsesBrokenInfra](), rivet.TypeOf[*BrokenModule]())
	mustComponent(reg, rivet.TypeOf[UsesPanicInfra](), rivet.TypeOf[*PanicModule]())
	mustComponent(reg, rivet.TypeOf[LoopsForever](), rivet.TypeOf[*Loop]())

	return reg
}

func mustRegister(reg *rivet.Registry, spec rivet.TypeSpec) {
	if err := reg.RegisterType(spec); err != nil {
		panic(err)
	}
}

func mustComponent(reg *rivet.Registry, iface reflect.Type, modules ...reflect.Type) {
	if err := reg.RegisterComponent(iface, modules...); err != nil {
		panic(err)
	}
}
