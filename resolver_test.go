package rivet_test

import (
	"testing"

	"github.com/okanite/rivet"
	"github.com/okanite/rivet/mock"
	"github.com/stretchr/testify/suite"
)

type ResolverTestSuite struct {
	suite.Suite
	resolver *rivet.Resolver
}

func (s *ResolverTestSuite) SetupTest() {
	mock.ResetCounters()
	s.resolver = rivet.NewResolver(mock.NewRegistry())
}

func (s *ResolverTestSuite) TestTrivialConstruction() {
	plain, err := rivet.Create[mock.Plain](s.resolver)
	s.NoError(err)
	s.Equal(mock.Plain{}, plain)

	ptr, err := rivet.Create[*mock.Plain](s.resolver)
	s.NoError(err)
	s.NotNil(ptr)
}

func (s *ResolverTestSuite) TestConstructorResolution() {
	svc, err := rivet.Create[*mock.Service](s.resolver)
	s.NoError(err)
	s.NotNil(svc)
	s.Equal("postgres://primary", svc.DB.DSN)
	s.Equal("localhost:6379", svc.Cache.Addr)
	s.EqualValues(1, mock.DatabaseCalls(), "database provider should run once per required parameter")
	s.EqualValues(1, mock.CacheCalls())
}

func (s *ResolverTestSuite) TestQualifiedResolution() {
	job, err := rivet.Create[*mock.ReportJob](s.resolver)
	s.NoError(err)
	s.Equal("postgres://primary", job.Primary.DSN)
	s.Equal("postgres://replica", job.Replica.DSN)
}

func (s *ResolverTestSuite) TestOptionalParameterAbsent() {
	log, err := rivet.Create[*mock.AuditLog](s.resolver)
	s.NoError(err)
	s.NotNil(log.DB)
	s.Nil(log.Logger, "optional parameter with no provider should be absent")
}

func (s *ResolverTestSuite) TestOptionalParameterFromReferrer() {
	log, err := rivet.CreateFor[*mock.AuditLog](s.resolver, &mock.AppRoot{})
	s.NoError(err)
	s.NotNil(log.Logger)
	s.Equal("debug", log.Logger.Level)
}

func (s *ResolverTestSuite) TestReferrerProvidersRegisterFirst() {
	svc, err := rivet.CreateFor[*mock.Service](s.resolver, &mock.OverrideRoot{})
	s.NoError(err)
	s.Equal("postgres://override", svc.DB.DSN)
	s.EqualValues(0, mock.DatabaseCalls(), "module provider should lose to the earlier referrer provider")
	s.EqualValues(1, mock.CacheCalls())
}

func (s *ResolverTestSuite) TestFieldPopulation() {
	gauge, err := rivet.Create[*mock.Gauge](s.resolver)
	s.NoError(err)
	s.Equal("postgres://primary", gauge.DB.DSN)
	s.Equal("postgres://replica", gauge.Replica.DSN)
	s.Nil(gauge.Trace, "field without a provider stays at its default")
	s.Equal("localhost:6379", gauge.CacheAddr(), "unexported field should be populated")
}

func (s *ResolverTestSuite) TestFieldPopulationOnValueInstance() {
	snap, err := rivet.Create[mock.Snapshot](s.resolver)
	s.NoError(err)
	s.NotNil(snap.DB)
	s.Equal("postgres://primary", snap.DB.DSN)
}

func (s *ResolverTestSuite) TestProviderRunsOncePerParameter() {
	pair, err := rivet.Create[*mock.Pair](s.resolver)
	s.NoError(err)
	s.EqualValues(2, mock.CacheCalls())
	s.NotSame(pair.Primary, pair.Secondary)
}

func (s *ResolverTestSuite) TestFirstSatisfiableConstructorWins() {
	pick, err := rivet.Create[*mock.Pick](s.resolver)
	s.NoError(err)
	s.Equal("database", pick.Source)
}

func (s *ResolverTestSuite) TestUnbindableConstructorSkipped() {
	wide, err := rivet.Create[*mock.Wide](s.resolver)
	s.NoError(err)
	s.True(wide.Slim, "constructor with an unresolvable required parameter should be skipped")
}

func (s *ResolverTestSuite) TestNoCachingAcrossCalls() {
	first, err := rivet.Create[*mock.Service](s.resolver)
	s.NoError(err)
	second, err := rivet.Create[*mock.Service](s.resolver)
	s.NoError(err)
	s.NotSame(first, second)
	s.NotSame(first.DB, second.DB)
	s.EqualValues(2, mock.DatabaseCalls())
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}
