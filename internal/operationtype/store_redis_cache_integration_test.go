//go:build integration

package operationtype

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"clinica/pkg/domain"
	"clinica/pkg/testutil/containers"
)

type CachedStoreSuite struct {
	suite.Suite
	ctx   context.Context
	redis *containers.RedisContainer
	inner *InMemoryStore
	store *CachedStore
}

func TestCachedStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	suite.Run(t, new(CachedStoreSuite))
}

func (s *CachedStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *CachedStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
	s.inner = NewInMemoryStore()
	s.store = NewCachedStore(s.inner, s.redis.Client)
}

func (s *CachedStoreSuite) entry(code string) *OperationType {
	ot, err := New(code, code, domain.MustMoney("50.00", "EUR"))
	s.Require().NoError(err)
	return ot
}

func (s *CachedStoreSuite) TestListPopulatesCache() {
	_, err := s.store.Upsert(s.ctx, s.entry("SURGERY"))
	s.Require().NoError(err)

	types, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(types, 1)

	cached, err := s.redis.Client.Exists(s.ctx, catalogKey).Result()
	s.Require().NoError(err)
	s.EqualValues(1, cached)

	// A second read is served from Redis even if the inner store changes
	// underneath the cache.
	_, err = s.inner.Upsert(s.ctx, s.entry("TREATMENT"))
	s.Require().NoError(err)

	types, err = s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Len(types, 1)
}

func (s *CachedStoreSuite) TestWritesInvalidate() {
	_, err := s.store.Upsert(s.ctx, s.entry("SURGERY"))
	s.Require().NoError(err)
	_, err = s.store.List(s.ctx)
	s.Require().NoError(err)

	_, err = s.store.Insert(s.ctx, s.entry("TREATMENT"))
	s.Require().NoError(err)

	cached, err := s.redis.Client.Exists(s.ctx, catalogKey).Result()
	s.Require().NoError(err)
	s.EqualValues(0, cached)

	types, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Len(types, 2)
}

func (s *CachedStoreSuite) TestUndecodablePayloadIsRefetched() {
	_, err := s.store.Upsert(s.ctx, s.entry("SURGERY"))
	s.Require().NoError(err)
	s.Require().NoError(s.redis.Client.Set(s.ctx, catalogKey, "not-json", 0).Err())

	types, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Len(types, 1)
}
