package operationtype

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// catalogKey holds the serialized List result. A single key suffices: the
// catalog is small and always read whole.
const catalogKey = "catalog:operation-types"

// DefaultCacheTTL bounds staleness when an invalidation is lost.
const DefaultCacheTTL = 5 * time.Minute

// CachedStore is a read-through cache in front of another Store. List serves
// from Redis when possible; Upsert and Insert write through and drop the
// cached listing. Redis failures degrade to the inner store rather than
// surfacing: the cache is an optimization, not a source of truth.
type CachedStore struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
}

func NewCachedStore(inner Store, client *redis.Client) *CachedStore {
	return &CachedStore{inner: inner, client: client, ttl: DefaultCacheTTL}
}

func (s *CachedStore) Upsert(ctx context.Context, ot *OperationType) (*OperationType, error) {
	saved, err := s.inner.Upsert(ctx, ot)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return saved, nil
}

func (s *CachedStore) Insert(ctx context.Context, ot *OperationType) (*OperationType, error) {
	saved, err := s.inner.Insert(ctx, ot)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return saved, nil
}

func (s *CachedStore) List(ctx context.Context) ([]*OperationType, error) {
	cached, err := s.client.Get(ctx, catalogKey).Bytes()
	if err == nil {
		var types []*OperationType
		if json.Unmarshal(cached, &types) == nil {
			return types, nil
		}
		// Undecodable payloads are dropped and refetched.
		s.invalidate(ctx)
	} else if !errors.Is(err, redis.Nil) {
		// Redis being down must not take the catalog with it.
		return s.inner.List(ctx)
	}

	types, err := s.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(types); err == nil {
		_ = s.client.Set(ctx, catalogKey, payload, s.ttl).Err()
	}
	return types, nil
}

func (s *CachedStore) invalidate(ctx context.Context) {
	_ = s.client.Del(ctx, catalogKey).Err()
}
