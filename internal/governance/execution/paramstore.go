package execution

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/models"
	"github.com/realassetcoin-RAC/ignite-rewards/pkg/platform/sentinel"
)

// ParamStore holds the live platform configuration that approved changes
// write into. Readers are the platform services themselves; this package
// only writes.
type ParamStore interface {
	SetParameter(ctx context.Context, domain models.Domain, parameter, value string) error
	GetParameter(ctx context.Context, domain models.Domain, parameter string) (string, error)
}

type paramKey struct {
	domain    models.Domain
	parameter string
}

// InMemoryParamStore backs dev mode and tests.
type InMemoryParamStore struct {
	mu     sync.RWMutex
	params map[paramKey]string
}

func NewInMemoryParamStore() *InMemoryParamStore {
	return &InMemoryParamStore{params: make(map[paramKey]string)}
}

func (s *InMemoryParamStore) SetParameter(_ context.Context, domain models.Domain, parameter, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params[paramKey{domain, parameter}] = value
	return nil
}

func (s *InMemoryParamStore) GetParameter(_ context.Context, domain models.Domain, parameter string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.params[paramKey{domain, parameter}]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return value, nil
}

// Redis key prefix for applied configuration parameters
const paramKeyPrefix = "config:"

// RedisParamStore is the production parameter store. Platform services read
// config:{domain}:{parameter} keys directly.
type RedisParamStore struct {
	client *redis.Client
}

func NewRedisParamStore(client *redis.Client) *RedisParamStore {
	return &RedisParamStore{client: client}
}

func (s *RedisParamStore) SetParameter(ctx context.Context, domain models.Domain, parameter, value string) error {
	if err := s.client.Set(ctx, redisParamKey(domain, parameter), value, 0).Err(); err != nil {
		return fmt.Errorf("set parameter %s: %w", parameter, err)
	}
	return nil
}

func (s *RedisParamStore) GetParameter(ctx context.Context, domain models.Domain, parameter string) (string, error) {
	value, err := s.client.Get(ctx, redisParamKey(domain, parameter)).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get parameter %s: %w", parameter, err)
	}
	return value, nil
}

func redisParamKey(domain models.Domain, parameter string) string {
	return paramKeyPrefix + domain.String() + ":" + parameter
}
