// Package cache is a thin redis-backed read cache. The only entity
// cached by the core is the risk profile: profiles are recomputed
// wholesale and read far more often than written, so a stale read is
// at worst one evaluation behind and never corrupt.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lendcore/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Service wraps a redis client with JSON serialization and a default
// TTL.
type Service struct {
	client *redis.Client
	ttl    time.Duration
}

// NewService creates a cache service with a default TTL.
func NewService(client *redis.Client, defaultTTL time.Duration) *Service {
	return &Service{client: client, ttl: defaultTTL}
}

func (s *Service) set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

func (s *Service) get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache value: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return nil
}

// Delete removes keys.
func (s *Service) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// FlushAll clears the cache.
func (s *Service) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func riskProfileKey(borrowerID uint) string {
	return fmt.Sprintf("risk:profile:%d", borrowerID)
}

// CacheRiskProfile stores a borrower's risk profile.
func (s *Service) CacheRiskProfile(ctx context.Context, profile *models.RiskProfile) error {
	if profile == nil {
		return errors.New("cannot cache nil profile")
	}
	return s.set(ctx, riskProfileKey(profile.BorrowerID), profile)
}

// GetRiskProfile returns a cached risk profile or ErrCacheMiss.
func (s *Service) GetRiskProfile(ctx context.Context, borrowerID uint) (*models.RiskProfile, error) {
	var p models.RiskProfile
	if err := s.get(ctx, riskProfileKey(borrowerID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// InvalidateRiskProfile drops a borrower's cached profile.
func (s *Service) InvalidateRiskProfile(ctx context.Context, borrowerID uint) error {
	return s.Delete(ctx, riskProfileKey(borrowerID))
}
