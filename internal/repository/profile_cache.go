package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"collegeequity-workers/internal/common/logger"
	"collegeequity-workers/internal/models"
)

func profileKey(userID string) string { return "user:profile:" + userID }

// RedisProfileCache caches student profiles as JSON under user:profile:<id>.
type RedisProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProfileCache(client *redis.Client, ttl time.Duration) *RedisProfileCache {
	return &RedisProfileCache{client: client, ttl: ttl}
}

// Get returns ErrNotFound on a cache miss.
func (c *RedisProfileCache) Get(ctx context.Context, userID string) (*models.StudentProfile, error) {
	val, err := c.client.Get(ctx, profileKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var p models.StudentProfile
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return nil, fmt.Errorf("decode cached profile: %w", err)
	}
	return &p, nil
}

func (c *RedisProfileCache) Set(ctx context.Context, userID string, profile *models.StudentProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, profileKey(userID), string(data), c.ttl).Err()
}

func (c *RedisProfileCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, profileKey(userID)).Err()
}

// ProfileStore reads profiles through the cache and writes them to the repository,
// dropping the cached copy on every write. Cache failures are logged and never fail a call.
type ProfileStore struct {
	users  UserRepository
	cache  ProfileCache
	logger logger.Logger
}

// NewProfileStore builds a store; cache may be nil.
func NewProfileStore(users UserRepository, cache ProfileCache, log logger.Logger) *ProfileStore {
	return &ProfileStore{users: users, cache: cache, logger: log}
}

func (s *ProfileStore) Load(ctx context.Context, userID string) (*models.StudentProfile, error) {
	if s.cache != nil {
		if p, err := s.cache.Get(ctx, userID); err == nil {
			return p, nil
		} else if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("profile cache read failed", map[string]interface{}{
				"userId": userID,
				"error":  err.Error(),
			})
		}
	}

	p, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, p); err != nil {
			s.logger.Warn("profile cache write failed", map[string]interface{}{
				"userId": userID,
				"error":  err.Error(),
			})
		}
	}
	return p, nil
}

func (s *ProfileStore) Save(ctx context.Context, userID string, profile models.StudentProfile) error {
	if err := s.users.UpdateProfile(ctx, userID, profile); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.logger.Warn("profile cache invalidation failed", map[string]interface{}{
				"userId": userID,
				"error":  err.Error(),
			})
		}
	}
	return nil
}
