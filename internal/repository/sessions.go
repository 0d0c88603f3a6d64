package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"collegeequity-workers/internal/models"
)

func sessionKey(id string) string          { return "session:" + id }
func userSessionsKey(userID string) string { return "user:sessions:" + userID }

// RedisSessionStore keeps each session under session:<id> with a TTL and indexes
// the ids per user so that all of a user's sessions can be revoked at once.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) CreateSession(ctx context.Context, user *models.User) (*models.Session, error) {
	now := time.Now().UTC()
	sess := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(sess.ID), data, s.ttl)
	pipe.SAdd(ctx, userSessionsKey(user.ID), sess.ID)
	pipe.Expire(ctx, userSessionsKey(user.ID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

func (s *RedisSessionStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	val, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal(val, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if sess.IsExpired() {
		return nil, ErrNotFound
	}
	return &sess, nil
}

// DeleteSession revokes one session. It reports false when the session does not exist or belongs to another user.
func (s *RedisSessionStore) DeleteSession(ctx context.Context, userID, sessionID string) (bool, error) {
	sess, err := s.GetSession(ctx, sessionID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if sess.UserID != userID {
		return false, nil
	}

	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, sessionKey(sessionID))
	pipe.SRem(ctx, userSessionsKey(userID), sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return del.Val() > 0, nil
}

// DeleteUserSessions revokes every session of userID and returns how many were live.
func (s *RedisSessionStore) DeleteUserSessions(ctx context.Context, userID string) (int, error) {
	ids, err := s.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}

	var removed int64
	if len(keys) > 0 {
		removed, err = s.client.Del(ctx, keys...).Result()
		if err != nil {
			return 0, fmt.Errorf("delete sessions: %w", err)
		}
	}
	if err := s.client.Del(ctx, userSessionsKey(userID)).Err(); err != nil {
		return int(removed), fmt.Errorf("delete session index: %w", err)
	}
	return int(removed), nil
}
