package browse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "ormchart:browse:"

// RedisSessionStore keeps sessions in redis. Each access refreshes the ttl.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		rdb: rdb,
		ttl: ttl,
	}
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (Session, error) {
	key := sessionKeyPrefix + id
	val, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, fmt.Errorf("get session %s: %w", id, err)
	}

	var session Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return Session{}, fmt.Errorf("unmarshal session %s: %w", id, err)
	}

	if err := s.rdb.Expire(ctx, key, s.ttl).Err(); err != nil {
		return Session{}, fmt.Errorf("refresh session %s: %w", id, err)
	}

	return session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session Session) error {
	sessionJson, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", session.ID, err)
	}
	if err := s.rdb.Set(ctx, sessionKeyPrefix+session.ID, string(sessionJson), s.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", session.ID, err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	deleted, err := s.rdb.Del(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if deleted == 0 {
		return ErrSessionNotFound
	}
	return nil
}
