package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists sessions in Redis with a TTL equal to the session
// lifetime. All derived keys share the session TTL so nothing outlives
// the session that created it.
//
// Key layout:
//   session:{sid}          JSON session record
//   session:{sid}:checkin  check-in instant, epoch millis
//   session:{sid}:cache    hash of cached upstream responses
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) (*RedisStore, error) {
	if rdb == nil {
		return nil, errors.New("session: redis client is required")
	}
	if ttl <= 0 {
		return nil, errors.New("session: ttl must be > 0")
	}
	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

func sessionKey(sid string) string { return "session:" + sid }
func checkInKey(sid string) string { return "session:" + sid + ":checkin" }
func cacheKey(sid string) string   { return "session:" + sid + ":cache" }

func (s *RedisStore) Put(ctx context.Context, sid string, sess Session) error {
	if sid == "" {
		return ErrInvalidSession
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	return s.rdb.Set(ctx, sessionKey(sid), raw, s.ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, sid string) (Session, bool, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// A corrupt record is treated as absent; the next login overwrites it.
		return Session{}, false, nil
	}
	return sess, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return s.rdb.Del(ctx, sessionKey(sid), checkInKey(sid), cacheKey(sid)).Err()
}

func (s *RedisStore) SetCheckIn(ctx context.Context, sid string, at time.Time) error {
	if sid == "" {
		return ErrInvalidSession
	}
	millis := strconv.FormatInt(at.UnixMilli(), 10)
	return s.rdb.Set(ctx, checkInKey(sid), millis, s.ttl).Err()
}

func (s *RedisStore) CheckIn(ctx context.Context, sid string) (time.Time, bool, error) {
	raw, err := s.rdb.Get(ctx, checkInKey(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(millis), true, nil
}

func (s *RedisStore) ClearCheckIn(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, checkInKey(sid)).Err()
}

func (s *RedisStore) SetCache(ctx context.Context, sid, key, value string) error {
	if sid == "" || key == "" {
		return ErrInvalidSession
	}
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, cacheKey(sid), key, value)
	pipe.Expire(ctx, cacheKey(sid), s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Cache(ctx context.Context, sid, key string) (string, bool, error) {
	raw, err := s.rdb.HGet(ctx, cacheKey(sid), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return raw, true, nil
}

var _ Store = (*RedisStore)(nil)
