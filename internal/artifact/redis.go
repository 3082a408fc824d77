package artifact

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists artifacts in Redis with a TTL, so chart images for
// a stale session expire on their own.
type RedisStore struct {
	cli *redis.Client
	ttl time.Duration
}

// RedisStoreConfig configures the Redis store
type RedisStoreConfig struct {
	// Client is the Redis client
	Client *redis.Client
	// TTL is the expiration time for artifact keys (0 = default)
	TTL time.Duration
}

// NewRedisStore creates a Redis-backed artifact store
func NewRedisStore(cfg *RedisStoreConfig) *RedisStore {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 30 * time.Minute
	}
	return &RedisStore{
		cli: cfg.Client,
		ttl: ttl,
	}
}

// NewRedisStoreFromURL creates a Redis store from connection URL
func NewRedisStoreFromURL(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	cli := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewRedisStore(&RedisStoreConfig{
		Client: cli,
		TTL:    ttl,
	}), nil
}

func (s *RedisStore) artifactKey(sessionID, name string) string {
	return "artifact:" + sessionID + ":" + name
}

func (s *RedisStore) indexKey(sessionID string) string {
	return "artifact:" + sessionID + ":__names"
}

// Save stores an artifact and records its name in the session index
func (s *RedisStore) Save(ctx context.Context, sessionID, name string, data []byte) error {
	if err := s.cli.Set(ctx, s.artifactKey(sessionID, name), data, s.ttl).Err(); err != nil {
		return err
	}
	if err := s.cli.SAdd(ctx, s.indexKey(sessionID), name).Err(); err != nil {
		return err
	}
	return s.cli.Expire(ctx, s.indexKey(sessionID), s.ttl).Err()
}

// Load returns the artifact bytes
func (s *RedisStore) Load(ctx context.Context, sessionID, name string) ([]byte, error) {
	res, err := s.cli.Get(ctx, s.artifactKey(sessionID, name)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Delete removes all artifacts for a session
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	names, err := s.cli.SMembers(ctx, s.indexKey(sessionID)).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	keys := make([]string, 0, len(names)+1)
	for _, name := range names {
		keys = append(keys, s.artifactKey(sessionID, name))
	}
	keys = append(keys, s.indexKey(sessionID))
	return s.cli.Del(ctx, keys...).Err()
}
