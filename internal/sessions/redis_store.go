package sessions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/diewo77/ai-talent-hub/auth"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps sessions as JSON values that expire with the session.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(opts RedisOptions) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &RedisStore{client: client, now: time.Now}
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Create(ctx context.Context, sess auth.Session) error {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+sess.Token, data, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, token string) (auth.Session, error) {
	val, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if err == redis.Nil {
		return auth.Session{}, auth.ErrSessionNotFound
	}
	if err != nil {
		return auth.Session{}, err
	}
	var sess auth.Session
	if err := json.Unmarshal(val, &sess); err != nil {
		return auth.Session{}, err
	}
	return sess, nil
}

func (s *RedisStore) Touch(ctx context.Context, token string, expiresAt time.Time) error {
	sess, err := s.Get(ctx, token)
	if err != nil {
		return err
	}
	sess.ExpiresAt = expiresAt
	return s.Create(ctx, sess)
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, keyPrefix+token).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
