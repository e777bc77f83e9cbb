package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"retail-console/internal/domain"
)

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis returns a Store backed by Redis. Sessions live under
// "session:<id>" with the configured TTL; each write refreshes it.
func NewRedis(addr string, ttl time.Duration) (Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &redisStore{client: client, ttl: ttl}, nil
}

func key(id string) string { return "session:" + id }

func (r *redisStore) Create(ctx context.Context, s Session) (Session, error) {
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now().UTC()

	buf, err := json.Marshal(s)
	if err != nil {
		return Session{}, fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, key(s.ID), buf, r.ttl).Err(); err != nil {
		return Session{}, fmt.Errorf("store session: %w", err)
	}
	return s, nil
}

func (r *redisStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := r.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (r *redisStore) SetCartID(ctx context.Context, id string, cartID int64) error {
	s, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	s.CartID = cartID
	buf, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return r.client.Set(ctx, key(id), buf, r.ttl).Err()
}

func (r *redisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, key(id)).Err()
}
