package redisstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"sitewatch/internal/domain"
	"sitewatch/internal/session"
)

// Store keeps the session record in Redis, for deployments where
// several instances of the client should share one signed-in session.
type Store struct {
	client *redis.Client
	prefix string
}

func New(addr, prefix string) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		prefix: prefix,
	}
}

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) SaveUser(ctx context.Context, u *domain.User) error {
	b, err := session.EncodeUser(u)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+session.KeyUser, b, 0).Err()
}

func (s *Store) LoadUser(ctx context.Context) (*domain.User, error) {
	val, err := s.client.Get(ctx, s.prefix+session.KeyUser).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return session.DecodeUser(val), nil
}

func (s *Store) SetAuthenticated(ctx context.Context, v bool) error {
	val := "false"
	if v {
		val = "true"
	}
	return s.client.Set(ctx, s.prefix+session.KeyAuthenticated, val, 0).Err()
}

func (s *Store) Authenticated(ctx context.Context) (bool, error) {
	val, err := s.client.Get(ctx, s.prefix+session.KeyAuthenticated).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return val == "true", nil
}

func (s *Store) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.prefix+session.KeyUser, s.prefix+session.KeyAuthenticated).Err()
}
