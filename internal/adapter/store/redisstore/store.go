package redisstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"loanverse/internal/domain/store"
)

const keyPrefix = "loanverse:doc:"

// Store persists whole documents as redis string values, one key per
// document, no expiry.
type Store struct{ rdb *redis.Client }

func New(rdb *redis.Client) *Store { return &Store{rdb: rdb} }

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	v, err := s.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Store) Save(ctx context.Context, key string, doc []byte) error {
	return s.rdb.Set(ctx, keyPrefix+key, doc, 0).Err()
}
