package statestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"autoscaler/internal/errs"
)

// RedisStore implements Store against a single Redis instance, grounded
// on the teacher's pkg/redis_helpers (connector setup, SCAN-based prefix
// listing) and internal/control_plane/persistence (SET ... EX semantics).
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrPersistence, err)
	}

	logrus.Infof("connected to state store at %s", addr)

	return &RedisStore{client: client}, nil
}

func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrPersistence, err)
	}

	return v, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl int64) error {
	err := r.client.Set(ctx, key, value, time.Duration(ttl)*time.Second).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrPersistence, err)
	}

	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrPersistence, err)
	}

	return nil
}

// Scan iterates SCAN MATCH prefix* to completion, following the teacher's
// ScanKeys helper.
func (r *RedisStore) Scan(ctx context.Context, prefix string) ([]string, error) {
	var (
		cursor uint64
		output = make([]string, 0)
	)

	for {
		keys, next, err := r.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrPersistence, err)
		}

		output = append(output, keys...)
		cursor = next

		if cursor == 0 {
			break
		}
	}

	return output, nil
}
