// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKeyPrefix is prepended to all keys the RedisStore writes.
const RedisKeyPrefix = "city-weather::geocode::"

// RedisStore keeps geocoding results in Redis so several server instances share them.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Get(ctx context.Context, key string) (Address, bool, error) {
	var addr Address
	data, err := r.client.Get(ctx, RedisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return addr, false, nil
	}
	if err != nil {
		return addr, false, fmt.Errorf("failed to get key from redis: %w", err)
	}
	if err = json.Unmarshal(data, &addr); err != nil {
		return addr, false, fmt.Errorf("failed to unmarshal cached address: %w", err)
	}
	return addr, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, addr Address, ttl time.Duration) error {
	addr.CacheHit = false
	data, err := json.Marshal(addr)
	if err != nil {
		return fmt.Errorf("failed to marshal address: %w", err)
	}
	if err = r.client.Set(ctx, RedisKeyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key in redis: %w", err)
	}
	return nil
}

// Ping checks the connection to the Redis server.
func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

// Close releases the connection to the Redis server.
func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}
	return nil
}
