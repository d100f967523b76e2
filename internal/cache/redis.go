package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/fjod/go_food/internal/domain"
	"github.com/redis/go-redis/v9"
)

// versionTTL outlives any cart entry so a version never resets while its cart is cached.
const versionTTL = time.Hour

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisCache) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart
	if err := r.getJSON(ctx, cartKey(userID), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r RedisCache) Version(ctx context.Context, userID string) (int64, error) {
	v, err := r.client.Get(ctx, cartVersionKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get version failed: %w", err)
	}
	return v, nil
}

// SetIfVersion stores the cart under WATCH on the version key.
func (r RedisCache) SetIfVersion(ctx context.Context, userID string, cart *domain.Cart, version int64) error {
	key := cartKey(userID)
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}

	verKey := cartVersionKey(userID)
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, errGet := tx.Get(ctx, verKey).Int64()
		if errGet != nil && !errors.Is(errGet, redis.Nil) {
			return errGet
		}
		if current != version {
			return ErrStaleFill
		}
		_, errExec := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, string(data), r.ttl())
			return nil
		})
		return errExec
	}, verKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrStaleFill), errors.Is(err, redis.TxFailedErr):
		return ErrStaleFill
	default:
		return fmt.Errorf("redis set failed: %w", err)
	}
}

// Delete drops the cart and bumps its version in one transaction.
func (r RedisCache) Delete(ctx context.Context, userID string) error {
	verKey := cartVersionKey(userID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, cartKey(userID))
		pipe.Incr(ctx, verKey)
		pipe.Expire(ctx, verKey, versionTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r RedisCache) GetFood(ctx context.Context, foodID string) (*domain.Food, error) {
	var food domain.Food
	if err := r.getJSON(ctx, foodKey(foodID), &food); err != nil {
		return nil, err
	}
	return &food, nil
}

func (r RedisCache) SetFood(ctx context.Context, food *domain.Food) error {
	return r.setJSON(ctx, foodKey(food.ID), food)
}

func (r RedisCache) DeleteFood(ctx context.Context, foodID string) error {
	return r.del(ctx, foodKey(foodID))
}

func (r RedisCache) getJSON(ctx context.Context, key string, dst any) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}

	if err2 := json.Unmarshal(data, dst); err2 != nil {
		return fmt.Errorf("unmarshal %s failed: %w", key, err2)
	}
	return nil
}

func (r RedisCache) setJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}

	if err := r.client.Set(ctx, key, string(data), r.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// ttl adds up to 5 minutes of jitter on top of baseTTL.
func (r RedisCache) ttl() time.Duration {
	return r.baseTTL + time.Duration(rand.Intn(5))*time.Minute
}

func (r RedisCache) del(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

func cartVersionKey(userID string) string {
	return fmt.Sprintf("cart:%s:version", userID)
}

func foodKey(foodID string) string {
	return fmt.Sprintf("food:%s", foodID)
}
