package store

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/example/craftora/pkg/config"
)

const redisKeyPrefix = "craftora:slot:"

// Redis is a Store backed by a shared Redis instance. Slot changes are
// broadcast over pub/sub so other processes can re-read for display.
type Redis struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedis(cfg *config.RedisConfig) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

var _ Store = (*Redis)(nil)

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Get(ctx context.Context, slot Slot) ([]byte, error) {
	data, err := r.client.Get(ctx, redisKey(slot)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *Redis) Set(ctx context.Context, slot Slot, data []byte) error {
	if err := r.client.Set(ctx, redisKey(slot), data, 0).Err(); err != nil {
		return err
	}
	// best effort: a missed notification only delays a display refresh
	r.client.Publish(ctx, redisChannel(slot), "changed")
	return nil
}

func (r *Redis) Delete(ctx context.Context, slot Slot) error {
	if err := r.client.Del(ctx, redisKey(slot)).Err(); err != nil {
		return err
	}
	r.client.Publish(ctx, redisChannel(slot), "deleted")
	return nil
}

func (r *Redis) Subscribe(slot Slot, fn func()) (cancel func()) {
	sub := r.client.Subscribe(context.Background(), redisChannel(slot))
	go func() {
		for range sub.Channel() {
			fn()
		}
	}()
	return func() { _ = sub.Close() }
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func redisKey(slot Slot) string {
	return redisKeyPrefix + string(slot)
}

func redisChannel(slot Slot) string {
	return fmt.Sprintf("craftora:changes:%s", slot)
}
