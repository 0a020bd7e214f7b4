package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

type RedisClient struct {
	Client *redis.Client
}

func NewRedisClient(cfg *Config) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisClient{Client: client}, nil
}

func (r *RedisClient) Close() error {
	return r.Client.Close()
}

// EventDeduper records which broker events have already been applied so a
// redelivered event is skipped.
type EventDeduper struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewEventDeduper(rc *RedisClient, prefix string, ttl time.Duration) *EventDeduper {
	return &EventDeduper{client: rc.Client, prefix: prefix, ttl: ttl}
}

// Claim returns false when key was already claimed and not released.
func (d *EventDeduper) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.prefix+key, time.Now().UTC().Format(time.RFC3339), d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim event %s: %w", key, err)
	}
	return ok, nil
}

func (d *EventDeduper) Release(ctx context.Context, key string) error {
	if err := d.client.Del(ctx, d.prefix+key).Err(); err != nil {
		return fmt.Errorf("release event %s: %w", key, err)
	}
	return nil
}
