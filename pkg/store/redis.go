package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"charsheet/pkg/geom"
)

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	Namespace string
}

// Redis keeps each entity's overrides in one hash:
// "<namespace>:overrides:<entity>" -> field key -> JSON geometry.
type Redis struct {
	client    *redis.Client
	namespace string
}

// OpenRedis connects and pings the server.
func OpenRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	return &Redis{client: client, namespace: ns}, nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, namespace string) *Redis {
	return &Redis{client: client, namespace: namespace}
}

func (r *Redis) hashKey(entityID string) string {
	return r.namespace + ":overrides:" + entityID
}

func (r *Redis) Get(ctx context.Context, entityID, key string) (geom.Geometry, bool, error) {
	if err := r.check(ctx, entityID, key); err != nil {
		return geom.Geometry{}, false, err
	}
	data, err := r.client.HGet(ctx, r.hashKey(entityID), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return geom.Geometry{}, false, nil
	}
	if err != nil {
		return geom.Geometry{}, false, fmt.Errorf("get override: %w", err)
	}
	var g geom.Geometry
	if err := json.Unmarshal(data, &g); err != nil {
		return geom.Geometry{}, false, fmt.Errorf("decode override %s: %w", key, err)
	}
	return g, true, nil
}

func (r *Redis) Set(ctx context.Context, entityID, key string, g geom.Geometry) error {
	if err := r.check(ctx, entityID, key); err != nil {
		return err
	}
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode override: %w", err)
	}
	if err := r.client.HSet(ctx, r.hashKey(entityID), key, data).Err(); err != nil {
		return fmt.Errorf("put override: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, entityID, key string) error {
	if err := r.check(ctx, entityID, key); err != nil {
		return err
	}
	if err := r.client.HDel(ctx, r.hashKey(entityID), key).Err(); err != nil {
		return fmt.Errorf("delete override: %w", err)
	}
	return nil
}

func (r *Redis) List(ctx context.Context, entityID string) (map[string]geom.Geometry, error) {
	if err := r.check(ctx, entityID, "*"); err != nil {
		return nil, err
	}
	fields, err := r.client.HGetAll(ctx, r.hashKey(entityID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	out := make(map[string]geom.Geometry, len(fields))
	for key, raw := range fields {
		var g geom.Geometry
		if err := json.Unmarshal([]byte(raw), &g); err != nil {
			return nil, fmt.Errorf("decode override %s: %w", key, err)
		}
		out[key] = g
	}
	return out, nil
}

func (r *Redis) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}

func (r *Redis) check(ctx context.Context, entityID, key string) error {
	if r == nil || r.client == nil {
		return ErrClosed
	}
	return validate(ctx, entityID, key)
}
