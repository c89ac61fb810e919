package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisValueField   = "value"
	redisUpdatedField = "updated_at"
)

type RedisOptions struct {
	Addr     string
	Username string
	Password string
	DB       int
	// Prefix namespaces every key
	Prefix string
}

// Redis stores each key as a hash holding the value and its update time
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(opts RedisOptions) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &Redis{client: client, prefix: opts.Prefix}
}

func (r *Redis) key(k string) string { return r.prefix + k }

func (r *Redis) Load(ctx context.Context, key string) (Record, error) {
	fields, err := r.client.HGetAll(ctx, r.key(key)).Result()
	if err != nil {
		return Record{}, fmt.Errorf("failed to load %q from redis: %w", key, err)
	}
	value, ok := fields[redisValueField]
	if !ok {
		return Record{}, ErrNotFound
	}
	rec := Record{Value: value}
	if ts := fields[redisUpdatedField]; ts != "" {
		if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return Record{}, fmt.Errorf("invalid updated_at for %q: %w", key, err)
		}
	}
	return rec, nil
}

func (r *Redis) Save(ctx context.Context, key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if err := r.client.HSet(ctx, r.key(key), redisValueField, value, redisUpdatedField, now).Err(); err != nil {
		return fmt.Errorf("failed to save %q to redis: %w", key, err)
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

func (r *Redis) Close() error { return r.client.Close() }
