package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// updatedField names the hash, under prefix, holding each key's last write
// time in unix milliseconds.
const updatedField = "_updated"

// RedisRepository stores each collection as one string value under
// prefix+key.
type RedisRepository struct {
	c      *redis.Client
	prefix string
}

// RedisOptions configures NewRedisClient.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient opens a client and checks the connection.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}
	return c, nil
}

func NewRedisRepository(c *redis.Client, prefix string) *RedisRepository {
	return &RedisRepository{c: c, prefix: prefix}
}

func (r *RedisRepository) key(k string) string { return r.prefix + k }

func (r *RedisRepository) stamp(ctx context.Context, pipe redis.Pipeliner, keys ...string) {
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	fields := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		fields = append(fields, k, now)
	}
	pipe.HSet(ctx, r.key(updatedField), fields...)
}

func (r *RedisRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.c.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return val, nil
}

func (r *RedisRepository) Put(ctx context.Context, key string, value []byte) error {
	_, err := r.c.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key(key), value, 0)
		r.stamp(ctx, pipe, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// PutAll writes inside MULTI/EXEC so readers never observe a partial restore.
func (r *RedisRepository) PutAll(ctx context.Context, values map[string][]byte) error {
	_, err := r.c.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		keys := make([]string, 0, len(values))
		for k, v := range values {
			pipe.Set(ctx, r.key(k), v, 0)
			keys = append(keys, k)
		}
		if len(keys) > 0 {
			r.stamp(ctx, pipe, keys...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write %d collections: %w", len(values), err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	_, err := r.c.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, full...)
		pipe.HDel(ctx, r.key(updatedField), keys...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete collections: %w", err)
	}
	return nil
}

func (r *RedisRepository) Close() error {
	return r.c.Close()
}

// Inventory scans for stored collection keys and joins each with its last
// write time. Keys written by something other than this repository report a
// zero time.
func (r *RedisRepository) Inventory(ctx context.Context) ([]KeyInfo, error) {
	stamps, err := r.c.HGetAll(ctx, r.key(updatedField)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read update times: %w", err)
	}

	var out []KeyInfo
	var cursor uint64
	for {
		keys, next, err := r.c.Scan(ctx, cursor, r.prefix+"*", 200).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}
		for _, full := range keys {
			k := full[len(r.prefix):]
			if k == updatedField {
				continue
			}
			info := KeyInfo{Key: k}
			if ms, err := strconv.ParseInt(stamps[k], 10, 64); err == nil {
				info.UpdatedAt = time.UnixMilli(ms)
			}
			out = append(out, info)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	sortInventory(out)
	return out, nil
}
