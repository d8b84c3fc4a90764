package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/fbxtools/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "fbxtools:op:"

// Journal implements ports.Journal using Redis.
// Results are stored as JSON strings. One sorted set indexes them by start
// time and a second one tracks the expiry of entries written with a TTL.
type Journal struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Journal)

// WithTTL sets the expiration for journal entries.
func WithTTL(ttl time.Duration) Option {
	return func(j *Journal) {
		j.ttl = ttl
	}
}

// WithPrefix sets the key prefix for journal entries.
func WithPrefix(prefix string) Option {
	return func(j *Journal) {
		j.prefix = prefix
	}
}

// New creates a Redis journal connected to address.
func New(address, password string, db int, opts ...Option) *Journal {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis journal from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Journal {
	j := &Journal{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *Journal) key(id string) string {
	return j.prefix + id
}

func (j *Journal) indexKey() string {
	return j.prefix + "index"
}

func (j *Journal) expiryKey() string {
	return j.prefix + "expiry"
}

// Save stores the result and indexes it.
func (j *Journal) Save(ctx context.Context, res *domain.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	started := res.StartedAt
	if started.IsZero() {
		started = time.Now()
	}

	pipe := j.client.Pipeline()
	pipe.Set(ctx, j.key(res.ID), data, j.ttl)
	pipe.ZAdd(ctx, j.indexKey(), backend.Z{Score: float64(started.UnixMicro()), Member: res.ID})
	if j.ttl > 0 {
		pipe.ZAdd(ctx, j.expiryKey(), backend.Z{Score: float64(time.Now().Add(j.ttl).Unix()), Member: res.ID})
	} else {
		pipe.ZRem(ctx, j.expiryKey(), res.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load fetches a result.
func (j *Journal) Load(ctx context.Context, id string) (*domain.Result, error) {
	val, err := j.client.Get(ctx, j.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrOperationNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var res domain.Result
	if err := json.Unmarshal(val, &res); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &res, nil
}

// Delete removes the result and its index entry.
func (j *Journal) Delete(ctx context.Context, id string) error {
	pipe := j.client.Pipeline()
	pipe.Del(ctx, j.key(id))
	pipe.ZRem(ctx, j.indexKey(), id)
	pipe.ZRem(ctx, j.expiryKey(), id)
	_, err := pipe.Exec(ctx)
	return err
}

// List prunes expired index entries and returns the rest, oldest first.
func (j *Journal) List(ctx context.Context) ([]string, error) {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	expired, err := j.client.ZRangeByScore(ctx, j.expiryKey(), &backend.ZRangeBy{Min: "-inf", Max: now}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired operations: %w", err)
	}
	if len(expired) > 0 {
		members := make([]any, len(expired))
		for i, id := range expired {
			members[i] = id
		}
		pipe := j.client.Pipeline()
		pipe.ZRem(ctx, j.indexKey(), members...)
		pipe.ZRem(ctx, j.expiryKey(), members...)
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to prune expired operations: %w", err)
		}
	}

	ids, err := j.client.ZRange(ctx, j.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	return ids, nil
}

// Close closes the redis client.
func (j *Journal) Close() error {
	return j.client.Close()
}
