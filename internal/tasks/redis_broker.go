package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPollTimeout = 5 * time.Second

// RedisBroker uses a redis list as a FIFO queue: LPUSH to publish, BRPOP to consume.
type RedisBroker struct {
	client *redis.Client
	queue  string
	logger *slog.Logger
}

func NewRedisBroker(ctx context.Context, addr, password, queue string, logger *slog.Logger) (*RedisBroker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("connected to redis task queue", "addr", addr, "queue", queue)
	return &RedisBroker{client: client, queue: queue, logger: logger}, nil
}

func (b *RedisBroker) Publish(ctx context.Context, t *Task) error {
	body, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	return b.client.LPush(ctx, b.queue, body).Err()
}

func (b *RedisBroker) Consume(ctx context.Context, handle func(*Task)) error {
	for {
		res, err := b.client.BRPop(ctx, redisPollTimeout, b.queue).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, redis.Nil) {
				continue
			}
			return fmt.Errorf("pop task: %w", err)
		}

		// res is [queue, value]
		t, err := decodeTask([]byte(res[1]))
		if err != nil {
			b.logger.Error("dropping malformed task", "error", err)
			continue
		}
		handle(t)
	}
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}
