package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"videohub/internal/config"
)

type Broker interface {
	Publish(ctx context.Context, t *Task) error
	// Consume blocks and hands every received task to handle until ctx is done.
	Consume(ctx context.Context, handle func(*Task)) error
	Close() error
}

// NewBroker connects to the broker selected by TASK_BROKER.
func NewBroker(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Broker, error) {
	switch cfg.TaskBroker {
	case "redis":
		return NewRedisBroker(ctx, cfg.RedisAddr(), cfg.RedisPassword, cfg.TaskQueue, logger)
	case "amqp":
		return NewAMQPBroker(cfg.AMQPURL, cfg.TaskQueue, logger)
	default:
		return nil, fmt.Errorf("unknown task broker %q", cfg.TaskBroker)
	}
}
