package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPBroker publishes tasks to a durable RabbitMQ work queue on the default exchange.
type AMQPBroker struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger
}

func NewAMQPBroker(uri, queueName string, logger *slog.Logger) (*AMQPBroker, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	q, err := channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	logger.Info("connected to amqp task queue", "queue", q.Name)
	return &AMQPBroker{conn: conn, channel: channel, queue: q, logger: logger}, nil
}

func (b *AMQPBroker) Publish(ctx context.Context, t *Task) error {
	body, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	return b.channel.PublishWithContext(ctx,
		"", // default exchange
		b.queue.Name,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    t.ID,
			Body:         body,
		},
	)
}

func (b *AMQPBroker) Consume(ctx context.Context, handle func(*Task)) error {
	msgs, err := b.channel.ConsumeWithContext(ctx,
		b.queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to consume from queue %s: %w", b.queue.Name, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("amqp delivery channel closed")
			}
			t, err := decodeTask(d.Body)
			if err != nil {
				b.logger.Error("dropping malformed task", "error", err)
				d.Ack(false)
				continue
			}
			handle(t)
			d.Ack(false)
		}
	}
}

func (b *AMQPBroker) Close() error {
	if err := b.channel.Close(); err != nil {
		b.conn.Close()
		return err
	}
	return b.conn.Close()
}
