package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"videohub/internal/mail"
)

// Handler processes the payload of one task type.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Worker pulls tasks off the broker and runs them on a WorkerPool. A failing
// task is logged and dropped.
type Worker struct {
	broker      Broker
	workerCount int
	handlers    map[string]Handler
	logger      *slog.Logger
}

func NewWorker(broker Broker, workerCount int, logger *slog.Logger) *Worker {
	return &Worker{
		broker:      broker,
		workerCount: workerCount,
		handlers:    make(map[string]Handler),
		logger:      logger,
	}
}

func (w *Worker) Handle(taskType string, h Handler) {
	w.handlers[taskType] = h
}

// Run consumes until ctx is cancelled, then lets queued tasks finish.
func (w *Worker) Run(ctx context.Context) error {
	pool := NewWorkerPool(context.WithoutCancel(ctx), w.workerCount, w.logger)
	pool.Start()
	defer pool.Wait()

	return w.broker.Consume(ctx, func(t *Task) {
		pool.Submit(func(ctx context.Context) error {
			return w.process(ctx, t)
		})
	})
}

func (w *Worker) process(ctx context.Context, t *Task) error {
	h, ok := w.handlers[t.Type]
	if !ok {
		return fmt.Errorf("no handler for task type %q (id %s)", t.Type, t.ID)
	}

	logger := w.logger.With("type", t.Type, "task_id", t.ID)
	logger.Debug("processing task")
	if err := h(ctx, t.Payload); err != nil {
		return fmt.Errorf("task %s (%s): %w", t.ID, t.Type, err)
	}
	logger.Info("task done")
	return nil
}

type MailRenderer interface {
	Render(to, name string, data map[string]string) (mail.Message, error)
}

type MailSender interface {
	Send(ctx context.Context, msg mail.Message) error
}

// EmailHandler renders an EmailPayload and sends it.
func EmailHandler(renderer MailRenderer, sender MailSender) Handler {
	return func(ctx context.Context, payload json.RawMessage) error {
		var p EmailPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("decode email payload: %w", err)
		}
		msg, err := renderer.Render(p.To, p.Template, p.Data)
		if err != nil {
			return err
		}
		return sender.Send(ctx, msg)
	}
}

type Exporter interface {
	ExportUser(ctx context.Context, userID int64) error
}

func ExportHandler(exporter Exporter) Handler {
	return func(ctx context.Context, payload json.RawMessage) error {
		var p ExportPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("decode export payload: %w", err)
		}
		return exporter.ExportUser(ctx, p.UserID)
	}
}
