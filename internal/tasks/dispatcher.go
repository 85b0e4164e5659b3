package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const defaultPublishTimeout = 5 * time.Second

// Dispatcher publishes tasks in the background. Callers never wait on the
// broker and never see its errors; failures are logged and the task is lost.
type Dispatcher struct {
	broker  Broker
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

func NewDispatcher(broker Broker, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{broker: broker, timeout: defaultPublishTimeout, logger: logger}
}

func (d *Dispatcher) Enqueue(taskType string, payload any) {
	t, err := NewTask(taskType, payload)
	if err != nil {
		d.logger.Error("failed to build task", "type", taskType, "error", err)
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.broker.Publish(ctx, t); err != nil {
			d.logger.Error("failed to publish task", "type", t.Type, "task_id", t.ID, "error", err)
			return
		}
		d.logger.Debug("task published", "type", t.Type, "task_id", t.ID)
	}()
}

// Wait blocks until every in-flight publish has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
