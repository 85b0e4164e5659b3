package tasks

import (
	"context"
	"log/slog"
	"sync"
)

// Job is a unit of work run by the WorkerPool
type Job func(ctx context.Context) error

// WorkerPool runs jobs on a fixed number of goroutines
type WorkerPool struct {
	workerCount int
	jobs        chan Job
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	closed      bool
	closeMux    sync.Mutex
	logger      *slog.Logger
}

func NewWorkerPool(ctx context.Context, workerCount int, logger *slog.Logger) *WorkerPool {
	poolCtx, cancel := context.WithCancel(ctx)
	return &WorkerPool{
		workerCount: workerCount,
		jobs:        make(chan Job, workerCount*2),
		ctx:         poolCtx,
		cancel:      cancel,
		logger:      logger,
	}
}

func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
	wp.logger.Info("worker pool started", "workers", wp.workerCount)
}

// Submit blocks while the queue is full; it drops the job once the pool is shutting down.
func (wp *WorkerPool) Submit(job Job) bool {
	wp.closeMux.Lock()
	defer wp.closeMux.Unlock()
	if wp.closed {
		return false
	}

	select {
	case wp.jobs <- job:
		return true
	case <-wp.ctx.Done():
		wp.logger.Warn("worker pool shutting down, job not submitted")
		return false
	}
}

// Wait stops intake and blocks until queued jobs are done
func (wp *WorkerPool) Wait() {
	wp.closeMux.Lock()
	if !wp.closed {
		close(wp.jobs)
		wp.closed = true
	}
	wp.closeMux.Unlock()

	wp.wg.Wait()
	wp.logger.Info("worker pool drained")
}

// Shutdown cancels running jobs and waits for the workers to exit
func (wp *WorkerPool) Shutdown() {
	wp.cancel()
	wp.Wait()
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobs {
		if wp.ctx.Err() != nil {
			continue
		}
		if err := job(wp.ctx); err != nil {
			wp.logger.Error("job failed", "worker", id, "error", err)
		}
	}
}
