package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"videohub/database"
	"videohub/internal/config"
	"videohub/internal/logging"
	"videohub/internal/mail"
	"videohub/internal/microservices/http-api/repository"
	"videohub/internal/microservices/http-api/service"
	"videohub/internal/storage"
	"videohub/internal/tasks"
)

func main() {
	if err := run(); err != nil {
		slog.Error("task worker stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat).With("component", "task-worker")
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	store, err := storage.New(cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	broker, err := tasks.NewBroker(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("connect task broker: %w", err)
	}
	defer broker.Close()
	// exports queue their own "ready" email
	dispatcher := tasks.NewDispatcher(broker, logger)
	defer dispatcher.Wait()

	renderer, err := mail.NewRenderer(cfg.ProjectName)
	if err != nil {
		return err
	}
	sender := mail.NewSender(cfg, logger)
	if !cfg.EmailsEnabled() {
		logger.Warn("email delivery disabled, SMTP settings are incomplete")
	}

	exporter := service.NewExportService(
		repository.NewUserRepository(db),
		repository.NewVideoRepository(db),
		repository.NewCommentRepository(db),
		repository.NewHistoryRepository(db),
		store,
		dispatcher,
		logger,
	)

	worker := tasks.NewWorker(broker, cfg.WorkerCount, logger)
	worker.Handle(tasks.TypeSendEmail, tasks.EmailHandler(renderer, sender))
	worker.Handle(tasks.TypeExportUser, tasks.ExportHandler(exporter))

	logger.Info("task worker started", "broker", cfg.TaskBroker, "queue", cfg.TaskQueue, "workers", cfg.WorkerCount)
	if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("task worker stopped gracefully")
	return nil
}
