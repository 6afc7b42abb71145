package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/mmynk/tripsplit/internal/config"
	"github.com/mmynk/tripsplit/internal/notify"
	"github.com/mmynk/tripsplit/pkg/logging"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume trip activity events from the queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logging.Setup(cfg.LogLevel, cfg.LogFormat)
			if !cfg.RedisEnabled() {
				return errors.New("worker requires REDIS_ADDR")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			worker := notify.NewWorker(
				asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword},
				cfg.WorkerConcurrency,
			)
			slog.Info("Worker starting", "redis", cfg.RedisAddr, "concurrency", cfg.WorkerConcurrency)
			return worker.Run(ctx)
		},
	}
}
