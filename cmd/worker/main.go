package main

import (
	"fmt"
	"os"
	"time"

	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-CoachBookingService/internal/config"
	"github.com/m04kA/SMC-CoachBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-CoachBookingService/pkg/logger"
)

// Воркер уведомлений: забирает задачи из очереди и доставляет их во внешние сервисы
func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	if !cfg.Notifications.Enabled {
		log.Fatal("Notifications are disabled in config, worker has nothing to do")
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Notifications.RedisAddr,
			Password: cfg.Notifications.RedisPassword,
			DB:       cfg.Notifications.RedisDB,
		},
		asynq.Config{
			Concurrency: cfg.Notifications.WorkerConcurrency,
			Queues: map[string]int{
				notifier.QueueNotifications: 1,
			},
		},
	)

	dispatcher := notifier.NewHTTPDispatcher(
		cfg.Notifications.NotificationsURL,
		cfg.Notifications.CalendarURL,
		time.Duration(cfg.Notifications.DispatchTimeout)*time.Second,
	)

	log.Info("Starting notification worker (redis=%s, concurrency=%d)",
		cfg.Notifications.RedisAddr, cfg.Notifications.WorkerConcurrency)

	// Run блокируется до SIGINT/SIGTERM и сам завершает обработку текущих задач
	if err := srv.Run(notifier.NewServeMux(dispatcher, log)); err != nil {
		log.Fatal("Worker stopped with error: %v", err)
	}

	log.Info("Worker stopped gracefully")
}
