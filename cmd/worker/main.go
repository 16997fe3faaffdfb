package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/CoderHarshaVardhan/playX/internal/mailer"
	"github.com/CoderHarshaVardhan/playX/internal/queue/tasks"
	"github.com/CoderHarshaVardhan/playX/internal/realtime"
	"github.com/CoderHarshaVardhan/playX/internal/repository"
	"github.com/CoderHarshaVardhan/playX/internal/services"
	"github.com/CoderHarshaVardhan/playX/pkg/config"
	"github.com/CoderHarshaVardhan/playX/pkg/database"
	"github.com/CoderHarshaVardhan/playX/pkg/logger"
)

func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}
	_ = rdb.Close()

	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL, database.Options{})
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}

	// Sweep transitions are broadcast when NATS is available; the in-process
	// broker has no subscribers in the worker.
	var notifier services.SlotNotifier = services.NopNotifier{}
	if cfg.NATSURL != "" {
		nc, err := realtime.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Warn("nats unavailable, sweep events will not be broadcast", zap.Error(err))
		} else {
			defer nc.Drain()
			notifier = realtime.NewNotifier(realtime.NewNATSBroker(nc))
		}
	}

	slotSvc := services.NewSlotService(repository.NewSlotRepository(db), repository.NewVenueRepository(db), notifier)
	if !cfg.MailEnabled() {
		log.Warn("SMTP not configured, verification emails are logged instead of sent")
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.AsynqConcurrency,
		Queues: map[string]int{
			tasks.QueueCritical: 6,
			tasks.QueueDefault:  3,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.L().Error("task failed", zap.String("type", task.Type()), zap.Error(err))
		}),
	})

	mux := asynq.NewServeMux()
	tasks.Register(mux,
		tasks.NewEmailTaskHandler(mailer.New(cfg), cfg.ClientURL),
		tasks.NewSweepTaskHandler(slotSvc),
	)

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Location: time.UTC})
	sweep, sweepOpts := tasks.NewSweepTask()
	if _, err := scheduler.Register(cfg.SweepSchedule, sweep, sweepOpts...); err != nil {
		log.Fatal("invalid sweep schedule", zap.String("schedule", cfg.SweepSchedule), zap.Error(err))
	}

	if err := srv.Start(mux); err != nil {
		log.Fatal("asynq worker failed to start", zap.Error(err))
	}
	log.Info("asynq worker started", zap.Int("concurrency", cfg.AsynqConcurrency))

	if err := scheduler.Start(); err != nil {
		log.Fatal("scheduler failed to start", zap.Error(err))
	}
	log.Info("slot sweep scheduled", zap.String("schedule", cfg.SweepSchedule))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	log.Info("shutdown signal received", zap.String("signal", sig.String()))

	scheduler.Shutdown()
	// Shutdown waits for in-flight tasks.
	srv.Shutdown()
}
