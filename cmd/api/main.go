package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/CoderHarshaVardhan/playX/internal/api"
	"github.com/CoderHarshaVardhan/playX/internal/api/handlers"
	"github.com/CoderHarshaVardhan/playX/internal/api/validators"
	"github.com/CoderHarshaVardhan/playX/internal/queue/tasks"
	"github.com/CoderHarshaVardhan/playX/internal/realtime"
	"github.com/CoderHarshaVardhan/playX/internal/repository"
	"github.com/CoderHarshaVardhan/playX/internal/services"
	"github.com/CoderHarshaVardhan/playX/pkg/config"
	"github.com/CoderHarshaVardhan/playX/pkg/database"
	"github.com/CoderHarshaVardhan/playX/pkg/logger"

	_ "github.com/CoderHarshaVardhan/playX/docs"
)

// @title           playX API
// @version         1.0
// @description     Pickup-game marketplace: create, browse, join, leave and cancel game slots.

// @contact.name   playX Support

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg := config.MustLoad()

	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("Starting playX API",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
	)
	if cfg.UsesInsecureSecret() {
		log.Warn("JWT_SECRET not set, using default (INSECURE for production)")
	}

	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL, database.Options{Verbose: cfg.AppEnv == "development"})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	userRepo := repository.NewUserRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	venueRepo := repository.NewVenueRepository(db)

	tokens := services.NewTokenService([]byte(cfg.JWTSecret))

	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	queueClient := asynq.NewClient(redisOpt)
	defer queueClient.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	defer rdb.Close()

	broker, nc := openBroker(cfg.NATSURL, log)
	if nc != nil {
		defer nc.Drain()
	}

	authSvc := services.NewAuthService(userRepo, tokens, tasks.NewQueue(queueClient))
	userSvc := services.NewUserService(userRepo)
	metaSvc := services.NewMetaService(venueRepo)
	slotSvc := services.NewSlotService(slotRepo, venueRepo, realtime.NewNotifier(broker))

	v := validators.New()
	router := api.NewRouter(api.Dependencies{
		Authenticator:  tokens,
		CORSOrigins:    cfg.CORSOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		TrustProxy:     cfg.TrustProxy,
		HealthHandler:  handlers.NewHealthHandler(readinessChecks(db, rdb)),
		AuthHandler:    handlers.NewAuthHandler(authSvc, v),
		UsersHandler:   handlers.NewUsersHandler(userSvc, v),
		MetaHandler:    handlers.NewMetaHandler(metaSvc),
		SlotsHandler:   handlers.NewSlotsHandler(slotSvc, v),
		SlotRoom:       realtime.NewSlotRoomHandler(broker, tokens, slotSvc, cfg.CORSOrigins, realtime.DefaultWSConfig()),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}

// openBroker prefers NATS so slot rooms span instances, and falls back to an
// in-process broker when NATS is not configured or unreachable.
func openBroker(url string, log *zap.Logger) (realtime.Broker, *nats.Conn) {
	if url == "" {
		log.Info("NATS_URL not set, slot rooms are local to this instance")
		return realtime.NewMemoryBroker(), nil
	}
	nc, err := realtime.ConnectNATS(url)
	if err != nil {
		log.Warn("nats unavailable, slot rooms are local to this instance", zap.Error(err))
		return realtime.NewMemoryBroker(), nil
	}
	log.Info("nats connected", zap.String("url", nc.ConnectedUrl()))
	return realtime.NewNATSBroker(nc), nc
}

func readinessChecks(db *gorm.DB, rdb *redis.Client) map[string]handlers.Pinger {
	return map[string]handlers.Pinger{
		"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}
}
