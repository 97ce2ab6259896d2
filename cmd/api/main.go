package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"weddingmarket/internal/app"
	"weddingmarket/internal/config"
	"weddingmarket/internal/database"
	"weddingmarket/internal/gateway"
	"weddingmarket/internal/lock"
	"weddingmarket/internal/notification"
	jwtsvc "weddingmarket/internal/pkg/jwt"
	"weddingmarket/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("api stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	locker, closeLocker := newLocker(cfg, log)
	defer closeLocker()

	publisher, closePublisher := newPublisher(cfg, log)
	defer closePublisher()

	router := app.NewRouter(app.Deps{
		DB: db,
		Gateway: gateway.NewStripe(gateway.StripeConfig{
			SecretKey:     cfg.Stripe.SecretKey,
			WebhookSecret: cfg.Stripe.WebhookSecret,
			Timeout:       cfg.Stripe.Timeout,
		}, log),
		Locker:      locker,
		Publisher:   publisher,
		Tokens:      jwtsvc.New(cfg.JWT.Secret, cfg.JWT.TTL),
		Currency:    cfg.Stripe.Currency,
		CORSOrigins: cfg.CORSOrigins,
		FrontendURL: cfg.FrontendURL,
		Logger:      log,
	})

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr(),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("timeout", cfg.HTTP.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newLocker uses redsync when REDIS_ADDR is set and an in-process keyed
// mutex otherwise.
func newLocker(cfg *config.Config, log *zap.Logger) (lock.Locker, func()) {
	if cfg.Redis.Addr == "" {
		log.Info("using in-process booking locks")
		return lock.NewLocal(), func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	log.Info("using redis booking locks", zap.String("addr", cfg.Redis.Addr))
	return lock.NewRedis(client, cfg.Redis.LockTTL, log), func() { _ = client.Close() }
}

// newPublisher falls back to the log publisher when AMQP is not configured or
// the broker cannot be reached at startup.
func newPublisher(cfg *config.Config, log *zap.Logger) (notification.Publisher, func()) {
	if cfg.AMQP.URL == "" {
		return notification.NewLog(log), func() {}
	}
	p, err := notification.NewAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange, log)
	if err != nil {
		log.Warn("amqp unavailable, events will only be logged", zap.Error(err))
		return notification.NewLog(log), func() {}
	}
	return p, p.Close
}
