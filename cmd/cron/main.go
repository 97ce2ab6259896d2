package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"weddingmarket/internal/config"
	"weddingmarket/internal/database"
	"weddingmarket/internal/modules/jobs"
	"weddingmarket/internal/pkg/logger"
	"weddingmarket/internal/repository"
)

const runTimeout = 2 * time.Minute

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

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("migrate failed", zap.Error(err))
	}

	svc := jobs.NewService(repository.NewJobRepository(db), repository.NewUserRepository(db), log)

	c := cron.New(
		cron.WithLogger(cronLogger{log.Named("cron").Sugar()}),
		cron.WithChain(cron.Recover(cronLogger{log.Named("cron").Sugar()}), cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	_, err = c.AddFunc(cfg.Jobs.ExpirySchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		ids, err := svc.ExpirePosts(ctx)
		if err != nil {
			log.Error("expire job posts failed", zap.Error(err))
			return
		}
		log.Info("expire job posts run", zap.Int("expired", len(ids)))
	})
	if err != nil {
		log.Fatal("invalid JOBS_EXPIRY_SCHEDULE", zap.String("schedule", cfg.Jobs.ExpirySchedule), zap.Error(err))
	}

	log.Info("cron started", zap.String("schedule", cfg.Jobs.ExpirySchedule))
	c.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("cron stopping")
	<-c.Stop().Done()
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
