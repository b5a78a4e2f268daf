package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/KichuProject/Srs-Proj/internal/config"
	"github.com/KichuProject/Srs-Proj/internal/queue"
	"github.com/KichuProject/Srs-Proj/internal/store"
)

// Worker drains the desk's event list and writes one audit line per change.
func main() {
	cfg := config.Load()

	logger, err := cfg.Logger()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.QueueBackend != "redis" {
		logger.Fatal("worker needs QUEUE_BACKEND=redis; the memory queue is private to the api process")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer func() { _ = redisClient.Close() }()
	if !redisClient.Healthy(ctx) {
		logger.Warn("redis not reachable yet, consumer will keep retrying", zap.String("addr", cfg.RedisAddr))
	}

	q := queue.NewRedisQueue(redisClient.Client, cfg.QueueKey)
	events, err := q.Consume(ctx)
	if err != nil {
		logger.Fatal("queue consume init failed", zap.Error(err))
	}

	audit := logger.Named("audit")
	logger.Info("worker started", zap.String("key", cfg.QueueKey))
	counts := map[string]int{}
	for evt := range events {
		counts[evt.Kind]++
		audit.Info(evt.Kind,
			zap.String("subject_id", evt.SubjectID),
			zap.String("trainer_id", evt.TrainerID),
			zap.String("session_id", evt.SessionID),
			zap.String("status", evt.Status),
			zap.Time("at", evt.At))
	}

	logger.Info("worker stopped", zap.Any("processed", counts))
}
