package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/KichuProject/Srs-Proj/internal/api"
	"github.com/KichuProject/Srs-Proj/internal/app"
	"github.com/KichuProject/Srs-Proj/internal/auth"
	"github.com/KichuProject/Srs-Proj/internal/config"
	"github.com/KichuProject/Srs-Proj/internal/httpmiddleware"
	"github.com/KichuProject/Srs-Proj/internal/metrics"
	"github.com/KichuProject/Srs-Proj/internal/queue"
	"github.com/KichuProject/Srs-Proj/internal/store"
)

func main() {
	cfg := config.Load()

	logger, err := cfg.Logger()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg, logger); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}

func runHTTP(cfg config.App, logger *zap.Logger) error {
	rec := metrics.New(prometheus.DefaultRegisterer)
	loc := cfg.Location()

	var redisClient *store.Redis
	if cfg.AuthBackend == "redis" || cfg.QueueBackend == "redis" {
		redisClient = store.NewRedis(cfg.RedisAddr)
		defer func() { _ = redisClient.Close() }()
	}

	var flags auth.FlagStore = &auth.MemoryFlag{}
	if cfg.AuthBackend == "redis" {
		flags = store.NewAuthFlag(redisClient.Client, store.DefaultAuthKey)
	}

	var q queue.Queue
	if cfg.QueueBackend == "redis" {
		q = queue.NewRedisQueue(redisClient.Client, cfg.QueueKey)
	} else {
		q = queue.NewInMemory(256)
		go drain(q, logger)
	}

	opts := []app.Option{
		app.WithLocation(loc),
		app.WithLogger(logger.Named("store")),
		app.WithMetrics(rec),
	}
	if cfg.SeedDemo {
		opts = append(opts, app.WithData(app.DemoData(time.Now(), loc)))
	}
	desk := app.NewStore(opts...)

	handler := api.New(desk, auth.NewAuthenticator(flags, rec), q, logger.Named("api"), api.Options{
		SigningKey: cfg.JWTSigningKey,
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  cfg.AccessTTL,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(httpmiddleware.CORS(cfg.CORSOrigins))
	r.Use(httpmiddleware.SecurityHeaders())
	r.Use(httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin, rec).Middleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{"status": "ok"}
		if redisClient != nil {
			healthy := redisClient.Healthy(c.Request.Context())
			body["redis"] = healthy
			if !healthy {
				status = http.StatusServiceUnavailable
			}
		}
		c.JSON(status, body)
	})
	handler.Register(r)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("timezone", loc.String()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server forced shutdown", zap.Error(err))
	}
	logger.Info("server exited")
	return nil
}

// drain keeps the in-memory queue from filling when no worker process shares it.
func drain(q queue.Queue, logger *zap.Logger) {
	events, err := q.Consume(context.Background())
	if err != nil {
		logger.Warn("event drain unavailable", zap.Error(err))
		return
	}
	for evt := range events {
		logger.Debug("event", zap.String("kind", evt.Kind), zap.String("subject_id", evt.SubjectID))
	}
}
