package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/loyalteez/saas-demo-backend/api/routes"
	"github.com/loyalteez/saas-demo-backend/internal/newsletter"
	"github.com/loyalteez/saas-demo-backend/internal/profile"
	"github.com/loyalteez/saas-demo-backend/internal/rewards"
	"github.com/loyalteez/saas-demo-backend/pkg/config"
	"github.com/loyalteez/saas-demo-backend/pkg/instance"
	"github.com/loyalteez/saas-demo-backend/pkg/logger"
	"github.com/loyalteez/saas-demo-backend/pkg/loyalteez"
	"github.com/loyalteez/saas-demo-backend/pkg/metrics"
	"github.com/loyalteez/saas-demo-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(ctx, "redis not configured, event rate limiting disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rewardMetrics := metrics.NewRewardMetrics(registry, rewards.EventNewsletterSubscribe, rewards.EventProfileCompleted)

	rewardsService := rewards.NewService(ctx, cfg.Loyalteez, logg, loyalteez.WithMetrics(rewardMetrics))
	newsletterService := newsletter.NewService(rewardsService, logg)
	profileService := profile.NewService(rewardsService, logg)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":                cfg.App.Env,
		"addr":               addr,
		"instance":           instance.GetID(),
		"rewards_configured": rewardsService.Configured(),
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, redisClient, rewardsService, newsletterService, profileService, registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(logCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(logCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(logCtx, "graceful shutdown failed", err)
		}
	}
}
