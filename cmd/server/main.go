package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wakili/config"
	"wakili/internal/database"
	"wakili/internal/logging"
	"wakili/internal/realtime"
	"wakili/internal/repository"
	"wakili/internal/router"
	"wakili/internal/service"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	if err := repository.NewSettingRepository(db).SeedDefaults(service.CostDefaultsForSeed()); err != nil {
		log.Error("seeding defaults failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var bridge *realtime.RedisBridge
	if cfg.Redis.Addr != "" && cfg.Redis.EventChannel != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, running without event bridge", "addr", cfg.Redis.Addr)
		} else {
			bridge = realtime.NewRedisBridge(client, cfg.Redis.EventChannel, log)
		}
	}

	engine, notifier := router.Setup(cfg, db, bridge, log)
	if bridge != nil {
		go bridge.Run(ctx, notifier.Deliver)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server starting", "port", cfg.Server.Port, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
	}
	log.Info("server stopped")
}
