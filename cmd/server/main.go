package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"declutter_backend/internal/app/config"
	"declutter_backend/internal/app/di"
	"declutter_backend/internal/app/router"
	"declutter_backend/internal/platform/db"
	jwtmw "declutter_backend/internal/platform/jwt"
	"declutter_backend/internal/platform/logger"
	platformredis "declutter_backend/internal/platform/redis"
	"declutter_backend/internal/shared/ratelimiter"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	slog.SetDefault(logger.New(logger.Config{
		Environment: cfg.Env,
		Level:       logger.ParseLevel(cfg.LogLevel),
	}))

	// db
	dbCfg := db.LoadConfigFromEnv()
	gdb, err := db.OpenDB(dbCfg)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	if db.ShouldMigrate(dbCfg) {
		if err := di.Migrate(context.Background(), gdb); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
		slog.Info("migrations applied", "driver", dbCfg.Driver)
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(platformredis.LoadConfigFromEnv()); err != nil {
		slog.Warn("Redis unavailable. Running without cache; sessions are stored in the database.", "reason", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	handlers, err := di.NewHandlers(cfg, gdb, rdb)
	if err != nil {
		log.Fatal(err)
	}

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		slog.Warn("JWT_SECRET is not set. Set a strong secret in production.")
	}

	r := router.NewRouter(handlers, router.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AuthLimiter:    ratelimiter.NewRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}
