package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BloggingApp/social-service/internal/config"
	"github.com/BloggingApp/social-service/internal/handler"
	"github.com/BloggingApp/social-service/internal/migrations"
	"github.com/BloggingApp/social-service/internal/rabbitmq"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/BloggingApp/social-service/internal/service"
	"github.com/BloggingApp/social-service/internal/storage"
	"github.com/BloggingApp/social-service/pkg/utils"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load(".")
	if err != nil {
		logger.Sugar().Fatalf("failed to load config: %s", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := pgxpool.New(ctx, cfg.Postgres.URL)
	if err != nil {
		logger.Sugar().Fatalf("failed to connect to postgres: %s", err.Error())
	}
	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		logger.Sugar().Fatalf("failed to ping postgres: %s", err.Error())
	}

	sqlDB := stdlib.OpenDBFromPool(db)
	if err := migrations.Up(ctx, sqlDB); err != nil {
		logger.Sugar().Fatalf("failed to apply migrations: %s", err.Error())
	}
	sqlDB.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Sugar().Fatalf("failed to ping redis: %s", err.Error())
	}

	mq, err := rabbitmq.New(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Sugar().Fatalf("failed to connect to rabbitmq: %s", err.Error())
	}
	defer mq.Close()

	uploader, err := storage.NewS3(ctx, storage.S3Config{
		Region:    cfg.S3.Region,
		Endpoint:  cfg.S3.Endpoint,
		Bucket:    cfg.S3.Bucket,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		PublicURL: cfg.S3.PublicURL,
	})
	if err != nil {
		logger.Sugar().Fatalf("failed to create s3 client: %s", err.Error())
	}

	tokens := utils.NewTokenIssuer([]byte(cfg.Auth.Secret), cfg.Auth.TokenTTL)

	repos := repository.New(db, rdb)
	services := service.New(service.Deps{
		Logger:    logger,
		Repo:      repos,
		Publisher: mq,
		Uploader:  uploader,
		Tokens:    tokens,
		Options: service.Options{
			ResetTokenTTL:  cfg.Auth.ResetTokenTTL,
			BaseURL:        cfg.Server.BaseURL,
			UserCacheTTL:   cfg.Cache.UserTTL,
			SearchCacheTTL: cfg.Cache.SearchTTL,
		},
	})
	handlers := handler.New(logger, services, tokens, handler.Options{
		ClientOrigin:   cfg.Server.ClientOrigin,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           handlers.InitRoutes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Sugar().Infof("server listening on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().Fatalf("failed to start server: %s", err.Error())
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shutdown server: %s", err.Error())
	}
}
