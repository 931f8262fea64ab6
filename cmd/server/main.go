package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"cryptidwatch/internal/api"
	v1 "cryptidwatch/internal/api/v1"
	"cryptidwatch/internal/auth"
	"cryptidwatch/internal/config"
	"cryptidwatch/internal/db"
	"cryptidwatch/internal/models"
	"cryptidwatch/internal/repository"
	"cryptidwatch/internal/storage"
	"cryptidwatch/pkg/logger"
	rdb "cryptidwatch/pkg/redis"
	"cryptidwatch/pkg/utils"
)

func main() {
	// No .env in production is fine; the environment is already set.
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer log.Close()

	ctx := context.Background()
	auth.Configure(cfg.JWTSecret, cfg.TokenTTL, cfg.ResetTokenTTL)

	gormDB, err := db.NewDB(ctx, cfg.DSN(), models.RegisterModels(), db.WithLogger(log))
	if err != nil {
		log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Database connection failed")
		os.Exit(1)
	}
	defer db.CloseDB(gormDB)

	// Redis is optional; without it the caches and the login limiter are
	// simply skipped.
	var cache *rdb.RedisClient
	if cfg.RedisAddr != "" {
		cache, err = rdb.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Redis unavailable, continuing without cache")
			cache = nil
		} else {
			defer cache.Close(log)
		}
	}

	var objects *storage.ObjectStore
	if cfg.MinioEndpoint != "" {
		objects, err = storage.NewObjectStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			log.Warn(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Object storage unavailable, uploads disabled")
			objects = nil
		}
	}

	flags := repository.NewFlagRepo(gormDB, cache, log)
	handlers := &v1.Handlers{
		Accounts:  repository.NewAccountRepo(gormDB, log),
		Profiles:  repository.NewProfileRepo(gormDB, cache, log),
		Friends:   repository.NewFriendRepo(gormDB, log),
		Discuss:   repository.NewDiscussRepo(gormDB, flags, log),
		Flags:     flags,
		Sightings: repository.NewSightingRepo(gormDB, flags, log),
		Ratings:   repository.NewRatingRepo(gormDB, log),
		Presigner: storage.NewPresignClient(cfg.PresignEndpoint, cfg.PresignTimeout),
		Objects:   objects,
		Cache:     cache,
		Validate:  utils.NewValidator(),
		Log:       log,
	}

	app := fiber.New(fiber.Config{
		AppName: "cryptidwatch",
	})
	api.RegisterRoutes(app, handlers, log)

	go func() {
		if err := app.Listen(cfg.ServerAddr); err != nil {
			log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Server stopped")
			os.Exit(1)
		}
	}()
	log.Info(ctx).WithFields(cfg.ServerAddr).Logs("Server listening on %s")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info(ctx).Logs("Shutting down")
	if err := app.Shutdown(); err != nil {
		log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Shutdown failed")
	}
}
