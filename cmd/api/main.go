package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gitedu/docuvault/internal/api"
	"github.com/gitedu/docuvault/internal/infrastructure/blob/s3"
	"github.com/gitedu/docuvault/internal/infrastructure/config"
	mongodb "github.com/gitedu/docuvault/internal/infrastructure/db/mongo"
	redisdb "github.com/gitedu/docuvault/internal/infrastructure/db/redis"
	"github.com/gitedu/docuvault/internal/infrastructure/mail"
	"github.com/gitedu/docuvault/internal/infrastructure/queue"
	"github.com/gitedu/docuvault/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- MongoDB ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	if err := ensureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Blob store ---
	blobs, err := s3.New(ctx, s3.Config{
		Region:    cfg.S3.Region,
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Bucket:    cfg.S3.Bucket,
		URLExpiry: cfg.S3.URLExpiry,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("blob store setup failed")
	}

	// --- Mail dispatcher ---
	notifier := mail.NewSMTPNotifier(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		From:     cfg.SMTP.From,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
	})
	dispatcher := queue.NewDispatcher(cfg.MailWorkers, notifier, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Dependencies{
		Config: cfg,
		Mongo:  db,
		Redis:  rdb,
		Blobs:  blobs,
		Mail:   dispatcher,
		Logger: log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("docuvault api started")

	// --- Graceful shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}

// ensureIndexes creates the unique indexes the services depend on for
// conflict detection. The application pre-checks alone are racy; these
// indexes are the source of truth.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongodb.NewDocumentRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return mongodb.NewSchemeRepository(db).EnsureIndexes(ctx)
}
