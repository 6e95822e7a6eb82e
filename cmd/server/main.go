// @title        HealthyWell Telemedicine API
// @version      1.0
// @description  Telemedicine backend: patient accounts, doctor directory, AI-mediated consultations, and health support chat.
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/healthywell/telemedicine-api/docs"
	"github.com/healthywell/telemedicine-api/internal/api"
	"github.com/healthywell/telemedicine-api/internal/infrastructure/ai"
	mongodb "github.com/healthywell/telemedicine-api/internal/infrastructure/db/mongo"
	redisdb "github.com/healthywell/telemedicine-api/internal/infrastructure/db/redis"
	"github.com/healthywell/telemedicine-api/internal/infrastructure/queue"
	"github.com/healthywell/telemedicine-api/internal/pkg/config"
	"github.com/healthywell/telemedicine-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}
	if cfg.Groq.APIKey == "" {
		log.Warn().Msg("GROQ_API_KEY is empty, completion calls will fail over to fallback messages")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	ensureIndexes(ctx, db, log)

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	// --- Completion provider ---
	completionClient := ai.NewClient(ai.Config{
		BaseURL: cfg.Groq.BaseURL,
		APIKey:  cfg.Groq.APIKey,
		Model:   cfg.Groq.Model,
		Timeout: cfg.Groq.Timeout,
	})
	generator := ai.NewResilientGenerator(completionClient, ai.RetryPolicy{
		MaxAttempts: cfg.Groq.MaxRetries,
		BaseDelay:   2 * time.Second,
	}, log)

	// --- Per-consultation turn serializer ---
	turns := queue.NewSerializer(0, log)
	turns.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		DB:        db,
		Redis:     rdb,
		Generator: generator,
		Client:    completionClient,
		Turns:     turns,
		JWTSecret: cfg.JWTSecret,
		Log:       log,
	})

	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("http server starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}

// ensureIndexes creates all collection indexes at startup. Failures are
// logged, not fatal: reads still work without them, and the uniqueness
// checks are also enforced at the service layer.
func ensureIndexes(ctx context.Context, db *mongo.Database, log zerolog.Logger) {
	type indexed interface {
		EnsureIndexes(ctx context.Context) error
	}
	repos := map[string]indexed{
		"users":         mongodb.NewUserRepository(db),
		"doctors":       mongodb.NewDoctorRepository(db),
		"consultations": mongodb.NewConsultationRepository(db),
		"messages":      mongodb.NewMessageRepository(db),
	}
	for name, repo := range repos {
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Error().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}
}
