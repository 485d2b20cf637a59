/**
 * @description
 * This is the main entry point for the expense-service. It is responsible for
 * initializing all components of the service: configuration, the database
 * connection pool, the optional Redis client and RabbitMQ producer, the
 * repository, the core application service, and the HTTP server. It wires
 * everything together and starts the service.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: PostgreSQL driver.
 * - github.com/redis/go-redis/v9: Redis client for login rate limiting.
 * - internal/api, internal/app, internal/config, internal/store: Internal packages.
 * - pkg/rabbitmq: Event producer for RabbitMQ.
 */

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spendwise/expense-service/internal/api"
	"github.com/spendwise/expense-service/internal/app"
	"github.com/spendwise/expense-service/internal/config"
	"github.com/spendwise/expense-service/internal/store"
	"github.com/spendwise/expense-service/pkg/rabbitmq"
)

func main() {
	// Load .env file for local development. In production, env vars are set directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}

	log.Printf("level=info component=bootstrap msg=\"starting expense-service\" port=%s", cfg.ServerPort)

	// Establish a connection pool to the PostgreSQL database.
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"database url parse failed\" err=%v", err)
	}
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	// Disable prepared statement caching to prevent conflicts
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"database connection failed\" err=%v", err)
	}
	defer dbpool.Close()
	log.Println("level=info component=bootstrap msg=\"database connected\"")

	// Set up the repository and ensure the schema exists (idempotent).
	repo := store.NewPostgresRepository(dbpool)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		log.Printf("level=warn component=bootstrap msg=\"schema bootstrap failed (may already exist)\" err=%v", err)
	}

	// Set up the RabbitMQ producer; allow a no-op fallback on failure so the
	// service keeps serving requests without event delivery.
	var producer rabbitmq.Publisher
	if cfg.RabbitMQURL == "" {
		producer = &rabbitmq.EventProducerFallback{}
		log.Println("level=info component=bootstrap msg=\"no RABBITMQ_URL configured; events disabled\"")
	} else if p, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL); err != nil {
		log.Printf("level=warn component=bootstrap msg=\"rabbitmq connection failed; continuing without MQ\" err=%v", err)
		producer = &rabbitmq.EventProducerFallback{}
	} else {
		producer = p
		defer producer.Close()
		log.Println("level=info component=bootstrap msg=\"rabbitmq producer connected\"")
	}

	// Optional Redis-backed login rate limiter.
	var limiter app.RateLimiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("level=warn component=bootstrap msg=\"invalid REDIS_URL; login rate limiting disabled\" err=%v", err)
		} else {
			limiter = app.NewRedisRateLimiter(redis.NewClient(opts), cfg.RedisRateLimitPrefix)
			log.Println("level=info component=bootstrap msg=\"redis login rate limiter enabled\"")
		}
	}

	service := app.NewService(repo, producer, cfg.EventExchange, limiter, cfg.LoginRateLimitPerMinute)
	handlers := api.NewHandlers(service, dbpool.Ping)
	router := api.NewRouter(handlers)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("level=info component=bootstrap msg=\"server listening\" port=%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("level=fatal component=bootstrap msg=\"server failed\" err=%v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("level=info component=bootstrap msg=\"shutting down server\"")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"server shutdown failed\" err=%v", err)
	}

	log.Println("level=info component=bootstrap msg=\"server gracefully stopped\"")
}
