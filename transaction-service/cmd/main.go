package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/config"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/db"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/events"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/middleware"
	redisClient "github.com/PerfectBenjamin/the-benjamites-ledger/shared/redis"
	txcmd "github.com/PerfectBenjamin/the-benjamites-ledger/transaction-service/internal/command"
	"github.com/PerfectBenjamin/the-benjamites-ledger/transaction-service/internal/handler"
	txqry "github.com/PerfectBenjamin/the-benjamites-ledger/transaction-service/internal/query"
	"github.com/PerfectBenjamin/the-benjamites-ledger/transaction-service/internal/repository"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.MustLoad("transaction-service", "8084")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database connection
	database := db.MustOpen(ctx, cfg.DatabaseURL, cfg.MigrateOnStart)
	defer database.Close()

	// Redis connection
	redis, err := redisClient.NewClient(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	publisher := events.NewPublisher(redis.Client)

	// CQRS: write repo, read repo, customer header cache
	writeRepo := repository.NewTransactionWriteRepository(database)
	readRepo := repository.NewTransactionReadRepository(database, redis.Client, cfg.CacheTTL)
	customerRepo := repository.NewCustomerRepository(database, redis.Client, cfg.CacheTTL)

	commandSvc := txcmd.NewTransactionCommandService(writeRepo, readRepo, customerRepo, publisher)
	querySvc := txqry.NewTransactionQueryService(readRepo, customerRepo)

	transactionHandler := handler.NewTransactionHandler(commandSvc, querySvc)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.LoggingMiddleware())
	router.Use(middleware.Sessions(cfg.SessionSecret, int(cfg.JWT.Expiry.Seconds())))

	auth := middleware.AuthMiddleware([]byte(cfg.JWT.Secret), redisClient.NewTokenRevocations(redis.Client))

	v1 := router.Group("/v1/customers/:customerId/transactions", auth)
	{
		v1.POST("", transactionHandler.CreateTransaction)
		v1.GET("", transactionHandler.ListTransactions)
		v1.GET("/export", transactionHandler.ExportTransactions)
		v1.GET("/:transactionId", transactionHandler.GetTransaction)
		v1.DELETE("/:transactionId", transactionHandler.DeleteTransaction)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// customer edits and deletions invalidate cached headers and lists
	go func() {
		subscriber := events.NewSubscriber(redis.Client, events.SubscriberConfig{
			Group:    "transaction-service-group",
			Consumer: "transaction-consumer-1",
			Stream:   events.CustomerEventsStream,
			Handler:  commandSvc.HandleCustomerEvent,
		})
		if err := subscriber.Start(ctx); err != nil {
			log.Printf("Subscriber stopped: %v", err)
		}
	}()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down...")
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Transaction service starting on port %s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
