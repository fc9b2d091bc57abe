package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	custcmd "github.com/PerfectBenjamin/the-benjamites-ledger/customer-service/internal/command"
	"github.com/PerfectBenjamin/the-benjamites-ledger/customer-service/internal/handler"
	custqry "github.com/PerfectBenjamin/the-benjamites-ledger/customer-service/internal/query"
	"github.com/PerfectBenjamin/the-benjamites-ledger/customer-service/internal/repository"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/config"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/db"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/events"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/middleware"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/pin"
	redisClient "github.com/PerfectBenjamin/the-benjamites-ledger/shared/redis"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.MustLoad("customer-service", "8082")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database connection (write store)
	database := db.MustOpen(ctx, cfg.DatabaseURL, cfg.MigrateOnStart)
	defer database.Close()

	// Redis connection (read model store + event streaming)
	redis, err := redisClient.NewClient(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	// --- CQRS wiring ---
	publisher := events.NewPublisher(redis.Client)
	verifier := pin.NewVerifier(pin.NewPostgresStore(database))

	writeRepo := repository.NewCustomerWriteRepository(database)
	readRepo := repository.NewCustomerReadRepository(database, redis.Client, cfg.CacheTTL)

	commandSvc := custcmd.NewCustomerCommandService(writeRepo, readRepo, verifier, publisher)
	querySvc := custqry.NewCustomerQueryService(readRepo)

	customerHandler := handler.NewCustomerHandler(commandSvc, querySvc)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.LoggingMiddleware())
	router.Use(middleware.Sessions(cfg.SessionSecret, int(cfg.JWT.Expiry.Seconds())))

	auth := middleware.AuthMiddleware([]byte(cfg.JWT.Secret), redisClient.NewTokenRevocations(redis.Client))

	v1 := router.Group("/v1", auth)
	{
		v1.POST("/customers", customerHandler.CreateCustomer)
		v1.GET("/customers", customerHandler.ListCustomers)
		v1.GET("/customers/:customerId", customerHandler.GetCustomer)
		v1.PATCH("/customers/:customerId", customerHandler.UpdateCustomer)
		v1.DELETE("/customers/:customerId", customerHandler.DeleteCustomer)
		v1.GET("/dashboard", customerHandler.GetDashboard)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// transaction changes move the dashboard totals
	go func() {
		subscriber := events.NewSubscriber(redis.Client, events.SubscriberConfig{
			Group:    "customer-service-group",
			Consumer: "customer-consumer-1",
			Stream:   events.TransactionEventsStream,
			Handler:  commandSvc.HandleTransactionEvent,
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

	log.Printf("Customer service starting on port %s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
