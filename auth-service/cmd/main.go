package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authcmd "github.com/PerfectBenjamin/the-benjamites-ledger/auth-service/internal/command"
	"github.com/PerfectBenjamin/the-benjamites-ledger/auth-service/internal/handler"
	authqry "github.com/PerfectBenjamin/the-benjamites-ledger/auth-service/internal/query"
	"github.com/PerfectBenjamin/the-benjamites-ledger/auth-service/internal/repository"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/config"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/db"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/middleware"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/pin"
	redisClient "github.com/PerfectBenjamin/the-benjamites-ledger/shared/redis"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.MustLoad("auth-service", "8081")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database connection
	database := db.MustOpen(ctx, cfg.DatabaseURL, cfg.MigrateOnStart)
	defer database.Close()

	// Redis holds the revoked token ids
	redis, err := redisClient.NewClient(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	secret := []byte(cfg.JWT.Secret)
	revocations := redisClient.NewTokenRevocations(redis.Client)
	pinStore := pin.NewPostgresStore(database)
	verifier := pin.NewVerifier(pinStore)

	userRepo := repository.NewUserRepository(database)
	querySvc := authqry.NewAuthQueryService(userRepo, revocations, verifier, secret, cfg.JWT.Expiry)
	commandSvc := authcmd.NewAuthCommandService(revocations, pinStore, verifier)

	authHandler := handler.NewAuthHandler(commandSvc, querySvc)
	pinHandler := handler.NewPINHandler(commandSvc, querySvc)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.LoggingMiddleware())
	router.Use(middleware.Sessions(cfg.SessionSecret, int(cfg.JWT.Expiry.Seconds())))

	auth := middleware.AuthMiddleware(secret, revocations)

	v1 := router.Group("/v1/auth")
	{
		v1.POST("/login", authHandler.Login)
		v1.POST("/refresh", authHandler.RefreshToken)
		v1.POST("/logout", auth, authHandler.Logout)
		v1.GET("/session", auth, authHandler.Session)
	}

	pins := router.Group("/v1/pin", auth)
	{
		pins.POST("/verify", pinHandler.VerifyPIN)
		pins.PUT("", pinHandler.SetPIN)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

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

	log.Printf("Auth service starting on port %s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
