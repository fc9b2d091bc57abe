package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PerfectBenjamin/the-benjamites-ledger/api-gateway/internal/proxy"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/config"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/middleware"
	redisClient "github.com/PerfectBenjamin/the-benjamites-ledger/shared/redis"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.MustLoad("api-gateway", "8080")

	// Redis is only consulted for revoked tokens
	redis, err := redisClient.NewClient(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	router := gin.New()
	router.Use(gin.Recovery(), middleware.LoggingMiddleware())
	router.Use(middleware.Sessions(cfg.SessionSecret, int(cfg.JWT.Expiry.Seconds())))

	auth := middleware.AuthMiddleware([]byte(cfg.JWT.Secret), redisClient.NewTokenRevocations(redis.Client))
	proxy.Register(router, proxy.New(cfg.HTTPClientTimeout), cfg.UpstreamConfig, auth)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("API Gateway starting on port %s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
