package proxy

import (
	"net/http"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/config"
	"github.com/gin-gonic/gin"
)

// Register mounts every public route. auth guards all of them except
// login and refresh.
func Register(router gin.IRouter, p *Proxy, upstream config.UpstreamConfig, auth gin.HandlerFunc) {
	authSvc := upstream.AuthServiceURL
	customerSvc := upstream.CustomerServiceURL
	transactionSvc := upstream.TransactionServiceURL

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "api-gateway"})
	})

	// Auth routes (no authentication required)
	router.POST("/v1/auth/login", p.To(authSvc))
	router.POST("/v1/auth/refresh", p.To(authSvc))

	router.POST("/v1/auth/logout", auth, p.To(authSvc))
	router.GET("/v1/auth/session", auth, p.To(authSvc))

	// PIN routes
	router.POST("/v1/pin/verify", auth, p.To(authSvc))
	router.PUT("/v1/pin", auth, p.To(authSvc))
	router.POST("/api/verify-pin", auth, p.Rewrite(authSvc, "/v1/pin/verify"))

	// Customer routes
	router.POST("/v1/customers", auth, p.To(customerSvc))
	router.GET("/v1/customers", auth, p.To(customerSvc))
	router.GET("/v1/customers/:customerId", auth, p.To(customerSvc))
	router.PATCH("/v1/customers/:customerId", auth, p.To(customerSvc))
	router.DELETE("/v1/customers/:customerId", auth, p.To(customerSvc))
	router.GET("/v1/dashboard", auth, p.To(customerSvc))

	// Transaction routes
	router.POST("/v1/customers/:customerId/transactions", auth, p.To(transactionSvc))
	router.GET("/v1/customers/:customerId/transactions", auth, p.To(transactionSvc))
	router.GET("/v1/customers/:customerId/transactions/export", auth, p.To(transactionSvc))
	router.GET("/v1/customers/:customerId/transactions/:transactionId", auth, p.To(transactionSvc))
	router.DELETE("/v1/customers/:customerId/transactions/:transactionId", auth, p.To(transactionSvc))
}
