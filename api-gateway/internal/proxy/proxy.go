// Package proxy forwards gateway requests to the ledger services.
package proxy

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/middleware"
	"github.com/gin-gonic/gin"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
)

type Proxy struct {
	client *http.Client
}

func New(timeout time.Duration) *Proxy {
	return &Proxy{client: &http.Client{Timeout: timeout}}
}

// To forwards the request unchanged to serviceURL.
func (p *Proxy) To(serviceURL string) gin.HandlerFunc {
	return p.forward(serviceURL, "")
}

// Rewrite forwards the request to path on serviceURL.
func (p *Proxy) Rewrite(serviceURL, path string) gin.HandlerFunc {
	return p.forward(serviceURL, path)
}

func (p *Proxy) forward(serviceURL, path string) gin.HandlerFunc {
	serviceURL = strings.TrimSuffix(serviceURL, "/")
	return func(c *gin.Context) {
		target := path
		if target == "" {
			target = c.Request.URL.Path
		}
		targetURL := serviceURL + target
		if c.Request.URL.RawQuery != "" {
			targetURL += "?" + c.Request.URL.RawQuery
		}

		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
		}

		req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, targetURL, bytes.NewReader(bodyBytes))
		if err != nil {
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create request")
			return
		}

		for key, values := range c.Request.Header {
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}

		// identity headers only ever come from the gateway
		req.Header.Del(HeaderUserID)
		req.Header.Del(HeaderUserEmail)
		if id, ok := middleware.CurrentIdentity(c); ok {
			req.Header.Set(HeaderUserID, id.UserID)
			req.Header.Set(HeaderUserEmail, id.Email)
		}

		resp, err := p.client.Do(req)
		if err != nil {
			log.Printf("Error proxying request to %s: %v", serviceURL, err)
			middleware.RespondWithError(c, http.StatusBadGateway, "Service unavailable")
			return
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			middleware.RespondWithError(c, http.StatusBadGateway, "Failed to read response")
			return
		}

		for key, values := range resp.Header {
			for _, value := range values {
				c.Writer.Header().Add(key, value)
			}
		}

		c.Data(resp.StatusCode, resp.Header.Get("Content-Type"), respBody)
	}
}
