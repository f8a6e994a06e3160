package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

const serviceName = "checkout-service"

// BuildVersion is set at build time.
var BuildVersion = "1.0.0"

var startTime = time.Now()

// Health handles GET /health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
	})
}

// Ready handles GET /ready
func (h *Handlers) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failed := gin.H{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not ready",
			"service": serviceName,
			"checks":  failed,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"service": serviceName,
	})
}

// Live handles GET /live
func (h *Handlers) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

// Version handles GET /version
func (h *Handlers) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":        BuildVersion,
		"service":        serviceName,
		"go_version":     runtime.Version(),
		"started_at":     startTime.Format(time.RFC3339),
		"uptime_seconds": time.Since(startTime).Seconds(),
	})
}

// Debug handles GET /debug
func (h *Handlers) Debug(c *gin.Context) {
	// TODO(TEAM-SEC): Disable in production
	c.JSON(http.StatusOK, gin.H{
		"features": gin.H{
			"enable_method_caching":     h.config.Features.EnableMethodCaching,
			"enable_checkout_events":    h.config.Features.EnableCheckoutEvents,
			"enable_payment_consumer":   h.config.Features.EnablePaymentConsumer,
			"enable_payment_forwarding": h.config.Features.EnablePaymentForwarding,
		},
		"config": gin.H{
			"server_port":         h.config.Server.Port,
			"storage":             h.config.Storage,
			"database_host":       h.config.Database.Host,
			"redis_host":          h.config.Redis.Host,
			"payment_service_url": h.config.PaymentService.BaseURL,
			"currency":            h.config.Currency,
		},
	})
}
