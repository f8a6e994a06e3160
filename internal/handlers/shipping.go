package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/middleware"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/page"
)

// ShippingPage handles GET /shipping/shipping-methods/
func (h *Handlers) ShippingPage(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserIDFrom(ctx)

	sp, err := h.shippingService.ShippingPage(ctx, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := page.RenderShipping(&buf, page.NewShippingView(sp)); err != nil {
		h.logger.Error("Failed to render shipping page", logging.Fields{"error": err.Error()})
		handleError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// ListShippingMethods handles GET /api/v1/shipping/methods
func (h *Handlers) ListShippingMethods(c *gin.Context) {
	methods, err := h.shippingService.ListActiveMethods(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"methods":  methods,
		"currency": h.config.Currency,
	})
}

// CreateShippingMethod handles POST /api/v1/shipping/methods
func (h *Handlers) CreateShippingMethod(c *gin.Context) {
	var req models.CreateShippingMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind shipping method request", logging.Fields{"error": err.Error()})
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	method, err := h.shippingService.CreateMethod(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, method)
}

// SetShippingMethodActive handles PUT /api/v1/shipping/methods/:method/active
func (h *Handlers) SetShippingMethodActive(c *gin.Context) {
	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_active is required"})
		return
	}

	code := models.ShippingMethodCode(c.Param("method"))
	if err := h.shippingService.SetMethodActive(c.Request.Context(), code, *req.IsActive); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"method":    code,
		"is_active": *req.IsActive,
	})
}

// Quote handles POST /api/v1/shipping/quote
func (h *Handlers) Quote(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	quote, err := h.shippingService.Quote(ctx, middleware.UserIDFrom(ctx), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}
