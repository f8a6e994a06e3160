package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListDiscountCodes handles GET /api/v1/promotions/codes
func (h *Handlers) ListDiscountCodes(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	codes, err := h.promotionService.ListCodes(c.Request.Context(), activeOnly)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"codes": codes,
		"total": len(codes),
	})
}

// GetDiscountCode handles GET /api/v1/promotions/codes/:code
func (h *Handlers) GetDiscountCode(c *gin.Context) {
	code, err := h.promotionService.GetCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, code)
}

// ApplyDiscountCode handles POST /api/v1/promotions/apply
func (h *Handlers) ApplyDiscountCode(c *gin.Context) {
	var req struct {
		Code string `json:"code" form:"code"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.promotionService.ApplyCode(c.Request.Context(), req.Code)
	c.JSON(http.StatusOK, result)
}
