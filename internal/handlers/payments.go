package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/middleware"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/page"
)

// Response texts of the payment details endpoint.
const (
	InvalidPaymentDetailsMessage = "Invalid or missing payment details."
	PaymentDetailsFailedMessage  = "Payment details could not be submitted."
)

var paymentFormMethods = []models.PaymentMethod{
	models.PaymentMethodCreditCard,
	models.PaymentMethodDebitCard,
	models.PaymentMethodPayPal,
	models.PaymentMethodBankTransfer,
	models.PaymentMethodCashOnDelivery,
	models.PaymentMethodBKash,
	models.PaymentMethodRocket,
	models.PaymentMethodNagad,
	models.PaymentMethodApplePay,
	models.PaymentMethodGooglePay,
	models.PaymentMethodMasterCard,
}

// PaymentForm handles GET /payment/details
func (h *Handlers) PaymentForm(c *gin.Context) {
	var buf bytes.Buffer
	err := page.RenderPaymentForm(&buf, page.PaymentFormView{
		Methods:       paymentFormMethods,
		DefaultMethod: models.PaymentMethodBankTransfer,
	})
	if err != nil {
		h.logger.Error("Failed to render payment form", logging.Fields{"error": err.Error()})
		handleError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// SubmitPaymentDetails handles POST /payment/details
func (h *Handlers) SubmitPaymentDetails(c *gin.Context) {
	var req models.PaymentDetailsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.PaymentDetailsResponse{
			Status: "error",
			Errors: InvalidPaymentDetailsMessage,
		})
		return
	}

	ctx := c.Request.Context()
	resp, err := h.paymentService.SubmitDetails(ctx, middleware.UserIDFrom(ctx), &req)
	if err != nil {
		if _, ok := errors.AsValidationError(err); ok {
			c.JSON(http.StatusBadRequest, models.PaymentDetailsResponse{
				Status: "error",
				Errors: InvalidPaymentDetailsMessage,
			})
			return
		}
		c.JSON(http.StatusBadGateway, models.PaymentDetailsResponse{
			Status: "error",
			Errors: PaymentDetailsFailedMessage,
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// LatestPayment handles GET /api/v1/payments/latest
func (h *Handlers) LatestPayment(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserIDFrom(ctx)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user id required"})
		return
	}

	payment, err := h.paymentService.LatestCompleted(ctx, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}
