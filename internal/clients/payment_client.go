package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/middleware"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/models"
)

// HTTPPaymentClient forwards payment details to the payment service.
type HTTPPaymentClient struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	logger     *logging.Logger
}

// NewHTTPPaymentClient creates a new HTTP-based payment client.
func NewHTTPPaymentClient(cfg config.ServiceConfig) *HTTPPaymentClient {
	return &HTTPPaymentClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiKey: cfg.APIKey,
		logger: logging.NewLogger("payment-client"),
	}
}

type paymentDetailsPayload struct {
	UserID        string `json:"user_id,omitempty"`
	PaymentMethod string `json:"payment_method"`
	AccountNumber string `json:"account_number"`
	Password      string `json:"password"`
}

// SubmitPaymentDetails posts the customer's payment details.
// TODO(TEAM-SEC): Tokenize credentials in the popup so the password never reaches this service
func (c *HTTPPaymentClient) SubmitPaymentDetails(ctx context.Context, userID string, req *models.PaymentDetailsRequest) error {
	c.logger.Debug("Forwarding payment details", logging.Fields{
		"user_id":        userID,
		"payment_method": req.PaymentMethod,
		"account":        models.MaskAccountNumber(req.AccountNumber),
	})

	body, err := json.Marshal(paymentDetailsPayload{
		UserID:        userID,
		PaymentMethod: req.PaymentMethod,
		AccountNumber: req.AccountNumber,
		Password:      req.Password,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/v2/payment-details", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}

	c.setHeaders(ctx, httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Payment details request failed", logging.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		c.logger.Error("Payment details request returned error", logging.Fields{
			"user_id":     userID,
			"status_code": resp.StatusCode,
		})
		return fmt.Errorf("payment service returned status %d", resp.StatusCode)
	}

	c.logger.Info("Payment details forwarded", logging.Fields{"user_id": userID})
	return nil
}

func (c *HTTPPaymentClient) setHeaders(ctx context.Context, req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	if requestID := middleware.RequestIDFrom(ctx); requestID != "" {
		req.Header.Set(middleware.HeaderRequestID, requestID)
	}
	if userID := middleware.UserIDFrom(ctx); userID != "" {
		req.Header.Set(middleware.HeaderUserID, userID)
	}
}
