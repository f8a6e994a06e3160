package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/middleware"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/page"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/promotions"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/repository"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/service"
)

type stubForwarder struct {
	err   error
	calls int
}

func (f *stubForwarder) SubmitPaymentDetails(ctx context.Context, userID string, req *models.PaymentDetailsRequest) error {
	f.calls++
	return f.err
}

type testEnv struct {
	router    *gin.Engine
	handlers  *Handlers
	payments  *repository.MemoryPaymentRepository
	forwarder *stubForwarder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	cfg := &config.Config{
		Currency: "USD",
		Features: config.FeatureFlags{EnablePaymentForwarding: true},
	}

	methods := repository.NewMemoryShippingMethodRepository()
	for _, m := range []*models.ShippingMethod{
		{Method: models.ShippingStandard, Charge: decimal.RequireFromString("5.00"), EstimatedDeliveryTime: "5-7 Business Days", IsActive: true},
		{Method: models.ShippingExpress, Charge: decimal.RequireFromString("12.50"), EstimatedDeliveryTime: "3-5 days", IsActive: true},
	} {
		_, err := methods.Create(ctx, m)
		require.NoError(t, err)
	}

	payments := repository.NewMemoryPaymentRepository()
	require.NoError(t, payments.Upsert(ctx, &models.Payment{
		UserID:        "user-1",
		Amount:        decimal.RequireFromString("49.99"),
		Status:        models.PaymentStatusCompleted,
		TransactionID: "tx-1",
		PaymentDate:   time.Now(),
	}))

	catalog, err := promotions.NewCatalog(map[string]string{"WELCOME10": "Welcome! 10% off your first order."})
	require.NoError(t, err)

	fwd := &stubForwarder{}
	h := NewHandlers(
		service.NewShippingService(methods, nil, payments, nil, cfg),
		service.NewPaymentService(payments, fwd, nil, nil, cfg),
		service.NewPromotionService(catalog, repository.NewMemoryDiscountCodeRepository(
			&models.DiscountCode{Code: "SUMMER25", IsActive: true},
		), nil),
		cfg,
	)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.UserID())
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/shipping/shipping-methods/", h.ShippingPage)
	r.GET("/payment/details", h.PaymentForm)
	r.POST("/payment/details", h.SubmitPaymentDetails)
	r.GET("/api/v1/shipping/methods", h.ListShippingMethods)
	r.POST("/api/v1/shipping/methods", h.CreateShippingMethod)
	r.PUT("/api/v1/shipping/methods/:method/active", h.SetShippingMethodActive)
	r.POST("/api/v1/shipping/quote", h.Quote)
	r.GET("/api/v1/payments/latest", h.LatestPayment)
	r.GET("/api/v1/promotions/codes", h.ListDiscountCodes)
	r.GET("/api/v1/promotions/codes/:code", h.GetDiscountCode)
	r.POST("/api/v1/promotions/apply", h.ApplyDiscountCode)

	return &testEnv{router: r, handlers: h, payments: payments, forwarder: fwd}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := &Handlers{}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "checkout-service", resp["service"])
}

func TestLive(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := &Handlers{}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Live(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReady(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	env.handlers.AddReadinessCheck("database", func(ctx context.Context) error {
		return stderrors.New("connection refused")
	})
	w = env.do(httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decode(t, w)
	assert.Equal(t, map[string]interface{}{"database": "connection refused"}, resp["checks"])
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", errors.ErrNotFound, http.StatusNotFound},
		{"validation", errors.NewValidationError("charge", "bad"), http.StatusBadRequest},
		{"internal", stderrors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			handleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestShippingPage(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/shipping/shipping-methods/", nil)
	req.Header.Set(middleware.HeaderUserID, "user-1")
	w := env.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	doc, err := page.Parse(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "49.99", doc.Page.TotalPayment())
	assert.Len(t, doc.Selector.Options(), 2)
	assert.Equal(t, "54.99", doc.Page.Text("finalTotal"))
}

func TestListShippingMethods(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/shipping/methods", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Methods  []*models.ShippingMethod `json:"methods"`
		Currency string                   `json:"currency"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Methods, 2)
	assert.Equal(t, models.ShippingExpress, resp.Methods[1].Method)
	assert.Equal(t, "USD", resp.Currency)
}

func TestCreateAndToggleShippingMethod(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonRequest(http.MethodPost, "/api/v1/shipping/methods",
		`{"method":"same_day","charge":"30.00","estimated_delivery_time":"Today"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "same_day", decode(t, w)["method"])

	w = env.do(jsonRequest(http.MethodPost, "/api/v1/shipping/methods",
		`{"method":"same_day","charge":"-1","estimated_delivery_time":"Today"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(jsonRequest(http.MethodPut, "/api/v1/shipping/methods/same_day/active", `{"is_active":false}`))
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(jsonRequest(http.MethodPut, "/api/v1/shipping/methods/overnight/active", `{"is_active":true}`))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(jsonRequest(http.MethodPut, "/api/v1/shipping/methods/same_day/active", `{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuote(t *testing.T) {
	env := newTestEnv(t)

	req := jsonRequest(http.MethodPost, "/api/v1/shipping/quote", `{"method":"express"}`)
	req.Header.Set(middleware.HeaderUserID, "user-1")
	w := env.do(req)
	require.Equal(t, http.StatusOK, w.Code)

	var q models.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
	assert.Equal(t, models.Quote{
		ShippingCharge:   "12.50",
		DeliveryEstimate: "3-5 days",
		GrandTotal:       "62.49",
		Valid:            true,
		Currency:         "USD",
	}, q)

	w = env.do(jsonRequest(http.MethodPost, "/api/v1/shipping/quote", `{"charge":"n/a","delivery":"Tomorrow","total_payment":"10"}`))
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, false, resp["valid"])
	assert.Equal(t, "0.00", resp["shipping_charge"])
	assert.Equal(t, "N/A", resp["delivery_estimate"])
	assert.NotContains(t, resp, "grand_total")

	w = env.do(jsonRequest(http.MethodPost, "/api/v1/shipping/quote", `{"method":"teleport"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(jsonRequest(http.MethodPost, "/api/v1/shipping/quote", `not json`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentForm(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/payment/details", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/payment/details"`)
}

func TestSubmitPaymentDetails(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(formRequest("/payment/details", url.Values{
		"payment_method": {"Bank Transfer"},
		"account_number": {"123456785678"},
		"password":       {"hunter2"},
	}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{
		"status":  "success",
		"message": service.PaymentDetailsMessage,
	}, decode(t, w))
	assert.Equal(t, 1, env.forwarder.calls)

	w = env.do(formRequest("/payment/details", url.Values{
		"payment_method": {"Bank Transfer"},
		"account_number": {"123456785678"},
	}))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]interface{}{
		"status": "error",
		"errors": InvalidPaymentDetailsMessage,
	}, decode(t, w))
	assert.Equal(t, 1, env.forwarder.calls)
}

func TestSubmitPaymentDetailsUpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.forwarder.err = stderrors.New("payment service returned status 503")

	w := env.do(formRequest("/payment/details", url.Values{
		"payment_method": {"PayPal"},
		"account_number": {"buyer@example.com"},
		"password":       {"secret"},
	}))
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, PaymentDetailsFailedMessage, decode(t, w)["errors"])
}

func TestLatestPayment(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/payments/latest", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/latest", nil)
	req.Header.Set(middleware.HeaderUserID, "user-1")
	w = env.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tx-1", decode(t, w)["transaction_id"])

	req = httptest.NewRequest(http.MethodGet, "/api/v1/payments/latest", nil)
	req.Header.Set(middleware.HeaderUserID, "user-2")
	w = env.do(req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPromotions(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonRequest(http.MethodPost, "/api/v1/promotions/apply", `{"code":"WELCOME10"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{
		"code":    "WELCOME10",
		"success": true,
		"message": "Welcome! 10% off your first order.",
	}, decode(t, w))

	w = env.do(formRequest("/api/v1/promotions/apply", url.Values{"code": {"welcome10"}}))
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, promotions.InvalidCodeMessage, resp["message"])

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/promotions/codes", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/promotions/codes/SUMMER25", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/promotions/codes/NOPE", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
