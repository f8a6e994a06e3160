package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/handlers"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/middleware"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/promotions"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/repository"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/service"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Currency: "USD", Server: config.ServerConfig{Port: 0}}
	m := metrics.New()
	payments := repository.NewMemoryPaymentRepository()
	catalog, err := promotions.NewCatalog(nil)
	require.NoError(t, err)

	h := handlers.NewHandlers(
		service.NewShippingService(repository.NewMemoryShippingMethodRepository(), nil, payments, m, cfg),
		service.NewPaymentService(payments, nil, nil, m, cfg),
		service.NewPromotionService(catalog, repository.NewMemoryDiscountCodeRepository(), m),
		cfg,
	)
	return New(h, m, cfg)
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/live", http.StatusOK},
		{http.MethodGet, "/version", http.StatusOK},
		{http.MethodGet, "/shipping/", http.StatusOK},
		{http.MethodGet, "/shipping/shipping-methods/", http.StatusOK},
		{http.MethodGet, "/payment/details", http.StatusOK},
		{http.MethodPost, "/payment/details", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/shipping/methods", http.StatusOK},
		{http.MethodGet, "/api/v1/promotions/codes", http.StatusOK},
		{http.MethodGet, "/nowhere", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.True(t, strings.Contains(body, `checkout_http_request_duration_seconds_count{method="GET",route="/health",status="200"} 1`), body)
}
