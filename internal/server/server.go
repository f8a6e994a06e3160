// Package server wires the HTTP routes of the checkout service.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/handlers"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/middleware"
)

type Server struct {
	config   *config.Config
	router   *gin.Engine
	handlers *handlers.Handlers
	metrics  *metrics.Metrics
	http     *http.Server
	logger   *logging.Logger
}

func New(h *handlers.Handlers, m *metrics.Metrics, cfg *config.Config) *Server {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.UserID(),
		middleware.RequestLogger(logging.NewLogger("http")),
		m.Middleware(),
	)

	s := &Server{
		config:   cfg,
		router:   router,
		handlers: h,
		metrics:  m,
		logger:   logging.NewLogger("server"),
	}

	s.setupRoutes()

	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.Health)
	s.router.GET("/ready", s.handlers.Ready)
	s.router.GET("/live", s.handlers.Live)
	s.router.GET("/version", s.handlers.Version)
	s.router.GET("/debug", s.handlers.Debug)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	s.router.GET("/shipping/", s.handlers.ShippingPage)
	s.router.GET("/shipping/shipping-methods/", s.handlers.ShippingPage)

	s.router.GET("/payment/details", s.handlers.PaymentForm)
	s.router.POST("/payment/details", s.handlers.SubmitPaymentDetails)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/shipping/methods", s.handlers.ListShippingMethods)
		v1.POST("/shipping/methods", s.handlers.CreateShippingMethod)
		v1.PUT("/shipping/methods/:method/active", s.handlers.SetShippingMethodActive)
		v1.POST("/shipping/quote", s.handlers.Quote)

		v1.GET("/payments/latest", s.handlers.LatestPayment)

		v1.GET("/promotions/codes", s.handlers.ListDiscountCodes)
		v1.GET("/promotions/codes/:code", s.handlers.GetDiscountCode)
		v1.POST("/promotions/apply", s.handlers.ApplyDiscountCode)
	}
}

// Handler returns the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called. It returns http.ErrServerClosed on
// a clean shutdown.
func (s *Server) Start() error {
	s.logger.Info("Starting server", logging.Fields{"addr": s.http.Addr})
	return s.http.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
