package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/clients"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/events"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/handlers"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/promotions"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/repository"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/server"
	"github.com/tm-acme-shop/acme-shop-checkout-service/internal/service"

	_ "github.com/lib/pq"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the checkout HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Methods seeded into the memory store so the pages have something to show.
var defaultShippingMethods = []*models.ShippingMethod{
	{Method: models.ShippingStandard, Charge: decimal.RequireFromString("5.00"), EstimatedDeliveryTime: "5-7 Business Days", IsActive: true},
	{Method: models.ShippingExpress, Charge: decimal.RequireFromString("15.00"), EstimatedDeliveryTime: "2-3 Business Days", IsActive: true},
	{Method: models.ShippingOvernight, Charge: decimal.RequireFromString("25.00"), EstimatedDeliveryTime: "1 Business Day", IsActive: true},
}

type stores struct {
	methods   repository.ShippingMethodRepository
	payments  repository.PaymentRepository
	discounts repository.DiscountCodeRepository
	db        *sql.DB
}

func runServe(parent context.Context) error {
	logger := logging.NewLogger("checkout-service")
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Infof("Starting checkout-service on port %d", cfg.Server.Port)

	st, err := openStores(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open storage", logging.Fields{"error": err.Error()})
		return err
	}
	if st.db != nil {
		defer st.db.Close()
	}

	catalog, err := promotions.LoadCatalog(cfg.PromotionsFile)
	if err != nil {
		logger.Error("Failed to load promotions", logging.Fields{"error": err.Error()})
		return err
	}

	m := metrics.New()

	var cache repository.ShippingMethodCache = repository.NoopShippingMethodCache{}
	var redisCache *repository.RedisShippingMethodCache
	if cfg.Features.EnableMethodCaching {
		redisCache = repository.NewRedisShippingMethodCache(cfg.Redis)
		defer redisCache.Close()
		cache = redisCache
	}

	var publisher service.EventPublisher = events.NoopPublisher{}
	if cfg.Features.EnableCheckoutEvents {
		kp := events.NewKafkaPublisher(cfg.Kafka)
		defer kp.Close()
		publisher = kp
	}

	var forwarder service.PaymentDetailsForwarder
	if cfg.Features.EnablePaymentForwarding {
		forwarder = clients.NewHTTPPaymentClient(cfg.PaymentService)
	}

	shippingService := service.NewShippingService(st.methods, cache, st.payments, m, cfg)
	paymentService := service.NewPaymentService(st.payments, forwarder, publisher, m, cfg)
	promotionService := service.NewPromotionService(catalog, st.discounts, m)

	if cfg.Storage == config.StorageMemory {
		for _, sm := range defaultShippingMethods {
			if _, err := st.methods.Create(ctx, sm); err != nil {
				return err
			}
		}
	}

	h := handlers.NewHandlers(shippingService, paymentService, promotionService, cfg)
	if st.db != nil {
		h.AddReadinessCheck("database", st.db.PingContext)
	}
	if redisCache != nil {
		h.AddReadinessCheck("redis", redisCache.Ping)
	}

	srv := server.New(h, m, cfg)

	logger.Info("Server starting", logging.Fields{
		"port":                      cfg.Server.Port,
		"storage":                   cfg.Storage,
		"enable_method_caching":     cfg.Features.EnableMethodCaching,
		"enable_checkout_events":    cfg.Features.EnableCheckoutEvents,
		"enable_payment_consumer":   cfg.Features.EnablePaymentConsumer,
		"enable_payment_forwarding": cfg.Features.EnablePaymentForwarding,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	var consumer *events.KafkaConsumer
	if cfg.Features.EnablePaymentConsumer {
		consumer = events.NewKafkaConsumer(cfg.Kafka, paymentService)
		go func() {
			if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("Event consumer failed", logging.Fields{"error": err.Error()})
			}
		}()
	}

	select {
	case err := <-errCh:
		logger.Error("Server failed to start", logging.Fields{"error": err.Error()})
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if consumer != nil {
		if err := consumer.Stop(); err != nil {
			logger.Warn("Failed to stop event consumer", logging.Fields{"error": err.Error()})
		}
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", logging.Fields{"error": err.Error()})
		return err
	}

	logger.Info("Server exited")
	return nil
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Storage == config.StorageMemory {
		return &stores{
			methods:   repository.NewMemoryShippingMethodRepository(),
			payments:  repository.NewMemoryPaymentRepository(),
			discounts: repository.NewMemoryDiscountCodeRepository(),
		}, nil
	}

	db, err := initDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &stores{
		methods:   repository.NewPostgresShippingMethodRepository(db),
		payments:  repository.NewPostgresPaymentRepository(db),
		discounts: repository.NewPostgresDiscountCodeRepository(db),
		db:        db,
	}, nil
}

func initDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := repository.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}

	logging.NewLogger("database").Info("Database connected", logging.Fields{
		"host": cfg.Database.Host,
		"name": cfg.Database.Name,
	})

	return db, nil
}
