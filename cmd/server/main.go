package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/billflow/billflow/internal/api/v1"
	"github.com/billflow/billflow/internal/cache"
	"github.com/billflow/billflow/internal/config"
	"github.com/billflow/billflow/internal/integration/paypal"
	"github.com/billflow/billflow/internal/integration/stripe"
	"github.com/billflow/billflow/internal/logger"
	"github.com/billflow/billflow/internal/repository/memory"
	"github.com/billflow/billflow/internal/rest"
	"github.com/billflow/billflow/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cache.InitializeInMemoryCache()
	inMemCache := cache.GetInMemoryCache()

	repos := memory.NewRepositories()
	if cfg.Seed.Enabled {
		if err := memory.Seed(ctx, repos); err != nil {
			log.Fatalw("failed to seed repositories", "error", err)
		}
		log.Infow("seeded in-memory repositories")
	}

	params := service.NewServiceParams(log, cfg, inMemCache, repos)

	stripeClient := stripe.NewClient(cfg.Stripe, log)
	paypalClient := paypal.NewClient(cfg.PayPal, log)

	customerService := service.NewCustomerService(params)
	productService := service.NewProductService(params)
	subscriptionService := service.NewSubscriptionService(params)
	invoiceService := service.NewInvoiceService(params)
	paymentService := service.NewPaymentService(params)
	creditNoteService := service.NewCreditNoteService(params)
	dashboardService := service.NewDashboardService(params)
	gatewayService := service.NewGatewayService(params, stripeClient, paypalClient)

	handlers := rest.Handlers{
		Customer:     v1.NewCustomerHandler(customerService, log),
		Product:      v1.NewProductHandler(productService, log),
		Subscription: v1.NewSubscriptionHandler(subscriptionService, log),
		Invoice:      v1.NewInvoiceHandler(invoiceService, log),
		Payment:      v1.NewPaymentHandler(paymentService, log),
		CreditNote:   v1.NewCreditNoteHandler(creditNoteService, log),
		Dashboard:    v1.NewDashboardHandler(dashboardService, log),
		Gateway:      v1.NewGatewayHandler(gatewayService, log),
	}

	router := rest.NewRouter(handlers, cfg, log)

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		log.Infow("starting server", "address", cfg.Server.Address, "mode", cfg.Deployment.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Infow("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("graceful shutdown failed", "error", err)
	}
	log.Infow("server stopped")
}
