package rest

import (
	"net/http"

	v1 "github.com/billflow/billflow/internal/api/v1"
	"github.com/billflow/billflow/internal/config"
	"github.com/billflow/billflow/internal/logger"
	"github.com/billflow/billflow/internal/rest/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Customer     *v1.CustomerHandler
	Product      *v1.ProductHandler
	Subscription *v1.SubscriptionHandler
	Invoice      *v1.InvoiceHandler
	Payment      *v1.PaymentHandler
	CreditNote   *v1.CreditNoteHandler
	Dashboard    *v1.DashboardHandler
	Gateway      *v1.GatewayHandler
}

// NewRouter builds the gin engine with all routes and middleware mounted.
func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/v1")

	customers := api.Group("/customers")
	{
		customers.POST("", handlers.Customer.CreateCustomer)
		customers.GET("", handlers.Customer.ListCustomers)
		customers.GET("/:id", handlers.Customer.GetCustomer)
		customers.PUT("/:id", handlers.Customer.UpdateCustomer)
		customers.DELETE("/:id", handlers.Customer.DeleteCustomer)
	}

	products := api.Group("/products")
	{
		products.POST("", handlers.Product.CreateProduct)
		products.GET("", handlers.Product.ListProducts)
		products.GET("/:id", handlers.Product.GetProduct)
		products.PUT("/:id", handlers.Product.UpdateProduct)
		products.DELETE("/:id", handlers.Product.DeleteProduct)
	}

	subscriptions := api.Group("/subscriptions")
	{
		subscriptions.POST("", handlers.Subscription.CreateSubscription)
		subscriptions.GET("", handlers.Subscription.ListSubscriptions)
		subscriptions.GET("/:id", handlers.Subscription.GetSubscription)
		subscriptions.PUT("/:id", handlers.Subscription.UpdateSubscription)
		subscriptions.DELETE("/:id", handlers.Subscription.DeleteSubscription)
		subscriptions.POST("/:id/pause", handlers.Subscription.PauseSubscription)
		subscriptions.POST("/:id/resume", handlers.Subscription.ResumeSubscription)
		subscriptions.POST("/:id/cancel", handlers.Subscription.CancelSubscription)
	}

	invoices := api.Group("/invoices")
	{
		invoices.POST("", handlers.Invoice.CreateInvoice)
		invoices.GET("", handlers.Invoice.ListInvoices)
		invoices.GET("/:id", handlers.Invoice.GetInvoice)
		invoices.PUT("/:id", handlers.Invoice.UpdateInvoice)
		invoices.DELETE("/:id", handlers.Invoice.DeleteInvoice)
		invoices.POST("/:id/finalize", handlers.Invoice.FinalizeInvoice)
		invoices.POST("/:id/overdue", handlers.Invoice.MarkInvoiceOverdue)
	}

	payments := api.Group("/payments")
	{
		payments.POST("", handlers.Payment.CreatePayment)
		payments.GET("", handlers.Payment.ListPayments)
		payments.GET("/:id", handlers.Payment.GetPayment)
		payments.PUT("/:id", handlers.Payment.UpdatePayment)
		payments.DELETE("/:id", handlers.Payment.DeletePayment)
	}

	creditNotes := api.Group("/credit-notes")
	{
		creditNotes.POST("", handlers.CreditNote.CreateCreditNote)
		creditNotes.GET("", handlers.CreditNote.ListCreditNotes)
		creditNotes.GET("/:id", handlers.CreditNote.GetCreditNote)
		creditNotes.POST("/:id/apply", handlers.CreditNote.ApplyCreditNote)
		creditNotes.POST("/:id/void", handlers.CreditNote.VoidCreditNote)
	}

	api.GET("/dashboard/metrics", handlers.Dashboard.GetMetrics)

	gateways := api.Group("/gateways")
	{
		gateways.POST("/stripe/payment-intents", handlers.Gateway.CreateStripePaymentIntent)
		gateways.POST("/paypal/orders", handlers.Gateway.CreatePayPalOrder)
		gateways.POST("/paypal/capture", handlers.Gateway.CapturePayPalOrder)
	}

	webhooks := api.Group("/webhooks")
	{
		webhooks.POST("/stripe", handlers.Gateway.HandleStripeWebhook)
		webhooks.POST("/paypal", handlers.Gateway.HandlePayPalWebhook)
	}

	return router
}
