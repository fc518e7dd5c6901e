// Package server implements the HTTP server command.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	apikeyusecases "keygate/internal/application/apikey/usecases"
	billingusecases "keygate/internal/application/billing/usecases"
	subusecases "keygate/internal/application/subscription/usecases"
	"keygate/internal/infrastructure/cache"
	"keygate/internal/infrastructure/config"
	"keygate/internal/infrastructure/database"
	"keygate/internal/infrastructure/gateway"
	"keygate/internal/infrastructure/migration"
	"keygate/internal/infrastructure/payment"
	"keygate/internal/infrastructure/repository"
	httpiface "keygate/internal/interfaces/http"
	"keygate/internal/interfaces/http/handlers"
	"keygate/internal/shared/logger"
)

// NewCommand creates the server command.
func NewCommand() *cobra.Command {
	var env string
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  "Start the API server: key management, subscription management, and the billing webhook endpoint.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if envVar := os.Getenv("ENV"); envVar != "" {
				env = envVar
			}
			return run(env, autoMigrate)
		},
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, production, test)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run schema migration before serving")

	return cmd
}

func run(env string, autoMigrate bool) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("starting server", "env", env)

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	if autoMigrate {
		if err := migration.AutoMigrate(database.Get()); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	log := logger.NewLogger()
	db := database.Get()

	// The quota cache is best effort; an unreachable redis only costs
	// extra plan lookups.
	var quotaCache apikeyusecases.QuotaCache
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warnw("redis unavailable, quota cache disabled", "error", err)
	} else {
		quotaCache = cache.NewPlanQuotaCache(redisClient, log)
	}

	accountRepo := repository.NewAccountRepository(db, log)
	planRepo := repository.NewPlanRepository(db, log)
	subscriptionRepo := repository.NewSubscriptionRepository(db, log)
	invoiceRepo := repository.NewInvoiceRepository(db, log)
	apikeyRepo := repository.NewAPIKeyRepository(db, log)
	eventRepo := repository.NewBillingEventRepository(db, log)

	consumerGateway := gateway.NewClient(&cfg.Gateway, log)
	paymentProvider := payment.NewStripeClient(&cfg.Stripe, log)

	createAPIKey := apikeyusecases.NewCreateAPIKeyUseCase(
		apikeyRepo, accountRepo, subscriptionRepo, planRepo, consumerGateway, quotaCache, log)
	revokeAPIKey := apikeyusecases.NewRevokeAPIKeyUseCase(apikeyRepo, consumerGateway, log)
	listAPIKeys := apikeyusecases.NewListAPIKeysUseCase(apikeyRepo, log)
	syncRateLimits := apikeyusecases.NewSyncRateLimitsUseCase(
		apikeyRepo, subscriptionRepo, planRepo, consumerGateway, quotaCache, log)

	reconcileSubscription := billingusecases.NewReconcileSubscriptionUseCase(subscriptionRepo, syncRateLimits, log)
	recordInvoice := billingusecases.NewRecordInvoiceUseCase(accountRepo, subscriptionRepo, invoiceRepo, log)
	processEvent := billingusecases.NewProcessEventUseCase(reconcileSubscription, recordInvoice, log)

	createSubscription := subusecases.NewCreateSubscriptionUseCase(
		accountRepo, subscriptionRepo, planRepo, paymentProvider, log)
	cancelSubscription := subusecases.NewCancelSubscriptionUseCase(
		subscriptionRepo, paymentProvider, syncRateLimits, log)
	changePlan := subusecases.NewChangePlanUseCase(
		subscriptionRepo, planRepo, paymentProvider, syncRateLimits, log)
	updatePaymentMethod := subusecases.NewUpdatePaymentMethodUseCase(accountRepo, paymentProvider, log)

	router := httpiface.NewRouter(httpiface.RouterConfig{
		Mode:                mapEnvToGinMode(env),
		WebhookHandler:      handlers.NewWebhookHandler(eventRepo, processEvent, cfg.Stripe.WebhookSecret, log),
		APIKeyHandler:       handlers.NewAPIKeyHandler(createAPIKey, revokeAPIKey, listAPIKeys, log),
		SubscriptionHandler: handlers.NewSubscriptionHandler(createSubscription, cancelSubscription, changePlan, updatePaymentMethod, planRepo, subscriptionRepo, log),
		BillingEventHandler: handlers.NewBillingEventHandler(eventRepo, log),
	})

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func mapEnvToGinMode(env string) string {
	switch env {
	case "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
