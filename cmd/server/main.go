// Package main is the entry point for the TechRehub chatbot service.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/techrehub/chatbot-service/internal/api/handlers"
	"github.com/techrehub/chatbot-service/internal/api/middleware"
	"github.com/techrehub/chatbot-service/internal/api/routes"
	"github.com/techrehub/chatbot-service/internal/channels/messenger"
	"github.com/techrehub/chatbot-service/internal/channels/whatsapp"
	"github.com/techrehub/chatbot-service/internal/config"
	"github.com/techrehub/chatbot-service/internal/core/cache"
	"github.com/techrehub/chatbot-service/internal/core/docdb"
	rediscache "github.com/techrehub/chatbot-service/internal/infrastructure/cache/redis"
	"github.com/techrehub/chatbot-service/internal/infrastructure/docdb/mongodb"
	"github.com/techrehub/chatbot-service/internal/services/catalog"
	"github.com/techrehub/chatbot-service/internal/services/classifier"
	"github.com/techrehub/chatbot-service/internal/services/conversation"
	"github.com/techrehub/chatbot-service/internal/services/notify"
	"github.com/techrehub/chatbot-service/internal/services/payments"
	"github.com/techrehub/chatbot-service/internal/services/sessions"
	"github.com/techrehub/chatbot-service/internal/services/workflows"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogging(cfg.Log)

	ctx := context.Background()

	// Initialize cache client
	cacheClient, err := createCacheClient(cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize cache client")
	}
	defer cacheClient.Close()

	// Initialize document db client
	docDBClient, err := createDocDBClient(ctx, cfg.DocDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize document db client")
	}
	defer docDBClient.Close(ctx)

	// Ensure database indexes
	if err := docDBClient.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure indexes")
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Setup router
	router, err := setupRouter(cfg, cacheClient, docDBClient)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up router")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("address", cfg.Server.Address()).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

// setupLogging configures the global zerolog logger.
func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// createCacheClient creates a cache client based on the configuration.
func createCacheClient(cfg config.CacheConfig) (cache.Cache, error) {
	return rediscache.NewCache(rediscache.Config{
		Host:       cfg.Host,
		Port:       cfg.Port,
		Password:   cfg.Password,
		DB:         cfg.DB,
		DefaultTTL: cfg.TTL,
	})
}

// createDocDBClient creates a document database client based on the configuration.
func createDocDBClient(ctx context.Context, cfg config.DocDBConfig) (docdb.Client, error) {
	return mongodb.NewClient(ctx, &mongodb.ClientConfig{
		URI:          cfg.URI,
		DatabaseName: cfg.Database,
	})
}

// setupRouter wires the services, channels and handlers onto a Gin router.
func setupRouter(cfg *config.Config, cacheClient cache.Cache, docDBClient docdb.Client) (*gin.Engine, error) {
	router := gin.New()

	logger := log.Logger

	loggingMw := middleware.NewLoggingMiddleware()

	// Create channel adapters
	whatsappClient, err := whatsapp.NewClient(whatsapp.ClientConfig{
		PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
		AccessToken:   cfg.WhatsApp.AccessToken,
		Timeout:       cfg.WhatsApp.SendTimeout,
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}
	whatsappAdapter := whatsapp.NewAdapter(whatsappClient)

	messengerClient, err := messenger.NewClient(messenger.ClientConfig{
		PageAccessToken: cfg.Messenger.PageAccessToken,
		Timeout:         cfg.Messenger.SendTimeout,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}
	messengerAdapter := messenger.NewAdapter(messengerClient)

	// Create services
	catalogService := catalog.NewService()
	intentClassifier := classifier.New(catalogService)

	sessionService, err := sessions.NewService(&sessions.Config{
		Cache:  cacheClient,
		Store:  docDBClient.Sessions(),
		TTL:    cfg.Cache.TTL,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	records := workflows.NewRecords(docDBClient, logger)

	notifier := notify.New(notify.Config{
		Sender:     whatsappAdapter,
		Recipients: cfg.Notify.AdminNumbers,
		Timeout:    cfg.Notify.Timeout,
		Logger:     logger,
	})

	// The payment gateway is optional; without credentials the bot still
	// runs, answering payment commands with a notice.
	var paymentService payments.Service
	var paymentGateway payments.Gateway
	if cfg.Paynow.Enabled() {
		gateway, err := payments.NewPaynowGateway(payments.PaynowConfig{
			IntegrationID:  cfg.Paynow.IntegrationID,
			IntegrationKey: cfg.Paynow.IntegrationKey,
			ResultURL:      cfg.Paynow.ResultURL,
			ReturnURL:      cfg.Paynow.ReturnURL,
			HTTPClient:     &http.Client{Timeout: cfg.Paynow.Timeout},
		})
		if err != nil {
			return nil, err
		}
		paymentGateway = gateway

		paymentService, err = payments.NewService(docDBClient, gateway, logger)
		if err != nil {
			return nil, err
		}
	} else {
		log.Warn().Msg("paynow credentials not configured, payments disabled")
	}

	engine, err := conversation.NewEngine(conversation.Deps{
		Classifier:  intentClassifier,
		Sessions:    sessionService,
		Catalog:     catalogService,
		Records:     records,
		Escalations: docDBClient.ChatSessions(),
		Bookings:    docDBClient.Bookings(),
		Quotations:  docDBClient.Quotations(),
		Payments:    paymentService,
		Notifier:    notifier,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	// Create handlers
	healthHandler := handlers.NewHealthHandler(cacheClient, docDBClient)

	whatsappWebhook, err := handlers.NewWebhookHandler(handlers.WebhookConfig{
		Adapter:     whatsappAdapter,
		Engine:      engine,
		Notifier:    notifier,
		VerifyToken: cfg.WhatsApp.VerifyToken,
		AppSecret:   cfg.WhatsApp.AppSecret,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	messengerWebhook, err := handlers.NewWebhookHandler(handlers.WebhookConfig{
		Adapter:     messengerAdapter,
		Engine:      engine,
		Notifier:    notifier,
		VerifyToken: cfg.Messenger.VerifyToken,
		AppSecret:   cfg.Messenger.AppSecret,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	var paynowHandler *handlers.PaynowHandler
	if paymentService != nil {
		paynowHandler = handlers.NewPaynowHandler(paymentService, paymentGateway, logger)
	}

	// Setup routes
	routesCfg := &routes.Config{
		HealthHandler:    healthHandler,
		WhatsAppWebhook:  whatsappWebhook,
		MessengerWebhook: messengerWebhook,
		PaynowHandler:    paynowHandler,
	}

	routes.SetupWithMiddleware(router, routesCfg, loggingMw, logger)

	return router, nil
}
