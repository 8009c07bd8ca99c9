// Package routes defines the HTTP routes for the TechRehub chatbot service.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/techrehub/chatbot-service/internal/api/handlers"
	"github.com/techrehub/chatbot-service/internal/api/middleware"
)

// Config holds the dependencies for setting up routes.
type Config struct {
	HealthHandler    *handlers.HealthHandler
	WhatsAppWebhook  *handlers.WebhookHandler
	MessengerWebhook *handlers.WebhookHandler

	// PaynowHandler is nil when the payment gateway is not configured.
	PaynowHandler *handlers.PaynowHandler
}

// Setup configures all routes on the Gin engine.
func Setup(r *gin.Engine, cfg *Config) {
	// Health check routes
	r.GET("/health", cfg.HealthHandler.Health)
	r.GET("/ready", cfg.HealthHandler.Ready)
	r.GET("/live", cfg.HealthHandler.Live)

	webhooks := r.Group("/webhooks")
	{
		webhooks.GET("/whatsapp", cfg.WhatsAppWebhook.Verify)
		webhooks.POST("/whatsapp", cfg.WhatsAppWebhook.Receive)

		webhooks.GET("/messenger", cfg.MessengerWebhook.Verify)
		webhooks.POST("/messenger", cfg.MessengerWebhook.Receive)
	}

	if cfg.PaynowHandler != nil {
		payments := r.Group("/payments")
		{
			payments.POST("/paynow/callback", cfg.PaynowHandler.Callback)
		}
	}

	r.NoRoute(middleware.NotFound())
	r.NoMethod(middleware.MethodNotAllowed())
}

// SetupWithMiddleware sets up routes with common middleware.
func SetupWithMiddleware(r *gin.Engine, cfg *Config, loggingMw *middleware.LoggingMiddleware, logger zerolog.Logger) {
	r.Use(loggingMw.Logger())
	r.Use(middleware.Recovery(logger))

	Setup(r, cfg)
}
