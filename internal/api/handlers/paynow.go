package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/techrehub/chatbot-service/internal/api/middleware"
	domainerrors "github.com/techrehub/chatbot-service/internal/domain/errors"
	"github.com/techrehub/chatbot-service/internal/services/payments"
)

// PaynowHandler handles Paynow gateway result callbacks.
type PaynowHandler struct {
	payments payments.Service
	gateway  payments.Gateway
	logger   zerolog.Logger
}

// NewPaynowHandler creates a new PaynowHandler.
func NewPaynowHandler(svc payments.Service, gateway payments.Gateway, logger zerolog.Logger) *PaynowHandler {
	return &PaynowHandler{
		payments: svc,
		gateway:  gateway,
		logger:   logger.With().Str("component", "paynow_handler").Logger(),
	}
}

// Callback handles the POST status update Paynow sends to the result URL.
func (h *PaynowHandler) Callback(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		middleware.HandleError(c, domainerrors.NewValidationError("invalid callback payload", err.Error()))
		return
	}
	form := c.Request.PostForm

	if h.gateway != nil && !h.gateway.VerifyCallback(form) {
		h.logger.Warn().Str("reference", form.Get("reference")).Msg("paynow callback hash verification failed")
		middleware.HandleError(c, domainerrors.NewUnauthorizedError("invalid callback hash"))
		return
	}

	reference := form.Get("reference")
	if reference == "" {
		middleware.HandleError(c, domainerrors.NewValidationError("callback reference is required", ""))
		return
	}

	amount, err := strconv.ParseFloat(form.Get("amount"), 64)
	if err != nil {
		middleware.HandleError(c, domainerrors.NewValidationError("invalid callback amount", form.Get("amount")))
		return
	}

	data := payments.CallbackData{
		Reference:  reference,
		GatewayRef: form.Get("paynowreference"),
		Amount:     amount,
		Status:     form.Get("status"),
		Raw:        form,
	}

	payment, err := h.payments.HandleCallback(c.Request.Context(), data)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"reference": payment.Reference,
	})
}
