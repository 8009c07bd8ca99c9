package conversation

import (
	"context"
	"strings"

	"github.com/techrehub/chatbot-service/internal/domain/models"
)

// Quick-reply payloads. Prefixed payloads carry a catalog item ID.
const (
	payloadListServices  = "list_services"
	payloadBackServices  = "back_services"
	payloadListProducts  = "list_products"
	payloadBackProducts  = "back_products"
	payloadHumanTransfer = "human_transfer"
	payloadConfirmYes    = "confirm_yes"
	payloadConfirmNo     = "confirm_no"

	payloadServicePrefix      = "service_"
	payloadProductPrefix      = "product_"
	payloadBookPrefix         = "book_"
	payloadQuotePrefix        = "quote_"
	payloadProductQuotePrefix = "productquote_"
	payloadDemoPrefix         = "demo_"
)

// handlePayload routes a tapped quick-reply or button.
func (e *Engine) handlePayload(ctx context.Context, session *models.Session, payload string) models.Directive {
	// Confirmation buttons resolve through the same yes/no protocol as
	// typed answers.
	if payload == payloadConfirmYes || payload == payloadConfirmNo {
		if isConfirmingStage(session.Stage) {
			answer := "yes"
			if payload == payloadConfirmNo {
				answer = "no"
			}
			return e.handleConfirmation(ctx, session, answer)
		}
		return text(fallbackText)
	}

	switch payload {
	case payloadListServices, payloadBackServices:
		return servicesReply(e.deps.Catalog.Services())
	case payloadListProducts, payloadBackProducts:
		return productsReply(e.deps.Catalog.Products())
	case payloadHumanTransfer:
		return e.escalate(ctx, session)
	}

	// The productquote_ prefix must be tried before quote_; they share a
	// suffix.
	switch {
	case strings.HasPrefix(payload, payloadProductQuotePrefix):
		return e.startProductQuote(session, strings.TrimPrefix(payload, payloadProductQuotePrefix))
	case strings.HasPrefix(payload, payloadServicePrefix):
		return e.showItem(session, strings.TrimPrefix(payload, payloadServicePrefix))
	case strings.HasPrefix(payload, payloadProductPrefix):
		return e.showItem(session, strings.TrimPrefix(payload, payloadProductPrefix))
	case strings.HasPrefix(payload, payloadBookPrefix):
		return e.startBooking(session, strings.TrimPrefix(payload, payloadBookPrefix))
	case strings.HasPrefix(payload, payloadQuotePrefix):
		return e.startQuote(session, strings.TrimPrefix(payload, payloadQuotePrefix))
	case strings.HasPrefix(payload, payloadDemoPrefix):
		return e.startDemo(session, strings.TrimPrefix(payload, payloadDemoPrefix))
	}

	e.deps.Logger.Warn().Str("payload", payload).Msg("unknown quick-reply payload")
	return text(fallbackText)
}

func (e *Engine) showItem(session *models.Session, id string) models.Directive {
	item, err := e.deps.Catalog.Get(id)
	if err != nil {
		return text(fallbackText)
	}
	if item.Kind == models.CatalogProduct {
		session.Context.SelectedProductID = item.ID
	} else {
		session.Context.SelectedServiceID = item.ID
	}
	return itemInfoReply(item)
}

func (e *Engine) startBooking(session *models.Session, serviceID string) models.Directive {
	if _, err := e.deps.Catalog.Get(serviceID); err == nil {
		session.Context.SelectedServiceID = serviceID
	}
	session.Stage = models.StageAwaitingBookingDetails
	return text(bookingPromptText)
}

func (e *Engine) startQuote(session *models.Session, serviceID string) models.Directive {
	if _, err := e.deps.Catalog.Get(serviceID); err == nil {
		session.Context.SelectedServiceID = serviceID
	}
	session.Stage = models.StageAwaitingQuoteDetails
	return text(quotePromptText)
}

func (e *Engine) startProductQuote(session *models.Session, productID string) models.Directive {
	if _, err := e.deps.Catalog.Get(productID); err == nil {
		session.Context.SelectedProductID = productID
	}
	session.Stage = models.StageAwaitingProductQuoteInput
	return text(productQuotePromptText)
}

func (e *Engine) startDemo(session *models.Session, productID string) models.Directive {
	if _, err := e.deps.Catalog.Get(productID); err == nil {
		session.Context.SelectedProductID = productID
	}
	session.Stage = models.StageAwaitingDemoDetails
	return text(demoPromptText)
}

func isConfirmingStage(stage models.Stage) bool {
	switch stage {
	case models.StageConfirmingBooking,
		models.StageConfirmingQuote,
		models.StageConfirmingProductQuote,
		models.StageConfirmingDemo:
		return true
	default:
		return false
	}
}
