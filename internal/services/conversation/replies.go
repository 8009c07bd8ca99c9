package conversation

import (
	"fmt"
	"strings"

	"github.com/techrehub/chatbot-service/internal/domain/models"
)

// Canned reply texts. Tone and wording follow the TechRehub support voice.
const (
	fallbackText = "I'm not sure I understand. Could you rephrase that or ask about " +
		"our services, bookings, or quotations? Type 'speak to a human' to reach our team."

	errorText = "I'm sorry, I encountered an error. Please try again or type " +
		"'speak to a human' for assistance."

	staleText = "I notice it's been a while since our last interaction. " +
		"Let me know how I can help you today!"

	bookingPromptText = "📅 To make a booking, please provide:\n\n" +
		"1. Your Name\n" +
		"2. Preferred Date (DD/MM/YYYY)\n" +
		"3. Preferred Time (HH:MM AM/PM)\n" +
		"4. Service Description\n\n" +
		"Format: Book: [Name], [Date], [Time], [Description]"

	quotePromptText = "📝 For a quotation, please provide:\n\n" +
		"1. Your Name\n" +
		"2. Service Requirements\n" +
		"3. Timeline (if any)\n" +
		"4. Budget Range (optional)\n\n" +
		"Format: Quote: [Name], [Requirements], [Timeline], [Budget]"

	productQuotePromptText = "💼 For a product quotation, please provide:\n\n" +
		"1. Company Name\n" +
		"2. Number of Users\n" +
		"3. Required Features\n" +
		"4. Integrations (optional)\n" +
		"5. Timeline (optional)\n\n" +
		"Format: ProductQuote: [Company], [Users], [Features], [Integrations], [Timeline]"

	demoPromptText = "🗓️ To schedule a product demo, please provide:\n\n" +
		"1. Your Name\n" +
		"2. Company Name\n" +
		"3. Preferred Date and Time\n" +
		"4. Team Size (optional)\n\n" +
		"Format: Demo: [Name], [Company], [Date/Time], [Team Size]"

	paymentHelpText = "To make a payment for TechRehub services:\n\n" +
		"1. For a booking, reply with 'Pay: booking, [your booking ID]'\n" +
		"2. For a quotation, reply with 'Pay: quotation, [your quotation ID]'\n" +
		"3. To check a payment, reply with 'Pay: status, [payment reference]'\n\n" +
		"If you don't have a booking or quotation ID, type 'speak to a human' for assistance."

	paymentsDisabledText = "Online payments are currently unavailable. " +
		"Please type 'speak to a human' and our team will arrange payment with you."

	escalationText = "I'm connecting you with a member of our team. " +
		"Someone will be with you shortly. Your conversation so far has been shared with them."

	retryText = "No problem, let's try that again."

	unsupportedTypeText = "I can only process text messages at the moment. " +
		"Please type your question or tap one of the buttons."

	portfolioText = "🏆 We've delivered 200+ repairs and a dozen custom chatbot projects " +
		"for businesses across retail, finance and healthcare. " +
		"Visit techrehub.co.zw/portfolio for case studies."

	promotionsText = "🎉 Current offers:\n\n" +
		"• 10% off your first repair booking\n" +
		"• Free diagnostics with any virus removal\n" +
		"• 1 month free on annual software product plans\n\n" +
		"Mention this chat when booking to claim."

	testimonialsText = "⭐ \"TechRehub recovered five years of family photos from a dead " +
		"drive. Lifesavers!\" - Rumbi M.\n\n" +
		"⭐ \"Their chatbot handles 80% of our customer questions.\" - T. Moyo, retail"

	newsletterText = "📬 To join our newsletter, send your email address to " +
		"hello@techrehub.co.zw with the subject 'Subscribe' and we'll add you to the list."

	leadContactText = "🤝 Our sales team would love to talk. Email sales@techrehub.co.zw " +
		"or type 'speak to a human' and we'll connect you right away."

	chatbotDevText = "🤖 We build custom AI chatbots for WhatsApp, Messenger and the web, " +
		"starting from $999. Want a product quotation? Reply with 'ProductQuote: " +
		"[Company], [Users], [Features]' or ask to see our products."

	greetingText = "👋 Welcome to TechRehub! I can help you with repairs, bookings, " +
		"quotations and our software products. What can I do for you today?"
)

func text(body string) models.Directive {
	return models.TextDirective{Body: body}
}

func greetingReply() models.Directive {
	return models.ButtonsDirective{
		Body: greetingText,
		Options: []models.ButtonOption{
			{Payload: payloadListServices, Label: "🔧 Our Services"},
			{Payload: payloadListProducts, Label: "💻 Our Products"},
			{Payload: payloadHumanTransfer, Label: "👤 Talk to a Human"},
		},
	}
}

func servicesReply(items []models.CatalogItem) models.Directive {
	return models.CarouselDirective{
		Title: "Here are our available services:",
		Kind:  models.CatalogService,
		Items: items,
	}
}

func productsReply(items []models.CatalogItem) models.Directive {
	return models.CarouselDirective{
		Title: "Here are our available products:",
		Kind:  models.CatalogProduct,
		Items: items,
	}
}

// itemInfoReply renders a catalog item with follow-up actions.
func itemInfoReply(item models.CatalogItem) models.Directive {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s*\n%s\n\nPrice: %s", item.Name, item.Description, item.Price)
	if item.Duration != "" {
		fmt.Fprintf(&sb, "\nDuration: %s", item.Duration)
	}
	if len(item.Features) > 0 {
		sb.WriteString("\n")
		for _, f := range item.Features {
			fmt.Fprintf(&sb, "\n• %s", f)
		}
	}

	var options []models.ButtonOption
	if item.Kind == models.CatalogProduct {
		options = []models.ButtonOption{
			{Payload: payloadProductQuotePrefix + item.ID, Label: "💼 Request Quote"},
			{Payload: payloadDemoPrefix + item.ID, Label: "🗓️ Book a Demo"},
			{Payload: payloadBackProducts, Label: "⬅️ Back to Products"},
		}
	} else {
		options = []models.ButtonOption{
			{Payload: payloadBookPrefix + item.ID, Label: "📅 Book Now"},
			{Payload: payloadQuotePrefix + item.ID, Label: "📝 Get a Quote"},
			{Payload: payloadBackServices, Label: "⬅️ Back to Services"},
		}
	}

	return models.ButtonsDirective{Body: sb.String(), Options: options}
}

func confirmationReply(summary string) models.Directive {
	return models.ConfirmationDirective{
		Summary: summary,
		Yes:     models.ButtonOption{Payload: payloadConfirmYes, Label: "✅ Yes"},
		No:      models.ButtonOption{Payload: payloadConfirmNo, Label: "❌ No"},
	}
}

func bookingSummary(d *models.BookingDetails) string {
	return fmt.Sprintf(
		"📅 Please confirm your booking details:\n\n"+
			"Name: %s\nDate: %s\nTime: %s\nDescription: %s\n\n"+
			"Is this correct? (Yes/No)",
		d.Name, d.Date, d.Time, d.Description,
	)
}

func quoteSummary(d *models.QuoteDetails) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📝 Please confirm your quotation request:\n\nName: %s\nRequirements: %s", d.Name, d.Requirements)
	if d.Timeline != "" {
		fmt.Fprintf(&sb, "\nTimeline: %s", d.Timeline)
	}
	if d.Budget != "" {
		fmt.Fprintf(&sb, "\nBudget: %s", d.Budget)
	}
	sb.WriteString("\n\nIs this correct? (Yes/No)")
	return sb.String()
}

func productQuoteSummary(d *models.ProductQuoteDetails) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "💼 Please confirm your product quotation request:\n\nCompany: %s\nUsers: %s\nFeatures: %s", d.Company, d.Users, d.Features)
	if d.Integrations != "" {
		fmt.Fprintf(&sb, "\nIntegrations: %s", d.Integrations)
	}
	if d.Timeline != "" {
		fmt.Fprintf(&sb, "\nTimeline: %s", d.Timeline)
	}
	sb.WriteString("\n\nIs this correct? (Yes/No)")
	return sb.String()
}

func demoSummary(d *models.DemoDetails) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🗓️ Please confirm your demo request:\n\nName: %s\nCompany: %s\nDate/Time: %s", d.Name, d.Company, d.DateTime)
	if d.Users != "" {
		fmt.Fprintf(&sb, "\nTeam Size: %s", d.Users)
	}
	sb.WriteString("\n\nIs this correct? (Yes/No)")
	return sb.String()
}
