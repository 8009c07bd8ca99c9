// Package classifier maps free-text messages to conversation intents.
//
// Classification is a two step process. A deterministic keyword pass maps
// messages that mention a catalog item straight to that item's info intent
// with full confidence. Everything else goes through a naive Bayes model
// trained at construction time on a fixed phrase corpus.
package classifier

import (
	"strings"

	"github.com/jbrukh/bayesian"

	"github.com/techrehub/chatbot-service/internal/domain/models"
)

// Intent names. Info intents for catalog items are derived, see InfoIntent.
const (
	IntentGreeting            = "greeting"
	IntentServiceList         = "service.list"
	IntentProductList         = "product.list"
	IntentBookingStart        = "booking.start"
	IntentQuotationStart      = "quotation.start"
	IntentPaymentInitiate     = "payment.initiate"
	IntentPaymentStatus       = "payment.status"
	IntentTransferHuman       = "transfer.human"
	IntentPortfolioShow       = "portfolio.show"
	IntentPromotionOffers     = "promotion.offers"
	IntentTestimonialsShow    = "testimonials.show"
	IntentNewsletterSubscribe = "newsletter.subscribe"
	IntentLeadContact         = "lead.contact"
	IntentChatbotDevelopment  = "chatbot.development"

	// IntentUnknown is returned when no intent clears the confidence
	// threshold.
	IntentUnknown = "unknown"
)

// ConfidenceThreshold is the minimum probability for a model result to be
// trusted. Keyword matches bypass it.
const ConfidenceThreshold = 0.6

const (
	serviceInfoPrefix = "service.info."
	productInfoPrefix = "product.info."
)

// InfoIntent derives the info intent name for a catalog item.
func InfoIntent(item models.CatalogItem) string {
	if item.Kind == models.CatalogProduct {
		return productInfoPrefix + item.ID
	}
	return serviceInfoPrefix + item.ID
}

// ParseInfoIntent extracts the catalog item ID from an info intent.
// Returns the ID, the item kind, and whether the intent is an info intent.
func ParseInfoIntent(intent string) (string, models.CatalogItemKind, bool) {
	if id, ok := strings.CutPrefix(intent, serviceInfoPrefix); ok {
		return id, models.CatalogService, true
	}
	if id, ok := strings.CutPrefix(intent, productInfoPrefix); ok {
		return id, models.CatalogProduct, true
	}
	return "", "", false
}

// Result is the outcome of classifying one message.
type Result struct {
	// Intent is the best matching intent, or IntentUnknown when nothing
	// cleared the threshold.
	Intent string

	// Confidence is the probability of the best intent. 1.0 for keyword
	// matches.
	Confidence float64

	// KeywordMatch reports the result came from the deterministic keyword
	// pass rather than the model.
	KeywordMatch bool
}

// Catalog is the read surface the classifier needs from the catalog.
type Catalog interface {
	Services() []models.CatalogItem
	Products() []models.CatalogItem
	MatchKeyword(message string) (models.CatalogItem, bool)
}

// Classifier classifies messages. Safe for concurrent use after New; the
// model is trained once at construction and never mutated.
type Classifier struct {
	catalog Catalog
	model   *bayesian.Classifier

	// exact maps each normalized training phrase to its intent. Short
	// utterances share tokens across classes and can score below the
	// threshold even when they match a trained phrase verbatim.
	exact map[string]string
}

// New creates a classifier trained on the built-in phrase corpus plus
// derived info phrases for every catalog item.
func New(catalog Catalog) *Classifier {
	corpus := trainingCorpus()
	for _, item := range append(catalog.Services(), catalog.Products()...) {
		intent := InfoIntent(item)
		phrases := []string{
			"tell me about " + item.Name,
			"what is " + item.Name,
		}
		for _, kw := range item.Keywords {
			phrases = append(phrases, "tell me about "+kw, "what is "+kw)
			if item.Kind == models.CatalogProduct {
				phrases = append(phrases, kw+" product")
			} else {
				phrases = append(phrases, kw+" service")
			}
		}
		corpus[intent] = phrases
	}

	classes := make([]bayesian.Class, 0, len(corpus))
	for intent := range corpus {
		classes = append(classes, bayesian.Class(intent))
	}

	model := bayesian.NewClassifier(classes...)
	exact := make(map[string]string)
	for intent, phrases := range corpus {
		var words []string
		for _, phrase := range phrases {
			tokens := tokenize(phrase)
			words = append(words, tokens...)
			exact[strings.Join(tokens, " ")] = intent
		}
		model.Learn(words, bayesian.Class(intent))
	}

	return &Classifier{catalog: catalog, model: model, exact: exact}
}

// Classify maps a message to an intent. It never fails; messages the model
// cannot place confidently come back as IntentUnknown.
func (c *Classifier) Classify(message string) Result {
	if item, ok := c.catalog.MatchKeyword(message); ok {
		return Result{
			Intent:       InfoIntent(item),
			Confidence:   1.0,
			KeywordMatch: true,
		}
	}

	words := tokenize(message)
	if len(words) == 0 {
		return Result{Intent: IntentUnknown}
	}

	if intent, ok := c.exact[strings.Join(words, " ")]; ok {
		return Result{Intent: intent, Confidence: 1.0}
	}

	probs, likely, _ := c.model.ProbScores(words)
	confidence := probs[likely]
	if confidence < ConfidenceThreshold {
		return Result{Intent: IntentUnknown, Confidence: confidence}
	}

	return Result{
		Intent:     string(c.model.Classes[likely]),
		Confidence: confidence,
	}
}

// tokenize lowercases and splits a message into word tokens, dropping
// punctuation.
func tokenize(message string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return ' '
		}
	}, message)
	return strings.Fields(cleaned)
}

func trainingCorpus() map[string][]string {
	return map[string][]string{
		IntentGreeting: {
			"hello", "hi", "hey", "good morning", "good afternoon",
			"good evening", "whats up",
		},
		IntentServiceList: {
			"what services do you offer", "show me your services", "services",
			"what can you fix", "list of services", "what do you do",
		},
		IntentProductList: {
			"show me your products", "what products do you have",
			"buy products", "purchase items", "shop",
		},
		IntentBookingStart: {
			"book a service", "make an appointment", "schedule a repair",
			"book", "need to book", "want to schedule",
		},
		IntentQuotationStart: {
			"get a quote", "request quote", "request a quotation",
			"how much does it cost", "pricing", "price", "quotation", "quote",
			"i need a quotation", "i need a quotation please",
			"i need a quote please", "can i get a quotation",
			"i would like a quote",
		},
		IntentPaymentInitiate: {
			"make payment", "pay now", "i want to pay", "payment methods",
			"how to pay", "pay a deposit", "settle my invoice",
			"payment options",
		},
		IntentPaymentStatus: {
			"payment status", "check my payment", "is my payment complete",
			"did my payment go through", "track payment", "check payment status",
		},
		IntentTransferHuman: {
			"speak to a human", "speak to an agent", "talk to a person",
			"human assistance", "real person", "agent", "human",
			"connect to support", "live support", "customer service",
			"need human help", "representative", "speak with someone",
			"talk to someone", "live agent", "live chat", "stop bot", "no bot",
		},
		IntentPortfolioShow: {
			"show your work", "past projects", "portfolio", "previous work",
			"case studies",
		},
		IntentPromotionOffers: {
			"special offers", "discounts", "deals", "promotions",
			"current offers",
		},
		IntentTestimonialsShow: {
			"show testimonials", "customer reviews", "client feedback",
			"what others say", "success stories",
		},
		IntentNewsletterSubscribe: {
			"subscribe newsletter", "join mailing list", "email updates",
			"subscribe",
		},
		IntentLeadContact: {
			"contact sales", "talk to sales", "business inquiry", "sales team",
			"free consultation", "consultation call",
		},
		IntentChatbotDevelopment: {
			"build a chatbot", "create a chatbot", "chatbot development",
			"custom chatbot", "ai chatbot", "chatbot pricing",
			"how much for a chatbot", "chatbot cost",
		},
	}
}
