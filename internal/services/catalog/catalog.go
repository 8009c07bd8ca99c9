// Package catalog provides the static service and product catalog.
package catalog

import (
	"strings"

	"github.com/techrehub/chatbot-service/internal/domain/errors"
	"github.com/techrehub/chatbot-service/internal/domain/models"
)

// Service exposes read access to the catalog. The catalog is fixed at
// startup; there is no admin surface for editing it at runtime.
type Service struct {
	services []models.CatalogItem
	products []models.CatalogItem
	byID     map[string]models.CatalogItem
}

// NewService creates a catalog service with the built-in TechRehub catalog.
func NewService() *Service {
	return newService(defaultServices(), defaultProducts())
}

func newService(services, products []models.CatalogItem) *Service {
	s := &Service{
		services: services,
		products: products,
		byID:     make(map[string]models.CatalogItem, len(services)+len(products)),
	}
	for _, item := range services {
		s.byID[item.ID] = item
	}
	for _, item := range products {
		s.byID[item.ID] = item
	}
	return s
}

// Services returns all repair services.
func (s *Service) Services() []models.CatalogItem {
	return s.services
}

// Products returns all software products.
func (s *Service) Products() []models.CatalogItem {
	return s.products
}

// Get retrieves a catalog item by ID.
func (s *Service) Get(id string) (models.CatalogItem, error) {
	item, ok := s.byID[id]
	if !ok {
		return models.CatalogItem{}, errors.NewNotFoundError("catalog item", id)
	}
	return item, nil
}

// MatchKeyword returns the catalog item whose keywords appear in the
// message, if any. Matching is case-insensitive on whole substrings;
// the first match in catalog order wins.
func (s *Service) MatchKeyword(message string) (models.CatalogItem, bool) {
	lowered := strings.ToLower(message)
	for _, items := range [][]models.CatalogItem{s.services, s.products} {
		for _, item := range items {
			for _, kw := range item.Keywords {
				if strings.Contains(lowered, kw) {
					return item, true
				}
			}
		}
	}
	return models.CatalogItem{}, false
}

func defaultServices() []models.CatalogItem {
	return []models.CatalogItem{
		{
			ID:          "computer-repair",
			Kind:        models.CatalogService,
			Name:        "Computer Repair",
			Description: "Hardware and software repair for laptops and desktops",
			Price:       "From $50",
			Duration:    "2-4 hours",
			Features: []string{
				"Hardware diagnosis and repair",
				"Software troubleshooting",
				"Performance optimization",
				"30-day warranty",
			},
			Keywords: []string{"computer repair", "laptop repair", "desktop repair", "pc repair", "fix my computer", "fix my laptop"},
		},
		{
			ID:          "network-setup",
			Kind:        models.CatalogService,
			Name:        "Network Setup & Troubleshooting",
			Description: "Installation and configuration of home and office networks",
			Price:       "From $80",
			Duration:    "1-3 hours",
			Features: []string{
				"WiFi setup and optimization",
				"Router configuration",
				"Network security setup",
				"Speed optimization",
			},
			Keywords: []string{"network setup", "wifi", "router", "internet problem", "network troubleshooting"},
		},
		{
			ID:          "data-recovery",
			Kind:        models.CatalogService,
			Name:        "Data Recovery",
			Description: "Recovery of lost data from various storage devices",
			Price:       "From $100",
			Duration:    "4-24 hours",
			Features: []string{
				"Hard drive recovery",
				"SSD data recovery",
				"USB/SD card recovery",
				"No recovery, no fee",
			},
			Keywords: []string{"data recovery", "lost files", "recover data", "deleted files", "hard drive recovery"},
		},
		{
			ID:          "virus-removal",
			Kind:        models.CatalogService,
			Name:        "Virus & Malware Removal",
			Description: "Detection and removal of viruses, malware, and other threats",
			Price:       "From $60",
			Duration:    "1-2 hours",
			Features: []string{
				"Complete system scan",
				"Malware removal",
				"Security software installation",
				"Prevention tips",
			},
			Keywords: []string{"virus", "malware", "virus removal", "infected", "ransomware", "spyware"},
		},
		{
			ID:          "system-upgrade",
			Kind:        models.CatalogService,
			Name:        "System Upgrades",
			Description: "Hardware and software upgrades to improve performance",
			Price:       "Custom quote",
			Duration:    "2-6 hours",
			Features: []string{
				"RAM upgrades",
				"SSD installation",
				"Graphics card upgrades",
				"OS upgrades",
			},
			Keywords: []string{"upgrade", "ram upgrade", "ssd upgrade", "system upgrade", "slow computer"},
		},
		{
			ID:          "chatbot-development",
			Kind:        models.CatalogService,
			Name:        "Custom Chatbot Development",
			Description: "AI-powered chatbots for businesses",
			Price:       "From $999",
			Duration:    "1-2 weeks",
			Features: []string{
				"Multi-platform support",
				"NLP integration",
				"Custom workflows",
				"Analytics dashboard",
			},
			Keywords: []string{"chatbot", "chat bot", "chatbot development", "bot development", "ai assistant"},
		},
	}
}

func defaultProducts() []models.CatalogItem {
	return []models.CatalogItem{
		{
			ID:          "customer-service-ai",
			Kind:        models.CatalogProduct,
			Name:        "Customer Service AI",
			Description: "24/7 AI-powered customer support solution",
			Price:       "$799/month",
			Features: []string{
				"Multi-language support",
				"Integration with existing systems",
				"Real-time analytics",
				"99.9% uptime guarantee",
			},
			Keywords: []string{"customer service ai", "support ai", "ai support"},
		},
		{
			ID:          "multi-channel-platform",
			Kind:        models.CatalogProduct,
			Name:        "Multi-Channel Chat Platform",
			Description: "Unified messaging across all platforms",
			Price:       "$599/month",
			Features: []string{
				"WhatsApp, Messenger, Telegram",
				"Unified inbox",
				"Team collaboration",
				"Advanced routing",
			},
			Keywords: []string{"multi-channel", "multi channel", "unified inbox", "chat platform"},
		},
		{
			ID:          "analytics-dashboard",
			Kind:        models.CatalogProduct,
			Name:        "Analytics Dashboard",
			Description: "Comprehensive chat analytics and insights",
			Price:       "$299/month",
			Features: []string{
				"Real-time metrics",
				"Customer journey tracking",
				"Performance reports",
				"Custom dashboards",
			},
			Keywords: []string{"analytics", "dashboard", "chat analytics", "reports"},
		},
	}
}
