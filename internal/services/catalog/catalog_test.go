// Package catalog_test provides unit tests for the service catalog.
package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techrehub/chatbot-service/internal/domain/errors"
	"github.com/techrehub/chatbot-service/internal/domain/models"
	"github.com/techrehub/chatbot-service/internal/services/catalog"
)

func TestServicesAndProducts(t *testing.T) {
	svc := catalog.NewService()

	services := svc.Services()
	products := svc.Products()

	assert.Len(t, services, 6)
	assert.Len(t, products, 3)
	for _, item := range services {
		assert.Equal(t, models.CatalogService, item.Kind)
	}
	for _, item := range products {
		assert.Equal(t, models.CatalogProduct, item.Kind)
	}
}

func TestGet_Service(t *testing.T) {
	svc := catalog.NewService()

	item, err := svc.Get("computer-repair")

	require.NoError(t, err)
	assert.Equal(t, "Computer Repair", item.Name)
	assert.Equal(t, "From $50", item.Price)
}

func TestGet_Product(t *testing.T) {
	svc := catalog.NewService()

	item, err := svc.Get("customer-service-ai")

	require.NoError(t, err)
	assert.Equal(t, models.CatalogProduct, item.Kind)
	assert.NotEmpty(t, item.Features)
}

func TestGet_UnknownID(t *testing.T) {
	svc := catalog.NewService()

	_, err := svc.Get("quantum-computing")

	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestMatchKeyword_CaseInsensitive(t *testing.T) {
	svc := catalog.NewService()

	item, ok := svc.MatchKeyword("My LAPTOP REPAIR went badly")

	require.True(t, ok)
	assert.Equal(t, "computer-repair", item.ID)
}

func TestMatchKeyword_ServicesTakePriority(t *testing.T) {
	svc := catalog.NewService()

	// "chatbot" is a service keyword, checked before any product keyword.
	item, ok := svc.MatchKeyword("I need a chatbot")

	require.True(t, ok)
	assert.Equal(t, "chatbot-development", item.ID)
	assert.Equal(t, models.CatalogService, item.Kind)
}

func TestMatchKeyword_NoMatch(t *testing.T) {
	svc := catalog.NewService()

	_, ok := svc.MatchKeyword("what is the weather today")

	assert.False(t, ok)
}
