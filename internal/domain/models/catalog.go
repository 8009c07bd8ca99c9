package models

// CatalogItemKind distinguishes repair services from software products.
type CatalogItemKind string

const (
	CatalogService CatalogItemKind = "service"
	CatalogProduct CatalogItemKind = "product"
)

// CatalogItem is a service or product the chatbot can describe, book or
// quote. The catalog is static and loaded at startup.
type CatalogItem struct {
	ID          string          `json:"id"`
	Kind        CatalogItemKind `json:"kind"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       string          `json:"price"`
	Duration    string          `json:"duration,omitempty"`
	Features    []string        `json:"features,omitempty"`

	// Keywords index the item for intent classification. A message containing
	// one of these maps straight to the item's info intent.
	Keywords []string `json:"keywords,omitempty"`
}
