package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/sdg12/foodfacts-api/types"
)

// Provider represents a database provider implementation
type Provider interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error

	ProductProvider
	UserProvider
}

// ProductProvider provides read access to the product collection
// plus the single write path used by vote aggregation
type ProductProvider interface {
	// GetProductByBarcode finds a product by a zero-padding-tolerant
	// barcode match
	GetProductByBarcode(ctx context.Context, barcode string) (types.Product, error)

	// GetProductByCode finds a product by its exact stored code
	GetProductByCode(ctx context.Context, code string) (types.Product, error)

	// GetFacetValues returns the distinct values of the <facet>_tags field.
	// The facet name must already be allowlisted by the caller.
	GetFacetValues(ctx context.Context, facet string) ([]string, error)

	// GetCategoryProducts returns the page of products whose
	// <plural>_tags field contains the "<lang>:<facet>" value
	GetCategoryProducts(ctx context.Context, plural string, facet string, options Options) ([]types.Product, error)

	// SearchProducts runs the compiled filter fragments (combined with
	// logical AND; an empty list matches everything) with pagination
	SearchProducts(ctx context.Context, fragments []bson.M, options Options) ([]types.Product, error)

	// ApplyVote atomically increments the given sustainability counters
	// (keys relative to the sustainability sub-document, negative deltas
	// allowed) and sets the derived level, with majority durability
	ApplyVote(ctx context.Context, code string, increments map[string]int, level float64) error
}

// UserProvider provides CRUD operations for user account documents
type UserProvider interface {
	GetUser(ctx context.Context, username string) (*types.User, error)
	CreateUser(ctx context.Context, user types.User) error

	// SaveUserConf replaces the user's stored preferences document
	SaveUserConf(ctx context.Context, username string, conf map[string]interface{}) error

	// SetUserVote records the user's current outcome for a
	// (product, attribute) pair, overwriting any previous one.
	// A nil outcome is an explicit neutral vote.
	SetUserVote(ctx context.Context, username string, code string, attribute string, outcome *bool) error
}
