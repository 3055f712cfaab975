package repository

import (
	"context"
	"errors"

	"github.com/iyhunko/product-catalog/internal/model"
)

var (
	// ErrNotFound is returned when no product exists for the requested id.
	ErrNotFound = errors.New("product not found")
)

// ProductRepository defines the storage operations available for products.
type ProductRepository interface {
	// Get returns the product with the given id or ErrNotFound.
	Get(ctx context.Context, id int64) (*model.Product, error)
	// List returns every product ordered by id.
	List(ctx context.Context) ([]*model.Product, error)
	// ListByFilter returns the products matching a single field filter, ordered by id.
	ListByFilter(ctx context.Context, filter Filter) ([]*model.Product, error)
	// Insert persists a new product and assigns its id.
	Insert(ctx context.Context, product *model.Product) error
	// Save persists the current state of an existing product.
	Save(ctx context.Context, product *model.Product) error
	// Remove deletes a persisted product.
	Remove(ctx context.Context, product *model.Product) error
}
