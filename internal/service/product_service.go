package service

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/iyhunko/product-catalog/internal/metrics"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
	"github.com/iyhunko/product-catalog/internal/sqs"
)

// Publisher sends product change events.
type Publisher interface {
	PublishProductMessage(ctx context.Context, msg sqs.ProductMessage) error
}

type ProductService struct {
	repo      repository.ProductRepository
	publisher Publisher
}

// NewProductService wires the product use cases. A nil publisher disables change events.
func NewProductService(repo repository.ProductRepository, publisher Publisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
	}
}

// CreateProduct builds a product from a decoded request body and stores it.
// Any id present in data is ignored.
func (ps *ProductService) CreateProduct(ctx context.Context, data map[string]any) (*model.Product, error) {
	product := &model.Product{}
	if err := product.Deserialize(data); err != nil {
		return nil, err
	}
	product.ID = 0

	if err := ps.repo.Insert(ctx, product); err != nil {
		return nil, err
	}
	slog.Info("Product created", slog.Int64("product_id", product.ID))

	metrics.ProductsCreated.Inc()
	ps.publish(ctx, sqs.ActionCreated, product)

	return product, nil
}

func (ps *ProductService) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	return ps.repo.Get(ctx, id)
}

// ListProducts returns the products selected by the first recognised filter in query.
func (ps *ProductService) ListProducts(ctx context.Context, query url.Values) ([]*model.Product, error) {
	return findProducts(ctx, ps.repo, query)
}

// UpdateProduct applies updates to product and saves it. Nothing is stored
// unless every update is accepted.
func (ps *ProductService) UpdateProduct(ctx context.Context, product *model.Product, updates []FieldUpdate) (*model.Product, error) {
	if err := ApplyFieldUpdates(product, updates); err != nil {
		slog.Debug("Rejected product update", slog.Int64("product_id", product.ID), slog.Any("err", err))
		return nil, err
	}

	if err := ps.repo.Save(ctx, product); err != nil {
		return nil, err
	}

	metrics.ProductsUpdated.Inc()
	ps.publish(ctx, sqs.ActionUpdated, product)

	return product, nil
}

func (ps *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	// Find the product first to get its details for the message
	product, err := ps.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := ps.repo.Remove(ctx, product); err != nil {
		return err
	}

	metrics.ProductsDeleted.Inc()
	ps.publish(ctx, sqs.ActionDeleted, product)

	return nil
}

func (ps *ProductService) publish(ctx context.Context, action string, product *model.Product) {
	if ps.publisher == nil {
		return
	}
	msg := sqs.NewProductMessage(action, product)
	if err := ps.publisher.PublishProductMessage(ctx, msg); err != nil {
		// Log error but don't fail the request
		slog.Error("Failed to send SQS message",
			slog.Any("err", err),
			slog.String("action", action),
			slog.Int64("product_id", product.ID),
		)
	}
}
