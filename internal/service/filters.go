package service

import (
	"context"
	"net/url"

	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
)

// listFilter turns one query parameter into a store filter.
type listFilter struct {
	key   string
	parse func(value string) (repository.Filter, error)
}

// listFilters are tried in order; only the first key present in a query is used.
var listFilters = []listFilter{
	{"name", filterByName},
	{"category", filterByCategory},
	{"available", filterByAvailability},
	{"price", filterByPrice},
}

func filterByName(value string) (repository.Filter, error) {
	if value == "" {
		return repository.Filter{}, shapeError("name must not be empty")
	}
	return repository.ByName(value), nil
}

func filterByCategory(value string) (repository.Filter, error) {
	category, ok := model.ParseCategory(value)
	if !ok {
		return repository.Filter{}, shapeError("category '%s' is not valid", value)
	}
	return repository.ByCategory(category), nil
}

func filterByAvailability(value string) (repository.Filter, error) {
	switch value {
	case "true":
		return repository.ByAvailability(true), nil
	case "false":
		return repository.ByAvailability(false), nil
	default:
		return repository.Filter{}, shapeError("available value '%s' is not true or false", value)
	}
}

func filterByPrice(value string) (repository.Filter, error) {
	price, err := model.ParsePriceQuery(value)
	if err != nil {
		return repository.Filter{}, shapeError("price '%s' is not a valid decimal", value)
	}
	return repository.ByPrice(price), nil
}

// findProducts resolves query to the products it selects. Without any known
// filter key every product is returned.
func findProducts(ctx context.Context, repo repository.ProductRepository, query url.Values) ([]*model.Product, error) {
	for _, f := range listFilters {
		if !query.Has(f.key) {
			continue
		}
		filter, err := f.parse(query.Get(f.key))
		if err != nil {
			return nil, err
		}
		return repo.ListByFilter(ctx, filter)
	}
	return repo.List(ctx)
}
