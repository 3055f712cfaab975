package repository

import (
	"fmt"

	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/shopspring/decimal"
)

const (
	NameField      QueryField = "name"
	CategoryField  QueryField = "category"
	AvailableField QueryField = "available"
	PriceField     QueryField = "price"
)

// QueryField is a filterable product column.
type QueryField string

// Filter narrows a product listing to rows whose Field equals Value.
type Filter struct {
	Field QueryField
	Value any
}

// ByName matches products with exactly this name.
func ByName(name string) Filter {
	return Filter{Field: NameField, Value: name}
}

// ByCategory matches products of the category.
func ByCategory(category model.Category) Filter {
	return Filter{Field: CategoryField, Value: category}
}

// ByAvailability matches products whose availability equals available.
func ByAvailability(available bool) Filter {
	return Filter{Field: AvailableField, Value: available}
}

// ByPrice matches products with exactly this price.
func ByPrice(price decimal.Decimal) Filter {
	return Filter{Field: PriceField, Value: price}
}

// Resolve fills in the default value of a filter left without one
// (available products, UNKNOWN category) and validates the result.
func (f Filter) Resolve() (Filter, error) {
	if f.Value == nil {
		switch f.Field {
		case AvailableField:
			f.Value = true
		case CategoryField:
			f.Value = model.CategoryUnknown
		}
	}
	return f, f.Validate()
}

// Validate checks that the filter value has the type its field expects.
func (f Filter) Validate() error {
	var ok bool
	switch f.Field {
	case NameField:
		_, ok = f.Value.(string)
	case CategoryField:
		_, ok = f.Value.(model.Category)
	case AvailableField:
		_, ok = f.Value.(bool)
	case PriceField:
		_, ok = f.Value.(decimal.Decimal)
	default:
		return fmt.Errorf("unsupported filter field %q", f.Field)
	}
	if !ok {
		return fmt.Errorf("invalid value %v (%T) for filter field %q", f.Value, f.Value, f.Field)
	}
	return nil
}
