package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// PriceScale is the number of decimal places a stored price keeps.
	PriceScale = 2

	// PricePrecision is the total number of digits a stored price may have.
	PricePrecision = 14
)

// maxPrice is the smallest magnitude NUMERIC(14,2) can no longer hold.
var maxPrice = decimal.New(1, PricePrecision-PriceScale)

// DataValidationError is returned when product data is malformed or a
// product is persisted in an invalid state.
type DataValidationError struct {
	Msg string
}

func (e *DataValidationError) Error() string {
	return e.Msg
}

func newDataValidationError(format string, args ...any) *DataValidationError {
	return &DataValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Product represents a product in the catalog.
// A zero ID means the product has not been persisted yet.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Available   bool
	Category    Category
}

func (p *Product) String() string {
	id := "None"
	if p.ID != 0 {
		id = fmt.Sprintf("%d", p.ID)
	}
	return fmt.Sprintf("<Product %s id=[%s]>", p.Name, id)
}

// Equal reports whether both products hold the same field values.
func (p *Product) Equal(other *Product) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.ID == other.ID &&
		p.Name == other.Name &&
		p.Description == other.Description &&
		p.Price.Equal(other.Price) &&
		p.Available == other.Available &&
		p.Category == other.Category
}

// RequireID fails when the product has not been persisted yet.
func (p *Product) RequireID() error {
	if p.ID == 0 {
		return newDataValidationError("Update called with empty ID field")
	}
	return nil
}

// FormatPrice renders a price the way it is sent on the wire.
func FormatPrice(price decimal.Decimal) string {
	return price.StringFixed(PriceScale)
}

// CheckPrice reports whether price fits the stored NUMERIC(14,2) column
// without rounding.
func CheckPrice(price decimal.Decimal) error {
	if !price.Equal(price.Truncate(PriceScale)) {
		return fmt.Errorf("price %s has more than %d decimal places", price, PriceScale)
	}
	if price.Abs().GreaterThanOrEqual(maxPrice) {
		return fmt.Errorf("price %s has more than %d integer digits", price, PricePrecision-PriceScale)
	}
	return nil
}

// Serialize converts the product into its wire mapping.
// The id key is only present once the product has been persisted.
func (p *Product) Serialize() map[string]any {
	data := map[string]any{
		"name":        p.Name,
		"description": p.Description,
		"price":       FormatPrice(p.Price),
		"available":   p.Available,
		"category":    p.Category.String(),
	}
	if p.ID != 0 {
		data["id"] = p.ID
	}
	return data
}

// Deserialize populates the product from an untyped mapping, such as a
// decoded JSON object.
func (p *Product) Deserialize(data map[string]any) error {
	if data == nil {
		return newDataValidationError("Invalid product: body of request contained bad or no data")
	}

	if raw, ok := data["id"]; ok && raw != nil {
		id, err := toInt64(raw)
		if err != nil {
			return newDataValidationError("Invalid type for integer [id]: %T", raw)
		}
		p.ID = id
	}

	name, err := requiredString(data, "name")
	if err != nil {
		return err
	}
	if name == "" {
		return newDataValidationError("Invalid product: name must not be empty")
	}

	description, err := requiredString(data, "description")
	if err != nil {
		return err
	}

	rawPrice, ok := data["price"]
	if !ok {
		return newDataValidationError("Invalid product: missing price")
	}
	price, err := toDecimal(rawPrice)
	if err != nil {
		return newDataValidationError("Invalid product: price (%v) is not a valid decimal", rawPrice)
	}
	if err := CheckPrice(price); err != nil {
		return newDataValidationError("Invalid product: %v", err)
	}

	rawAvailable, ok := data["available"]
	if !ok {
		return newDataValidationError("Invalid product: missing available")
	}
	available, ok := rawAvailable.(bool)
	if !ok {
		return newDataValidationError("Invalid type for boolean [available]: %T", rawAvailable)
	}

	rawCategory, ok := data["category"]
	if !ok {
		return newDataValidationError("Invalid product: missing category")
	}
	categoryName, ok := rawCategory.(string)
	if !ok {
		return newDataValidationError("Invalid type for category: %T", rawCategory)
	}
	category, ok := ParseCategory(categoryName)
	if !ok {
		return newDataValidationError("Invalid attribute: %s", categoryName)
	}

	p.Name = name
	p.Description = description
	p.Price = price
	p.Available = available
	p.Category = category
	return nil
}

// ParsePriceQuery parses a price taken from a query string. Surrounding
// blanks and double quotes are ignored.
func ParsePriceQuery(value string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.Trim(value, " \""))
}

func requiredString(data map[string]any, key string) (string, error) {
	raw, ok := data[key]
	if !ok {
		return "", newDataValidationError("Invalid product: missing %s", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", newDataValidationError("Invalid type for string [%s]: %T", key, raw)
	}
	return s, nil
}

func toDecimal(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case string:
		return decimal.NewFromString(v)
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case decimal.Decimal:
		return v, nil
	default:
		return decimal.Decimal{}, fmt.Errorf("unsupported price type %T", raw)
	}
}

func toInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return int64(v), nil
	default:
		return 0, fmt.Errorf("unsupported id type %T", raw)
	}
}
