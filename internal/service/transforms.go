package service

import (
	"encoding/json"
	"fmt"

	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/shopspring/decimal"
)

// fieldKind accepts or rejects a raw JSON value for one kind of product field
// and turns accepted values into their typed form.
type fieldKind interface {
	validate(value any) bool
	convert(value any) any
}

type textField struct{}

func (textField) validate(value any) bool {
	_, ok := value.(string)
	return ok
}

func (textField) convert(value any) any { return value }

// boolField only accepts JSON booleans, never numbers or strings.
type boolField struct{}

func (boolField) validate(value any) bool {
	_, ok := value.(bool)
	return ok
}

func (boolField) convert(value any) any { return value }

// decimalField accepts a decimal written as a JSON string that fits the
// stored price column exactly.
type decimalField struct{}

func (decimalField) validate(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	price, err := decimal.NewFromString(s)
	return err == nil && model.CheckPrice(price) == nil
}

func (decimalField) convert(value any) any {
	return decimal.RequireFromString(value.(string))
}

// categoryField accepts a category member name.
type categoryField struct{}

func (categoryField) validate(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	_, ok = model.ParseCategory(s)
	return ok
}

func (categoryField) convert(value any) any {
	category, _ := model.ParseCategory(value.(string))
	return category
}

type transform struct {
	kind   fieldKind
	assign func(p *model.Product, value any)
}

var transforms = map[string]transform{
	"name": {textField{}, func(p *model.Product, v any) {
		p.Name = v.(string)
	}},
	"description": {textField{}, func(p *model.Product, v any) {
		p.Description = v.(string)
	}},
	"available": {boolField{}, func(p *model.Product, v any) {
		p.Available = v.(bool)
	}},
	"price": {decimalField{}, func(p *model.Product, v any) {
		p.Price = v.(decimal.Decimal)
	}},
	"category": {categoryField{}, func(p *model.Product, v any) {
		p.Category = v.(model.Category)
	}},
}

// ApplyFieldUpdates assigns updates to product in order. It stops at the
// first rejected field; fields applied before it stay changed on product.
func ApplyFieldUpdates(product *model.Product, updates []FieldUpdate) error {
	if len(updates) == 0 {
		return contentError("body must be non-empty")
	}

	for _, u := range updates {
		t, ok := transforms[u.Name]
		if !ok {
			return contentError("key '%s' is not a valid field", u.Name)
		}
		if !t.kind.validate(u.Value) {
			return contentError("field '%s' has an invalid value (%s)", u.Name, renderValue(u.Value))
		}
		t.assign(product, t.kind.convert(u.Value))
	}
	return nil
}

// renderValue prints a decoded JSON value the way it was written.
func renderValue(value any) string {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(b)
}
