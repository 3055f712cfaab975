package service_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/iyhunko/product-catalog/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFieldUpdates_KeepsBodyOrder(t *testing.T) {
	body := `{"price": "3.99", "name": "Trilby", "available": false, "description": null, "tags": {"a": [1, 2]}}`

	updates, err := service.DecodeFieldUpdates(strings.NewReader(body))

	require.NoError(t, err)
	require.Len(t, updates, 5)
	assert.Equal(t, service.FieldUpdate{Name: "price", Value: "3.99"}, updates[0])
	assert.Equal(t, service.FieldUpdate{Name: "name", Value: "Trilby"}, updates[1])
	assert.Equal(t, service.FieldUpdate{Name: "available", Value: false}, updates[2])
	assert.Equal(t, service.FieldUpdate{Name: "description", Value: nil}, updates[3])
	assert.Equal(t, "tags", updates[4].Name)
	assert.Equal(t, map[string]any{"a": []any{json.Number("1"), json.Number("2")}}, updates[4].Value)
}

func TestDecodeFieldUpdates_NumbersStayNumbers(t *testing.T) {
	updates, err := service.DecodeFieldUpdates(strings.NewReader(`{"available": 10}`))

	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, json.Number("10"), updates[0].Value)
}

func TestDecodeFieldUpdates_DuplicateKey(t *testing.T) {
	updates, err := service.DecodeFieldUpdates(strings.NewReader(`{"name": "a", "price": "1", "name": "b"}`))

	require.NoError(t, err)
	assert.Equal(t, []service.FieldUpdate{
		{Name: "name", Value: "b"},
		{Name: "price", Value: "1"},
	}, updates)
}

func TestDecodeFieldUpdates_Empty(t *testing.T) {
	updates, err := service.DecodeFieldUpdates(strings.NewReader(`{}`))

	require.NoError(t, err)
	assert.Empty(t, updates)
}

func TestDecodeFieldUpdates_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"EmptyBody", ``, "body must be valid JSON"},
		{"Truncated", `{"name": "a"`, "body must be valid JSON"},
		{"BadLiteral", `{"name": nope}`, "body must be valid JSON"},
		{"TrailingData", `{"name": "a"} {}`, "body must be valid JSON"},
		{"BrokenArray", `[1, `, "body must be valid JSON"},
		{"Array", `["name", "a"]`, "body must be a JSON object"},
		{"String", `"name"`, "body must be a JSON object"},
		{"Number", `42`, "body must be a JSON object"},
		{"Null", `null`, "body must be a JSON object"},
		{"InvalidUTF8InString", "{\"name\": \"\xff\"}", "body must be valid JSON"},
		{"InvalidUTF8InKey", "{\"n\xc3\": \"a\"}", "body must be valid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.DecodeFieldUpdates(strings.NewReader(tt.body))

			var validationErr *service.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, service.InvalidShape, validationErr.Kind)
			assert.Equal(t, tt.wantMsg, validationErr.Error())
		})
	}
}

func TestDecodeObject(t *testing.T) {
	data, err := service.DecodeObject(strings.NewReader(`{"name": "Fedora", "price": 12.5}`))

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Fedora", "price": json.Number("12.5")}, data)

	_, err = service.DecodeObject(strings.NewReader(`[]`))
	assert.Error(t, err)
}
