package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// FieldUpdate is one key of a request body together with its decoded value.
type FieldUpdate struct {
	Name  string
	Value any
}

// DecodeFieldUpdates reads a JSON object and returns its members in the
// order they appear in the body. Numbers are kept as json.Number. A key
// given twice keeps its first position and its last value. Bodies that are
// not valid UTF-8 are rejected as invalid JSON.
func DecodeFieldUpdates(r io.Reader) ([]FieldUpdate, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if !utf8.Valid(body) {
		return nil, shapeError("body must be valid JSON")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, shapeError("body must be valid JSON")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		if err := drain(dec); err != nil {
			return nil, err
		}
		return nil, shapeError("body must be a JSON object")
	}

	var updates []FieldUpdate
	positions := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, shapeError("body must be valid JSON")
		}
		key, ok := tok.(string)
		if !ok {
			return nil, shapeError("body must be valid JSON")
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, shapeError("body must be valid JSON")
		}

		if i, seen := positions[key]; seen {
			updates[i].Value = value
			continue
		}
		positions[key] = len(updates)
		updates = append(updates, FieldUpdate{Name: key, Value: value})
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, shapeError("body must be valid JSON")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, shapeError("body must be valid JSON")
	}
	return updates, nil
}

// DecodeObject reads a JSON object into a map. Numbers are kept as json.Number.
func DecodeObject(r io.Reader) (map[string]any, error) {
	updates, err := DecodeFieldUpdates(r)
	if err != nil {
		return nil, err
	}
	data := make(map[string]any, len(updates))
	for _, u := range updates {
		data[u.Name] = u.Value
	}
	return data, nil
}

// drain consumes the rest of a non-object document so malformed JSON is
// still reported as such.
func drain(dec *json.Decoder) error {
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return shapeError("body must be valid JSON")
		}
	}
}
