package restapi

import (
	"bytes"
	"encoding/json"
	"errors"
)

var (
	errNoResults    = errors.New(`neither a list nor an object with "results"`)
	errMissingToken = errors.New("no token in login response")
)

func decodeJSON[T any](op string, body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, malformed(op, body, err)
	}
	return v, nil
}

// decodeList accepts a bare array or a paginated envelope {"results": [...]}.
// Both yield the same slice for the same items.
func decodeList[T any](op string, body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		items, err := decodeJSON[[]T](op, trimmed)
		if err != nil {
			return nil, err
		}
		return nonNil(items), nil
	}

	var env struct {
		Results *[]T `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, malformed(op, body, err)
	}
	if env.Results == nil {
		return nil, malformed(op, body, errNoResults)
	}
	return nonNil(*env.Results), nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
