package restapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/salesrecorder/sales-web/internal/core/domain"
)

// Resource is the CRUD surface of one entity endpoint, e.g. clients/.
type Resource[T any] struct {
	c    *Client
	name string
	path string
}

func (r *Resource[T]) item(id string) string { return r.path + url.PathEscape(id) + "/" }

// List fetches the collection with query as filters.
func (r *Resource[T]) List(ctx context.Context, cred domain.Credential, query url.Values) ([]T, error) {
	op := "fetch " + r.name
	resp, err := r.c.send(ctx, request{op: op, method: http.MethodGet, path: r.path, query: query, cred: cred})
	if err != nil {
		return nil, err
	}
	return decodeList[T](op, resp.body)
}

// Get fetches one entity.
func (r *Resource[T]) Get(ctx context.Context, cred domain.Credential, id string) (T, error) {
	var zero T
	if id == "" {
		return zero, domain.ErrMissingID
	}
	op := "fetch " + r.name
	resp, err := r.c.send(ctx, request{op: op, method: http.MethodGet, path: r.item(id), cred: cred})
	if err != nil {
		return zero, err
	}
	return decodeJSON[T](op, resp.body)
}

// Create posts payload to the collection.
func (r *Resource[T]) Create(ctx context.Context, cred domain.Credential, payload map[string]any) (T, error) {
	var zero T
	op := "create " + r.name
	resp, err := r.c.send(ctx, request{op: op, method: http.MethodPost, path: r.path, body: payload, cred: cred})
	if err != nil {
		return zero, err
	}
	return decodeJSON[T](op, resp.body)
}

// Patch applies a partial update.
func (r *Resource[T]) Patch(ctx context.Context, cred domain.Credential, id string, payload map[string]any) (T, error) {
	var zero T
	if id == "" {
		return zero, domain.ErrMissingID
	}
	op := "update " + r.name
	resp, err := r.c.send(ctx, request{op: op, method: http.MethodPatch, path: r.item(id), body: payload, cred: cred})
	if err != nil {
		return zero, err
	}
	return decodeJSON[T](op, resp.body)
}
