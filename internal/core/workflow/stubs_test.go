package workflow

import (
	"context"
	"net/url"

	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/core/ports"
)

type stubCollection[T any] struct {
	listFn   func(ctx context.Context, cred domain.Credential, q url.Values) ([]T, error)
	getFn    func(ctx context.Context, cred domain.Credential, id string) (T, error)
	createFn func(ctx context.Context, cred domain.Credential, payload map[string]any) (T, error)
	patchFn  func(ctx context.Context, cred domain.Credential, id string, payload map[string]any) (T, error)
}

func (s *stubCollection[T]) List(ctx context.Context, cred domain.Credential, q url.Values) ([]T, error) {
	return s.listFn(ctx, cred, q)
}

func (s *stubCollection[T]) Get(ctx context.Context, cred domain.Credential, id string) (T, error) {
	return s.getFn(ctx, cred, id)
}

func (s *stubCollection[T]) Create(ctx context.Context, cred domain.Credential, payload map[string]any) (T, error) {
	return s.createFn(ctx, cred, payload)
}

func (s *stubCollection[T]) Patch(ctx context.Context, cred domain.Credential, id string, payload map[string]any) (T, error) {
	return s.patchFn(ctx, cred, id, payload)
}

type stubTransitions struct {
	approveFn func(ctx context.Context, cred domain.Credential, clientID, assigneeID string) (domain.Client, error)
	rejectFn  func(ctx context.Context, cred domain.Credential, clientID string) (domain.Client, error)
}

func (s *stubTransitions) Approve(ctx context.Context, cred domain.Credential, clientID, assigneeID string) (domain.Client, error) {
	return s.approveFn(ctx, cred, clientID, assigneeID)
}

func (s *stubTransitions) Reject(ctx context.Context, cred domain.Credential, clientID string) (domain.Client, error) {
	return s.rejectFn(ctx, cred, clientID)
}

type stubReports struct {
	fetchFn func(ctx context.Context, cred domain.Credential, kind domain.ReportKind, q url.Values) (ports.ReportPayload, error)
}

func (s *stubReports) FetchReport(ctx context.Context, cred domain.Credential, kind domain.ReportKind, q url.Values) (ports.ReportPayload, error) {
	return s.fetchFn(ctx, cred, kind, q)
}

type stubOrders struct {
	createFn func(ctx context.Context, cred domain.Credential, o domain.Order) (domain.OrderReceipt, error)
}

func (s *stubOrders) CreateOrder(ctx context.Context, cred domain.Credential, o domain.Order) (domain.OrderReceipt, error) {
	return s.createFn(ctx, cred, o)
}

// apiError mimics a backend rejection carrying field messages.
type apiError struct {
	msg    string
	fields map[string][]string
	kind   error
}

func (e *apiError) Error() string                    { return e.msg }
func (e *apiError) UserMessage() string              { return e.msg }
func (e *apiError) FieldErrors() map[string][]string { return e.fields }
func (e *apiError) Unwrap() error                    { return e.kind }
