package ports

import (
	"context"
	"net/url"

	"github.com/salesrecorder/sales-web/internal/core/domain"
)

// Lister fetches a collection. Filters are passed as query parameters.
type Lister[T any] interface {
	List(ctx context.Context, cred domain.Credential, query url.Values) ([]T, error)
}

// Getter fetches one entity by id.
type Getter[T any] interface {
	Get(ctx context.Context, cred domain.Credential, id string) (T, error)
}

// Creator creates an entity from a payload.
type Creator[T any] interface {
	Create(ctx context.Context, cred domain.Credential, payload map[string]any) (T, error)
}

// Patcher applies a partial update.
type Patcher[T any] interface {
	Patch(ctx context.Context, cred domain.Credential, id string, payload map[string]any) (T, error)
}

// Collection is the full CRUD surface of one entity endpoint.
type Collection[T any] interface {
	Lister[T]
	Getter[T]
	Creator[T]
	Patcher[T]
}

// ClientTransitions moves a pending client out of pending_approval.
type ClientTransitions interface {
	Approve(ctx context.Context, cred domain.Credential, clientID string, assigneeID string) (domain.Client, error)
	Reject(ctx context.Context, cred domain.Credential, clientID string) (domain.Client, error)
}

// OrderRecorder records a sale.
type OrderRecorder interface {
	CreateOrder(ctx context.Context, cred domain.Credential, order domain.Order) (domain.OrderReceipt, error)
}

// ReportPayload is a generated report as returned by the backend.
type ReportPayload struct {
	ContentType string
	Body        []byte
}

// ReportSource generates sales reports.
type ReportSource interface {
	FetchReport(ctx context.Context, cred domain.Credential, kind domain.ReportKind, query url.Values) (ReportPayload, error)
}
