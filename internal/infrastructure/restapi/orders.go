package restapi

import (
	"context"
	"net/http"

	"github.com/salesrecorder/sales-web/internal/core/domain"
)

// CreateOrder records a sale. The order is validated before it is sent.
func (c *Client) CreateOrder(ctx context.Context, cred domain.Credential, order domain.Order) (domain.OrderReceipt, error) {
	const op = "record sale"
	if err := order.Validate(); err != nil {
		return domain.OrderReceipt{}, err
	}
	resp, err := c.send(ctx, request{op: op, method: http.MethodPost, path: "orders/", body: order, cred: cred})
	if err != nil {
		return domain.OrderReceipt{}, err
	}
	return decodeJSON[domain.OrderReceipt](op, resp.body)
}
