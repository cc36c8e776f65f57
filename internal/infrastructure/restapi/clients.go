package restapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/salesrecorder/sales-web/internal/core/domain"
)

// ClientsAPI is the clients endpoint plus its approval actions.
type ClientsAPI struct {
	*Resource[domain.Client]
}

// Clients returns the clients endpoint.
func (c *Client) Clients() *ClientsAPI {
	return &ClientsAPI{Resource: Collection[domain.Client](c, "clients", "clients")}
}

// Approve moves a pending client to approved and assigns it to the
// salesperson whose user id is assigneeID, in one request.
func (a *ClientsAPI) Approve(ctx context.Context, cred domain.Credential, clientID, assigneeID string) (domain.Client, error) {
	if clientID == "" {
		return domain.Client{}, domain.ErrMissingID
	}
	uid, err := strconv.ParseInt(assigneeID, 10, 64)
	if err != nil || uid <= 0 {
		return domain.Client{}, domain.ErrAssigneeRequired
	}
	return a.action(ctx, cred, clientID, "approve", map[string]any{"assign_to_salesperson_id": uid})
}

// Reject moves a pending client to rejected.
func (a *ClientsAPI) Reject(ctx context.Context, cred domain.Credential, clientID string) (domain.Client, error) {
	if clientID == "" {
		return domain.Client{}, domain.ErrMissingID
	}
	return a.action(ctx, cred, clientID, "reject", nil)
}

func (a *ClientsAPI) action(ctx context.Context, cred domain.Credential, clientID, name string, body map[string]any) (domain.Client, error) {
	op := name + " client"
	req := request{
		op:     op,
		method: http.MethodPost,
		path:   a.path + url.PathEscape(clientID) + "/" + name + "/",
		cred:   cred,
	}
	if body != nil {
		req.body = body
	}
	resp, err := a.c.send(ctx, req)
	if err != nil {
		return domain.Client{}, err
	}
	return decodeJSON[domain.Client](op, resp.body)
}
