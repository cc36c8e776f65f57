package restapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/salesrecorder/sales-web/internal/core/domain"
)

// SalespersonsAPI lists salesperson profiles and registers new ones.
type SalespersonsAPI struct {
	c *Client
}

// Salespersons returns the salesperson endpoints.
func (c *Client) Salespersons() *SalespersonsAPI { return &SalespersonsAPI{c: c} }

// List returns the profiles with the salesperson role. query may narrow the
// result further; the role filter is always applied.
func (a *SalespersonsAPI) List(ctx context.Context, cred domain.Credential, query url.Values) ([]domain.Salesperson, error) {
	const op = "fetch salespersons"
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("role", string(domain.RoleSalesperson))

	resp, err := a.c.send(ctx, request{op: op, method: http.MethodGet, path: "users/", query: q, cred: cred})
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Salesperson](op, resp.body)
}

type registeredUser struct {
	User struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Profile  *struct {
			ID   int64  `json:"id"`
			Role string `json:"role"`
		} `json:"profile"`
	} `json:"user"`
}

// Create registers a salesperson account. The role is forced to salesperson.
func (a *SalespersonsAPI) Create(ctx context.Context, cred domain.Credential, payload map[string]any) (domain.Salesperson, error) {
	const op = "register salesperson"
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["role"] = string(domain.RoleSalesperson)

	resp, err := a.c.send(ctx, request{op: op, method: http.MethodPost, path: "auth/register/", body: body, cred: cred})
	if err != nil {
		return domain.Salesperson{}, err
	}
	reg, err := decodeJSON[registeredUser](op, resp.body)
	if err != nil {
		return domain.Salesperson{}, err
	}

	sp := domain.Salesperson{
		Role: string(domain.RoleSalesperson),
		User: &domain.Account{ID: reg.User.ID, Username: reg.User.Username, Email: reg.User.Email},
	}
	if p := reg.User.Profile; p != nil {
		sp.ID, sp.Role = p.ID, p.Role
	}
	return sp, nil
}
