package restapi

import (
	"context"
	"net/http"

	"github.com/salesrecorder/sales-web/internal/core/domain"
)

// Login exchanges username and password for a credential.
func (c *Client) Login(ctx context.Context, username, password string) (domain.LoginResult, error) {
	const op = "log in"
	resp, err := c.send(ctx, request{
		op:     op,
		method: http.MethodPost,
		path:   "auth/login/",
		body:   map[string]string{"username": username, "password": password},
		public: true,
	})
	if err != nil {
		return domain.LoginResult{}, err
	}
	res, err := decodeJSON[domain.LoginResult](op, resp.body)
	if err != nil {
		return domain.LoginResult{}, err
	}
	if res.Token == "" {
		return domain.LoginResult{}, malformed(op, resp.body, errMissingToken)
	}
	return res, nil
}

// Logout revokes cred on the backend.
func (c *Client) Logout(ctx context.Context, cred domain.Credential) error {
	_, err := c.send(ctx, request{op: "log out", method: http.MethodPost, path: "auth/logout/", cred: cred})
	return err
}
