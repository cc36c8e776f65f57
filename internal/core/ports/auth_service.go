package ports

import (
	"context"

	"github.com/salesrecorder/sales-web/internal/core/domain"
)

// AuthAPI is the backend's login exchange.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (domain.LoginResult, error)
	Logout(ctx context.Context, cred domain.Credential) error
}
