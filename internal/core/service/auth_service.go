package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/core/ports"
	"github.com/salesrecorder/sales-web/internal/pkg/metrics"
)

// UnexpectedRoleMessage is shown when the backend answers with a role the
// front-end does not know.
const UnexpectedRoleMessage = "Unexpected user role. Please contact support."

// Session is the write side of the session store.
type Session interface {
	Login(ctx context.Context, cred domain.Credential, id domain.Identity) error
	Logout(ctx context.Context) error
	Credential() (domain.Credential, error)
}

// AuthService runs the login exchange against the backend and keeps the
// session store in step with its outcome.
type AuthService struct {
	api ports.AuthAPI
	log zerolog.Logger
}

func NewAuthService(api ports.AuthAPI, log zerolog.Logger) *AuthService {
	return &AuthService{api: api, log: log}
}

// Login exchanges the credentials and stores the session. A role outside the
// enumeration logs the session out and yields ErrUnexpectedRole.
func (s *AuthService) Login(ctx context.Context, sess Session, username, password string) (domain.Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.Identity{}, domain.Invalid("please enter both username and password")
	}

	res, err := s.api.Login(ctx, username, password)
	if err != nil {
		return domain.Identity{}, err
	}

	role, err := domain.ParseRole(res.Role)
	if err != nil {
		metrics.SessionEventsTotal.WithLabelValues("unexpected_role").Inc()
		s.log.Warn().Str("username", res.Username).Str("role", res.Role).Msg("login returned an unexpected role, clearing session")
		if lerr := sess.Logout(ctx); lerr != nil {
			s.log.Error().Err(lerr).Msg("clear session after unexpected role")
		}
		return domain.Identity{}, unexpectedRole(err)
	}

	id := domain.Identity{ID: res.UserID, DisplayName: res.Username, Role: role}
	if err := sess.Login(ctx, domain.Credential(res.Token), id); err != nil {
		return domain.Identity{}, err
	}
	return id, nil
}

// Logout revokes the credential on the backend when possible and always
// clears the local session.
func (s *AuthService) Logout(ctx context.Context, sess Session) error {
	if cred, err := sess.Credential(); err == nil {
		if err := s.api.Logout(ctx, cred); err != nil {
			s.log.Warn().Err(err).Msg("backend logout failed, clearing local session anyway")
		}
	}
	return sess.Logout(ctx)
}

// Invalidate clears the session when err shows the backend no longer accepts
// the stored credential. It reports whether the session was cleared.
func (s *AuthService) Invalidate(ctx context.Context, sess Session, err error) bool {
	if !errors.Is(err, domain.ErrUnauthorized) {
		return false
	}
	if lerr := sess.Logout(ctx); lerr != nil {
		s.log.Error().Err(lerr).Msg("clear session after rejected credential")
		return false
	}
	s.log.Info().Msg("backend rejected the stored credential, session cleared")
	return true
}

type roleError struct{ cause error }

func (e *roleError) Error() string       { return UnexpectedRoleMessage }
func (e *roleError) UserMessage() string { return UnexpectedRoleMessage }
func (e *roleError) Unwrap() error       { return e.cause }

func unexpectedRole(cause error) error { return &roleError{cause: cause} }
