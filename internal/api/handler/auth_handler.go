package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/salesrecorder/sales-web/internal/core/authz"
	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/core/service"
	"github.com/salesrecorder/sales-web/pkg/logger"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginView struct {
	Username string
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return render(c, http.StatusOK, "login", page(c, "Sign in", loginView{}))
}

// Login runs the login exchange and lands on the role's dashboard.
func (h *AuthHandler) Login(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}

	username := c.FormValue("username")
	id, err := h.auth.Login(c.Request().Context(), s, username, c.FormValue("password"))
	if err != nil {
		p := page(c, "Sign in", loginView{Username: username})
		p.Error = domain.Describe(err)
		return render(c, loginStatus(err), "login", p)
	}
	return c.Redirect(http.StatusSeeOther, id.Role.DashboardPath())
}

// Logout ends the session.
func (h *AuthHandler) Logout(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.Request().Context(), s); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, withNotice(authz.LoginPath, "logout"))
}

// loginStatus reports a refused login as 401. The backend answers bad
// credentials with 400.
func loginStatus(err error) int {
	if errors.Is(err, domain.ErrRejected) || errors.Is(err, domain.ErrNotFound) {
		return http.StatusUnauthorized
	}
	return StatusOf(err)
}

type sessionRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *domain.Identity `json:"user,omitempty"`
	Dashboard     string           `json:"dashboard,omitempty"`
}

type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// GetSession reports who is logged in.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/v1/session [get]
func (h *AuthHandler) GetSession(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	resp := sessionResponse{}
	if id, ok := s.Identity(); ok {
		resp = sessionResponse{Authenticated: true, User: &id, Dashboard: id.Role.DashboardPath()}
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateSession logs in with username and password.
//
// @Summary      Log in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      sessionRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      415   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /api/v1/session [post]
func (h *AuthHandler) CreateSession(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}

	// JSON only: the API skips CSRF, and a cross-site form post must not
	// start a session.
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return c.JSON(http.StatusUnsupportedMediaType, errorResponse{Error: "content type must be application/json"})
	}

	var req sessionRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	id, err := h.auth.Login(c.Request().Context(), s, req.Username, req.Password)
	if err != nil {
		log := logger.FromContext(c.Request().Context())
		log.Debug().Err(err).Msg("session login failed")
		return c.JSON(loginStatus(err), errorResponse{Error: domain.Describe(err), Fields: domain.FieldErrors(err)})
	}
	return c.JSON(http.StatusOK, sessionResponse{Authenticated: true, User: &id, Dashboard: id.Role.DashboardPath()})
}

// DeleteSession logs out.
//
// @Summary      Log out
// @Tags         session
// @Success      204
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/session [delete]
func (h *AuthHandler) DeleteSession(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.Request().Context(), s); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
