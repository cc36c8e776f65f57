package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/salesrecorder/sales-web/internal/core/authz"
	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/pkg/metrics"
)

// RBAC admits a request only when the session is authenticated with one of
// allowedRoles (any role when none are given). Pages redirect; JSON API
// routes answer 401 or 403.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store, ok := CurrentSession(c)
			if !ok {
				return echo.NewHTTPError(http.StatusInternalServerError, "session middleware not installed")
			}

			d := authz.Check(store, allowedRoles...)
			metrics.GateDecisionsTotal.WithLabelValues(string(d.Outcome)).Inc()
			if d.Allowed() {
				return next(c)
			}

			if isAPI(c) {
				if d.Outcome == authz.ToLogin {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
				}
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return c.Redirect(http.StatusSeeOther, d.Redirect)
		}
	}
}

// GuestOnly sends authenticated visitors of public pages to their dashboard.
func GuestOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if store, ok := CurrentSession(c); ok {
				if to := authz.Landing(store); to != "" {
					return c.Redirect(http.StatusSeeOther, to)
				}
			}
			return next(c)
		}
	}
}

func isAPI(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}
