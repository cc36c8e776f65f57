package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/salesrecorder/sales-web/internal/api/handler"
	"github.com/salesrecorder/sales-web/internal/core/domain"
)

// errorResponse is the canonical error envelope of the JSON API.
type errorResponse struct {
	Error string `json:"error"`
}

type errorView struct {
	Status  int
	Message string
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the browser.
//   - Answers JSON API routes with {"error": "<message>"} and pages with the
//     error template.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		if strings.HasPrefix(c.Request().URL.Path, "/api/") {
			_ = c.JSON(code, errorResponse{Error: msg})
			return
		}
		if rerr := c.Render(code, "error", handler.Page{Title: http.StatusText(code), Data: errorView{Status: code, Message: msg}}); rerr != nil {
			log.Error().Err(rerr).Msg("render error page")
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound {
			return he.Code, "Page not found."
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	code := handler.StatusOf(err)
	if code < http.StatusInternalServerError {
		return code, domain.Describe(err)
	}
	if errors.Is(err, domain.ErrTransport) || errors.Is(err, domain.ErrMalformedResponse) {
		log.Warn().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("backend unavailable")
		return code, domain.Describe(domain.ErrTransport)
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
