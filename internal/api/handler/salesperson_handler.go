package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/core/service"
	"github.com/salesrecorder/sales-web/internal/core/workflow"
	"github.com/salesrecorder/sales-web/pkg/logger"
)

// SalespersonHandler lists and registers salesperson accounts.
type SalespersonHandler struct {
	auth         *service.AuthService
	salespersons SalespersonsBackend
}

func NewSalespersonHandler(auth *service.AuthService, salespersons SalespersonsBackend) *SalespersonHandler {
	return &SalespersonHandler{auth: auth, salespersons: salespersons}
}

type listWithForm[T any] struct {
	State workflow.ListState[T]
	Form  FormView
}

// List shows the sales force with an empty registration form.
func (h *SalespersonHandler) List(c echo.Context) error {
	s, cred, err := credential(c)
	if err != nil {
		return err
	}
	form := workflow.NewForm(workflow.Salespersons, h.salespersons, cred)
	return h.render(c, s, cred, http.StatusOK, form.State())
}

// Register creates a salesperson account.
func (h *SalespersonHandler) Register(c echo.Context) error {
	s, cred, err := credential(c)
	if err != nil {
		return err
	}

	form := workflow.NewForm(workflow.Salespersons, h.salespersons, cred)
	form.Set(formValues(c, workflow.Salespersons.Fields))
	if _, err := form.Submit(c.Request().Context()); err != nil {
		if expired(c, h.auth, s, err) {
			return toLogin(c)
		}
		return h.render(c, s, cred, StatusOf(err), form.State())
	}
	return c.Redirect(http.StatusSeeOther, withNotice("/salespersons", "created"))
}

func (h *SalespersonHandler) render(c echo.Context, s service.Session, cred domain.Credential, status int, st workflow.FormState) error {
	ctx := c.Request().Context()
	l := workflow.NewList(ctx, workflow.Salespersons, h.salespersons, cred, nil, logger.FromContext(ctx))
	defer l.Close()
	if err := l.Load(); err != nil && h.auth.Invalidate(ctx, s, err) {
		return toLogin(c)
	}

	view := listWithForm[domain.Salesperson]{
		State: l.Snapshot(),
		Form:  newFormView(workflow.Salespersons.Fields, st, "/salespersons", "Register"),
	}
	return render(c, status, "salespersons", page(c, "Salespersons", view))
}
