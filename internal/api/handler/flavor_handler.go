package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/core/ports"
	"github.com/salesrecorder/sales-web/internal/core/service"
	"github.com/salesrecorder/sales-web/internal/core/session"
	"github.com/salesrecorder/sales-web/internal/core/workflow"
	"github.com/salesrecorder/sales-web/pkg/logger"
)

// FlavorHandler manages the product catalogue.
type FlavorHandler struct {
	auth    *service.AuthService
	flavors ports.Collection[domain.Flavor]
}

func NewFlavorHandler(auth *service.AuthService, flavors ports.Collection[domain.Flavor]) *FlavorHandler {
	return &FlavorHandler{auth: auth, flavors: flavors}
}

// List shows the catalogue and the add form.
func (h *FlavorHandler) List(c echo.Context) error {
	s, cred, err := credential(c)
	if err != nil {
		return err
	}
	form := workflow.NewForm(workflow.Flavors, h.flavors, cred)
	return h.render(c, s, cred, http.StatusOK, form.State())
}

// Create adds a flavor.
func (h *FlavorHandler) Create(c echo.Context) error {
	s, cred, err := credential(c)
	if err != nil {
		return err
	}
	form := workflow.NewForm(workflow.Flavors, h.flavors, cred)
	form.Set(formValues(c, workflow.Flavors.Fields))
	if _, err := form.Submit(c.Request().Context()); err != nil {
		if expired(c, h.auth, s, err) {
			return toLogin(c)
		}
		return h.render(c, s, cred, StatusOf(err), form.State())
	}
	return c.Redirect(http.StatusSeeOther, withNotice("/flavors", "created"))
}

// Edit renders the flavor form pre-filled.
func (h *FlavorHandler) Edit(c echo.Context) error {
	s, cred, err := credential(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	ed := workflow.NewEditor(workflow.Flavors, h.flavors, cred, id)
	if err := ed.Load(c.Request().Context()); err != nil {
		return h.loadFailed(c, s, ed, err)
	}
	return h.renderEdit(c, http.StatusOK, id, ed)
}

// Update sends the changed flavor fields.
func (h *FlavorHandler) Update(c echo.Context) error {
	s, cred, err := credential(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	id := c.Param("id")

	ed := workflow.NewEditor(workflow.Flavors, h.flavors, cred, id)
	if err := ed.Load(ctx); err != nil {
		return h.loadFailed(c, s, ed, err)
	}
	ed.Set(formValues(c, workflow.Flavors.Fields))
	if _, err := ed.Submit(ctx); err != nil {
		if expired(c, h.auth, s, err) {
			return toLogin(c)
		}
		return h.renderEdit(c, StatusOf(err), id, ed)
	}
	return c.Redirect(http.StatusSeeOther, withNotice("/flavors", "updated"))
}

// Toggle flips is_active; only that field is sent.
func (h *FlavorHandler) Toggle(c echo.Context) error {
	s, cred, err := credential(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	ed := workflow.NewEditor(workflow.Flavors, h.flavors, cred, c.Param("id"))
	if err := ed.Load(ctx); err != nil {
		return h.loadFailed(c, s, ed, err)
	}
	ed.Set(map[string]string{"is_active": strconv.FormatBool(!ed.Current().IsActive)})
	if _, err := ed.Submit(ctx); err != nil {
		if expired(c, h.auth, s, err) {
			return toLogin(c)
		}
		return err
	}
	return c.Redirect(http.StatusSeeOther, withNotice("/flavors", "toggled"))
}

func (h *FlavorHandler) render(c echo.Context, s service.Session, cred domain.Credential, status int, st workflow.FormState) error {
	ctx := c.Request().Context()
	l := workflow.NewList(ctx, workflow.Flavors, h.flavors, cred, nil, logger.FromContext(ctx))
	defer l.Close()
	if err := l.Load(); err != nil && h.auth.Invalidate(ctx, s, err) {
		return toLogin(c)
	}

	view := listWithForm[domain.Flavor]{
		State: l.Snapshot(),
		Form:  newFormView(workflow.Flavors.Fields, st, "/flavors", "Add flavor"),
	}
	return render(c, status, "flavors", page(c, "Flavors", view))
}

func (h *FlavorHandler) loadFailed(c echo.Context, s *session.Store, ed *workflow.Editor[domain.Flavor], err error) error {
	return loadFailed(c, h.auth, s, ed.Phase(), err, workflow.Flavors.Name, workflow.Flavors.Path, func(status int, problem string) error {
		return render(c, status, "entity_form", page(c, "Edit flavor", entityForm{Heading: "Edit flavor", Cancel: workflow.Flavors.Path, Problem: problem}))
	})
}

func (h *FlavorHandler) renderEdit(c echo.Context, status int, id string, ed *workflow.Editor[domain.Flavor]) error {
	heading := "Edit " + ed.Current().Name
	fv := newFormView(workflow.Flavors.Fields, ed.State(), "/flavors/"+id, "Save changes")
	return render(c, status, "entity_form", page(c, heading, entityForm{Heading: heading, Form: fv, Cancel: "/flavors"}))
}
