package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/core/service"
	"github.com/salesrecorder/sales-web/internal/core/session"
	"github.com/salesrecorder/sales-web/internal/core/workflow"
	"github.com/salesrecorder/sales-web/pkg/logger"
)

// ClientHandler serves the client pages. Salespersons use the same create
// form to request a client; the backend files it as pending.
type ClientHandler struct {
	auth    *service.AuthService
	clients ClientsBackend
}

func NewClientHandler(auth *service.AuthService, clients ClientsBackend) *ClientHandler {
	return &ClientHandler{auth: auth, clients: clients}
}

type clientList struct {
	State workflow.ListState[domain.Client]
	Query map[string]string
}

type entityForm struct {
	Heading string
	Form    FormView
	Cancel  string
	// Problem replaces the form when the entity could not be loaded.
	Problem string
}

type clientDetail struct {
	Client  domain.Client
	Problem string
}

// List shows the clients matching the query filters.
func (h *ClientHandler) List(c echo.Context) error {
	s, cred, err := credential(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	l := workflow.NewList(ctx, workflow.Clients, h.clients, cred, nil, logger.FromContext(ctx))
	defer l.Close()

	if err := l.SetFilters(c.QueryParams()); err != nil && expired(c, h.auth, s, err) {
		return toLogin(c)
	}

	st := l.Snapshot()
	query := make(map[string]string, len(workflow.Clients.Filters))
	for _, k := range workflow.Clients.Filters {
		query[k] = st.Filters.Get(k)
	}
	return render(c, http.StatusOK, "clients", page(c, "Clients", clientList{State: st, Query: query}))
}

// New renders an empty client form.
func (h *ClientHandler) New(c echo.Context) error {
	_, cred, err := credential(c)
	if err != nil {
		return err
	}
	form := workflow.NewForm(workflow.Clients, h.clients, cred)
	return h.renderForm(c, http.StatusOK, "New client", newFormView(workflow.Clients.Fields, form.State(), "/clients", "Create client"), "/clients")
}

// Create submits the client form.
func (h *ClientHandler) Create(c echo.Context) error {
	s, cred, err := credential(c)
	if err != nil {
		return err
	}

	form := workflow.NewForm(workflow.Clients, h.clients, cred)
	form.Set(formValues(c, workflow.Clients.Fields))
	created, err := form.Submit(c.Request().Context())
	if err != nil {
		if expired(c, h.auth, s, err) {
			return toLogin(c)
		}
		fv := newFormView(workflow.Clients.Fields, form.State(), "/clients", "Create client")
		return h.renderForm(c, StatusOf(err), "New client", fv, "/clients")
	}
	return c.Redirect(http.StatusSeeOther, withNotice(workflow.Clients.DetailPath(created), "created"))
}

// Show renders one client.
func (h *ClientHandler) Show(c echo.Context) error {
	s, cred, err := credential(c)
	if err != nil {
		return err
	}
	ed := workflow.NewEditor(workflow.Clients, h.clients, cred, c.Param("id"))
	if err := ed.Load(c.Request().Context()); err != nil {
		return loadFailed(c, h.auth, s, ed.Phase(), err, workflow.Clients.Name, workflow.Clients.Path, func(status int, problem string) error {
			return render(c, status, "client_detail", page(c, "Client", clientDetail{Problem: problem}))
		})
	}
	client := ed.Current()
	return render(c, http.StatusOK, "client_detail", page(c, client.Name, clientDetail{Client: client}))
}

// Edit renders the client form pre-filled with the stored values.
func (h *ClientHandler) Edit(c echo.Context) error {
	s, cred, err := credential(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	ed := workflow.NewEditor(workflow.Clients, h.clients, cred, id)
	if err := ed.Load(c.Request().Context()); err != nil {
		return h.loadFailed(c, s, ed, err)
	}
	fv := newFormView(workflow.Clients.Fields, ed.State(), "/clients/"+id, "Save changes")
	return h.renderForm(c, http.StatusOK, "Edit "+ed.Current().Name, fv, "/clients/"+id)
}

// Update sends the changed client fields.
func (h *ClientHandler) Update(c echo.Context) error {
	s, cred, err := credential(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	id := c.Param("id")

	ed := workflow.NewEditor(workflow.Clients, h.clients, cred, id)
	if err := ed.Load(ctx); err != nil {
		return h.loadFailed(c, s, ed, err)
	}
	ed.Set(formValues(c, workflow.Clients.Fields))

	notice := "updated"
	if len(ed.Changed()) == 0 {
		notice = "unchanged"
	}
	updated, err := ed.Submit(ctx)
	if err != nil {
		if expired(c, h.auth, s, err) {
			return toLogin(c)
		}
		fv := newFormView(workflow.Clients.Fields, ed.State(), "/clients/"+id, "Save changes")
		return h.renderForm(c, StatusOf(err), "Edit "+ed.Current().Name, fv, "/clients/"+id)
	}
	return c.Redirect(http.StatusSeeOther, withNotice(workflow.Clients.DetailPath(updated), notice))
}

func (h *ClientHandler) loadFailed(c echo.Context, s *session.Store, ed *workflow.Editor[domain.Client], err error) error {
	return loadFailed(c, h.auth, s, ed.Phase(), err, workflow.Clients.Name, workflow.Clients.Path, func(status int, problem string) error {
		return render(c, status, "entity_form", page(c, "Edit client", entityForm{Heading: "Edit client", Cancel: workflow.Clients.Path, Problem: problem}))
	})
}

func (h *ClientHandler) renderForm(c echo.Context, status int, heading string, fv FormView, cancel string) error {
	return render(c, status, "entity_form", page(c, heading, entityForm{Heading: heading, Form: fv, Cancel: cancel}))
}
