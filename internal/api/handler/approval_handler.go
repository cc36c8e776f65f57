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

// ApprovalHandler serves the pending client queue.
type ApprovalHandler struct {
	auth    *service.AuthService
	backend Backend
	// guard is shared by all requests so one client is never approved and
	// rejected at the same time.
	guard *workflow.Guard
}

func NewApprovalHandler(auth *service.AuthService, backend Backend, guard *workflow.Guard) *ApprovalHandler {
	if guard == nil {
		guard = workflow.NewGuard()
	}
	return &ApprovalHandler{auth: auth, backend: backend, guard: guard}
}

type pendingRow struct {
	Client     domain.Client
	Selected   string
	InFlight   bool
	CanApprove bool
	CanReject  bool
}

type approvalView struct {
	State         workflow.ListState[domain.Client]
	Rows          []pendingRow
	Assignees     []domain.Salesperson
	AssigneeError string
}

func (h *ApprovalHandler) open(c echo.Context) (*session.Store, *workflow.Approval, error) {
	s, cred, err := credential(c)
	if err != nil {
		return nil, nil, err
	}
	ctx := c.Request().Context()
	a := workflow.NewApproval(ctx, workflow.ApprovalDeps{
		Clients:      h.backend.Clients,
		Salespersons: h.backend.Salespersons,
		Transitions:  h.backend.Clients,
		Guard:        h.guard,
	}, cred, logger.FromContext(ctx))
	return s, a, nil
}

// Pending lists the clients awaiting a decision.
func (h *ApprovalHandler) Pending(c echo.Context) error {
	s, a, err := h.open(c)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Load(); err != nil && expired(c, h.auth, s, err) {
		return toLogin(c)
	}
	return h.render(c, http.StatusOK, a, "")
}

// Approve approves a client and assigns it to the chosen salesperson.
func (h *ApprovalHandler) Approve(c echo.Context) error {
	return h.act(c, "approved", func(a *workflow.Approval, id string) error {
		a.Select(id, c.FormValue("assign_to_salesperson_id"))
		return a.Approve(c.Request().Context(), id)
	})
}

// Reject rejects a client. The form must carry confirm=true.
func (h *ApprovalHandler) Reject(c echo.Context) error {
	return h.act(c, "rejected", func(a *workflow.Approval, id string) error {
		return a.Reject(c.Request().Context(), id, c.FormValue("confirm") == "true")
	})
}

func (h *ApprovalHandler) act(c echo.Context, notice string, do func(*workflow.Approval, string) error) error {
	s, a, err := h.open(c)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Load(); err != nil {
		if expired(c, h.auth, s, err) {
			return toLogin(c)
		}
		return h.render(c, StatusOf(err), a, domain.Describe(err))
	}

	id := c.Param("id")
	if err := do(a, id); err != nil {
		if expired(c, h.auth, s, err) {
			return toLogin(c)
		}
		return h.render(c, StatusOf(err), a, domain.Describe(err))
	}
	return c.Redirect(http.StatusSeeOther, withNotice("/clients/pending", notice))
}

func (h *ApprovalHandler) render(c echo.Context, status int, a *workflow.Approval, problem string) error {
	st := a.Pending()
	assignees := a.Assignees()
	view := approvalView{State: st, Assignees: assignees.Items}
	if assignees.Phase == workflow.Failed {
		view.AssigneeError = "Salespersons could not be loaded: " + assignees.Message()
	}
	for _, cl := range st.Items {
		id := cl.Key()
		view.Rows = append(view.Rows, pendingRow{
			Client:     cl,
			Selected:   a.Selected(id),
			InFlight:   a.InFlight(id),
			CanApprove: a.CanApprove(id),
			CanReject:  a.CanReject(id),
		})
	}
	p := page(c, "Pending approvals", view)
	p.Error = problem
	return render(c, status, "pending_clients", p)
}
