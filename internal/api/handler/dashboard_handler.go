package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/core/service"
	"github.com/salesrecorder/sales-web/internal/core/workflow"
)

// DashboardHandler renders the role landing pages.
type DashboardHandler struct {
	auth    *service.AuthService
	backend Backend
}

func NewDashboardHandler(auth *service.AuthService, backend Backend) *DashboardHandler {
	return &DashboardHandler{auth: auth, backend: backend}
}

type adminDashboard struct {
	Pending       int
	Salespersons  int
	ActiveFlavors int
	Problems      []string
}

type salesDashboard struct {
	Clients  int
	Pending  int
	Problems []string
}

// Admin shows the pending queue size, the sales force and the active
// catalogue.
func (h *DashboardHandler) Admin(c echo.Context) error {
	s, cred, err := credential(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	var (
		view adminDashboard
		errs []error
	)
	if pending, err := h.backend.Clients.List(ctx, cred, workflow.PendingFilter); err != nil {
		errs = append(errs, err)
	} else {
		view.Pending = len(pending)
	}
	if sps, err := h.backend.Salespersons.List(ctx, cred, nil); err != nil {
		errs = append(errs, err)
	} else {
		view.Salespersons = len(sps)
	}
	if flavors, err := h.backend.Flavors.List(ctx, cred, nil); err != nil {
		errs = append(errs, err)
	} else {
		for _, f := range flavors {
			if f.IsActive {
				view.ActiveFlavors++
			}
		}
	}

	if h.sessionExpired(ctx, s, errs) {
		return toLogin(c)
	}
	for _, err := range errs {
		view.Problems = append(view.Problems, domain.Describe(err))
	}
	return render(c, http.StatusOK, "admin_dashboard", page(c, "Dashboard", view))
}

// Sales shows the salesperson's own clients. The backend scopes the client
// list to the caller.
func (h *DashboardHandler) Sales(c echo.Context) error {
	s, cred, err := credential(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	var view salesDashboard
	clients, err := h.backend.Clients.List(ctx, cred, nil)
	if err != nil {
		if h.sessionExpired(ctx, s, []error{err}) {
			return toLogin(c)
		}
		view.Problems = []string{domain.Describe(err)}
	}
	view.Clients = len(clients)
	for _, cl := range clients {
		if cl.Status == domain.ClientPendingApproval {
			view.Pending++
		}
	}
	return render(c, http.StatusOK, "sales_dashboard", page(c, "Dashboard", view))
}

func (h *DashboardHandler) sessionExpired(ctx context.Context, s service.Session, errs []error) bool {
	for _, err := range errs {
		if h.auth.Invalidate(ctx, s, err) {
			return true
		}
	}
	return false
}
