package handler

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/salesrecorder/sales-web/internal/core/domain"
)

func dashboardBackend(flavorsErr error) Backend {
	return Backend{
		Clients: &stubClients{stubCollection: stubCollection[domain.Client]{
			list: func(q url.Values) ([]domain.Client, error) {
				all := []domain.Client{
					{ID: 1, Status: domain.ClientPendingApproval},
					{ID: 2, Status: domain.ClientApproved},
					{ID: 3, Status: domain.ClientPendingApproval},
				}
				if q.Get("status") == "" {
					return all, nil
				}
				var out []domain.Client
				for _, cl := range all {
					if string(cl.Status) == q.Get("status") {
						out = append(out, cl)
					}
				}
				return out, nil
			},
		}},
		Salespersons: &stubCollection[domain.Salesperson]{
			list: func(url.Values) ([]domain.Salesperson, error) {
				return []domain.Salesperson{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}, nil
			},
		},
		Flavors: &stubCollection[domain.Flavor]{
			list: func(url.Values) ([]domain.Flavor, error) {
				if flavorsErr != nil {
					return nil, flavorsErr
				}
				return []domain.Flavor{{ID: 1, IsActive: true}, {ID: 2}}, nil
			},
		},
	}
}

func TestDashboardHandler_Admin(t *testing.T) {
	e := newEcho(t)
	h := NewDashboardHandler(newAuth(nil), dashboardBackend(nil))
	c, rec := request(e, newSession(t, domain.RoleAdmin), http.MethodGet, "/admin-dashboard", nil)

	if err := h.Admin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectBody(t, rec,
		"Welcome, alice",
		`<a href="/clients/pending">2</a>`,
		`<a href="/salespersons">4</a>`,
		`<a href="/flavors">1</a>`,
	)
}

func TestDashboardHandler_AdminPartialFailure(t *testing.T) {
	e := newEcho(t)
	failure := &apiError{kind: domain.ErrTransport, msg: "Failed to fetch flavors."}
	h := NewDashboardHandler(newAuth(nil), dashboardBackend(failure))
	c, rec := request(e, newSession(t, domain.RoleAdmin), http.MethodGet, "/admin-dashboard", nil)

	if err := h.Admin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	expectBody(t, rec, `<a href="/salespersons">4</a>`, "Failed to fetch flavors.")
}

func TestDashboardHandler_AdminExpiredCredential(t *testing.T) {
	e := newEcho(t)
	api := &stubAuthAPI{}
	h := NewDashboardHandler(newAuth(api), dashboardBackend(rejectedCredential()))
	s := newSession(t, domain.RoleAdmin)
	c, rec := request(e, s, http.MethodGet, "/admin-dashboard", nil)

	if err := h.Admin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectRedirect(t, rec, "/?notice=expired")
	if s.IsAuthenticated() {
		t.Fatalf("expected the session to be cleared")
	}
}

func TestDashboardHandler_Sales(t *testing.T) {
	e := newEcho(t)
	h := NewDashboardHandler(newAuth(nil), dashboardBackend(nil))
	c, rec := request(e, newSession(t, domain.RoleSalesperson), http.MethodGet, "/sales-dashboard", nil)

	if err := h.Sales(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectBody(t, rec, `<a href="/clients">3</a>`, `<a href="/clients?status=pending_approval">2</a>`)
}

func rejectedCredential() error {
	return errors.Join(errors.New("GET /flavors/"), domain.ErrUnauthorized)
}
