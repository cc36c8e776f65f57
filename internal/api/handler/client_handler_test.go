package handler

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/salesrecorder/sales-web/internal/core/domain"
)

func TestClientHandler_List_PassesDeclaredFilters(t *testing.T) {
	e := newEcho(t)
	var got url.Values
	clients := &stubClients{stubCollection: stubCollection[domain.Client]{
		list: func(q url.Values) ([]domain.Client, error) {
			got = q
			return []domain.Client{{ID: 5, Name: "Acme Ices", ClientType: domain.ClientRetail, Status: domain.ClientApproved}}, nil
		},
	}}
	c, rec := request(e, newSession(t, domain.RoleAdmin), http.MethodGet, "/clients?search=acme&page=3", nil)

	if err := NewClientHandler(newAuth(nil), clients).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.Get("search") != "acme" || got.Has("page") {
		t.Fatalf("unexpected query: %v", got)
	}
	expectBody(t, rec, "Acme Ices", `href="/clients/5"`, `value="acme"`)
}

func TestClientHandler_List_ErrorIsNotEmpty(t *testing.T) {
	e := newEcho(t)
	clients := &stubClients{stubCollection: stubCollection[domain.Client]{
		list: func(url.Values) ([]domain.Client, error) {
			return nil, &apiError{kind: domain.ErrTransport, msg: "Failed to fetch clients."}
		},
	}}
	c, rec := request(e, newSession(t, domain.RoleSalesperson), http.MethodGet, "/clients", nil)

	if err := NewClientHandler(newAuth(nil), clients).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectBody(t, rec, "Failed to fetch clients.")
	if strings.Contains(rec.Body.String(), "No clients found.") {
		t.Fatalf("a failed fetch must not read as an empty list")
	}
}

func TestClientHandler_Create_InvalidIsNotSent(t *testing.T) {
	e := newEcho(t)
	clients := &stubClients{}
	form := url.Values{"name": {""}, "phone_number": {"555-0100"}}
	c, rec := request(e, newSession(t, domain.RoleAdmin), http.MethodPost, "/clients", form)

	if err := NewClientHandler(newAuth(nil), clients).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	expectBody(t, rec, "Name is required", `value="555-0100"`)
}

func TestClientHandler_Create_Success(t *testing.T) {
	e := newEcho(t)
	var payload map[string]any
	clients := &stubClients{stubCollection: stubCollection[domain.Client]{
		create: func(p map[string]any) (domain.Client, error) {
			payload = p
			return domain.Client{ID: 12, Name: "Frosty"}, nil
		},
	}}
	c, rec := request(e, newSession(t, domain.RoleSalesperson), http.MethodPost, "/clients", url.Values{"name": {"Frosty"}})

	if err := NewClientHandler(newAuth(nil), clients).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectRedirect(t, rec, "/clients/12?notice=created")
	if payload["name"] != "Frosty" || payload["client_type"] != "retail" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestClientHandler_Create_BackendFieldErrors(t *testing.T) {
	e := newEcho(t)
	clients := &stubClients{stubCollection: stubCollection[domain.Client]{
		create: func(map[string]any) (domain.Client, error) {
			return domain.Client{}, &apiError{
				kind:   domain.ErrRejected,
				msg:    "Failed to create client.",
				fields: map[string][]string{"email": {"Enter a valid email address."}},
			}
		},
	}}
	c, rec := request(e, newSession(t, domain.RoleAdmin), http.MethodPost, "/clients", url.Values{"name": {"Frosty"}})

	if err := NewClientHandler(newAuth(nil), clients).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	expectBody(t, rec, "Failed to create client.", "Enter a valid email address.")
}

func TestClientHandler_Show_NotFound(t *testing.T) {
	e := newEcho(t)
	c, rec := request(e, newSession(t, domain.RoleAdmin), http.MethodGet, "/clients/404", nil)
	withParam(c, "id", "404")

	if err := NewClientHandler(newAuth(nil), &stubClients{}).Show(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	expectBody(t, rec, "Client not found", `<a href="/clients">Back to the client list</a>`)
}

func TestClientHandler_Edit_MissingAndFailingDiffer(t *testing.T) {
	e := newEcho(t)
	cases := []struct {
		name     string
		err      error
		wantCode int
		want     string
		notWant  string
	}{
		{"missing", domain.ErrNotFound, http.StatusNotFound, "Client not found", "role=\"alert\""},
		{"backend down", &apiError{kind: domain.ErrTransport, msg: "Failed to fetch client."}, http.StatusBadGateway, "Failed to fetch client.", "not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clients := &stubClients{stubCollection: stubCollection[domain.Client]{
				get: func(string) (domain.Client, error) { return domain.Client{}, tc.err },
			}}
			c, rec := request(e, newSession(t, domain.RoleAdmin), http.MethodGet, "/clients/9/edit", nil)
			withParam(c, "id", "9")

			if err := NewClientHandler(newAuth(nil), clients).Edit(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			expectBody(t, rec, tc.want, `href="/clients"`)
			if strings.Contains(rec.Body.String(), tc.notWant) {
				t.Fatalf("did not expect %q in:\n%s", tc.notWant, rec.Body.String())
			}
			if strings.Contains(rec.Body.String(), "Back to start") {
				t.Fatalf("expected an inline page, not the generic error page")
			}
		})
	}
}

func TestClientHandler_Show_BackendFailureInline(t *testing.T) {
	e := newEcho(t)
	clients := &stubClients{stubCollection: stubCollection[domain.Client]{
		get: func(string) (domain.Client, error) {
			return domain.Client{}, &apiError{kind: domain.ErrTransport, msg: "Failed to fetch client."}
		},
	}}
	c, rec := request(e, newSession(t, domain.RoleAdmin), http.MethodGet, "/clients/3", nil)
	withParam(c, "id", "3")

	if err := NewClientHandler(newAuth(nil), clients).Show(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	expectBody(t, rec, "Failed to fetch client.", "Back to clients")
}

func TestClientHandler_Update_SendsOnlyChangedFields(t *testing.T) {
	e := newEcho(t)
	stored := domain.Client{ID: 7, Name: "Old", ClientType: domain.ClientRetail, Email: "a@b.co"}
	var patched map[string]any
	clients := &stubClients{stubCollection: stubCollection[domain.Client]{
		get: func(id string) (domain.Client, error) { return stored, nil },
		patch: func(id string, p map[string]any) (domain.Client, error) {
			patched = p
			updated := stored
			updated.Name = "New"
			return updated, nil
		},
	}}
	form := url.Values{"name": {"New"}, "client_type": {"retail"}, "email": {"a@b.co"}}
	c, rec := request(e, newSession(t, domain.RoleAdmin), http.MethodPost, "/clients/7", form)
	withParam(c, "id", "7")

	if err := NewClientHandler(newAuth(nil), clients).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectRedirect(t, rec, "/clients/7?notice=updated")
	if len(patched) != 1 || patched["name"] != "New" {
		t.Fatalf("expected only name to be sent, got %+v", patched)
	}
}

func TestClientHandler_ExpiredCredentialLogsOut(t *testing.T) {
	e := newEcho(t)
	clients := &stubClients{stubCollection: stubCollection[domain.Client]{
		get: func(string) (domain.Client, error) {
			return domain.Client{}, &apiError{kind: domain.ErrUnauthorized, msg: "Invalid token."}
		},
	}}
	s := newSession(t, domain.RoleAdmin)
	c, rec := request(e, s, http.MethodGet, "/clients/1", nil)
	withParam(c, "id", "1")

	if err := NewClientHandler(newAuth(nil), clients).Show(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectRedirect(t, rec, "/?notice=expired")
	if s.IsAuthenticated() {
		t.Fatalf("expected the session to be cleared")
	}
}
