package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/salesrecorder/sales-web/internal/api/middleware"
	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/core/ports"
	"github.com/salesrecorder/sales-web/internal/core/service"
	"github.com/salesrecorder/sales-web/internal/core/session"
	"github.com/salesrecorder/sales-web/internal/infrastructure/db/memory"
)

var errUnexpectedCall = errors.New("unexpected call")

type stubCollection[T any] struct {
	list   func(q url.Values) ([]T, error)
	get    func(id string) (T, error)
	create func(payload map[string]any) (T, error)
	patch  func(id string, payload map[string]any) (T, error)
}

func (s *stubCollection[T]) List(_ context.Context, _ domain.Credential, q url.Values) ([]T, error) {
	if s.list == nil {
		return nil, nil
	}
	return s.list(q)
}

func (s *stubCollection[T]) Get(_ context.Context, _ domain.Credential, id string) (T, error) {
	if s.get == nil {
		var zero T
		return zero, domain.ErrNotFound
	}
	return s.get(id)
}

func (s *stubCollection[T]) Create(_ context.Context, _ domain.Credential, payload map[string]any) (T, error) {
	if s.create == nil {
		var zero T
		return zero, errUnexpectedCall
	}
	return s.create(payload)
}

func (s *stubCollection[T]) Patch(_ context.Context, _ domain.Credential, id string, payload map[string]any) (T, error) {
	if s.patch == nil {
		var zero T
		return zero, errUnexpectedCall
	}
	return s.patch(id, payload)
}

type stubClients struct {
	stubCollection[domain.Client]
	approve func(clientID, assigneeID string) (domain.Client, error)
	reject  func(clientID string) (domain.Client, error)
}

func (s *stubClients) Approve(_ context.Context, _ domain.Credential, clientID, assigneeID string) (domain.Client, error) {
	if s.approve == nil {
		return domain.Client{}, errUnexpectedCall
	}
	return s.approve(clientID, assigneeID)
}

func (s *stubClients) Reject(_ context.Context, _ domain.Credential, clientID string) (domain.Client, error) {
	if s.reject == nil {
		return domain.Client{}, errUnexpectedCall
	}
	return s.reject(clientID)
}

type stubAuthAPI struct {
	loginFn  func(username, password string) (domain.LoginResult, error)
	logouts  int
	logoutFn func(cred domain.Credential) error
}

func (s *stubAuthAPI) Login(_ context.Context, username, password string) (domain.LoginResult, error) {
	if s.loginFn == nil {
		return domain.LoginResult{}, errUnexpectedCall
	}
	return s.loginFn(username, password)
}

func (s *stubAuthAPI) Logout(_ context.Context, cred domain.Credential) error {
	s.logouts++
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(cred)
}

type stubReports struct {
	fetch func(kind domain.ReportKind, q url.Values) (ports.ReportPayload, error)
}

func (s *stubReports) FetchReport(_ context.Context, _ domain.Credential, kind domain.ReportKind, q url.Values) (ports.ReportPayload, error) {
	return s.fetch(kind, q)
}

type stubOrders struct {
	orders []domain.Order
	err    error
}

func (s *stubOrders) CreateOrder(_ context.Context, _ domain.Credential, o domain.Order) (domain.OrderReceipt, error) {
	s.orders = append(s.orders, o)
	if s.err != nil {
		return domain.OrderReceipt{}, s.err
	}
	return domain.OrderReceipt{ID: 99, TotalAmount: "25.00"}, nil
}

// apiError mimics the REST adapter's error: a sentinel kind with a user
// message.
type apiError struct {
	kind   error
	msg    string
	fields map[string][]string
}

func (e *apiError) Error() string                    { return e.msg }
func (e *apiError) UserMessage() string              { return e.msg }
func (e *apiError) FieldErrors() map[string][]string { return e.fields }
func (e *apiError) Unwrap() error                    { return e.kind }

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e := echo.New()
	e.Renderer = r
	e.Validator = NewValidator()
	return e
}

func newSession(t *testing.T, role domain.Role) *session.Store {
	t.Helper()
	s := session.New(memory.NewSessionStorage("handler-test-secret", 0), "sid", zerolog.Nop())
	if role != "" {
		if err := s.Login(context.Background(), "tok", domain.Identity{ID: 1, DisplayName: "alice", Role: role}); err != nil {
			t.Fatalf("login: %v", err)
		}
	}
	return s
}

func newAuth(api *stubAuthAPI) *service.AuthService {
	if api == nil {
		api = &stubAuthAPI{}
	}
	return service.NewAuthService(api, zerolog.Nop())
}

// request builds a context for target. A non-nil form is sent url-encoded.
func request(e *echo.Echo, s *session.Store, method, target string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if s != nil {
		c.Set(middleware.SessionKey, s)
	}
	return c, rec
}

func withParam(c echo.Context, name, value string) echo.Context {
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(echo.HeaderLocation); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}

func expectBody(t *testing.T, rec *httptest.ResponseRecorder, want ...string) {
	t.Helper()
	body := rec.Body.String()
	for _, w := range want {
		if !strings.Contains(body, w) {
			t.Fatalf("expected body to contain %q, got:\n%s", w, body)
		}
	}
}

// requestJSON builds a context for target with body sent as JSON.
func requestJSON(e *echo.Echo, s *session.Store, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if s != nil {
		c.Set(middleware.SessionKey, s)
	}
	return c, rec
}
