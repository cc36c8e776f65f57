package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/salesrecorder/sales-web/internal/api/middleware"
	"github.com/salesrecorder/sales-web/internal/core/authz"
	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/core/service"
	"github.com/salesrecorder/sales-web/internal/core/session"
	"github.com/salesrecorder/sales-web/internal/core/workflow"
	"github.com/salesrecorder/sales-web/pkg/logger"
)

// currentSession extracts the session injected by the Auth middleware and
// fails fast when it is missing; every page handler needs it.
func currentSession(c echo.Context) (*session.Store, error) {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}
	return s, nil
}

// credential returns the session and its backend credential. Gated routes
// only run for authenticated sessions, so a missing credential is a 401.
func credential(c echo.Context) (*session.Store, domain.Credential, error) {
	s, err := currentSession(c)
	if err != nil {
		return nil, "", err
	}
	cred, err := s.Credential()
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusUnauthorized, domain.Describe(err))
	}
	return s, cred, nil
}

// expired clears the session when the backend rejected its credential. The
// caller should then redirect to the login page.
func expired(c echo.Context, auth *service.AuthService, s *session.Store, err error) bool {
	return auth.Invalidate(c.Request().Context(), s, err)
}

func toLogin(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, authz.LoginPath+"?notice=expired")
}

type notFoundView struct {
	Noun string
	Back string
}

// loadFailed answers a failed entity load. A missing entity gets the
// not-found page linking back to its list; any other failure is handed to
// inline with its status and message.
func loadFailed(c echo.Context, auth *service.AuthService, s *session.Store, phase workflow.Phase, err error, noun, back string, inline func(status int, problem string) error) error {
	if expired(c, auth, s, err) {
		return toLogin(c)
	}
	if phase == workflow.NotFound {
		return render(c, http.StatusNotFound, "not_found", page(c, "Not found", notFoundView{Noun: noun, Back: back}))
	}
	return inline(StatusOf(err), domain.Describe(err))
}

// Page is the data every template receives.
type Page struct {
	Title   string
	User    *domain.Identity
	IsAdmin bool
	CSRF    string
	Notice  string
	Error   string
	Data    any
}

// notices are the messages a redirect may ask the next page to show.
var notices = map[string]string{
	"expired":   "Your session has expired. Please log in again.",
	"logout":    "You have been logged out.",
	"created":   "Saved successfully.",
	"updated":   "Changes saved.",
	"approved":  "Client approved.",
	"rejected":  "Client rejected.",
	"recorded":  "Sale recorded successfully.",
	"toggled":   "Flavor status updated.",
	"unchanged": "Nothing to save.",
}

func page(c echo.Context, title string, data any) Page {
	p := Page{Title: title, Data: data, Notice: notices[c.QueryParam("notice")]}
	if token, ok := c.Get("csrf").(string); ok {
		p.CSRF = token
	}
	if s, ok := middleware.CurrentSession(c); ok {
		if id, ok := s.Identity(); ok {
			p.User = &id
			p.IsAdmin = id.Role == domain.RoleAdmin
		}
	}
	return p
}

func render(c echo.Context, status int, name string, p Page) error {
	return c.Render(status, name, p)
}

func withNotice(path, code string) string {
	return path + "?notice=" + url.QueryEscape(code)
}

// formValues reads the submitted values of fields. Browsers omit unchecked
// checkboxes, so those read as "false".
func formValues(c echo.Context, fields []workflow.Field) map[string]string {
	params, err := c.FormParams()
	if err != nil {
		log := logger.FromContext(c.Request().Context())
		log.Debug().Err(err).Msg("read form params")
		params = url.Values{}
	}
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		if f.Kind == workflow.Checkbox {
			v := strings.ToLower(params.Get(f.Name))
			if params.Has(f.Name) && v != "false" && v != "off" {
				out[f.Name] = "true"
			} else {
				out[f.Name] = "false"
			}
			continue
		}
		if params.Has(f.Name) {
			out[f.Name] = params.Get(f.Name)
		}
	}
	return out
}

// FormView is a rendered entity form.
type FormView struct {
	Action  string
	Submit  string
	Fields  []FieldView
	General string
}

// FieldView is one input of a FormView.
type FieldView struct {
	workflow.Field
	Value  string
	Errors []string
}

// Checked reports whether a checkbox is ticked.
func (f FieldView) Checked() bool { return f.Value == "true" }

func newFormView(fields []workflow.Field, st workflow.FormState, action, submit string) FormView {
	fv := FormView{Action: action, Submit: submit, General: st.General}
	for _, f := range fields {
		value := st.Values[f.Name]
		if f.Kind == workflow.Password {
			value = ""
		}
		fv.Fields = append(fv.Fields, FieldView{Field: f, Value: value, Errors: st.Errors[f.Name]})
	}
	return fv
}
