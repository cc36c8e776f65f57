package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/core/ports"
	"github.com/salesrecorder/sales-web/internal/core/service"
	"github.com/salesrecorder/sales-web/internal/core/session"
	"github.com/salesrecorder/sales-web/internal/core/workflow"
	"github.com/salesrecorder/sales-web/internal/infrastructure/restapi"
	"github.com/salesrecorder/sales-web/pkg/logger"
)

// ReportHandler generates sales reports.
type ReportHandler struct {
	auth         *service.AuthService
	reports      ports.ReportSource
	salespersons ports.Lister[domain.Salesperson]
}

func NewReportHandler(auth *service.AuthService, reports ports.ReportSource, salespersons ports.Lister[domain.Salesperson]) *ReportHandler {
	return &ReportHandler{auth: auth, reports: reports, salespersons: salespersons}
}

type reportView struct {
	Kinds        []domain.ReportKind
	Kind         domain.ReportKind
	Values       map[string]string
	Salespersons []domain.Salesperson
	Generated    bool
	Table        restapi.Table
}

var reportFields = []string{"date", "start_date", "end_date", "year", "month", workflow.SalespersonParam}

// Page renders the criteria form.
func (h *ReportHandler) Page(c echo.Context) error {
	s, _, err := credential(c)
	if err != nil {
		return err
	}
	form := workflow.NewReportForm(s.IsAdmin())
	return h.render(c, s, http.StatusOK, form, nil, "")
}

// Preview generates the report and shows it as a table.
func (h *ReportHandler) Preview(c echo.Context) error {
	s, form, dl, err := h.generate(c)
	if err != nil {
		if form == nil {
			return err
		}
		if expired(c, h.auth, s, err) {
			return toLogin(c)
		}
		return h.render(c, s, StatusOf(err), form, nil, domain.Describe(err))
	}

	table, err := restapi.ParseCSV(dl.Body)
	if err != nil {
		log := logger.FromContext(c.Request().Context())
		log.Warn().Err(err).Str("kind", string(dl.Kind)).Msg("report is not valid csv")
		return h.render(c, s, http.StatusBadGateway, form, nil, "The report could not be read.")
	}
	return h.render(c, s, http.StatusOK, form, &table, "")
}

// Download returns the generated report as a file.
func (h *ReportHandler) Download(c echo.Context) error {
	s, form, dl, err := h.generate(c)
	if err != nil {
		if form == nil {
			return err
		}
		if expired(c, h.auth, s, err) {
			return toLogin(c)
		}
		return h.render(c, s, StatusOf(err), form, nil, domain.Describe(err))
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", dl.Filename))
	return c.Blob(http.StatusOK, dl.ContentType, dl.Body)
}

func (h *ReportHandler) generate(c echo.Context) (*session.Store, *workflow.ReportForm, workflow.Download, error) {
	s, cred, err := credential(c)
	if err != nil {
		return nil, nil, workflow.Download{}, err
	}

	form := workflow.NewReportForm(s.IsAdmin())
	values := make(map[string]string, len(reportFields))
	for _, k := range reportFields {
		values[k] = c.FormValue(k)
	}
	form.Set(values)
	if err := form.SwitchKind(domain.ReportKind(c.FormValue("kind"))); err != nil {
		return s, form, workflow.Download{}, err
	}

	ctx := c.Request().Context()
	dl, err := workflow.NewReport(h.reports, cred, logger.FromContext(ctx)).Generate(ctx, form)
	return s, form, dl, err
}

func (h *ReportHandler) render(c echo.Context, s *session.Store, status int, form *workflow.ReportForm, table *restapi.Table, problem string) error {
	view := reportView{Kinds: form.Kinds(), Kind: form.Kind(), Values: form.Values()}
	if table != nil {
		view.Generated = true
		view.Table = *table
	}
	if s.IsAdmin() {
		ctx := c.Request().Context()
		if cred, err := s.Credential(); err == nil {
			sps, err := h.salespersons.List(ctx, cred, nil)
			if err != nil {
				log := logger.FromContext(ctx)
				log.Warn().Err(err).Msg("load salespersons for report filter")
			}
			view.Salespersons = sps
		}
	}
	p := page(c, "Reports", view)
	p.Error = problem
	return render(c, status, "reports", p)
}
