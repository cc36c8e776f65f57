package workflow

import (
	"context"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/core/ports"
	"github.com/salesrecorder/sales-web/internal/pkg/metrics"
)

const (
	dateLayout       = "2006-01-02"
	stampLayout      = "20060102-150405"
	SalespersonParam = "salesperson_id"
)

// reportParams is every parameter any kind may use.
var reportParams = []string{"date", "start_date", "end_date", "year", "month"}

// ReportForm holds the report criteria. Switching kind changes which inputs
// are used but keeps every value entered so far.
type ReportForm struct {
	mu          sync.Mutex
	admin       bool
	kind        domain.ReportKind
	values      map[string]string
	salesperson string
}

// NewReportForm starts on the daily report. admin enables the yearly kind
// and the salesperson filter.
func NewReportForm(admin bool) *ReportForm {
	return &ReportForm{admin: admin, kind: domain.ReportDaily, values: map[string]string{}}
}

// Kinds returns the kinds offered to the caller.
func (f *ReportForm) Kinds() []domain.ReportKind {
	out := make([]domain.ReportKind, 0, len(domain.ReportKinds))
	for _, k := range domain.ReportKinds {
		if k.AdminOnly() && !f.admin {
			continue
		}
		out = append(out, k)
	}
	return out
}

// Kind returns the selected kind.
func (f *ReportForm) Kind() domain.ReportKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.kind
}

// SwitchKind selects k.
func (f *ReportForm) SwitchKind(k domain.ReportKind) error {
	if !slices.Contains(f.Kinds(), k) {
		return domain.Invalid("report type %q is not available", k)
	}
	f.mu.Lock()
	f.kind = k
	f.mu.Unlock()
	return nil
}

// Set records entered values. Unknown names are ignored; the salesperson
// filter is only kept for admins.
func (f *ReportForm) Set(values map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range reportParams {
		if v, ok := values[p]; ok {
			f.values[p] = strings.TrimSpace(v)
		}
	}
	if v, ok := values[SalespersonParam]; ok && f.admin {
		f.salesperson = strings.TrimSpace(v)
	}
}

// Values returns everything entered, including the salesperson filter.
func (f *ReportForm) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := maps.Clone(f.values)
	if f.salesperson != "" {
		out[SalespersonParam] = f.salesperson
	}
	return out
}

// Query returns exactly the parameters of the selected kind, plus the
// salesperson filter for admins when one is chosen.
func (f *ReportForm) Query() (url.Values, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	q := url.Values{}
	for _, p := range f.kind.RequiredParams() {
		v := f.values[p]
		if v == "" {
			return nil, domain.Invalid("please provide %s for the %s report", strings.ReplaceAll(p, "_", " "), f.kind)
		}
		q.Set(p, v)
	}
	if err := checkReportParams(f.kind, q); err != nil {
		return nil, err
	}
	if f.admin && f.salesperson != "" {
		if id, err := strconv.ParseInt(f.salesperson, 10, 64); err != nil || id <= 0 {
			return nil, domain.Invalid("invalid salesperson filter")
		}
		q.Set(SalespersonParam, f.salesperson)
	}
	return q, nil
}

func checkReportParams(kind domain.ReportKind, q url.Values) error {
	switch kind {
	case domain.ReportDaily:
		if _, err := time.Parse(dateLayout, q.Get("date")); err != nil {
			return domain.Invalid("date must be in YYYY-MM-DD format")
		}
	case domain.ReportWeekly:
		start, err1 := time.Parse(dateLayout, q.Get("start_date"))
		end, err2 := time.Parse(dateLayout, q.Get("end_date"))
		if err1 != nil || err2 != nil {
			return domain.Invalid("dates must be in YYYY-MM-DD format")
		}
		if end.Before(start) {
			return domain.Invalid("end date must not be before start date")
		}
	case domain.ReportMonthly:
		if !validYear(q.Get("year")) {
			return domain.Invalid("year must be a four digit number")
		}
		if m, err := strconv.Atoi(q.Get("month")); err != nil || m < 1 || m > 12 {
			return domain.Invalid("month must be between 1 and 12")
		}
	case domain.ReportYearly:
		if !validYear(q.Get("year")) {
			return domain.Invalid("year must be a four digit number")
		}
	default:
		return domain.ErrInvalidReport
	}
	return nil
}

func validYear(s string) bool {
	y, err := strconv.Atoi(s)
	return err == nil && len(s) == 4 && y > 0
}

// Download is a generated report ready to be offered as a file.
type Download struct {
	Kind        domain.ReportKind
	Filename    string
	ContentType string
	Body        []byte
}

// Report generates downloads from a ReportForm.
type Report struct {
	src  ports.ReportSource
	cred domain.Credential
	log  zerolog.Logger
	now  func() time.Time
}

// NewReport returns a generator using src.
func NewReport(src ports.ReportSource, cred domain.Credential, log zerolog.Logger) *Report {
	return &Report{src: src, cred: cred, log: log, now: time.Now}
}

// Generate issues one request for the form's criteria. The whole payload is
// returned; nothing is streamed.
func (r *Report) Generate(ctx context.Context, f *ReportForm) (Download, error) {
	q, err := f.Query()
	if err != nil {
		return Download{}, err
	}
	if r.cred == "" {
		return Download{}, domain.ErrNoCredential
	}
	kind := f.Kind()

	p, err := r.src.FetchReport(ctx, r.cred, kind, q)
	if err != nil {
		r.log.Warn().Err(err).Str("kind", string(kind)).Msg("report generation failed")
		return Download{}, err
	}
	metrics.ReportsGeneratedTotal.WithLabelValues(string(kind)).Inc()

	ct := p.ContentType
	if ct == "" {
		ct = "text/csv"
	}
	return Download{
		Kind:        kind,
		Filename:    string(kind) + "_sales_report_" + r.now().UTC().Format(stampLayout) + ".csv",
		ContentType: ct,
		Body:        p.Body,
	}, nil
}
