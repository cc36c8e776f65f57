package restapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/core/ports"
)

// FetchReport generates a sales report of kind with the given parameters.
func (c *Client) FetchReport(ctx context.Context, cred domain.Credential, kind domain.ReportKind, query url.Values) (ports.ReportPayload, error) {
	if !kind.Valid() {
		return ports.ReportPayload{}, domain.ErrInvalidReport
	}
	resp, err := c.send(ctx, request{
		op:     "fetch report",
		method: http.MethodGet,
		path:   "reports/sales/" + string(kind) + "/",
		query:  query,
		cred:   cred,
	})
	if err != nil {
		return ports.ReportPayload{}, err
	}
	return ports.ReportPayload{ContentType: resp.contentType, Body: resp.body}, nil
}
