package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/core/service"
	"github.com/salesrecorder/sales-web/internal/core/workflow"
	"github.com/salesrecorder/sales-web/pkg/logger"
)

// approvedFilter limits sales to clients that passed approval.
var approvedFilter = url.Values{"status": {string(domain.ClientApproved)}}

// SaleHandler records sales.
type SaleHandler struct {
	auth    *service.AuthService
	backend Backend
}

func NewSaleHandler(auth *service.AuthService, backend Backend) *SaleHandler {
	return &SaleHandler{auth: auth, backend: backend}
}

type saleLine struct {
	Flavor   domain.Flavor
	Quantity string
}

type saleView struct {
	Clients  []domain.Client
	Lines    []saleLine
	ClientID string
	Problems []string
}

// New renders the sale form with the approved clients and active flavors.
func (h *SaleHandler) New(c echo.Context) error {
	s, cred, err := credential(c)
	if err != nil {
		return err
	}
	view, err := h.options(c.Request().Context(), cred)
	if err != nil {
		if expired(c, h.auth, s, err) {
			return toLogin(c)
		}
		view.Problems = append(view.Problems, domain.Describe(err))
	}
	return render(c, http.StatusOK, "sale_form", page(c, "Record sale", view))
}

// Create records the sale. Each flavor row with a quantity becomes one line.
func (h *SaleHandler) Create(c echo.Context) error {
	s, cred, err := credential(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	view, err := h.options(ctx, cred)
	if err != nil {
		if expired(c, h.auth, s, err) {
			return toLogin(c)
		}
		view.Problems = append(view.Problems, domain.Describe(err))
		return render(c, StatusOf(err), "sale_form", page(c, "Record sale", view))
	}

	draft := workflow.NewSaleDraft()
	view.ClientID = strings.TrimSpace(c.FormValue("client_id"))
	if id, err := strconv.ParseInt(view.ClientID, 10, 64); err == nil {
		draft.SetClient(id)
	}

	for i := range view.Lines {
		line := &view.Lines[i]
		line.Quantity = strings.TrimSpace(c.FormValue(fmt.Sprintf("qty_%d", line.Flavor.ID)))
		if line.Quantity == "" {
			continue
		}
		draft.AddItem(line.Flavor)
		if err := draft.SetQuantity(line.Flavor.ID, domain.Decimal(line.Quantity)); err != nil {
			view.Problems = append(view.Problems, fmt.Sprintf("%s: %s", line.Flavor.Name, domain.Describe(err)))
		}
	}
	if len(view.Problems) > 0 {
		return render(c, http.StatusUnprocessableEntity, "sale_form", page(c, "Record sale", view))
	}

	receipt, err := draft.Submit(ctx, h.backend.Orders, cred)
	if err != nil {
		if expired(c, h.auth, s, err) {
			return toLogin(c)
		}
		view.Problems = append(view.Problems, domain.Describe(err))
		return render(c, StatusOf(err), "sale_form", page(c, "Record sale", view))
	}

	log := logger.FromContext(ctx)
	log.Info().Int64("order_id", receipt.ID).Str("total", receipt.TotalAmount.String()).Msg("sale recorded")
	return c.Redirect(http.StatusSeeOther, withNotice("/reports", "recorded"))
}

func (h *SaleHandler) options(ctx context.Context, cred domain.Credential) (saleView, error) {
	var view saleView
	clients, errClients := h.backend.Clients.List(ctx, cred, approvedFilter)
	view.Clients = clients

	flavors, errFlavors := h.backend.Flavors.List(ctx, cred, nil)
	for _, f := range flavors {
		if f.IsActive {
			view.Lines = append(view.Lines, saleLine{Flavor: f})
		}
	}
	return view, errors.Join(errClients, errFlavors)
}
