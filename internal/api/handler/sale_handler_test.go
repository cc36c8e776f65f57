package handler

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/salesrecorder/sales-web/internal/core/domain"
)

func saleBackend(orders *stubOrders) Backend {
	return Backend{
		Clients: &stubClients{stubCollection: stubCollection[domain.Client]{
			list: func(q url.Values) ([]domain.Client, error) {
				if q.Get("status") != string(domain.ClientApproved) {
					return nil, nil
				}
				return []domain.Client{{ID: 4, Name: "Acme", Status: domain.ClientApproved}}, nil
			},
		}},
		Flavors: &stubCollection[domain.Flavor]{
			list: func(url.Values) ([]domain.Flavor, error) {
				return []domain.Flavor{
					{ID: 1, Name: "Vanilla", BasePricePerLiter: "10.00", IsActive: true},
					{ID: 2, Name: "Mango", BasePricePerLiter: "12.00", IsActive: false},
				}, nil
			},
		},
		Orders: orders,
	}
}

func TestSaleHandler_NewListsActiveFlavors(t *testing.T) {
	e := newEcho(t)
	h := NewSaleHandler(newAuth(nil), saleBackend(&stubOrders{}))
	c, rec := request(e, newSession(t, domain.RoleSalesperson), http.MethodGet, "/sales/new", nil)

	if err := h.New(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectBody(t, rec, "Vanilla", `name="qty_1"`, `<option value="4">Acme</option>`)
	if strings.Contains(rec.Body.String(), "Mango") {
		t.Fatalf("inactive flavor must not be offered")
	}
}

func TestSaleHandler_Create(t *testing.T) {
	e := newEcho(t)
	orders := &stubOrders{}
	h := NewSaleHandler(newAuth(nil), saleBackend(orders))
	form := url.Values{"client_id": {"4"}, "qty_1": {"2.5"}}
	c, rec := request(e, newSession(t, domain.RoleSalesperson), http.MethodPost, "/sales", form)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectRedirect(t, rec, "/reports?notice=recorded")
	if len(orders.orders) != 1 {
		t.Fatalf("expected one order, got %d", len(orders.orders))
	}
	o := orders.orders[0]
	if o.ClientID != 4 || len(o.LineItems) != 1 || o.LineItems[0].FlavorID != 1 || o.LineItems[0].QuantityLiters != "2.5" {
		t.Fatalf("unexpected order %+v", o)
	}
}

func TestSaleHandler_CreateWithoutItemsIsNotSent(t *testing.T) {
	e := newEcho(t)
	orders := &stubOrders{}
	h := NewSaleHandler(newAuth(nil), saleBackend(orders))
	c, rec := request(e, newSession(t, domain.RoleSalesperson), http.MethodPost, "/sales", url.Values{"client_id": {"4"}})

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if len(orders.orders) != 0 {
		t.Fatalf("an invalid sale must not be sent")
	}
	expectBody(t, rec, "please add at least one flavor item to the sale")
}

func TestSaleHandler_CreateRejectsNonPositiveQuantity(t *testing.T) {
	e := newEcho(t)
	orders := &stubOrders{}
	h := NewSaleHandler(newAuth(nil), saleBackend(orders))
	form := url.Values{"client_id": {"4"}, "qty_1": {"-1"}}
	c, rec := request(e, newSession(t, domain.RoleSalesperson), http.MethodPost, "/sales", form)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if len(orders.orders) != 0 {
		t.Fatalf("an invalid sale must not be sent")
	}
	expectBody(t, rec, "Vanilla: quantity must be greater than zero", `value="-1"`)
}
