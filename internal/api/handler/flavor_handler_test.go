package handler

import (
	"net/http"
	"net/url"
	"reflect"
	"testing"

	"github.com/salesrecorder/sales-web/internal/core/domain"
)

func TestFlavorHandler_ToggleSendsOnlyIsActive(t *testing.T) {
	e := newEcho(t)
	var sent map[string]any
	flavors := &stubCollection[domain.Flavor]{
		get: func(id string) (domain.Flavor, error) {
			return domain.Flavor{ID: 5, Name: "Vanilla", BasePricePerLiter: "10.00", IsActive: true}, nil
		},
		patch: func(id string, payload map[string]any) (domain.Flavor, error) {
			if id != "5" {
				t.Fatalf("unexpected id %q", id)
			}
			sent = payload
			return domain.Flavor{ID: 5, Name: "Vanilla", BasePricePerLiter: "10.00"}, nil
		},
	}
	h := NewFlavorHandler(newAuth(nil), flavors)
	c, rec := request(e, newSession(t, domain.RoleAdmin), http.MethodPost, "/flavors/5/toggle", url.Values{})
	withParam(c, "id", "5")

	if err := h.Toggle(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectRedirect(t, rec, "/flavors?notice=toggled")
	if want := map[string]any{"is_active": false}; !reflect.DeepEqual(sent, want) {
		t.Fatalf("expected payload %v, got %v", want, sent)
	}
}

func TestFlavorHandler_CreateUncheckedIsInactive(t *testing.T) {
	e := newEcho(t)
	var sent map[string]any
	flavors := &stubCollection[domain.Flavor]{
		create: func(payload map[string]any) (domain.Flavor, error) {
			sent = payload
			return domain.Flavor{ID: 8, Name: "Mango"}, nil
		},
	}
	h := NewFlavorHandler(newAuth(nil), flavors)
	form := url.Values{"name": {"Mango"}, "base_price_per_liter": {"12.50"}}
	c, rec := request(e, newSession(t, domain.RoleAdmin), http.MethodPost, "/flavors", form)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectRedirect(t, rec, "/flavors?notice=created")
	want := map[string]any{"name": "Mango", "base_price_per_liter": "12.50", "is_active": false}
	if !reflect.DeepEqual(sent, want) {
		t.Fatalf("expected payload %v, got %v", want, sent)
	}
}

func TestFlavorHandler_CreateRejectsZeroPrice(t *testing.T) {
	e := newEcho(t)
	h := NewFlavorHandler(newAuth(nil), &stubCollection[domain.Flavor]{})
	form := url.Values{"name": {"Mango"}, "base_price_per_liter": {"0"}, "is_active": {"on"}}
	c, rec := request(e, newSession(t, domain.RoleAdmin), http.MethodPost, "/flavors", form)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	expectBody(t, rec, "Price per liter must be greater than 0")
}

func TestFlavorHandler_EditMissingFlavor(t *testing.T) {
	e := newEcho(t)
	h := NewFlavorHandler(newAuth(nil), &stubCollection[domain.Flavor]{})
	c, rec := request(e, newSession(t, domain.RoleAdmin), http.MethodGet, "/flavors/77/edit", nil)
	withParam(c, "id", "77")

	if err := h.Edit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	expectBody(t, rec, "Flavor not found", `<a href="/flavors">Back to the flavor list</a>`)
}

func TestFlavorHandler_ToggleMissingFlavorIsNotPatched(t *testing.T) {
	e := newEcho(t)
	h := NewFlavorHandler(newAuth(nil), &stubCollection[domain.Flavor]{})
	c, rec := request(e, newSession(t, domain.RoleAdmin), http.MethodPost, "/flavors/77/toggle", url.Values{})
	withParam(c, "id", "77")

	if err := h.Toggle(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
