package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/salesrecorder/sales-web/internal/core/domain"
)

func TestEditor_NotFoundIsDistinct(t *testing.T) {
	src := &stubCollection[domain.Client]{
		getFn: func(context.Context, domain.Credential, string) (domain.Client, error) {
			return domain.Client{}, &apiError{msg: "Not found.", kind: domain.ErrNotFound}
		},
	}
	e := NewEditor(Clients, src, "tok", "99")

	if err := e.Load(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if e.Phase() != NotFound {
		t.Fatalf("expected not_found phase, got %s", e.Phase())
	}
	if _, err := e.Submit(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected submit to refuse a missing entity, got %v", err)
	}
}

func TestEditor_OtherErrorsFail(t *testing.T) {
	src := &stubCollection[domain.Client]{
		getFn: func(context.Context, domain.Credential, string) (domain.Client, error) {
			return domain.Client{}, domain.ErrTransport
		},
	}
	e := NewEditor(Clients, src, "tok", "1")
	_ = e.Load(context.Background())
	if e.Phase() != Failed {
		t.Fatalf("expected error phase, got %s", e.Phase())
	}
}

func TestEditor_SubmitsOnlyChangedFields(t *testing.T) {
	var sent map[string]any
	current := domain.Client{ID: 4, Name: "Acme", ClientType: domain.ClientRetail, Email: "a@acme.io"}
	src := &stubCollection[domain.Client]{
		getFn: func(_ context.Context, _ domain.Credential, id string) (domain.Client, error) {
			if id != "4" {
				t.Fatalf("unexpected id %q", id)
			}
			return current, nil
		},
		patchFn: func(_ context.Context, _ domain.Credential, id string, payload map[string]any) (domain.Client, error) {
			sent = payload
			updated := current
			updated.Name = payload["name"].(string)
			return updated, nil
		},
	}
	e := NewEditor(Clients, src, "tok", "4")
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if e.State().Values["name"] != "Acme" || e.State().Values["email"] != "a@acme.io" {
		t.Fatalf("expected pre-filled values, got %v", e.State().Values)
	}

	e.Set(map[string]string{"name": "Acme Ltd", "email": "a@acme.io"})
	updated, err := e.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(sent) != 1 || sent["name"] != "Acme Ltd" {
		t.Fatalf("expected only name in patch, got %v", sent)
	}
	if updated.Name != "Acme Ltd" || len(e.Changed()) != 0 {
		t.Fatalf("expected editor to adopt the confirmed entity")
	}
}

func TestEditor_NothingChangedSendsNothing(t *testing.T) {
	src := &stubCollection[domain.Flavor]{
		getFn: func(context.Context, domain.Credential, string) (domain.Flavor, error) {
			return domain.Flavor{ID: 1, Name: "Mango", BasePricePerLiter: "3.00", IsActive: true}, nil
		},
		patchFn: func(context.Context, domain.Credential, string, map[string]any) (domain.Flavor, error) {
			t.Fatalf("no request expected")
			return domain.Flavor{}, nil
		},
	}
	e := NewEditor(Flavors, src, "tok", "1")
	_ = e.Load(context.Background())

	f, err := e.Submit(context.Background())
	if err != nil || f.Name != "Mango" {
		t.Fatalf("unexpected result %+v (%v)", f, err)
	}
}

func TestEditor_InvalidChangeKeepsInput(t *testing.T) {
	src := &stubCollection[domain.Client]{
		getFn: func(context.Context, domain.Credential, string) (domain.Client, error) {
			return domain.Client{ID: 1, Name: "Acme", ClientType: domain.ClientRetail}, nil
		},
		patchFn: func(context.Context, domain.Credential, string, map[string]any) (domain.Client, error) {
			t.Fatalf("invalid edit must not be sent")
			return domain.Client{}, nil
		},
	}
	e := NewEditor(Clients, src, "tok", "1")
	_ = e.Load(context.Background())
	e.Set(map[string]string{"name": "", "address": "1 Main St"})

	if _, err := e.Submit(context.Background()); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	st := e.State()
	if st.Errors.First("name") == "" || st.Values["address"] != "1 Main St" {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestEditor_MissingID(t *testing.T) {
	e := NewEditor(Clients, &stubCollection[domain.Client]{}, "tok", "")
	if err := e.Load(context.Background()); !errors.Is(err, domain.ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
}
