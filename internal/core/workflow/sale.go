package workflow

import (
	"context"
	"slices"
	"sync"

	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/core/ports"
)

// DraftItem is one line of a sale being composed.
type DraftItem struct {
	FlavorID int64
	Name     string
	Quantity domain.Decimal
}

// SaleDraft composes an order. Flavors appear at most once and quantities
// stay positive; Submit validates again before anything is sent.
type SaleDraft struct {
	mu         sync.Mutex
	clientID   int64
	items      []DraftItem
	submitting bool
}

// NewSaleDraft returns an empty draft.
func NewSaleDraft() *SaleDraft { return &SaleDraft{} }

// SetClient selects the buying client. Zero clears it.
func (d *SaleDraft) SetClient(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clientID = id
}

// ClientID returns the selected client.
func (d *SaleDraft) ClientID() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clientID
}

// AddItem adds f with a quantity of one liter. It reports false when f is
// already in the draft.
func (d *SaleDraft) AddItem(f domain.Flavor) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if f.ID == 0 || d.indexLocked(f.ID) >= 0 {
		return false
	}
	d.items = append(d.items, DraftItem{FlavorID: f.ID, Name: f.Name, Quantity: "1"})
	return true
}

// SetQuantity changes the quantity of a line. Non-positive or unparsable
// quantities are refused and leave the line unchanged.
func (d *SaleDraft) SetQuantity(flavorID int64, q domain.Decimal) error {
	if !q.Positive() {
		return domain.Invalid("quantity must be greater than zero")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.indexLocked(flavorID)
	if i < 0 {
		return domain.Invalid("flavor is not part of this sale")
	}
	d.items[i].Quantity = q
	return nil
}

// RemoveItem drops the line of flavorID.
func (d *SaleDraft) RemoveItem(flavorID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.indexLocked(flavorID)
	if i < 0 {
		return false
	}
	d.items = slices.Delete(d.items, i, i+1)
	return true
}

// Items returns a copy of the lines.
func (d *SaleDraft) Items() []DraftItem {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.items)
}

func (d *SaleDraft) indexLocked(flavorID int64) int {
	return slices.IndexFunc(d.items, func(it DraftItem) bool { return it.FlavorID == flavorID })
}

// Order returns the payload the draft would submit.
func (d *SaleDraft) Order() domain.Order {
	d.mu.Lock()
	defer d.mu.Unlock()
	o := domain.Order{ClientID: d.clientID, LineItems: make([]domain.LineItem, 0, len(d.items))}
	for _, it := range d.items {
		o.LineItems = append(o.LineItems, domain.LineItem{FlavorID: it.FlavorID, QuantityLiters: it.Quantity})
	}
	return o
}

// Submit records the sale. An invalid draft is never sent.
func (d *SaleDraft) Submit(ctx context.Context, rec ports.OrderRecorder, cred domain.Credential) (domain.OrderReceipt, error) {
	order := d.Order()
	if err := order.Validate(); err != nil {
		return domain.OrderReceipt{}, err
	}
	if cred == "" {
		return domain.OrderReceipt{}, domain.ErrNoCredential
	}

	d.mu.Lock()
	if d.submitting {
		d.mu.Unlock()
		return domain.OrderReceipt{}, domain.ErrActionInFlight
	}
	d.submitting = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.submitting = false
		d.mu.Unlock()
	}()

	return rec.CreateOrder(ctx, cred, order)
}
