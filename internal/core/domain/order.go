package domain

// LineItem is one flavor of an order.
type LineItem struct {
	FlavorID       int64   `json:"flavor_id"`
	QuantityLiters Decimal `json:"quantity_liters"`
}

// Order is the payload of a sale. The recording salesperson is assigned by
// the backend.
type Order struct {
	ClientID  int64      `json:"client_id"`
	LineItems []LineItem `json:"order_items"`
}

// Validate enforces the submission invariants: a client, at least one line,
// unique flavors and positive quantities.
func (o Order) Validate() error {
	if o.ClientID == 0 {
		return fieldErr(ErrInvalidOrder, "please select a client")
	}
	if len(o.LineItems) == 0 {
		return fieldErr(ErrInvalidOrder, "please add at least one flavor item to the sale")
	}
	seen := make(map[int64]struct{}, len(o.LineItems))
	for _, li := range o.LineItems {
		if _, dup := seen[li.FlavorID]; dup {
			return fieldErr(ErrInvalidOrder, "each flavor may appear only once")
		}
		seen[li.FlavorID] = struct{}{}
		if !li.QuantityLiters.Positive() {
			return fieldErr(ErrInvalidOrder, "all selected items must have a quantity greater than zero")
		}
	}
	return nil
}

// OrderReceipt is what the backend returns for a recorded order.
type OrderReceipt struct {
	ID            int64   `json:"id"`
	TotalAmount   Decimal `json:"total_amount"`
	PaymentStatus string  `json:"payment_status"`
}
