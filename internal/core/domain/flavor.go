package domain

import "strconv"

// Flavor is a product sold by the litre.
type Flavor struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	BasePricePerLiter Decimal `json:"base_price_per_liter"`
	IsActive          bool    `json:"is_active"`
}

// Key returns the id as it appears in resource paths.
func (f Flavor) Key() string { return strconv.FormatInt(f.ID, 10) }
