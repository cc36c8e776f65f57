package restapi

import "github.com/salesrecorder/sales-web/internal/core/domain"

// Flavors returns the flavors endpoint.
func (c *Client) Flavors() *Resource[domain.Flavor] {
	return Collection[domain.Flavor](c, "flavors", "flavors")
}
