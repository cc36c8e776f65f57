package workflow

import (
	"strconv"

	"github.com/salesrecorder/sales-web/internal/core/domain"
)

// Clients describes the client entity.
var Clients = Resource[domain.Client]{
	Name: "client",
	Path: "/clients",
	Fields: []Field{
		{Name: "name", Label: "Name", Kind: Text, Rules: "required,max=255"},
		{Name: "client_type", Label: "Client type", Kind: Select, Rules: "required", Default: string(domain.ClientRetail), Options: []Option{
			{Value: string(domain.ClientRetail), Label: "Retail"},
			{Value: string(domain.ClientWholesale), Label: "Wholesale"},
		}},
		{Name: "contact_person", Label: "Contact person", Kind: Text, Rules: "max=255"},
		{Name: "phone_number", Label: "Phone number", Kind: Text, Rules: "max=20"},
		{Name: "email", Label: "Email", Kind: Email, Rules: "omitempty,email"},
		{Name: "address", Label: "Address", Kind: TextArea},
	},
	Filters: []string{"search", "client_type", "status"},
	ID:      domain.Client.Key,
	Values: func(c domain.Client) map[string]string {
		return map[string]string{
			"name":           c.Name,
			"client_type":    string(c.ClientType),
			"contact_person": c.ContactPerson,
			"phone_number":   c.PhoneNumber,
			"email":          c.Email,
			"address":        c.Address,
		}
	},
}

// Salespersons describes salesperson accounts. Registration needs the
// password twice; the confirmation never leaves the front-end.
var Salespersons = Resource[domain.Salesperson]{
	Name: "salesperson",
	Path: "/salespersons",
	Fields: []Field{
		{Name: "username", Label: "Username", Kind: Text, Rules: "required,max=150"},
		{Name: "email", Label: "Email", Kind: Email, Rules: "required,email"},
		{Name: "password", Label: "Password", Kind: Password, Rules: "required,min=8"},
		{Name: "confirm_password", Label: "Confirm password", Kind: Password, Rules: "required", Local: true},
	},
	Filters: []string{"search"},
	ID:      domain.Salesperson.Key,
	Values: func(s domain.Salesperson) map[string]string {
		return map[string]string{"username": s.Username(), "email": s.Email()}
	},
	Check: func(v map[string]string) FieldErrors {
		errs := FieldErrors{}
		if v["confirm_password"] != "" && v["password"] != v["confirm_password"] {
			errs.Add("confirm_password", "Passwords do not match")
		}
		return errs
	},
}

// Flavors describes the product catalogue.
var Flavors = Resource[domain.Flavor]{
	Name: "flavor",
	Path: "/flavors",
	Fields: []Field{
		{Name: "name", Label: "Name", Kind: Text, Rules: "required,max=100"},
		{Name: "base_price_per_liter", Label: "Price per liter", Kind: Number, Rules: "required,numeric"},
		{Name: "is_active", Label: "Active", Kind: Checkbox, Default: "true"},
	},
	Filters: []string{"search"},
	ID:      domain.Flavor.Key,
	Values: func(f domain.Flavor) map[string]string {
		return map[string]string{
			"name":                 f.Name,
			"base_price_per_liter": string(f.BasePricePerLiter),
			"is_active":            strconv.FormatBool(f.IsActive),
		}
	},
	Check: func(v map[string]string) FieldErrors {
		errs := FieldErrors{}
		p, err := domain.Decimal(v["base_price_per_liter"]).Float()
		if err == nil && v["base_price_per_liter"] != "" && p <= 0 {
			errs.Add("base_price_per_liter", "Price per liter must be greater than 0")
		}
		return errs
	},
}
