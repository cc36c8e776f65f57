package domain

import "strconv"

// ClientStatus is the approval lifecycle of a client.
type ClientStatus string

const (
	ClientPendingApproval ClientStatus = "pending_approval"
	ClientApproved        ClientStatus = "approved"
	ClientRejected        ClientStatus = "rejected"
)

// ClientType is the commercial category of a client.
type ClientType string

const (
	ClientRetail    ClientType = "retail"
	ClientWholesale ClientType = "wholesale"
)

// Client is a customer of the company as returned by the backend.
type Client struct {
	ID                  int64        `json:"id"`
	Name                string       `json:"name"`
	ContactPerson       string       `json:"contact_person"`
	PhoneNumber         string       `json:"phone_number"`
	Email               string       `json:"email"`
	Address             string       `json:"address"`
	ClientType          ClientType   `json:"client_type"`
	Status              ClientStatus `json:"status"`
	IsNewClient         bool         `json:"is_new_client"`
	OutstandingBalance  Decimal      `json:"outstanding_balance"`
	AssignedSalesperson *Salesperson `json:"assigned_salesperson"`
	RequestedBy         *Salesperson `json:"requested_by_salesperson"`
}

// Key returns the id as it appears in resource paths.
func (c Client) Key() string { return strconv.FormatInt(c.ID, 10) }

// AssignedSalespersonID returns the user id of the assignee, or 0.
func (c Client) AssignedSalespersonID() int64 {
	if c.AssignedSalesperson == nil {
		return 0
	}
	return c.AssignedSalesperson.UserID()
}

// Consistent reports whether the assignment agrees with the status: a client
// has an assignee if and only if it is approved.
func (c Client) Consistent() bool {
	return (c.Status == ClientApproved) == (c.AssignedSalesperson != nil)
}

// Contact returns the phone number, falling back to the email.
func (c Client) Contact() string {
	if c.PhoneNumber != "" {
		return c.PhoneNumber
	}
	return c.Email
}
