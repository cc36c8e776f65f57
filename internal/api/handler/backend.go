package handler

import (
	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/core/ports"
)

// ClientsBackend is the client endpoint including the approval actions.
type ClientsBackend interface {
	ports.Collection[domain.Client]
	ports.ClientTransitions
}

// SalespersonsBackend lists and registers salesperson accounts.
type SalespersonsBackend interface {
	ports.Lister[domain.Salesperson]
	ports.Creator[domain.Salesperson]
}

// Backend groups the REST endpoints the pages use.
type Backend struct {
	Clients      ClientsBackend
	Salespersons SalespersonsBackend
	Flavors      ports.Collection[domain.Flavor]
	Orders       ports.OrderRecorder
	Reports      ports.ReportSource
}
