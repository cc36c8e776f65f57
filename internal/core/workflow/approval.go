package workflow

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/rs/zerolog"

	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/core/ports"
	"github.com/salesrecorder/sales-web/internal/pkg/metrics"
)

// PendingFilter restricts the approval queue to clients awaiting a decision.
var PendingFilter = url.Values{"status": {string(domain.ClientPendingApproval)}}

// Approval is the queue of clients pending approval. Approving requires an
// assignee chosen from an independently fetched salesperson list; approve
// and reject remove the client from the local queue once confirmed.
type Approval struct {
	pending   *List[domain.Client]
	assignees *List[domain.Salesperson]
	api       ports.ClientTransitions
	cred      domain.Credential
	guard     *Guard
	log       zerolog.Logger

	mu       sync.Mutex
	selected map[string]string // client id -> salesperson user id
}

// ApprovalDeps groups the collaborators of an Approval.
type ApprovalDeps struct {
	Clients      ports.Lister[domain.Client]
	Salespersons ports.Lister[domain.Salesperson]
	Transitions  ports.ClientTransitions
	// Guard is optional; pass a shared one to serialise actions across
	// requests.
	Guard *Guard
}

// NewApproval binds the queue to the lifetime of parent.
func NewApproval(parent context.Context, deps ApprovalDeps, cred domain.Credential, log zerolog.Logger) *Approval {
	guard := deps.Guard
	if guard == nil {
		guard = NewGuard()
	}
	return &Approval{
		pending:   NewList(parent, Clients, deps.Clients, cred, PendingFilter, log),
		assignees: NewList(parent, Salespersons, deps.Salespersons, cred, nil, log),
		api:       deps.Transitions,
		cred:      cred,
		guard:     guard,
		log:       log,
		selected:  make(map[string]string),
	}
}

// Load fetches the pending clients and the assignable salespersons.
func (a *Approval) Load() error {
	errClients := a.pending.Load()
	errAssignees := a.assignees.Load()
	return errors.Join(errClients, errAssignees)
}

// Pending returns the queue.
func (a *Approval) Pending() ListState[domain.Client] { return a.pending.Snapshot() }

// Assignees returns the salesperson list.
func (a *Approval) Assignees() ListState[domain.Salesperson] { return a.assignees.Snapshot() }

// Select chooses the assignee for a client. An empty assigneeID clears the
// choice.
func (a *Approval) Select(clientID, assigneeID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if assigneeID == "" {
		delete(a.selected, clientID)
		return
	}
	a.selected[clientID] = assigneeID
}

// Selected returns the chosen assignee of a client.
func (a *Approval) Selected(clientID string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selected[clientID]
}

// CanApprove reports whether the approve action is enabled for a client: it
// is pending, a known salesperson is selected and no action is in flight.
func (a *Approval) CanApprove(clientID string) bool {
	if _, ok := a.pending.Find(clientID); !ok {
		return false
	}
	assignee := a.Selected(clientID)
	if assignee == "" {
		return false
	}
	if _, ok := a.assignees.Find(assignee); !ok {
		return false
	}
	return !a.guard.Busy(clientID)
}

// CanReject reports whether the reject action is enabled for a client.
func (a *Approval) CanReject(clientID string) bool {
	_, ok := a.pending.Find(clientID)
	return ok && !a.guard.Busy(clientID)
}

// InFlight reports whether an action on the client is running.
func (a *Approval) InFlight(clientID string) bool { return a.guard.Busy(clientID) }

// Approve approves the client and assigns it to the selected salesperson in
// a single request.
func (a *Approval) Approve(ctx context.Context, clientID string) error {
	if _, ok := a.pending.Find(clientID); !ok {
		return domain.ErrNotPending
	}
	assignee := a.Selected(clientID)
	if assignee == "" {
		return domain.ErrAssigneeRequired
	}
	if _, ok := a.assignees.Find(assignee); !ok {
		return domain.ErrAssigneeRequired
	}
	return a.act("approve", clientID, func() (domain.Client, error) {
		return a.api.Approve(ctx, a.cred, clientID, assignee)
	})
}

// Reject rejects the client. confirmed must be true; rejecting is destructive.
func (a *Approval) Reject(ctx context.Context, clientID string, confirmed bool) error {
	if !confirmed {
		return domain.ErrNotConfirmed
	}
	if _, ok := a.pending.Find(clientID); !ok {
		return domain.ErrNotPending
	}
	return a.act("reject", clientID, func() (domain.Client, error) {
		return a.api.Reject(ctx, a.cred, clientID)
	})
}

func (a *Approval) act(action, clientID string, call func() (domain.Client, error)) error {
	if a.cred == "" {
		return domain.ErrNoCredential
	}
	if !a.guard.Acquire(clientID) {
		return domain.ErrActionInFlight
	}
	defer a.guard.Release(clientID)

	client, err := call()
	if err != nil {
		metrics.ClientTransitionsTotal.WithLabelValues(action, "error").Inc()
		a.log.Warn().Err(err).Str("action", action).Str("client_id", clientID).Msg("client transition failed")
		return err
	}
	if !client.Consistent() {
		a.log.Warn().
			Str("client_id", clientID).
			Str("status", string(client.Status)).
			Msg("backend returned a client whose assignment disagrees with its status")
	}
	metrics.ClientTransitionsTotal.WithLabelValues(action, "ok").Inc()

	a.pending.Remove(clientID)
	a.mu.Lock()
	delete(a.selected, clientID)
	a.mu.Unlock()

	a.log.Info().Str("action", action).Str("client_id", clientID).Msg("client transitioned")
	return nil
}

// Close cancels in-flight fetches.
func (a *Approval) Close() {
	a.pending.Close()
	a.assignees.Close()
}
