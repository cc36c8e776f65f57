package workflow

import (
	"context"
	"errors"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/core/ports"
)

// Phase is the load state of a screen.
type Phase string

const (
	Loading  Phase = "loading"
	Ready    Phase = "ready"
	Failed   Phase = "error"
	NotFound Phase = "not_found"
)

// ListState is a consistent snapshot of a List.
type ListState[T any] struct {
	Phase   Phase
	Items   []T
	Err     error
	Filters url.Values
}

// Empty reports a successful load with no items. It is not an error.
func (s ListState[T]) Empty() bool { return s.Phase == Ready && len(s.Items) == 0 }

// Message is the error text to display, if any.
func (s ListState[T]) Message() string { return domain.Describe(s.Err) }

// List fetches a collection and keeps it in memory for the lifetime of the
// screen. Every filter change starts a fresh fetch; results of superseded
// fetches and fetches that finish after Close are dropped.
type List[T any] struct {
	res   Resource[T]
	src   ports.Lister[T]
	cred  domain.Credential
	fixed url.Values
	log   zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	gen     uint64
	phase   Phase
	items   []T
	err     error
	filters url.Values
}

// NewList binds a list to the lifetime of parent. fixed parameters are sent
// with every fetch and cannot be overridden by user filters.
func NewList[T any](parent context.Context, res Resource[T], src ports.Lister[T], cred domain.Credential, fixed url.Values, log zerolog.Logger) *List[T] {
	ctx, cancel := context.WithCancel(parent)
	return &List[T]{
		res:     res,
		src:     src,
		cred:    cred,
		fixed:   fixed,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
		phase:   Loading,
		filters: url.Values{},
	}
}

// Load fetches with the current filters.
func (l *List[T]) Load() error {
	l.mu.Lock()
	filters := cloneValues(l.filters)
	l.mu.Unlock()
	return l.fetch(filters)
}

// SetFilters keeps only the declared filter parameters with non-empty values
// and fetches again when they differ from the current ones.
func (l *List[T]) SetFilters(in url.Values) error {
	next := url.Values{}
	for _, k := range l.res.Filters {
		if v := strings.TrimSpace(in.Get(k)); v != "" {
			next.Set(k, v)
		}
	}

	l.mu.Lock()
	same := equalValues(next, l.filters) && l.phase != Loading
	l.mu.Unlock()
	if same {
		return nil
	}
	return l.fetch(next)
}

func (l *List[T]) fetch(filters url.Values) error {
	if err := l.ctx.Err(); err != nil {
		return domain.ErrClosed
	}

	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.phase = Loading
	l.filters = filters
	l.mu.Unlock()

	query := cloneValues(filters)
	for k, v := range l.fixed {
		query[k] = slices.Clone(v)
	}

	var (
		items []T
		err   error
	)
	if l.cred == "" {
		err = domain.ErrNoCredential
	} else {
		items, err = l.src.List(l.ctx, l.cred, query)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen || l.ctx.Err() != nil {
		l.log.Debug().Str("resource", l.res.Name).Msg("dropping stale list result")
		return domain.ErrClosed
	}
	if err != nil {
		l.phase, l.items, l.err = Failed, nil, err
		if !errors.Is(err, domain.ErrNoCredential) {
			l.log.Warn().Err(err).Str("resource", l.res.Name).Msg("list fetch failed")
		}
		return err
	}
	l.phase, l.items, l.err = Ready, items, nil
	return nil
}

// Snapshot returns the current state. Items is a copy.
func (l *List[T]) Snapshot() ListState[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return ListState[T]{
		Phase:   l.phase,
		Items:   slices.Clone(l.items),
		Err:     l.err,
		Filters: cloneValues(l.filters),
	}
}

// Find returns the item with the given id.
func (l *List[T]) Find(id string) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, it := range l.items {
		if l.res.ID(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Remove drops the item with the given id from the local collection without
// refetching. It reports whether an item was removed.
func (l *List[T]) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.items)
	l.items = slices.DeleteFunc(l.items, func(it T) bool { return l.res.ID(it) == id })
	return len(l.items) != n
}

// Close cancels any in-flight fetch. Results arriving afterwards are ignored.
func (l *List[T]) Close() { l.cancel() }

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = slices.Clone(vs)
	}
	return out
}

func equalValues(a, b url.Values) bool {
	if len(a) != len(b) {
		return false
	}
	for k, va := range a {
		if !slices.Equal(va, b[k]) {
			return false
		}
	}
	return true
}
