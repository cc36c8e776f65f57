package workflow

import (
	"context"
	"errors"
	"maps"

	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/core/ports"
)

// EditSource fetches and partially updates one entity.
type EditSource[T any] interface {
	ports.Getter[T]
	ports.Patcher[T]
}

// Editor edits one existing entity. The entity is fetched before the form
// is usable; only fields that differ from the fetched values are sent.
type Editor[T any] struct {
	formCore
	res  Resource[T]
	src  EditSource[T]
	cred domain.Credential
	id   string

	phase    Phase
	err      error
	current  T
	original map[string]string
}

// NewEditor returns an editor for the entity with the given id.
func NewEditor[T any](res Resource[T], src EditSource[T], cred domain.Credential, id string) *Editor[T] {
	return &Editor[T]{
		formCore: formCore{values: map[string]string{}, errors: FieldErrors{}},
		res:      res,
		src:      src,
		cred:     cred,
		id:       id,
		phase:    Loading,
	}
}

// Load fetches the entity and pre-fills the form. A missing entity moves the
// editor to NotFound rather than Failed.
func (e *Editor[T]) Load(ctx context.Context) error {
	var (
		v   T
		err error
	)
	switch {
	case e.cred == "":
		err = domain.ErrNoCredential
	case e.id == "":
		err = domain.ErrMissingID
	default:
		v, err = e.src.Get(ctx, e.cred, e.id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.err = err
		if errors.Is(err, domain.ErrNotFound) {
			e.phase = NotFound
		} else {
			e.phase = Failed
		}
		return err
	}
	e.phase, e.err, e.current = Ready, nil, v
	e.original = e.res.Values(v)
	e.values = maps.Clone(e.original)
	return nil
}

// Phase returns the load state.
func (e *Editor[T]) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Err returns the load error, if any.
func (e *Editor[T]) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Current returns the last entity confirmed by the backend.
func (e *Editor[T]) Current() T {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Set overwrites the given values. Unknown names are ignored.
func (e *Editor[T]) Set(values map[string]string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, fd := range e.res.Fields {
		if v, ok := values[fd.Name]; ok {
			e.values[fd.Name] = v
		}
	}
}

// State returns a snapshot for rendering.
func (e *Editor[T]) State() FormState { return e.state() }

// Changed returns the names of fields whose value differs from the fetched one.
func (e *Editor[T]) Changed() map[string]bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.changedLocked()
}

func (e *Editor[T]) changedLocked() map[string]bool {
	out := map[string]bool{}
	for _, f := range e.res.Fields {
		if f.Local {
			continue
		}
		if e.values[f.Name] != e.original[f.Name] {
			out[f.Name] = true
		}
	}
	return out
}

// Submit sends the changed fields as one partial update. With nothing
// changed no request is made and the current entity is returned.
func (e *Editor[T]) Submit(ctx context.Context) (T, error) {
	var zero T
	if phase := e.Phase(); phase != Ready {
		return zero, e.notReady(phase)
	}
	if err := e.begin(); err != nil {
		return zero, err
	}

	e.mu.Lock()
	values := maps.Clone(e.values)
	changed := e.changedLocked()
	current := e.current
	e.mu.Unlock()

	if errs := check(e.res, values, changed); len(errs) > 0 {
		err := domain.Invalid("please correct the highlighted fields")
		e.fail(err, errs)
		return zero, err
	}
	if len(changed) == 0 {
		e.succeed()
		return current, nil
	}

	updated, err := e.src.Patch(ctx, e.cred, e.id, e.res.payload(values, changed))
	if err != nil {
		e.fail(err, nil)
		return zero, err
	}

	e.mu.Lock()
	e.current = updated
	e.original = e.res.Values(updated)
	e.values = maps.Clone(e.original)
	e.mu.Unlock()
	e.succeed()
	return updated, nil
}

func (e *Editor[T]) notReady(p Phase) error {
	if err := e.Err(); err != nil {
		return err
	}
	if p == NotFound {
		return domain.ErrNotFound
	}
	return domain.ErrMissingID
}
