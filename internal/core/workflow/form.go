package workflow

import (
	"context"
	"maps"
	"sync"

	"github.com/salesrecorder/sales-web/internal/core/domain"
	"github.com/salesrecorder/sales-web/internal/core/ports"
)

// FormState is what a form view renders.
type FormState struct {
	Values     map[string]string
	Errors     FieldErrors
	General    string
	Submitting bool
}

// formCore is the state shared by create and edit forms.
type formCore struct {
	mu         sync.Mutex
	values     map[string]string
	errors     FieldErrors
	general    string
	submitting bool
}

func (f *formCore) state() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormState{
		Values:     maps.Clone(f.values),
		Errors:     maps.Clone(f.errors),
		General:    f.general,
		Submitting: f.submitting,
	}
}

// begin marks a submission in flight.
func (f *formCore) begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitting {
		return domain.ErrActionInFlight
	}
	f.submitting = true
	f.errors = FieldErrors{}
	f.general = ""
	return nil
}

// fail records err. Entered values are left untouched.
func (f *formCore) fail(err error, fields FieldErrors) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if fields == nil {
		fields = FieldErrors{}
	}
	fields.merge(domain.FieldErrors(err))
	f.errors = fields
	f.general = domain.Describe(err)
}

func (f *formCore) succeed() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	f.errors = FieldErrors{}
	f.general = ""
}

// Form creates one entity.
type Form[T any] struct {
	formCore
	res  Resource[T]
	src  ports.Creator[T]
	cred domain.Credential
}

// NewForm returns a form filled with the resource defaults.
func NewForm[T any](res Resource[T], src ports.Creator[T], cred domain.Credential) *Form[T] {
	return &Form[T]{
		formCore: formCore{values: res.defaults(), errors: FieldErrors{}},
		res:      res,
		src:      src,
		cred:     cred,
	}
}

// Set overwrites the given values. Unknown names are ignored.
func (f *Form[T]) Set(values map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fd := range f.res.Fields {
		if v, ok := values[fd.Name]; ok {
			f.values[fd.Name] = v
		}
	}
}

// State returns a snapshot for rendering.
func (f *Form[T]) State() FormState { return f.state() }

// Submit validates locally and sends one create request. On any failure the
// form keeps the entered values and records per-field messages.
func (f *Form[T]) Submit(ctx context.Context) (T, error) {
	var zero T
	if err := f.begin(); err != nil {
		return zero, err
	}

	f.mu.Lock()
	values := maps.Clone(f.values)
	f.mu.Unlock()

	if errs := check(f.res, values, nil); len(errs) > 0 {
		err := domain.Invalid("please correct the highlighted fields")
		f.fail(err, errs)
		return zero, err
	}
	if f.cred == "" {
		f.fail(domain.ErrNoCredential, nil)
		return zero, domain.ErrNoCredential
	}

	created, err := f.src.Create(ctx, f.cred, f.res.payload(values, nil))
	if err != nil {
		f.fail(err, nil)
		return zero, err
	}
	f.succeed()
	return created, nil
}
