// Package workflow implements the screens of the front-end as plain objects:
// a list with filters, a create form, an edit form, the client approval
// queue, report generation and sale recording. Handlers drive them; they
// hold no HTTP concerns.
package workflow

import (
	"strconv"
	"strings"
)

// Kind selects how a field is rendered and encoded.
type Kind string

const (
	Text     Kind = "text"
	Email    Kind = "email"
	Number   Kind = "number"
	Password Kind = "password"
	TextArea Kind = "textarea"
	Select   Kind = "select"
	Checkbox Kind = "checkbox"
)

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

// Field describes one input of an entity form.
type Field struct {
	Name    string
	Label   string
	Kind    Kind
	Rules   string // go-playground/validator tag, empty for none
	Options []Option
	Default string
	// Local fields are validated but never sent to the backend.
	Local bool
}

// encode converts the entered text into the wire value.
func (f Field) encode(v string) any {
	switch f.Kind {
	case Checkbox:
		b, _ := strconv.ParseBool(v)
		return b
	case Number:
		return strings.TrimSpace(v)
	default:
		return v
	}
}

// Resource describes one entity for the generic workflows.
type Resource[T any] struct {
	Name   string // singular, e.g. "client"
	Path   string // UI path of the collection, e.g. "/clients"
	Fields []Field
	// Filters are the query parameters a list accepts from the user.
	Filters []string
	// ID returns the path id of an entity.
	ID func(T) string
	// Values renders an entity as form values for pre-filling.
	Values func(T) map[string]string
	// Check adds cross-field rules on top of the per-field ones.
	Check func(values map[string]string) FieldErrors
}

// DetailPath is the UI path of one entity.
func (r Resource[T]) DetailPath(v T) string { return r.Path + "/" + r.ID(v) }

// Field returns the descriptor named name.
func (r Resource[T]) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// defaults returns the initial form values.
func (r Resource[T]) defaults() map[string]string {
	out := make(map[string]string, len(r.Fields))
	for _, f := range r.Fields {
		out[f.Name] = f.Default
	}
	return out
}

// payload encodes the non-local fields present in values.
func (r Resource[T]) payload(values map[string]string, only map[string]bool) map[string]any {
	out := make(map[string]any, len(r.Fields))
	for _, f := range r.Fields {
		if f.Local || (only != nil && !only[f.Name]) {
			continue
		}
		out[f.Name] = f.encode(values[f.Name])
	}
	return out
}

// FieldErrors holds messages per field name.
type FieldErrors map[string][]string

// First returns the first message for name.
func (fe FieldErrors) First(name string) string {
	if msgs := fe[name]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Add appends msg to the messages of name.
func (fe FieldErrors) Add(name, msg string) { fe[name] = append(fe[name], msg) }

func (fe FieldErrors) merge(other map[string][]string) {
	for k, v := range other {
		fe[k] = append(fe[k], v...)
	}
}
