package workflow

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() { validate = validator.New() })
	return validate
}

// check runs every field's rules and the resource's cross-field rules.
func check[T any](r Resource[T], values map[string]string, only map[string]bool) FieldErrors {
	v := validatorInstance()
	errs := FieldErrors{}
	for _, f := range r.Fields {
		if f.Rules == "" || (only != nil && !only[f.Name]) {
			continue
		}
		err := v.Var(strings.TrimSpace(values[f.Name]), f.Rules)
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			for _, fe := range ve {
				errs.Add(f.Name, ruleMessage(f, fe))
			}
		}
		if len(f.Options) > 0 && values[f.Name] != "" && !hasOption(f.Options, values[f.Name]) {
			errs.Add(f.Name, fmt.Sprintf("%s must be one of the listed choices", f.Label))
		}
	}
	if r.Check != nil {
		errs.merge(r.Check(values))
	}
	return errs
}

func hasOption(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}

// ruleMessage converts a single validation failure into a readable message.
func ruleMessage(f Field, fe validator.FieldError) string {
	label := f.Label
	if label == "" {
		label = f.Name
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return label + " must be a valid email"
	case "numeric", "number":
		return label + " must be a number"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, fe.Tag())
	}
}
