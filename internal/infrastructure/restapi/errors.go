package restapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/salesrecorder/sales-web/internal/core/domain"
)

const diagnosticLen = 100

// Error is a non-2xx answer from the backend.
type Error struct {
	Status int
	// Message is the general, user-facing message.
	Message string
	// Fields holds per-field validation messages keyed by field name.
	Fields map[string][]string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) UserMessage() string { return e.Message }

func (e *Error) FieldErrors() map[string][]string { return e.Fields }

// Unwrap maps the status onto the domain taxonomy.
func (e *Error) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound:
		return domain.ErrNotFound
	case e.Status == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return domain.ErrForbidden
	case e.Status >= 400 && e.Status < 500:
		return domain.ErrRejected
	default:
		return domain.ErrTransport
	}
}

// parseError builds an *Error from a failure body. The general message is
// the "detail" string, else the first "non_field_errors" entry, else a
// fallback naming op. Bodies that are not JSON yield a truncated excerpt.
func parseError(op string, status int, body []byte) *Error {
	e := &Error{Status: status}
	fallback := "Failed to " + op + "."

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		var v json.RawMessage
		if json.Unmarshal(body, &v) == nil {
			// Valid JSON that is not an object, e.g. a bare list of messages.
			if msgs := messages(v); len(msgs) > 0 {
				e.Message = msgs[0]
				return e
			}
			e.Message = fallback
			return e
		}
		e.Message = fmt.Sprintf("Failed to %s: %s... (Not JSON)", op, excerpt(body))
		return e
	}

	if raw, ok := obj["detail"]; ok {
		if msgs := messages(raw); len(msgs) > 0 {
			e.Message = msgs[0]
		}
	}
	if e.Message == "" {
		if raw, ok := obj["non_field_errors"]; ok {
			if msgs := messages(raw); len(msgs) > 0 {
				e.Message = msgs[0]
			}
		}
	}

	for field, raw := range obj {
		if field == "detail" || field == "non_field_errors" {
			continue
		}
		if msgs := messages(raw); len(msgs) > 0 {
			if e.Fields == nil {
				e.Fields = make(map[string][]string)
			}
			e.Fields[field] = msgs
		}
	}

	if e.Message == "" {
		e.Message = fallback
	}
	return e
}

// messages flattens a string, a list of strings, or a nested object of those
// into a list of messages.
func messages(raw json.RawMessage) []string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		if s == "" {
			return nil
		}
		return []string{s}
	}
	var list []json.RawMessage
	if json.Unmarshal(raw, &list) == nil {
		var out []string
		for _, item := range list {
			out = append(out, messages(item)...)
		}
		return out
	}
	var nested map[string]json.RawMessage
	if json.Unmarshal(raw, &nested) == nil {
		keys := make([]string, 0, len(nested))
		for k := range nested {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []string
		for _, k := range keys {
			for _, m := range messages(nested[k]) {
				out = append(out, k+": "+m)
			}
		}
		return out
	}
	return nil
}

// excerpt returns at most diagnosticLen runes of body.
func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if utf8.RuneCountInString(s) <= diagnosticLen {
		return s
	}
	r := []rune(s)
	return string(r[:diagnosticLen])
}

func malformed(op string, body []byte, err error) error {
	return fmt.Errorf("%w: failed to %s: %s... (%v)", domain.ErrMalformedResponse, op, excerpt(body), err)
}
