package wmsapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrAuthExpired is matched by every 401/403 answer to a protected call
	ErrAuthExpired = errors.New("wms api: session expired")
	// ErrLoginFailed is returned when the token endpoint does not issue an access token
	ErrLoginFailed = errors.New("wms api: login failed")
)

// APIError is a non-2xx answer that is neither a validation rejection nor a login failure
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("wms api %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("wms api %s %s: status %d", e.Method, e.Path, e.Status)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return ErrAuthExpired
	}
	return nil
}

// ValidationError is a 400 answer with a structured body
type ValidationError struct {
	Method  string
	Path    string
	Message string
	Fields  map[string][]string
	Body    string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields)+1)
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	for _, name := range e.FieldNames() {
		parts = append(parts, name+": "+strings.Join(e.Fields[name], " "))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("wms api %s %s: rejected", e.Method, e.Path)
	}
	return fmt.Sprintf("wms api %s %s: rejected: %s", e.Method, e.Path, strings.Join(parts, "; "))
}

// FieldNames returns the rejected field names in a stable order
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TransportError covers network failures and undecodable responses.
// The operation must be treated as not applied.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("wms api %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// messageKeys are the body keys the API uses for a single human readable message
var messageKeys = []string{"detail", "error", "message", "non_field_errors"}

// parseErrorBody splits an error body into a top-level message and per-field messages
func parseErrorBody(body []byte) (string, map[string][]string) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return strings.TrimSpace(string(body)), nil
	}

	var message string
	for _, key := range messageKeys {
		if v, ok := raw[key]; ok {
			message = strings.Join(flatten(v), " ")
			delete(raw, key)
			break
		}
	}

	fields := make(map[string][]string, len(raw))
	for name, v := range raw {
		if msgs := flatten(v); len(msgs) > 0 {
			fields[name] = msgs
		}
	}
	return message, fields
}

func flatten(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, flatten(item)...)
		}
		return out
	case map[string]any:
		out := make([]string, 0, len(t))
		for k, item := range t {
			for _, m := range flatten(item) {
				out = append(out, k+": "+m)
			}
		}
		sort.Strings(out)
		return out
	case nil:
		return nil
	default:
		return []string{fmt.Sprint(t)}
	}
}
