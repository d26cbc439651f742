package apollo

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// UnsupportedOperationError is returned by the Router for unknown (resource, operation) pairs.
type UnsupportedOperationError struct {
	Resource  string
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("The operation %q for resource %q is not supported", e.Operation, e.Resource)
}

// ItemError ties a pre-flight failure to the input item that caused it.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	if e == nil || e.Err == nil {
		return "item error"
	}
	return fmt.Sprintf("%s [item %d]", e.Err.Error(), e.Index)
}

func (e *ItemError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func itemErrorf(index int, format string, args ...any) error {
	return &ItemError{Index: index, Err: fmt.Errorf(format, args...)}
}

// Pre-flight input errors. Handlers wrap these in an ItemError for per-item operations.
var (
	ErrMissingIdentifier = errors.New("Missing required identifier fields: provide email, LinkedIn URL, person ID, or first name + last name + company domain")
	ErrNoContactIDs      = errors.New("No valid contact IDs provided")

	ErrInvalidPeopleJSON    = errors.New("Invalid JSON for people details")
	ErrPeopleCardinality    = errors.New("People details array must contain 1 to 10 items")
	ErrInvalidDomainsJSON   = errors.New("Invalid JSON for organization domains")
	ErrDomainsCardinality   = errors.New("Organization domains array must contain between 1 and 10 items")
	ErrDomainsNotAllStrings = errors.New("Organization domains array must contain only strings")
)

// apolloErrorEnvelope covers the error shapes Apollo returns on non-2xx responses.
type apolloErrorEnvelope struct {
	Error     string `json:"error"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// HTTPError is a sanitized summary of a non-2xx Apollo response.
//
// The raw body is never kept: enrichment payloads are PII.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	Message    string
	ErrorCode  string

	// Snippet is a redacted, truncated hint for responses without an error envelope.
	Snippet string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "apollo http error"
	}
	parts := []string{
		fmt.Sprintf("apollo api error: %s %s status=%s", e.Method, e.Path, strings.TrimSpace(e.Status)),
	}
	if e.ErrorCode != "" {
		parts = append(parts, "code="+e.ErrorCode)
	}
	if e.Message != "" {
		parts = append(parts, "message="+e.Message)
	}
	if e.Snippet != "" {
		parts = append(parts, "body="+e.Snippet)
	}
	return strings.Join(parts, " ")
}

func newHTTPError(req Request, resp *http.Response, body []byte) error {
	h := &HTTPError{
		Method: req.Method,
		Path:   req.Path,
	}
	if resp != nil {
		h.StatusCode = resp.StatusCode
		h.Status = resp.Status
	}

	var env apolloErrorEnvelope
	if len(body) > 0 && json.Unmarshal(body, &env) == nil {
		h.ErrorCode = strings.TrimSpace(env.ErrorCode)
		h.Message = RedactSecrets(strings.TrimSpace(env.Error))
		if h.Message == "" {
			h.Message = RedactSecrets(strings.TrimSpace(env.Message))
		}
		if h.Message != "" || h.ErrorCode != "" {
			return h
		}
	}

	h.Snippet = redactAndTruncate(body)
	return h
}

func redactAndTruncate(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	const max = 256
	b := body
	if len(b) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		b = b[:cut]
	}
	s := RedactSecrets(string(b))
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(body) > max {
		return s + "..."
	}
	return s
}
