package integrations

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
)

// ErrorKind is the discriminant of the integration error taxonomy.
type ErrorKind string

const (
	KindNetwork  ErrorKind = "NetworkError"
	KindAuth     ErrorKind = "AuthError"
	KindAPI      ErrorKind = "ApiError"
	KindConfig   ErrorKind = "ConfigError"
	KindNotFound ErrorKind = "NotFound"
)

// Error is the only failure shape adapters return. Status is the HTTP status
// that produced the error when one exists; it is serialized for ApiError only.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func NetworkError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNetwork, Message: fmt.Sprintf(format, args...)}
}

func AuthError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindAuth, Message: fmt.Sprintf(format, args...)}
}

func APIError(status int, message string) *Error {
	return &Error{Kind: KindAPI, Status: status, Message: message}
}

func ConfigError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConfig, Message: fmt.Sprintf(format, args...)}
}

func NotFound() *Error {
	return &Error{Kind: KindNotFound}
}

// Error renders the human-readable form shown to users.
func (e *Error) Error() string {
	switch e.Kind {
	case KindNetwork:
		return "Network error: " + e.Message
	case KindAuth:
		return "Authentication error: " + e.Message
	case KindAPI:
		return fmt.Sprintf("API error (status %d): %s", e.Status, e.Message)
	case KindConfig:
		return "Configuration error: " + e.Message
	case KindNotFound:
		return "Resource not found"
	default:
		return e.Message
	}
}

// Is matches on kind so errors.Is(err, integrations.NotFound()) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

type wireError struct {
	Type    ErrorKind `json:"type"`
	Status  *int      `json:"status,omitempty"`
	Message *string   `json:"message,omitempty"`
}

// MarshalJSON emits the tagged union consumed by the UI layer.
func (e *Error) MarshalJSON() ([]byte, error) {
	w := wireError{Type: e.Kind}
	if e.Kind != KindNotFound {
		msg := e.Message
		w.Message = &msg
	}
	if e.Kind == KindAPI {
		status := e.Status
		w.Status = &status
	}
	return json.Marshal(w)
}

func (e *Error) UnmarshalJSON(data []byte) error {
	var w wireError
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Type {
	case KindNetwork, KindAuth, KindAPI, KindConfig, KindNotFound:
	default:
		return fmt.Errorf("unknown integration error type %q", w.Type)
	}
	e.Kind = w.Type
	e.Status = 0
	e.Message = ""
	if w.Status != nil {
		e.Status = *w.Status
	}
	if w.Message != nil {
		e.Message = *w.Message
	}
	return nil
}

// StatusToError classifies a non-success HTTP status. An empty message is
// replaced with "HTTP <status>".
func StatusToError(status int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("HTTP %d", status)
	}
	var e *Error
	switch status {
	case 401, 403:
		e = &Error{Kind: KindAuth, Message: message}
	case 404:
		e = NotFound()
	default:
		e = APIError(status, message)
	}
	e.Status = status
	return e
}

// FromTransportError classifies a failure that happened before any HTTP
// response was received.
func FromTransportError(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := AsError(err); ok {
		return e
	}
	if errors.Is(err, context.Canceled) {
		return NetworkError("Request cancelled")
	}
	if IsTimeout(err) {
		return NetworkError("Request timed out")
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return NetworkError("Failed to connect to server")
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return NetworkError("Failed to connect to server")
	}
	return NetworkError("%v", unwrapURLError(err))
}

// IsTimeout reports whether err is a deadline or transport timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// AsError extracts a taxonomy error from an error chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Classify returns err as a taxonomy error, treating anything unclassified as
// a network failure.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := AsError(err); ok {
		return e
	}
	return FromTransportError(err)
}

// ParseError reports a body that could not be decoded. The snippet of the
// body it carries is truncated to keep messages readable.
func ParseError(err error, body []byte) *Error {
	snippet := Snippet(body, 200)
	if snippet == "" {
		return ConfigError("Failed to parse response: %v", err)
	}
	return ConfigError("Failed to parse response: %v (response starts with: %s)", err, snippet)
}

// Snippet returns at most max runes of body with whitespace collapsed.
func Snippet(body []byte, max int) string {
	s := strings.Join(strings.Fields(string(body)), " ")
	r := []rune(s)
	if len(r) > max {
		return string(r[:max]) + "..."
	}
	return s
}

func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
