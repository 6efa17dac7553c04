package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// User-facing fallback messages.
const (
	MsgNetworkError = "Network error. Please check your connection and try again."
	MsgServerError  = "Server error. Please try again later."
	MsgCanceled     = "Request was canceled."
	MsgInvalidInput = "Please correct the highlighted fields."
)

// Kind classifies a failed call.
type Kind string

const (
	// KindValidation means the request was rejected before it was sent.
	KindValidation Kind = "validation"
	// KindNetwork means no response arrived: connection failure or timeout.
	KindNetwork Kind = "network"
	// KindAuth means the server answered 401.
	KindAuth Kind = "auth"
	// KindAPI means the server answered with any other non-2xx status.
	KindAPI Kind = "api"
	// KindCanceled means the caller's context was canceled.
	KindCanceled Kind = "canceled"
	// KindUnknown covers local failures such as encoding errors.
	KindUnknown Kind = "unknown"
)

// Sentinel errors that can be checked with errors.Is.
var (
	ErrNetwork      = errors.New("network error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New("server error")
	ErrValidation   = errors.New("validation failed")
)

// Error is the single error type returned by Client.Send.
type Error struct {
	Kind        Kind
	Message     string
	StatusCode  int               // 0 when no response was received
	FieldErrors map[string]string // per-field messages from the server or local validation
	Err         error             // underlying cause, if any
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(" error")
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " %d", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.FieldErrors) > 0 {
		keys := make([]string, 0, len(e.FieldErrors))
		for k := range e.FieldErrors {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(&b, " (fields: %s)", strings.Join(keys, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrValidation:
		return e.Kind == KindValidation || e.StatusCode == http.StatusUnprocessableEntity
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	case ErrServer:
		return e.StatusCode >= http.StatusInternalServerError
	}
	return false
}

// NewValidationError builds a pre-flight rejection carrying field messages.
func NewValidationError(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: MsgInvalidInput, FieldErrors: fields}
}

func newNetworkError(cause error) *Error {
	return &Error{Kind: KindNetwork, Message: MsgNetworkError, Err: cause}
}

func newCanceledError(cause error) *Error {
	return &Error{Kind: KindCanceled, Message: MsgCanceled, Err: cause}
}

func newUnknownError(message string, cause error) *Error {
	return &Error{Kind: KindUnknown, Message: message, Err: cause}
}

// errorBody is the backend's failure envelope. Either errors or fieldErrors
// may carry per-field detail.
type errorBody struct {
	Message     string          `json:"message"`
	Errors      json.RawMessage `json:"errors"`
	FieldErrors json.RawMessage `json:"fieldErrors"`
}

// newStatusError normalizes a non-2xx response. The server message wins,
// then the status text, then a generic server message.
func newStatusError(status int, body []byte) *Error {
	e := &Error{Kind: KindAPI, StatusCode: status}
	if status == http.StatusUnauthorized {
		e.Kind = KindAuth
	}

	var eb errorBody
	if len(body) > 0 && json.Unmarshal(body, &eb) == nil {
		e.Message = strings.TrimSpace(eb.Message)
		e.FieldErrors = parseFieldErrors(eb.FieldErrors)
		if e.FieldErrors == nil {
			e.FieldErrors = parseFieldErrors(eb.Errors)
		}
	}

	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	if e.Message == "" {
		e.Message = MsgServerError
	}
	return e
}

// parseFieldErrors accepts {"field":"msg"}, {"field":{"message":"msg"}} and
// [{"field":"f","message":"msg"}].
func parseFieldErrors(raw json.RawMessage) map[string]string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var asMap map[string]json.RawMessage
	if json.Unmarshal(raw, &asMap) == nil {
		out := make(map[string]string, len(asMap))
		for field, v := range asMap {
			if msg := messageOf(v); msg != "" {
				out[field] = msg
			}
		}
		return nonEmpty(out)
	}

	var asList []struct {
		Field   string `json:"field"`
		Path    string `json:"path"`
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if json.Unmarshal(raw, &asList) == nil {
		out := make(map[string]string, len(asList))
		for _, item := range asList {
			field := item.Field
			if field == "" {
				field = item.Path
			}
			msg := item.Message
			if msg == "" {
				msg = item.Msg
			}
			if field != "" && msg != "" {
				out[field] = msg
			}
		}
		return nonEmpty(out)
	}

	return nil
}

func messageOf(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return obj.Message
	}
	return ""
}

func nonEmpty(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	return m
}

// AsError extracts the client error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return KindUnknown
}

// Retryable reports whether a call that failed with err may succeed on a
// repeat: network failures and 5xx responses.
func Retryable(err error) bool {
	e, ok := AsError(err)
	if !ok {
		return false
	}
	return e.Kind == KindNetwork || e.StatusCode >= http.StatusInternalServerError
}
