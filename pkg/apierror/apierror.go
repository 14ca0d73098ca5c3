package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies every failure a caller can observe.
type Kind string

const (
	KindValidation      Kind = "VALIDATION"
	KindNetwork         Kind = "NETWORK"
	KindAPI             Kind = "API"
	KindMalformedToken  Kind = "MALFORMED_TOKEN"
	KindStorage         Kind = "STORAGE"
	KindSessionExpired  Kind = "SESSION_EXPIRED"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindUnknown         Kind = "UNKNOWN"
)

// Targets for errors.Is; they match any *APIError of the same kind.
var (
	ErrValidation      = &APIError{Kind: KindValidation}
	ErrNetwork         = &APIError{Kind: KindNetwork}
	ErrAPI             = &APIError{Kind: KindAPI}
	ErrMalformedToken  = &APIError{Kind: KindMalformedToken}
	ErrStorage         = &APIError{Kind: KindStorage}
	ErrSessionExpired  = &APIError{Kind: KindSessionExpired}
	ErrUnauthenticated = &APIError{Kind: KindUnauthenticated}
)

type APIError struct {
	Kind       Kind   `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.HTTPStatus != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.HTTPStatus)
	}
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}

	return t.Kind == e.Kind && t.Message == ""
}

func New(kind Kind, message string, details string, status int) *APIError {
	return &APIError{Kind: kind, Message: message, Details: details, HTTPStatus: status}
}

// Validation reports required fields that were left empty.
func Validation(fields ...string) *APIError {
	return New(KindValidation, "required field missing", strings.Join(fields, ", "), 0)
}

func Network(err error) *APIError {
	return &APIError{Kind: KindNetwork, Message: "server unreachable", Err: err}
}

// API wraps a non-2xx response. message is the server-supplied text and may be empty.
func API(status int, message string) *APIError {
	return New(KindAPI, message, "", status)
}

func MalformedToken(err error) *APIError {
	return &APIError{Kind: KindMalformedToken, Message: "token cannot be decoded", Err: err}
}

func Storage(op string, err error) *APIError {
	return &APIError{Kind: KindStorage, Message: "secure storage unavailable", Details: op, Err: err}
}

func SessionExpired() *APIError {
	return New(KindSessionExpired, "session expired", "", 0)
}

func Unauthenticated() *APIError {
	return New(KindUnauthenticated, "not signed in", "", 0)
}

func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}

	return KindUnknown
}

// StatusOf returns the HTTP status carried by an API error, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatus
	}

	return 0
}

// Display turns any error into the sentence shown to the user.
func Display(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return "An unknown error occurred."
	}

	switch apiErr.Kind {
	case KindValidation:
		if apiErr.Details != "" {
			return "Please fill in: " + apiErr.Details + "."
		}
		return "Please fill in every required field."
	case KindNetwork:
		return "Unable to reach the server. Check your connection and try again."
	case KindAPI:
		if strings.TrimSpace(apiErr.Message) != "" {
			return apiErr.Message
		}
		if text := http.StatusText(apiErr.HTTPStatus); text != "" {
			return fmt.Sprintf("Request failed: %s.", text)
		}
		return "Request failed."
	case KindMalformedToken:
		return "Your session is invalid. Please sign in again."
	case KindStorage:
		return "Secure storage is unavailable on this device."
	case KindSessionExpired:
		return "Your session has expired. Please sign in again."
	case KindUnauthenticated:
		return "Please sign in to continue."
	default:
		return "An unknown error occurred."
	}
}
