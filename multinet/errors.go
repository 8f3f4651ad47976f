package multinet

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidArgument indicates a required argument was empty. It is
	// returned before any request is sent.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrTransport indicates the request never produced an HTTP response
	ErrTransport = errors.New("multinet transport error")
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid multinet configuration")
)

// APIError represents a non-2xx response from the Multinet API
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	// Detail is the server-supplied "detail" message, if any
	Detail string
	Body   []byte
}

// Error implements the error interface
func (e *APIError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("multinet API error: %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

// Is makes every APIError match ErrTransport, so callers can treat server
// and network failures alike.
func (e *APIError) Is(target error) bool {
	return target == ErrTransport
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates missing or rejected credentials
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsForbidden checks if the error indicates insufficient permissions
func (e *APIError) IsForbidden() bool {
	return e.StatusCode == http.StatusForbidden
}

// IsNotFound reports whether err carries a 404 APIError.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsNotFound()
}

// IsUnauthorized reports whether err carries a 401 APIError.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsUnauthorized()
}

// StatusCode returns the HTTP status carried by err, or 0 if there is none.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Method:     method,
		Path:       path,
		Body:       body,
	}

	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Detail = payload.Detail
	}

	return apiErr
}

func requireArg(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: argument %q must not be empty", ErrInvalidArgument, name)
	}
	return nil
}

// requireArgs checks name/value pairs in order and returns the first failure.
func requireArgs(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := requireArg(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}
