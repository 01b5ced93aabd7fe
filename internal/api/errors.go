package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches any 401 from the backend. The session is over:
	// the token has already been cleared and callers should send the user to login.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound matches any 404 from the backend.
	ErrNotFound = errors.New("not found")
)

// APIError is a non-2xx response. Message is the text the backend supplied.
type APIError struct {
	Status   int
	Method   string
	Endpoint string
	Message  string
}

func (e *APIError) Error() string {
	return e.Message
}

// Detail includes the request line, for logs.
func (e *APIError) Detail() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Endpoint, e.Status, e.Message)
}

// Is lets errors.Is match ErrUnauthorized and ErrNotFound by status code.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}
