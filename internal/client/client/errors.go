package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrInvalidResponse = errors.New("invalid response from API")
	ErrRejected        = errors.New("request rejected")
)

// ServerError is a non-2xx response.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error: status %d", e.Status)
	}
	return fmt.Sprintf("server error: status %d: %s", e.Status, e.Message)
}

// IsClientError reports a 4xx response.
func (e *ServerError) IsClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

// UserMessage returns the server-supplied message carried by err, or fallback.
func UserMessage(err error, fallback string) string {
	var se *ServerError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return fallback
}
