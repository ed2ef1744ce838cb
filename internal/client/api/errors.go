package api

import (
	"errors"
	"fmt"
)

// ErrUnavailable wraps transport failures: the server could not be reached
// or answered with something that is not the API's JSON.
var ErrUnavailable = errors.New("server unavailable")

// Error is a failure reported by the server in its error envelope.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an *Error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == status
}
