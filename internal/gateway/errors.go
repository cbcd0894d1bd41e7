package gateway

import (
	"errors"
	"fmt"
)

// Failure taxonomy for upstream calls. Callers branch with errors.Is /
// errors.As; the client itself never clears sessions or navigates.
var (
	// ErrUnauthorized: upstream returned 401. The session's upstream
	// token is invalid or expired; the caller owns logout + redirect.
	ErrUnauthorized = errors.New("gateway: unauthorized")

	// ErrForbidden: upstream returned 403. The role lacks permission for
	// the action; the session itself stays valid.
	ErrForbidden = errors.New("gateway: forbidden")
)

// NetworkError: no HTTP response was received at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("gateway: network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError: upstream responded with a non-2xx status other than
// 401/403. Message carries the upstream error body when present.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway: upstream status %d", e.Status)
	}
	return fmt.Sprintf("gateway: upstream status %d: %s", e.Status, e.Message)
}

// DecodeError: a 2xx response whose body could not be decoded into the
// caller's target type.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("gateway: decode error: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
