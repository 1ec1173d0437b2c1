package bungie

import (
	"errors"
	"fmt"
)

// Platform error codes the client refers to by name.
const (
	Success                = 1
	SystemDisabled         = 5
	WebAuthRequired        = 99
	DestinyAccountNotFound = 1601
)

// Response is the envelope every platform call is wrapped in.
// Only an ErrorCode of Success makes Response trustworthy.
type Response[T any] struct {
	Response        T                 `json:"Response"`
	ErrorCode       int               `json:"ErrorCode"`
	ThrottleSeconds int               `json:"ThrottleSeconds"`
	ErrorStatus     string            `json:"ErrorStatus"`
	Message         string            `json:"Message"`
	MessageData     map[string]string `json:"MessageData"`
}

// APIError is returned when the platform answers with a non-success error code.
type APIError struct {
	Method  string
	Code    int
	Status  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: error code %d (%s): %s", e.Method, e.Code, e.Status, e.Message)
}

// TransportError is returned when the request could not be completed: the
// connection failed, the context ended, or the server answered with a
// non-2xx status. StatusCode is 0 when no response was received.
type TransportError struct {
	Method     string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: http status %d: %v", e.Method, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is returned when the response body is not a valid envelope.
type DecodeError struct {
	Method string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decoding response: %v", e.Method, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ErrorCode returns the platform error code carried by err, if any.
func ErrorCode(err error) (int, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	return 0, false
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}
