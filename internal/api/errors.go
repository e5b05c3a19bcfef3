package api

import "fmt"

// defaultErrorMessage is used when a non-2xx response body carries no
// parseable detail field.
const defaultErrorMessage = "Unknown error"

// HTTPError is a non-2xx response from the backend. Message is taken from
// the FastAPI-style {"detail": ...} body when present.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// NetworkError is a request that never produced a response: connection
// refused, DNS failure, or a timeout at the transport layer.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("backend unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError is a 2xx response whose body could not be decoded into the
// expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed response body: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
