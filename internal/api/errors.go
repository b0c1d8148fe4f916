package api

import (
	"fmt"
)

// TransportError is a request that never produced a usable answer: the
// network failed, or the server replied non-2xx without a readable message.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerValidationError is a non-2xx reply carrying a message meant for the
// user. Message is kept verbatim.
type ServerValidationError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServerValidationError) Error() string {
	return e.Message
}

// DecodingError is a 2xx reply whose body is not in the expected shape.
type DecodingError struct {
	Op  string
	Err error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("%s: decoding response: %s", e.Op, e.Err.Error())
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}
