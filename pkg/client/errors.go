package client

import (
	"errors"
	"fmt"
)

// Error kinds returned by Client operations. They can be checked with errors.Is.
var (
	// ErrTransport is returned when the request could not be sent or the
	// response could not be read.
	ErrTransport = errors.New("docship: transport error")

	// ErrDecode is returned when the response body is not a JSON object.
	ErrDecode = errors.New("docship: decode error")

	// ErrRemoteException is returned when the server reports an exception.
	ErrRemoteException = errors.New("docship: remote exception")

	// ErrMalformedResponse is returned when the envelope lacks a field the
	// operation needs.
	ErrMalformedResponse = errors.New("docship: malformed response")

	// ErrDeserialization is returned when data does not fit the target type.
	ErrDeserialization = errors.New("docship: deserialization error")

	// ErrSerialization is returned when a value cannot be encoded as JSON.
	ErrSerialization = errors.New("docship: serialization error")
)

// TransportError wraps a network, TLS or context failure.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// DecodeError reports a response body that is not a JSON object.
type DecodeError struct {
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response (status %d): %v", e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// RemoteError is an application-level exception reported by the server.
type RemoteError struct {
	StatusCode int
	// Exception is the text of the exception field.
	Exception string
	// ExcType is the exc_type field, if the server sent one.
	ExcType string
}

func (e *RemoteError) Error() string {
	if e.ExcType != "" {
		return fmt.Sprintf("the response contains an exception (%s): %s", e.ExcType, e.Exception)
	}
	return "the response contains an exception: " + e.Exception
}

func (e *RemoteError) Is(target error) bool { return target == ErrRemoteException }

// DeserializationError reports a data payload that does not match the target type.
type DeserializationError struct {
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("decode data: %v", e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

func (e *DeserializationError) Is(target error) bool { return target == ErrDeserialization }

// SerializationError reports a value that could not be encoded as a request body.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("encode data: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

func (e *SerializationError) Is(target error) bool { return target == ErrSerialization }
