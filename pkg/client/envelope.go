package client

import (
	"bytes"
	"encoding/json"
)

// excDoesNotExist is the exc_type the server uses for a missing record.
const excDoesNotExist = "DoesNotExistError"

var jsonNull = []byte("null")

// envelope is the wrapper object around every API response.
type envelope struct {
	Data      json.RawMessage `json:"data"`
	Exception json.RawMessage `json:"exception"`
	ExcType   json.RawMessage `json:"exc_type"`
}

// request is the wrapper object around every write body.
type request struct {
	Data any `json:"data"`
}

func decodeEnvelope(status int, body []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope{}, &DecodeError{StatusCode: status, Err: err}
	}
	return env, nil
}

// present reports whether a field was sent with a non-null value.
func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(raw, jsonNull)
}

// text returns the string value of raw, or its JSON text when it is not a string.
func text(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// notFound matches exc_type only when it is the JSON string DoesNotExistError.
func (e envelope) notFound() bool {
	var excType string
	return json.Unmarshal(e.ExcType, &excType) == nil && excType == excDoesNotExist
}

// remoteError returns the server exception, if any.
func (e envelope) remoteError(status int) error {
	if !present(e.Exception) {
		return nil
	}
	re := &RemoteError{StatusCode: status, Exception: text(e.Exception)}
	if present(e.ExcType) {
		re.ExcType = text(e.ExcType)
	}
	return re
}
