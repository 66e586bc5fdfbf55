// Package secret holds sensitive strings such as API secrets.
//
// A String never reveals its value through fmt, encoding/json or
// encoding.TextMarshaler. The raw value is only available through Expose,
// which callers use at the point where the credential is attached to a request.
package secret

import (
	"encoding/json"
	"fmt"
)

// Redacted replaces a non-empty secret wherever it would be printed or serialized.
const Redacted = "[REDACTED]"

// String is an opaque holder for a sensitive value.
type String struct {
	value string
}

// New wraps v.
func New(v string) String {
	return String{value: v}
}

// Expose returns the raw value.
func (s String) Expose() string {
	return s.value
}

// IsEmpty reports whether the secret holds no value.
func (s String) IsEmpty() bool {
	return s.value == ""
}

func (s String) redacted() string {
	if s.value == "" {
		return ""
	}
	return Redacted
}

// String implements fmt.Stringer.
func (s String) String() string {
	return s.redacted()
}

// GoString implements fmt.GoStringer so %#v is redacted as well.
func (s String) GoString() string {
	return fmt.Sprintf("secret.String(%q)", s.redacted())
}

// Format covers every verb, including %x and %q, which would otherwise bypass String.
func (s String) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('#') {
			fmt.Fprint(f, s.GoString())
			return
		}
		fmt.Fprint(f, s.redacted())
	case 'q':
		fmt.Fprintf(f, "%q", s.redacted())
	default:
		fmt.Fprint(f, s.redacted())
	}
}

// MarshalJSON implements json.Marshaler.
func (s String) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.redacted())
}

// MarshalText implements encoding.TextMarshaler.
func (s String) MarshalText() ([]byte, error) {
	return []byte(s.redacted()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so secrets can be loaded
// from TOML, YAML or environment-backed config.
func (s *String) UnmarshalText(b []byte) error {
	s.value = string(b)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *String) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("secret: %w", err)
	}
	s.value = v
	return nil
}
