package typedi

import (
	"encoding/json"
	"fmt"
)

// MarkerPolicy decides which struct tags make a field eligible for injection.
// Fields named with InjectFields are always eligible, whatever the policy.
type MarkerPolicy int

const (
	// MarkerFirst inspects only the first key of a field's struct tag. The
	// inject marker is honored only when it comes first:
	//
	//	Logger *Logger `inject:""`                 // injected
	//	Logger *Logger `json:"logger" inject:""`   // left untouched
	MarkerFirst MarkerPolicy = iota

	// MarkerAny honors the inject marker in any position of the tag.
	MarkerAny

	// MarkerStrict requires the inject marker to be the only tag key.
	// A field combining it with other keys fails resolution with
	// ErrMarkerConflict.
	MarkerStrict
)

// InjectTag is the struct tag key that marks a field for injection.
// The value "-" disables the marker.
const InjectTag = "inject"

// String returns the string representation of the MarkerPolicy.
func (p MarkerPolicy) String() string {
	switch p {
	case MarkerFirst:
		return "first"
	case MarkerAny:
		return "any"
	case MarkerStrict:
		return "strict"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// IsValid checks if the marker policy is valid.
func (p MarkerPolicy) IsValid() bool {
	return p >= MarkerFirst && p <= MarkerStrict
}

// MarshalText implements encoding.TextMarshaler.
func (p MarkerPolicy) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("invalid marker policy: %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *MarkerPolicy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "first", "First", "":
		*p = MarkerFirst
	case "any", "Any":
		*p = MarkerAny
	case "strict", "Strict":
		*p = MarkerStrict
	default:
		return fmt.Errorf("unknown marker policy %q", string(text))
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p MarkerPolicy) MarshalJSON() ([]byte, error) {
	text, err := p.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *MarkerPolicy) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	return p.UnmarshalText([]byte(s))
}
