package wire

import "fmt"

// DecodeError reports a malformed, truncated, or oversized message.
// A failed decode never yields a partially populated value.
type DecodeError struct {
	// What names the element being decoded, e.g. "action" or "result.text".
	What   string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := "wire: decode " + e.What
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a value that cannot be represented on the wire.
type EncodeError struct {
	What   string
	Reason string
	Err    error
}

func (e *EncodeError) Error() string {
	msg := "wire: encode " + e.What
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *EncodeError) Unwrap() error { return e.Err }

func decodeErr(what, format string, args ...any) *DecodeError {
	return &DecodeError{What: what, Reason: fmt.Sprintf(format, args...)}
}

func encodeErr(what, format string, args ...any) *EncodeError {
	return &EncodeError{What: what, Reason: fmt.Sprintf(format, args...)}
}
