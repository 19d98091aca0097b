package plugin

import (
	"errors"
	"fmt"
)

// ErrPluginNotFound is returned when no plugin is registered under a keyword or ID.
var ErrPluginNotFound = errors.New("plugin not found")

// TransportErrorKind identifies the stage at which an exchange failed.
type TransportErrorKind int

const (
	TransportEncode TransportErrorKind = iota
	TransportSpawn
	TransportExit
	TransportTimeout
	TransportCanceled
	TransportDecode
)

func (k TransportErrorKind) String() string {
	switch k {
	case TransportEncode:
		return "encode"
	case TransportSpawn:
		return "spawn"
	case TransportExit:
		return "exit"
	case TransportTimeout:
		return "timeout"
	case TransportCanceled:
		return "canceled"
	case TransportDecode:
		return "decode"
	default:
		return fmt.Sprintf("transport(%d)", int(k))
	}
}

// TransportError reports a failed exchange with a plugin process.
type TransportError struct {
	Kind     TransportErrorKind
	Plugin   string
	ExitCode int    // set for TransportExit
	Stderr   string // tail of the plugin's diagnostics, if any
	Err      error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("plugin %s: %s failed", e.Plugin, e.Kind)
	if e.Kind == TransportExit {
		msg = fmt.Sprintf("plugin %s: exited with status %d", e.Plugin, e.ExitCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Stderr != "" {
		msg += ", stderr: " + e.Stderr
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err is a *TransportError of the given kind.
func IsTransportError(err error, kind TransportErrorKind) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Kind == kind
}
