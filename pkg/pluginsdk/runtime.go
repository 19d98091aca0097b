// Package pluginsdk is the plugin side of the tuicher protocol.
//
// A plugin process receives exactly one request on stdin, answers with exactly one
// result sequence on stdout, and stops. Runtime models that as a two-state machine
// (AwaitingRequest, then Responded); Main wires it to the process streams.
package pluginsdk

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ayusman/tuicher/pkg/protocol"
	"github.com/ayusman/tuicher/pkg/protocol/wire"
)

// State is the position of a Runtime in its single exchange.
type State int

const (
	StateAwaitingRequest State = iota
	StateResponded
)

func (s State) String() string {
	switch s {
	case StateAwaitingRequest:
		return "awaiting-request"
	case StateResponded:
		return "responded"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrAlreadyResponded is returned by any protocol call made after the response was written.
var ErrAlreadyResponded = errors.New("plugin already responded")

// ProtocolError reports that no valid request could be received.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol error: %s: %v", e.Reason, e.Err)
	}
	return "protocol error: " + e.Reason
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// Handler computes the results for one request.
type Handler func(ctx context.Context, req protocol.PluginAction) ([]protocol.TUIResult, error)

// Runtime drives one request/response exchange over a pair of streams.
type Runtime struct {
	in    io.Reader
	out   *bufio.Writer
	log   zerolog.Logger
	state State
	mu    sync.Mutex
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used for diagnostics. It must not write to the output stream.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Runtime) {
		r.log = log
	}
}

// New creates a Runtime reading the request from in and writing the response to out.
func New(in io.Reader, out io.Writer, opts ...Option) *Runtime {
	r := &Runtime{
		in:    in,
		out:   bufio.NewWriter(out),
		log:   zerolog.Nop(),
		state: StateAwaitingRequest,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current state.
func (r *Runtime) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Receive reads the input stream to exhaustion and decodes the request.
func (r *Runtime) Receive() (protocol.PluginAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateResponded {
		return nil, ErrAlreadyResponded
	}

	data, err := wire.ReadAll(r.in)
	if err != nil {
		return nil, &ProtocolError{Reason: "failed to read request", Err: err}
	}
	if len(data) == 0 {
		return nil, &ProtocolError{Reason: "empty request"}
	}

	req, err := wire.DecodeRequest(data)
	if err != nil {
		return nil, &ProtocolError{Reason: "malformed request", Err: err}
	}

	r.log.Debug().Stringer("kind", req.Kind()).Int("bytes", len(data)).Msg("received request")
	return req, nil
}

// Respond writes results as the single response and flushes the output.
// Once it returns, successfully or not, the runtime is in StateResponded.
func (r *Runtime) Respond(results []protocol.TUIResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateResponded {
		return ErrAlreadyResponded
	}
	r.state = StateResponded

	data, err := wire.EncodeResults(results)
	if err != nil {
		return err
	}

	if _, err := r.out.Write(data); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	if err := r.out.Flush(); err != nil {
		return fmt.Errorf("failed to flush response: %w", err)
	}

	r.log.Debug().Int("results", len(results)).Int("bytes", len(data)).Msg("sent response")
	return nil
}

// Serve receives the request, runs h, and responds with its results.
// A handler error is returned without writing a response.
func (r *Runtime) Serve(ctx context.Context, h Handler) error {
	req, err := r.Receive()
	if err != nil {
		return err
	}

	results, err := h(ctx, req)
	if err != nil {
		return fmt.Errorf("handler failed: %w", err)
	}

	return r.Respond(results)
}
