package plugin

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/ayusman/tuicher/pkg/protocol"
	"github.com/ayusman/tuicher/pkg/protocol/wire"
)

const (
	// maxStderr bounds the diagnostics kept for error messages.
	maxStderr = 4 << 10
	// waitDelay bounds how long Wait blocks on pipes held open by descendants of a killed plugin.
	waitDelay = 500 * time.Millisecond
)

// Executor runs one exchange per call: a fresh process receives the encoded
// request on stdin and its stdout is decoded as the result list.
type Executor struct {
	timeout time.Duration
	log     zerolog.Logger
}

// NewExecutor creates an Executor. A zero timeout leaves the exchange bounded only by ctx.
func NewExecutor(timeout time.Duration, log zerolog.Logger) *Executor {
	return &Executor{
		timeout: timeout,
		log:     log.With().Str("component", "executor").Logger(),
	}
}

// Execute sends req to the plugin and returns its results.
// Failures are reported as *TransportError.
func (e *Executor) Execute(ctx context.Context, p *Plugin, req protocol.PluginAction) ([]protocol.TUIResult, error) {
	payload, err := wire.EncodeRequest(req)
	if err != nil {
		return nil, &TransportError{Kind: TransportEncode, Plugin: p.ID, Err: err}
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.Executable)
	cmd.Dir = p.Dir
	cmd.WaitDelay = waitDelay
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log := e.log.With().Str("plugin", p.ID).Str("request", req.Kind().String()).Logger()
	start := time.Now()

	if err := cmd.Start(); err != nil {
		return nil, &TransportError{Kind: TransportSpawn, Plugin: p.ID, Err: err}
	}
	err = cmd.Wait()

	log.Debug().
		Dur("elapsed", time.Since(start)).
		Int("stdout_bytes", stdout.Len()).
		Msg("plugin exited")

	if err != nil {
		return nil, waitError(p.ID, err, ctx.Err(), tail(stderr.String()))
	}

	results, err := wire.DecodeResults(stdout.Bytes())
	if err != nil {
		return nil, &TransportError{Kind: TransportDecode, Plugin: p.ID, Stderr: tail(stderr.String()), Err: err}
	}

	if stderr.Len() > 0 {
		log.Debug().Str("stderr", tail(stderr.String())).Msg("plugin diagnostics")
	}
	return results, nil
}

// waitError classifies a failed Wait. A plugin killed through ctx reports the
// context error; any other failure is an exit error.
func waitError(plugin string, waitErr, ctxErr error, stderr string) *TransportError {
	if ctxErr != nil {
		kind := TransportCanceled
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			kind = TransportTimeout
		}
		return &TransportError{Kind: kind, Plugin: plugin, Stderr: stderr, Err: ctxErr}
	}

	te := &TransportError{Kind: TransportExit, Plugin: plugin, ExitCode: -1, Stderr: stderr, Err: waitErr}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		te.ExitCode = exitErr.ExitCode()
	}
	return te
}

// tail keeps the last maxStderr bytes of s, starting on a rune boundary.
func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxStderr {
		return s
	}
	s = s[len(s)-maxStderr:]
	for len(s) > 0 && !utf8.RuneStart(s[0]) {
		s = s[1:]
	}
	return s
}
