package plugin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/tuicher/pkg/pluginsdk"
	"github.com/ayusman/tuicher/pkg/protocol"
)

const helperModeEnv = "TUICHER_HELPER_MODE"

// TestHelperProcess is not a real test. It acts as a plugin when the test
// binary is re-executed by a wrapper script.
func TestHelperProcess(t *testing.T) {
	switch os.Getenv(helperModeEnv) {
	case "":
		return
	case "echo":
		pluginsdk.Main(func(_ context.Context, req protocol.PluginAction) ([]protocol.TUIResult, error) {
			switch r := req.(type) {
			case protocol.ResultsRequest:
				return []protocol.TUIResult{
					protocol.NewResult("You typed: "+r.Text, "echo").
						WithSecondaryText("from helper").
						WithAction(protocol.CopyText{Text: r.Text}),
				}, nil
			case protocol.RunRequest:
				return []protocol.TUIResult{
					protocol.NewResult(r.CustomAction, strings.Join(r.Info, ",")),
				}, nil
			}
			return nil, fmt.Errorf("unexpected request %T", req)
		})
	case "empty":
		pluginsdk.Main(func(context.Context, protocol.PluginAction) ([]protocol.TUIResult, error) {
			return nil, nil
		})
	}
	os.Exit(2)
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}
}

// writeScript creates an executable shell script plugin named id in dir.
func writeScript(t *testing.T, dir, id, body string) *Plugin {
	t.Helper()

	path := filepath.Join(dir, id)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return &Plugin{ID: id, Keyword: id, Dir: dir, Executable: path}
}

// helperPlugin wraps the test binary so that it runs TestHelperProcess in the given mode.
func helperPlugin(t *testing.T, mode string) *Plugin {
	t.Helper()

	body := fmt.Sprintf("%s=%s exec %q -test.run='^TestHelperProcess$'\n", helperModeEnv, mode, os.Args[0])
	return writeScript(t, t.TempDir(), "helper-"+mode, body)
}

func TestExecutor_Execute(t *testing.T) {
	skipOnWindows(t)

	exec := NewExecutor(10*time.Second, zerolog.Nop())
	results, err := exec.Execute(context.Background(), helperPlugin(t, "echo"), protocol.ResultsRequest{Text: "hello world"})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "You typed: hello world", results[0].Text)
	assert.Equal(t, "from helper", results[0].SecondaryTextOr(""))
	assert.Equal(t, protocol.CopyText{Text: "hello world"}, results[0].Action)
	assert.Equal(t, "echo", results[0].Info)
}

func TestExecutor_Execute_RunRequest(t *testing.T) {
	skipOnWindows(t)

	exec := NewExecutor(10*time.Second, zerolog.Nop())
	req := protocol.RunRequest{CustomAction: "volume-up", Info: []string{"5", "percent"}}

	results, err := exec.Execute(context.Background(), helperPlugin(t, "echo"), req)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "volume-up", results[0].Text)
	assert.Equal(t, "5,percent", results[0].Info)
	assert.Nil(t, results[0].Action)
}

func TestExecutor_Execute_EmptyResults(t *testing.T) {
	skipOnWindows(t)

	exec := NewExecutor(10*time.Second, zerolog.Nop())
	results, err := exec.Execute(context.Background(), helperPlugin(t, "empty"), protocol.ResultsRequest{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestExecutor_Execute_ExitFailure(t *testing.T) {
	skipOnWindows(t)

	p := writeScript(t, t.TempDir(), "failing", "cat >/dev/null\necho 'no backend' >&2\nexit 3\n")

	_, err := NewExecutor(5*time.Second, zerolog.Nop()).Execute(context.Background(), p, protocol.ResultsRequest{Text: "x"})
	require.Error(t, err)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, TransportExit, te.Kind)
	assert.Equal(t, 3, te.ExitCode)
	assert.Equal(t, "no backend", te.Stderr)
	assert.Contains(t, err.Error(), "exited with status 3")
}

func TestExecutor_Execute_DecodeFailure(t *testing.T) {
	skipOnWindows(t)

	p := writeScript(t, t.TempDir(), "garbage", "cat >/dev/null\nprintf 'not cbor'\n")

	_, err := NewExecutor(5*time.Second, zerolog.Nop()).Execute(context.Background(), p, protocol.ResultsRequest{})
	assert.True(t, IsTransportError(err, TransportDecode), "got %v", err)
}

func TestExecutor_Execute_NoOutput(t *testing.T) {
	skipOnWindows(t)

	p := writeScript(t, t.TempDir(), "silent", "cat >/dev/null\n")

	_, err := NewExecutor(5*time.Second, zerolog.Nop()).Execute(context.Background(), p, protocol.ResultsRequest{})
	assert.True(t, IsTransportError(err, TransportDecode), "got %v", err)
}

func TestExecutor_Execute_Timeout(t *testing.T) {
	skipOnWindows(t)

	p := writeScript(t, t.TempDir(), "slow", "exec sleep 10\n")

	start := time.Now()
	_, err := NewExecutor(100*time.Millisecond, zerolog.Nop()).Execute(context.Background(), p, protocol.ResultsRequest{})
	elapsed := time.Since(start)

	assert.True(t, IsTransportError(err, TransportTimeout), "got %v", err)
	assert.Less(t, elapsed, 5*time.Second)
}

func TestExecutor_Execute_Canceled(t *testing.T) {
	skipOnWindows(t)

	p := writeScript(t, t.TempDir(), "slow", "exec sleep 10\n")

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	_, err := NewExecutor(0, zerolog.Nop()).Execute(ctx, p, protocol.ResultsRequest{})
	assert.True(t, IsTransportError(err, TransportCanceled), "got %v", err)
}

func TestExecutor_Execute_SpawnFailure(t *testing.T) {
	p := &Plugin{ID: "ghost", Dir: t.TempDir(), Executable: filepath.Join(t.TempDir(), "does-not-exist")}

	_, err := NewExecutor(time.Second, zerolog.Nop()).Execute(context.Background(), p, protocol.ResultsRequest{})
	assert.True(t, IsTransportError(err, TransportSpawn), "got %v", err)
}

func TestExecutor_Execute_EncodeFailure(t *testing.T) {
	p := &Plugin{ID: "any", Executable: "/bin/true"}

	_, err := NewExecutor(time.Second, zerolog.Nop()).Execute(context.Background(), p, nil)
	assert.True(t, IsTransportError(err, TransportEncode), "got %v", err)
}

func TestExecutor_Execute_FreshProcessPerCall(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	counter := filepath.Join(dir, "count")
	p := writeScript(t, dir, "counter", fmt.Sprintf("cat >/dev/null\necho x >> %q\nexit 1\n", counter))

	exec := NewExecutor(5*time.Second, zerolog.Nop())
	for i := 0; i < 3; i++ {
		_, err := exec.Execute(context.Background(), p, protocol.ResultsRequest{})
		require.Error(t, err)
	}

	data, err := os.ReadFile(counter)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "x"))
}

func TestTransportErrorKind_String(t *testing.T) {
	assert.Equal(t, "timeout", TransportTimeout.String())
	assert.Equal(t, "decode", TransportDecode.String())
	assert.Equal(t, "transport(42)", TransportErrorKind(42).String())
}

func TestWaitError(t *testing.T) {
	exitErr := errors.New("exit status 1")

	tests := []struct {
		name   string
		ctxErr error
		want   TransportErrorKind
	}{
		{"plain exit", nil, TransportExit},
		{"deadline", context.DeadlineExceeded, TransportTimeout},
		{"canceled", context.Canceled, TransportCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := waitError("echo", exitErr, tt.ctxErr, "boom")
			assert.Equal(t, tt.want, te.Kind)
			assert.Equal(t, "echo", te.Plugin)
			assert.Equal(t, "boom", te.Stderr)
		})
	}

	te := waitError("echo", exitErr, nil, "")
	assert.Equal(t, -1, te.ExitCode, "non-ExitError failures carry no status")
	assert.ErrorIs(t, te, exitErr)
}

func TestTail(t *testing.T) {
	assert.Equal(t, "short", tail("  short\n"))

	// A two-byte rune straddles the cut point.
	s := strings.Repeat("a", 10) + "é" + strings.Repeat("b", maxStderr-1)
	got := tail(s)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("b", maxStderr-1), got)

	s = "x" + strings.Repeat("é", maxStderr/2)
	got = tail(s)
	assert.True(t, utf8.ValidString(got))
	assert.Len(t, got, maxStderr)
}
