package action

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/ayusman/tuicher/pkg/protocol"
)

// commandFunc runs an external command to completion.
type commandFunc func(ctx context.Context, name string, args ...string) error

// startFunc starts an external command without waiting for it.
type startFunc func(name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return cmd.Process.Release()
}

// SystemOpener opens targets with the platform's desktop handler.
type SystemOpener struct {
	goos  string
	run   commandFunc
	start startFunc
}

// NewSystemOpener returns an Opener for the current platform.
func NewSystemOpener() *SystemOpener {
	return &SystemOpener{goos: runtime.GOOS, run: runCommand, start: startDetached}
}

// OpenApp launches an application. Application bundles on macOS go through open(1).
func (o *SystemOpener) OpenApp(ctx context.Context, path string) error {
	if o.goos == "darwin" && strings.HasSuffix(path, ".app") {
		return o.run(ctx, "open", "-a", path)
	}
	return o.start(path)
}

// Open hands a file path or URL to the default handler.
func (o *SystemOpener) Open(ctx context.Context, target string) error {
	switch o.goos {
	case "darwin":
		return o.run(ctx, "open", target)
	case "windows":
		return o.run(ctx, "rundll32", "url.dll,FileProtocolHandler", target)
	default:
		return o.run(ctx, "xdg-open", target)
	}
}

// SystemClipboard writes text through atotto/clipboard and images through platform tools.
type SystemClipboard struct {
	goos      string
	getenv    func(string) string
	writeText func(string) error
	run       commandFunc
}

// NewSystemClipboard returns a Clipboard for the current platform.
func NewSystemClipboard() *SystemClipboard {
	return &SystemClipboard{
		goos:      runtime.GOOS,
		getenv:    os.Getenv,
		writeText: clipboard.WriteAll,
		run:       runCommand,
	}
}

func (c *SystemClipboard) CopyText(text string) error {
	return c.writeText(text)
}

func (c *SystemClipboard) CopyImage(ctx context.Context, path string) error {
	switch c.goos {
	case "darwin":
		script := fmt.Sprintf(`set the clipboard to (read (POSIX file %s) as «class PNGf»)`, appleScriptString(path))
		return c.run(ctx, "osascript", "-e", script)
	case "linux", "freebsd", "openbsd", "netbsd":
		if c.getenv("WAYLAND_DISPLAY") != "" {
			return c.run(ctx, "sh", "-c", `exec wl-copy --type image/png < "$1"`, "wl-copy", path)
		}
		return c.run(ctx, "xclip", "-selection", "clipboard", "-t", "image/png", "-i", path)
	default:
		return fmt.Errorf("copying images is not supported on %s", c.goos)
	}
}

var appleScriptEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// appleScriptString quotes s as an AppleScript string literal.
func appleScriptString(s string) string {
	return `"` + appleScriptEscaper.Replace(s) + `"`
}

// SystemSession performs session operations with systemd on Linux and System Events on macOS.
type SystemSession struct {
	goos   string
	getenv func(string) string
	run    commandFunc
}

// NewSystemSession returns a SessionController for the current platform.
func NewSystemSession() *SystemSession {
	return &SystemSession{goos: runtime.GOOS, getenv: os.Getenv, run: runCommand}
}

func (s *SystemSession) Session(ctx context.Context, op protocol.SessionOp) error {
	name, args, err := s.command(op)
	if err != nil {
		return err
	}
	return s.run(ctx, name, args...)
}

func (s *SystemSession) command(op protocol.SessionOp) (string, []string, error) {
	switch s.goos {
	case "darwin":
		var event string
		switch op {
		case protocol.SessionShutdown:
			event = "shut down"
		case protocol.SessionRestart:
			event = "restart"
		case protocol.SessionSuspend:
			event = "sleep"
		case protocol.SessionLogout:
			event = "log out"
		default:
			return "", nil, fmt.Errorf("%w: session operation %d", ErrInvalidAction, op)
		}
		return "osascript", []string{"-e", fmt.Sprintf(`tell application "System Events" to %s`, event)}, nil

	case "linux":
		switch op {
		case protocol.SessionShutdown:
			return "systemctl", []string{"poweroff"}, nil
		case protocol.SessionRestart:
			return "systemctl", []string{"reboot"}, nil
		case protocol.SessionSuspend:
			return "systemctl", []string{"suspend"}, nil
		case protocol.SessionLogout:
			if id := s.getenv("XDG_SESSION_ID"); id != "" {
				return "loginctl", []string{"terminate-session", id}, nil
			}
			return "loginctl", []string{"terminate-user", s.getenv("USER")}, nil
		default:
			return "", nil, fmt.Errorf("%w: session operation %d", ErrInvalidAction, op)
		}

	default:
		return "", nil, fmt.Errorf("session operations are not supported on %s", s.goos)
	}
}
