// Command keyboard is a plugin that sends keyboard shortcuts.
// The query is a shortcut such as "cmd+shift+t"; selecting the result sends it.
package main

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/ayusman/tuicher/pkg/pluginsdk"
	"github.com/ayusman/tuicher/pkg/protocol"
)

// shortcut is a key plus its modifiers.
type shortcut struct {
	Key       string
	Modifiers []string // canonical: command, option, control, shift
}

// modifierAliases maps user-friendly modifier names to canonical ones.
var modifierAliases = map[string]string{
	"command": "command",
	"cmd":     "command",
	"super":   "command",
	"option":  "option",
	"alt":     "option",
	"control": "control",
	"ctrl":    "control",
	"shift":   "shift",
}

var appleModifiers = map[string]string{
	"command": "command down",
	"option":  "option down",
	"control": "control down",
	"shift":   "shift down",
}

var xdotoolModifiers = map[string]string{
	"command": "super",
	"option":  "alt",
	"control": "ctrl",
	"shift":   "shift",
}

type runFunc func(ctx context.Context, name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func main() {
	pluginsdk.Main(handler(runtime.GOOS, runCommand))
}

func handler(goos string, run runFunc) pluginsdk.Handler {
	return func(ctx context.Context, req protocol.PluginAction) ([]protocol.TUIResult, error) {
		switch r := req.(type) {
		case protocol.ResultsRequest:
			s, err := parseShortcut(r.Text)
			if err != nil {
				return []protocol.TUIResult{protocol.NewResult("Type a shortcut", "").
					WithSecondaryText("e.g. cmd+shift+t")}, nil
			}
			return []protocol.TUIResult{protocol.NewResult("Send "+s.String(), s.String())}, nil

		case protocol.RunRequest:
			s, err := parseShortcut(r.CustomAction)
			if err != nil {
				return nil, err
			}
			if err := send(ctx, goos, run, s); err != nil {
				return nil, fmt.Errorf("sending %s failed: %w", s, err)
			}
			return []protocol.TUIResult{protocol.NewResult("Sent "+s.String(), s.String())}, nil

		default:
			return nil, fmt.Errorf("unsupported request %T", req)
		}
	}
}

// parseShortcut reads "mod+mod+key". Unknown modifiers are an error.
func parseShortcut(text string) (shortcut, error) {
	parts := strings.Split(strings.TrimSpace(text), "+")
	key := parts[len(parts)-1]
	if key == "" {
		return shortcut{}, fmt.Errorf("key is required")
	}

	s := shortcut{Key: key}
	for _, m := range parts[:len(parts)-1] {
		canonical, ok := modifierAliases[strings.ToLower(m)]
		if !ok {
			return shortcut{}, fmt.Errorf("unknown modifier %q", m)
		}
		s.Modifiers = append(s.Modifiers, canonical)
	}
	return s, nil
}

func (s shortcut) String() string {
	return strings.Join(append(append([]string(nil), s.Modifiers...), s.Key), "+")
}

// appleScript generates an AppleScript keystroke for s.
func (s shortcut) appleScript() string {
	if len(s.Modifiers) == 0 {
		return fmt.Sprintf(`tell application "System Events" to keystroke %s`, appleScriptString(s.Key))
	}

	mods := make([]string, 0, len(s.Modifiers))
	for _, m := range s.Modifiers {
		mods = append(mods, appleModifiers[m])
	}
	return fmt.Sprintf(`tell application "System Events" to keystroke %s using {%s}`, appleScriptString(s.Key), strings.Join(mods, ", "))
}

var appleScriptEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// appleScriptString quotes s as an AppleScript string literal.
func appleScriptString(s string) string {
	return `"` + appleScriptEscaper.Replace(s) + `"`
}

// xdotoolKeys renders s in xdotool's key syntax.
func (s shortcut) xdotoolKeys() string {
	keys := make([]string, 0, len(s.Modifiers)+1)
	for _, m := range s.Modifiers {
		keys = append(keys, xdotoolModifiers[m])
	}
	return strings.Join(append(keys, s.Key), "+")
}

func send(ctx context.Context, goos string, run runFunc, s shortcut) error {
	switch goos {
	case "darwin":
		return run(ctx, "osascript", "-e", s.appleScript())
	case "linux":
		return run(ctx, "xdotool", "key", s.xdotoolKeys())
	default:
		return fmt.Errorf("unsupported platform %s", goos)
	}
}
