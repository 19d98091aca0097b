// Command system-control is a plugin for volume, brightness and media playback.
// Results are listed without actions; selecting one runs the control.
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

type control struct {
	name  string
	title string
	linux []string
	macOS string // AppleScript
}

var controls = []control{
	{"volume-up", "Volume up", []string{"pactl", "set-sink-volume", "@DEFAULT_SINK@", "+10%"},
		`set volume output volume ((output volume of (get volume settings)) + 10)`},
	{"volume-down", "Volume down", []string{"pactl", "set-sink-volume", "@DEFAULT_SINK@", "-10%"},
		`set volume output volume ((output volume of (get volume settings)) - 10)`},
	{"volume-mute", "Toggle mute", []string{"pactl", "set-sink-mute", "@DEFAULT_SINK@", "toggle"},
		`set volume output muted (not (output muted of (get volume settings)))`},
	{"brightness-up", "Brightness up", []string{"brightnessctl", "set", "+10%"},
		`tell application "System Events" to key code 144`},
	{"brightness-down", "Brightness down", []string{"brightnessctl", "set", "10%-"},
		`tell application "System Events" to key code 145`},
	{"media-play-pause", "Play / pause", []string{"playerctl", "play-pause"},
		`tell application "System Events" to key code 100`},
	{"media-next", "Next track", []string{"playerctl", "next"},
		`tell application "System Events" to key code 101`},
	{"media-prev", "Previous track", []string{"playerctl", "previous"},
		`tell application "System Events" to key code 98`},
}

// runFunc executes a command line.
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
			return list(r.Text), nil
		case protocol.RunRequest:
			c, ok := lookup(r.CustomAction)
			if !ok {
				return nil, fmt.Errorf("unknown control: %s", r.CustomAction)
			}
			if err := execute(ctx, goos, run, c); err != nil {
				return nil, fmt.Errorf("control %s failed: %w", c.name, err)
			}
			return []protocol.TUIResult{protocol.NewResult(c.title+": done", c.name)}, nil
		default:
			return nil, fmt.Errorf("unsupported request %T", req)
		}
	}
}

func list(filter string) []protocol.TUIResult {
	filter = strings.ToLower(strings.TrimSpace(filter))

	var results []protocol.TUIResult
	for _, c := range controls {
		if filter != "" && !strings.Contains(strings.ToLower(c.title), filter) && !strings.Contains(c.name, filter) {
			continue
		}
		results = append(results, protocol.NewResult(c.title, c.name).WithSecondaryText(c.name))
	}
	return results
}

func lookup(name string) (control, bool) {
	for _, c := range controls {
		if c.name == name {
			return c, true
		}
	}
	return control{}, false
}

func execute(ctx context.Context, goos string, run runFunc, c control) error {
	switch goos {
	case "darwin":
		return run(ctx, "osascript", "-e", c.macOS)
	case "linux":
		return run(ctx, c.linux[0], c.linux[1:]...)
	default:
		return fmt.Errorf("unsupported platform %s", goos)
	}
}
