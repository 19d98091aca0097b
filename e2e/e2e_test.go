package e2e

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/tuicher/internal/action"
	"github.com/ayusman/tuicher/internal/app"
	"github.com/ayusman/tuicher/internal/config"
	"github.com/ayusman/tuicher/internal/plugin"
	"github.com/ayusman/tuicher/internal/store"
	"github.com/ayusman/tuicher/pkg/protocol"
)

type memClipboard struct {
	text []string
}

func (c *memClipboard) CopyText(text string) error {
	c.text = append(c.text, text)
	return nil
}

func (c *memClipboard) CopyImage(context.Context, string) error { return nil }

// buildPlugin compiles plugins/<name> into <pluginDir>/<name>/<name>.
func buildPlugin(t *testing.T, pluginDir, name string) {
	t.Helper()

	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go toolchain not available")
	}

	out := filepath.Join(pluginDir, name, name)
	cmd := exec.Command(goBin, "build", "-o", out, "./plugins/"+name)
	cmd.Dir = ".."
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("building plugin %s: %v\n%s", name, err, output)
	}
}

func TestE2E_PluginSearchAndRun(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	pluginDir := filepath.Join(tmpDir, "plugins")
	buildPlugin(t, pluginDir, "echo")

	settings := config.NewFileProvider(tmpDir, zerolog.Nop())
	cfg, err := settings.Load()
	require.NoError(t, err)
	cfg.Plugins = []config.PluginConfig{{ID: "echo", Keyword: "say"}}
	require.NoError(t, settings.Save(cfg))

	s, err := store.New(filepath.Join(tmpDir, "history.db"))
	require.NoError(t, err)
	defer s.Close()

	clip := &memClipboard{}
	application, err := app.New(app.Config{
		Settings: settings,
		Plugins:  plugin.NewRegistry(pluginDir, zerolog.Nop()),
		Runner:   plugin.NewExecutor(30*time.Second, zerolog.Nop()),
		Dispatcher: action.NewDispatcher(action.Config{
			Clipboard: clip,
			Settings:  settings,
			Logger:    zerolog.Nop(),
		}),
		History: s.History(),
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("Search", func(t *testing.T) {
		l, err := application.Search(ctx, "say hello world")
		require.NoError(t, err)
		assert.Equal(t, "echo", l.Plugin)
		require.Len(t, l.Results, 2)
		assert.Equal(t, protocol.CopyText{Text: "hello world"}, l.Results[0].Action)
	})

	t.Run("SelectAction", func(t *testing.T) {
		l, err := application.Search(ctx, "say hello world")
		require.NoError(t, err)
		sel, err := l.Pick(0)
		require.NoError(t, err)

		_, err = application.Select(ctx, sel)
		require.NoError(t, err)
		assert.Equal(t, []string{"hello world"}, clip.text)
	})

	t.Run("SelectRun", func(t *testing.T) {
		l, err := application.Search(ctx, "say hello world")
		require.NoError(t, err)
		sel, err := l.Pick(1)
		require.NoError(t, err)

		out, err := application.Select(ctx, sel)
		require.NoError(t, err)
		require.Len(t, out.Results, 1)
		assert.Equal(t, "hello world", out.Results[0].Text)
		assert.Equal(t, "echo", out.Results[0].Info)
	})

	t.Run("History", func(t *testing.T) {
		entries, err := s.History().List(0)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "Echo back", entries[0].Text)
		assert.Nil(t, entries[0].Action)
		assert.Equal(t, "say", entries[1].Keyword)
	})
}

func TestE2E_MissingPluginDegrades(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	settings := config.NewMemoryProvider(nil)
	cfg, err := settings.Load()
	require.NoError(t, err)
	cfg.Plugins = []config.PluginConfig{{ID: "ghost", Keyword: "boo"}}
	require.NoError(t, settings.Save(cfg))

	application, err := app.New(app.Config{
		Settings:   settings,
		Plugins:    plugin.NewRegistry(tmpDir, zerolog.Nop()),
		Runner:     plugin.NewExecutor(5*time.Second, zerolog.Nop()),
		Dispatcher: action.NewDispatcher(action.Config{Logger: zerolog.Nop()}),
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)

	l, err := application.Search(context.Background(), "boo anything")
	require.NoError(t, err)
	require.Len(t, l.Results, 1)
	assert.Equal(t, app.NoResultsText, l.Results[0].Text)

	l, err = application.Search(context.Background(), "gs still works")
	require.NoError(t, err)
	assert.Equal(t, "Search Google for still works", l.Results[0].Text)
}
