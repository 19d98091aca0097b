package app

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/tuicher/internal/action"
	"github.com/ayusman/tuicher/internal/config"
	"github.com/ayusman/tuicher/internal/plugin"
	"github.com/ayusman/tuicher/internal/store"
	"github.com/ayusman/tuicher/pkg/protocol"
)

type call struct {
	plugin string
	req    protocol.PluginAction
}

type fakeRunner struct {
	calls   []call
	results []protocol.TUIResult
	err     error
}

func (f *fakeRunner) Execute(_ context.Context, p *plugin.Plugin, req protocol.PluginAction) ([]protocol.TUIResult, error) {
	f.calls = append(f.calls, call{plugin: p.ID, req: req})
	return f.results, f.err
}

type fakeDispatcher struct {
	actions []protocol.Action
	err     error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, a protocol.Action) (action.Outcome, error) {
	f.actions = append(f.actions, a)
	return action.Outcome{Kind: a.Kind()}, f.err
}

type fakeHistory struct {
	entries []*store.Entry
}

func (f *fakeHistory) Record(e *store.Entry) error {
	f.entries = append(f.entries, e)
	return nil
}

type fixture struct {
	app        *App
	settings   *config.MemoryProvider
	runner     *fakeRunner
	dispatcher *fakeDispatcher
	history    *fakeHistory
}

func newFixture(t *testing.T, mutate func(*config.Config)) *fixture {
	t.Helper()

	cfg := config.Default()
	cfg.Plugins = []config.PluginConfig{{ID: "apps", Keyword: "app"}}
	cfg.AddBookmark("Go Docs", "https://go.dev/doc")
	cfg.AddBookmark("Rust Book", "https://doc.rust-lang.org/book")
	if mutate != nil {
		mutate(cfg)
	}

	f := &fixture{
		settings:   config.NewMemoryProvider(cfg),
		runner:     &fakeRunner{},
		dispatcher: &fakeDispatcher{},
		history:    &fakeHistory{},
	}

	a, err := New(Config{
		Settings:   f.settings,
		Plugins:    plugin.NewRegistry(t.TempDir(), zerolog.Nop()),
		Runner:     f.runner,
		Dispatcher: f.dispatcher,
		History:    f.history,
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)
	f.app = a
	return f
}

func (f *fixture) search(t *testing.T, text string) *Listing {
	t.Helper()
	l, err := f.app.Search(context.Background(), text)
	require.NoError(t, err)
	return l
}

func texts(results []protocol.TUIResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Text)
	}
	return out
}

func TestSearch_PluginKeyword(t *testing.T) {
	f := newFixture(t, nil)
	f.runner.results = []protocol.TUIResult{protocol.NewResult("Firefox", "firefox")}

	l := f.search(t, "app fire fox")

	require.Len(t, f.runner.calls, 1)
	assert.Equal(t, "apps", f.runner.calls[0].plugin)
	assert.Equal(t, protocol.ResultsRequest{Text: "fire fox"}, f.runner.calls[0].req)
	assert.Equal(t, "apps", l.Plugin)
	assert.Equal(t, []string{"Firefox"}, texts(l.Results))
}

func TestSearch_PluginFailureIsInformational(t *testing.T) {
	f := newFixture(t, nil)
	f.runner.err = &plugin.TransportError{Kind: plugin.TransportExit, Plugin: "apps", ExitCode: 1}

	l := f.search(t, "app x")

	require.Len(t, l.Results, 1)
	assert.Equal(t, NoResultsText, l.Results[0].Text)
	assert.Contains(t, l.Results[0].SecondaryTextOr(""), "exited with status 1")
	assert.Nil(t, l.Results[0].Action)
	assert.Empty(t, l.Plugin, "failure results must not be handed back to the plugin")
}

func TestSearch_SearchEngineKeyword(t *testing.T) {
	f := newFixture(t, nil)

	l := f.search(t, "gs go generics")

	require.Len(t, l.Results, 1)
	assert.Equal(t, "Search Google for go generics", l.Results[0].Text)
	assert.Equal(t, protocol.OpenURL{URL: "https://www.google.com/search?q=go+generics"}, l.Results[0].Action)
	assert.Empty(t, f.runner.calls)
}

func TestSearch_Fallback(t *testing.T) {
	f := newFixture(t, nil)

	l := f.search(t, "golang")
	require.Len(t, l.Results, 1)
	assert.Equal(t, protocol.OpenURL{URL: "https://www.ecosia.org/search?method=index&q=golang"}, l.Results[0].Action)

	l = f.search(t, "unknown keyword here")
	require.Len(t, l.Results, 1)
	assert.Equal(t, "Search Ecosia for unknown keyword here", l.Results[0].Text)
}

func TestSearch_SettingsEntry(t *testing.T) {
	f := newFixture(t, nil)

	l := f.search(t, "sett")
	require.Len(t, l.Results, 2)
	assert.Equal(t, protocol.OpenSettings{}, l.Results[1].Action)

	l = f.search(t, "   ")
	assert.Empty(t, l.Results)
}

func TestSearch_Bookmarks(t *testing.T) {
	f := newFixture(t, nil)

	l := f.search(t, "bm ")
	assert.Equal(t, []string{"Go Docs", "Rust Book"}, texts(l.Results))
	assert.Equal(t, protocol.OpenURL{URL: "https://go.dev/doc"}, l.Results[0].Action)
	require.NotNil(t, l.Results[0].IconPath)
	assert.Equal(t, "https://go.dev/favicon.ico", *l.Results[0].IconPath)

	l = f.search(t, "bm rust")
	assert.Equal(t, []string{"Rust Book"}, texts(l.Results))

	l = f.search(t, "bm nothing-matches")
	require.Len(t, l.Results, 1)
	assert.False(t, l.Results[0].Actionable())
}

func TestSearch_BookmarkAdd(t *testing.T) {
	f := newFixture(t, nil)

	l := f.search(t, "bm add Go Blog https://go.dev/blog")
	require.Len(t, l.Results, 1)
	assert.Equal(t, protocol.Bookmark{Change: protocol.AddBookmark{Name: "Go Blog", URL: "https://go.dev/blog"}}, l.Results[0].Action)

	l = f.search(t, "bm add onlyname")
	require.Len(t, l.Results, 1)
	assert.Nil(t, l.Results[0].Action)
}

func TestSearch_BookmarkRemove(t *testing.T) {
	f := newFixture(t, nil)

	l := f.search(t, "bm remove go")
	require.Len(t, l.Results, 1)
	assert.Equal(t, protocol.Bookmark{Change: protocol.RemoveBookmark{ID: 0}}, l.Results[0].Action)
}

func TestSearch_BookmarksDisabled(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.EnableBookmarks = false })

	l := f.search(t, "bm go")
	require.Len(t, l.Results, 1)
	assert.Equal(t, "Search Ecosia for bm go", l.Results[0].Text)
}

func TestSearch_SessionManager(t *testing.T) {
	f := newFixture(t, nil)

	l := f.search(t, "sm ")
	assert.Equal(t, []string{"Shutdown", "Restart", "Suspend", "Logout"}, texts(l.Results))

	l = f.search(t, "sm re")
	require.Len(t, l.Results, 1)
	assert.Equal(t, protocol.Session{Op: protocol.SessionRestart}, l.Results[0].Action)
}

func TestSearch_Emoji(t *testing.T) {
	f := newFixture(t, nil)

	l := f.search(t, "em rocket :tada: nope")
	require.Len(t, l.Results, 2)
	assert.Equal(t, protocol.CopyText{Text: "🚀"}, l.Results[0].Action)
	assert.Equal(t, "rocket", l.Results[0].Info)
	assert.Equal(t, "tada", l.Results[1].Info)

	l = f.search(t, "em nope")
	require.Len(t, l.Results, 1)
	assert.False(t, l.Results[0].Actionable())
}

func TestSelect_DispatchesAction(t *testing.T) {
	f := newFixture(t, nil)

	l := f.search(t, "gs go")
	sel, err := l.Pick(0)
	require.NoError(t, err)

	out, err := f.app.Select(context.Background(), sel)
	require.NoError(t, err)
	assert.Equal(t, protocol.ActionKindOpenURL, out.Kind)
	assert.Equal(t, []protocol.Action{l.Results[0].Action}, f.dispatcher.actions)

	require.Len(t, f.history.entries, 1)
	assert.Equal(t, "gs go", f.history.entries[0].Query)
	assert.Equal(t, "gs", f.history.entries[0].Keyword)
}

func TestSelect_RunsPluginResult(t *testing.T) {
	f := newFixture(t, nil)
	f.runner.results = []protocol.TUIResult{protocol.NewResult("Volume up", "volume-up")}

	l := f.search(t, "app volume up")
	sel, err := l.Pick(0)
	require.NoError(t, err)

	f.runner.results = []protocol.TUIResult{protocol.NewResult("Done", "")}
	out, err := f.app.Select(context.Background(), sel)
	require.NoError(t, err)

	require.Len(t, f.runner.calls, 2)
	assert.Equal(t, protocol.RunRequest{CustomAction: "volume-up", Info: []string{"volume", "up"}}, f.runner.calls[1].req)
	assert.Equal(t, []string{"Done"}, texts(out.Results))
	assert.Empty(t, f.dispatcher.actions)
	assert.Len(t, f.history.entries, 1)
}

func TestSelect_NotSelectable(t *testing.T) {
	f := newFixture(t, nil)

	l := f.search(t, "em nope")
	sel, err := l.Pick(0)
	require.NoError(t, err)

	_, err = f.app.Select(context.Background(), sel)
	assert.ErrorIs(t, err, ErrNotSelectable)
	assert.Empty(t, f.history.entries)
}

func TestSelect_DispatchFailureNotRecorded(t *testing.T) {
	f := newFixture(t, nil)
	f.dispatcher.err = errors.New("no handler")

	l := f.search(t, "gs go")
	sel, err := l.Pick(0)
	require.NoError(t, err)

	_, err = f.app.Select(context.Background(), sel)
	assert.Error(t, err)
	assert.Empty(t, f.history.entries)
}

func TestListing_PickOutOfRange(t *testing.T) {
	l := &Listing{}
	_, err := l.Pick(0)
	assert.Error(t, err)
}

func TestNew_RejectsBadRegistrations(t *testing.T) {
	_, err := New(Config{
		Settings: config.NewMemoryProvider(&config.Config{
			Plugins: []config.PluginConfig{{ID: "a", Keyword: ""}},
		}),
		Plugins: plugin.NewRegistry(t.TempDir(), zerolog.Nop()),
		Logger:  zerolog.Nop(),
	})
	assert.Error(t, err)
}
