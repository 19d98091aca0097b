// Package app routes launcher input to plugins and built-in sources and executes selections.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ayusman/tuicher/internal/action"
	"github.com/ayusman/tuicher/internal/config"
	"github.com/ayusman/tuicher/internal/plugin"
	"github.com/ayusman/tuicher/internal/store"
	"github.com/ayusman/tuicher/pkg/protocol"
	"github.com/ayusman/tuicher/pkg/query"
)

// NoResultsText is shown in place of a plugin's results when the exchange fails.
const NoResultsText = "plugin produced no usable results"

// ErrNotSelectable is returned when a result has no action and no plugin to run it.
var ErrNotSelectable = errors.New("result is not selectable")

// Runner performs one plugin exchange.
type Runner interface {
	Execute(ctx context.Context, p *plugin.Plugin, req protocol.PluginAction) ([]protocol.TUIResult, error)
}

// Dispatcher executes result actions.
type Dispatcher interface {
	Dispatch(ctx context.Context, a protocol.Action) (action.Outcome, error)
}

// Recorder stores selections.
type Recorder interface {
	Record(e *store.Entry) error
}

// Config holds the application's collaborators.
type Config struct {
	Settings   config.Provider
	Plugins    *plugin.Registry
	Runner     Runner
	Dispatcher Dispatcher
	History    Recorder // optional
	Logger     zerolog.Logger
}

// App answers queries and executes selections.
type App struct {
	settings   config.Provider
	plugins    *plugin.Registry
	runner     Runner
	dispatcher Dispatcher
	history    Recorder
	log        zerolog.Logger
}

// Listing is the answer to one query.
type Listing struct {
	Query   query.Query
	Plugin  string // ID of the plugin that produced Results, if any
	Results []protocol.TUIResult
}

// Selection is one result picked from a Listing.
type Selection struct {
	Query  query.Query
	Plugin string
	Result protocol.TUIResult
}

// Pick returns the result at index i.
func (l *Listing) Pick(i int) (Selection, error) {
	if i < 0 || i >= len(l.Results) {
		return Selection{}, fmt.Errorf("no result at index %d (have %d)", i, len(l.Results))
	}
	return Selection{Query: l.Query, Plugin: l.Plugin, Result: l.Results[i]}, nil
}

// New creates an App and registers the configured plugins.
func New(cfg Config) (*App, error) {
	a := &App{
		settings:   cfg.Settings,
		plugins:    cfg.Plugins,
		runner:     cfg.Runner,
		dispatcher: cfg.Dispatcher,
		history:    cfg.History,
		log:        cfg.Logger.With().Str("component", "app").Logger(),
	}

	if err := a.Reload(); err != nil {
		return nil, err
	}
	return a, nil
}

// Reload re-reads the settings and re-registers plugins.
func (a *App) Reload() error {
	settings, err := a.settings.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if err := a.plugins.Load(settings.Plugins); err != nil {
		return fmt.Errorf("failed to register plugins: %w", err)
	}
	return nil
}

// Search answers the launcher input text.
func (a *App) Search(ctx context.Context, text string) (*Listing, error) {
	settings, err := a.settings.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	q := query.Parse(text)
	l := &Listing{Query: q}

	if q.HasKeyword() {
		keyword := q.KeywordOr("")

		if p, err := a.plugins.Lookup(keyword); err == nil {
			results, err := a.runner.Execute(ctx, p, protocol.ResultsRequest{Text: q.GetQuery()})
			if err != nil {
				a.log.Warn().Err(err).Str("plugin", p.ID).Msg("plugin search failed")
				l.Results = []protocol.TUIResult{
					protocol.NewResult(NoResultsText, "").WithSecondaryText(err.Error()),
				}
				return l, nil
			}
			l.Plugin = p.ID
			l.Results = results
			return l, nil
		}

		if results, ok := builtin(settings, keyword, q); ok {
			l.Results = results
			return l, nil
		}

		if engine, ok := settings.EngineByKeyword(keyword); ok {
			l.Results = []protocol.TUIResult{searchResult(engine, q.GetQuery())}
			return l, nil
		}
	}

	l.Results = fallback(settings, q.FullText)
	return l, nil
}

// Select executes a picked result. Results with an action are dispatched;
// plugin results without one are handed back to their plugin.
func (a *App) Select(ctx context.Context, sel Selection) (action.Outcome, error) {
	var (
		out action.Outcome
		err error
	)

	switch {
	case sel.Result.Action != nil:
		out, err = a.dispatcher.Dispatch(ctx, sel.Result.Action)
	case sel.Plugin != "":
		out, err = a.run(ctx, sel)
	default:
		return action.Outcome{}, fmt.Errorf("%w: %q", ErrNotSelectable, sel.Result.Text)
	}
	if err != nil {
		return out, err
	}

	a.record(sel)
	return out, nil
}

func (a *App) run(ctx context.Context, sel Selection) (action.Outcome, error) {
	p, err := a.plugins.Get(sel.Plugin)
	if err != nil {
		return action.Outcome{}, fmt.Errorf("plugin %q: %w", sel.Plugin, err)
	}

	req := protocol.RunRequest{CustomAction: sel.Result.Info, Info: sel.Query.Tokens()}
	results, err := a.runner.Execute(ctx, p, req)
	if err != nil {
		return action.Outcome{}, err
	}

	return action.Outcome{
		Kind:    protocol.ActionKindShowResults,
		Message: fmt.Sprintf("%s ran %q", p.ID, sel.Result.Info),
		Results: results,
	}, nil
}

func (a *App) record(sel Selection) {
	if a.history == nil {
		return
	}

	e := &store.Entry{
		Query:   sel.Query.FullText,
		Keyword: sel.Query.KeywordOr(""),
		Text:    sel.Result.Text,
		Action:  sel.Result.Action,
	}
	if err := a.history.Record(e); err != nil {
		a.log.Warn().Err(err).Msg("failed to record history")
	}
}

func searchResult(engine config.SearchEngine, q string) protocol.TUIResult {
	return protocol.NewResult(fmt.Sprintf("Search %s for %s", engine.Name, q), engine.Keyword).
		WithSecondaryText(engine.Name).
		WithAction(protocol.OpenURL{URL: engine.SearchURL(q)})
}

func fallback(settings *config.Config, text string) []protocol.TUIResult {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	var results []protocol.TUIResult
	if engine, ok := settings.DefaultEngine(); ok {
		results = append(results, searchResult(engine, trimmed))
	}
	if strings.HasPrefix("settings", strings.ToLower(trimmed)) {
		results = append(results, protocol.NewResult("Settings", "settings").
			WithSecondaryText("Open the configuration file").
			WithAction(protocol.OpenSettings{}))
	}
	return results
}
