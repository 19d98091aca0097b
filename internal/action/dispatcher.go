// Package action executes the actions carried by selected results.
package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ayusman/tuicher/internal/config"
	"github.com/ayusman/tuicher/pkg/protocol"
)

// ErrInvalidAction is returned for actions whose fields cannot be executed.
var ErrInvalidAction = errors.New("invalid action")

// Opener launches applications and opens files or URLs.
type Opener interface {
	OpenApp(ctx context.Context, path string) error
	Open(ctx context.Context, target string) error
}

// Clipboard places content on the system clipboard.
type Clipboard interface {
	CopyText(text string) error
	CopyImage(ctx context.Context, path string) error
}

// SessionController performs power and session operations.
type SessionController interface {
	Session(ctx context.Context, op protocol.SessionOp) error
}

// Outcome describes what a dispatched action did.
type Outcome struct {
	Kind     protocol.ActionKind
	Message  string
	Results  []protocol.TUIResult   // set for ShowResults
	Bookmark *config.BookmarkConfig // set for bookmark changes
}

// Config holds the dispatcher's collaborators.
type Config struct {
	Opener    Opener
	Clipboard Clipboard
	Session   SessionController
	Settings  config.Provider
	Logger    zerolog.Logger
}

// Dispatcher routes an action to the collaborator that performs it.
type Dispatcher struct {
	opener    Opener
	clipboard Clipboard
	session   SessionController
	settings  config.Provider
	log       zerolog.Logger
}

// NewDispatcher creates a Dispatcher. Nil collaborators make the matching actions fail.
func NewDispatcher(cfg Config) *Dispatcher {
	return &Dispatcher{
		opener:    cfg.Opener,
		clipboard: cfg.Clipboard,
		session:   cfg.Session,
		settings:  cfg.Settings,
		log:       cfg.Logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch executes a.
func (d *Dispatcher) Dispatch(ctx context.Context, a protocol.Action) (Outcome, error) {
	if a == nil {
		return Outcome{}, fmt.Errorf("%w: nil action", ErrInvalidAction)
	}

	out := Outcome{Kind: a.Kind()}
	d.log.Debug().Str("action", a.Kind().String()).Msg("dispatching")

	var err error
	switch act := a.(type) {
	case protocol.OpenApp:
		err = d.open(ctx, act.Path, true)
		out.Message = "Launched " + act.Path
	case protocol.OpenFile:
		err = d.open(ctx, act.Path, false)
		out.Message = "Opened " + act.Path
	case protocol.OpenURL:
		err = d.open(ctx, act.URL, false)
		out.Message = "Opened " + act.URL
	case protocol.CopyText:
		err = d.copyText(act.Text)
		out.Message = "Copied to clipboard"
	case protocol.CopyImage:
		err = d.copyImage(ctx, act.Path)
		out.Message = "Copied image to clipboard"
	case protocol.ShowResults:
		out.Results = act.Results
		out.Message = fmt.Sprintf("%d results", len(act.Results))
	case protocol.OpenSettings:
		if d.settings == nil {
			return out, errors.New("no settings provider configured")
		}
		err = d.open(ctx, d.settings.Path(), false)
		out.Message = "Opened " + d.settings.Path()
	case protocol.Session:
		err = d.sessionOp(ctx, act.Op)
		out.Message = "Session " + act.Op.String()
	case protocol.Bookmark:
		out.Bookmark, out.Message, err = d.changeBookmark(act.Change)
	default:
		err = fmt.Errorf("%w: unsupported action %T", ErrInvalidAction, a)
	}

	if err != nil {
		return out, fmt.Errorf("failed to %s: %w", a.Kind(), err)
	}
	return out, nil
}

func (d *Dispatcher) open(ctx context.Context, target string, app bool) error {
	if target == "" {
		return fmt.Errorf("%w: empty target", ErrInvalidAction)
	}
	if d.opener == nil {
		return errors.New("no opener configured")
	}
	if app {
		return d.opener.OpenApp(ctx, target)
	}
	return d.opener.Open(ctx, target)
}

func (d *Dispatcher) copyText(text string) error {
	if d.clipboard == nil {
		return errors.New("no clipboard configured")
	}
	return d.clipboard.CopyText(text)
}

func (d *Dispatcher) copyImage(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty image path", ErrInvalidAction)
	}
	if d.clipboard == nil {
		return errors.New("no clipboard configured")
	}
	return d.clipboard.CopyImage(ctx, path)
}

func (d *Dispatcher) sessionOp(ctx context.Context, op protocol.SessionOp) error {
	if !op.Valid() {
		return fmt.Errorf("%w: session operation %d", ErrInvalidAction, op)
	}
	if d.session == nil {
		return errors.New("no session controller configured")
	}
	return d.session.Session(ctx, op)
}

func (d *Dispatcher) changeBookmark(change protocol.BookmarkChange) (*config.BookmarkConfig, string, error) {
	if d.settings == nil {
		return nil, "", errors.New("no settings provider configured")
	}

	cfg, err := d.settings.Load()
	if err != nil {
		return nil, "", err
	}

	var (
		b   config.BookmarkConfig
		msg string
	)
	switch c := change.(type) {
	case protocol.AddBookmark:
		if c.URL == "" {
			return nil, "", fmt.Errorf("%w: bookmark without url", ErrInvalidAction)
		}
		b = cfg.AddBookmark(c.Name, c.URL)
		msg = fmt.Sprintf("Added bookmark %q", b.Name)
	case protocol.RemoveBookmark:
		b, err = cfg.RemoveBookmark(c.ID)
		if err != nil {
			return nil, "", err
		}
		msg = fmt.Sprintf("Removed bookmark %q", b.Name)
	default:
		return nil, "", fmt.Errorf("%w: unsupported bookmark change %T", ErrInvalidAction, change)
	}

	if err := d.settings.Save(cfg); err != nil {
		return nil, "", err
	}

	d.log.Info().Uint64("id", b.ID).Str("name", b.Name).Msg(msg)
	return &b, msg, nil
}
